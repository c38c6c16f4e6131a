package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePathHashIsStableForSamePath(t *testing.T) {
	a := GeneratePathHash("/home/user/project")
	b := GeneratePathHash("/home/user/project")
	assert.Equal(t, a, b)
}

func TestGeneratePathHashDiffersForDifferentPaths(t *testing.T) {
	a := GeneratePathHash("/home/user/project-one")
	b := GeneratePathHash("/home/user/project-two")
	assert.NotEqual(t, a, b)
}
