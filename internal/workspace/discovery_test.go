package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverProjectsFindsMarkedSubdirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "service-a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "service-a", "go.mod"), []byte("module a\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "service-b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "service-b", "Cargo.toml"), []byte(""), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-project"), 0o755))

	projects, err := discoverProjects(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "service-a"),
		filepath.Join(root, "service-b"),
	}, projects)
}

func TestDiscoverProjectsFallsBackToWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))

	projects, err := discoverProjects(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, projects)
}

func TestDiscoverProjectsIgnoresHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "go.mod"), []byte(""), 0o644))

	projects, err := discoverProjects(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, projects)
}
