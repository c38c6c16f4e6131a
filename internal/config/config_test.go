package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default("/tmp/project")
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Index.MaxFileSize)
	assert.True(t, cfg.Index.RespectGitignore)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default("/tmp/project")
	cfg.Index.MaxFileSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default("/tmp/project")
	cfg.Project.Root = ""
	assert.Error(t, cfg.Validate())

	cfg = Default("/tmp/project")
	cfg.Performance.ParallelFileWorkers = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Project.Root)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Index.MaxFileSize)
}

func TestLoadAppliesKDLOverrides(t *testing.T) {
	dir := t.TempDir()
	contents := `
project {
    name "demo"
}
index {
    max_file_size 1048576
    max_file_count 5000
    follow_symlinks true
    respect_gitignore false
    watch_mode true
    watch_debounce_ms 500
}
performance {
    parallel_file_workers 4
    indexing_timeout_sec 120
}
languages "ruby" "python" "rust"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, int64(1048576), cfg.Index.MaxFileSize)
	assert.Equal(t, 5000, cfg.Index.MaxFileCount)
	assert.True(t, cfg.Index.FollowSymlinks)
	assert.False(t, cfg.Index.RespectGitignore)
	assert.True(t, cfg.Index.WatchMode)
	assert.Equal(t, 500, cfg.Index.WatchDebounceMs)
	assert.Equal(t, 4, cfg.Performance.ParallelFileWorkers)
	assert.Equal(t, 120, cfg.Performance.IndexingTimeoutSec)
	assert.Equal(t, []string{"ruby", "python", "rust"}, cfg.Languages)
	assert.NoError(t, cfg.Validate())
}

func TestLoadIgnoresUnknownNodes(t *testing.T) {
	dir := t.TempDir()
	contents := `
mystery_plugin {
    some_setting "x"
}
index {
    max_file_count 10
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Index.MaxFileCount)
}
