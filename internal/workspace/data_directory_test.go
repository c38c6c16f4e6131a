package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataDirectoryCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	d, err := NewDataDirectory(root)
	require.NoError(t, err)
	info, err := os.Stat(d.Root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureProjectDirsCreatesBatchAndProjectDirs(t *testing.T) {
	d, err := NewDataDirectory(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, d.EnsureProjectDirs("abc123"))

	_, err = os.Stat(d.BatchFilesDirectory("abc123"))
	assert.NoError(t, err)
	_, err = os.Stat(d.ProjectDir("abc123"))
	assert.NoError(t, err)
}

func TestCleanRemovesEverythingExceptManifest(t *testing.T) {
	d, err := NewDataDirectory(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, d.EnsureProjectDirs("abc123"))
	require.NoError(t, os.WriteFile(d.ManifestPath(), []byte(`{}`), 0o644))

	require.NoError(t, d.Clean())

	_, err = os.Stat(d.ProjectDir("abc123"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(d.ManifestPath())
	assert.NoError(t, err)
}

func TestGetDataDirectoryInfoSumsProjectSizes(t *testing.T) {
	d, err := NewDataDirectory(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, d.EnsureProjectDirs("abc123"))
	require.NoError(t, os.WriteFile(filepath.Join(d.BatchFilesDirectory("abc123"), "files.parquet"), make([]byte, 100), 0o644))

	info, err := d.GetDataDirectoryInfo("/ws", []string{"abc123"})
	require.NoError(t, err)
	assert.Equal(t, 1, info.ProjectCount)
	assert.Equal(t, int64(100), info.TotalBytes)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "1.5 MB", FormatBytes(1024*1024 + 512*1024))
}
