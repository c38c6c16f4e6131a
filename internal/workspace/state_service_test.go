package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOfMissingManifestReturnsEmpty(t *testing.T) {
	s, err := NewLocalStateService(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)

	m, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, m.SchemaVersion)
	assert.Empty(t, m.WorkspaceFolders)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s, err := NewLocalStateService(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)

	want := Manifest{
		WorkspaceFolders: []WorkspaceFolderMetadata{
			{Path: "/ws", DataDirectoryName: "hash1", Status: StatusPending},
		},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got.WorkspaceFolders, 1)
	assert.Equal(t, "/ws", got.WorkspaceFolders[0].Path)
}

func TestLoadRejectsMismatchedSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 999, "workspace_folders": []}`), 0o644))

	s, err := NewLocalStateService(path)
	require.NoError(t, err)

	_, err = s.Load()
	require.Error(t, err)
}

func TestSaveWritesViaTmpThenRename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	s, err := NewLocalStateService(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(Manifest{}))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "tmp file should be renamed away, not left behind")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
