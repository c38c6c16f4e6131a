package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	d, err := NewDataDirectory(t.TempDir())
	require.NoError(t, err)
	s, err := NewLocalStateService(d.ManifestPath())
	require.NoError(t, err)
	return New(d, s)
}

func newTestWorkspaceFolder(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module ws\n"), 0o644))
	return root
}

func TestRegisterWorkspaceFolderDiscoversProjects(t *testing.T) {
	m := newTestManager(t)
	ws := newTestWorkspaceFolder(t)

	info, err := m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)
	assert.Equal(t, ws, info.WorkspaceFolderPath)
	assert.Equal(t, 1, info.ProjectCount)

	projects, err := m.ListProjectsInWorkspace(ws)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, ws, projects[0].ProjectPath)
	assert.Equal(t, StatusPending, projects[0].Status)
	assert.NotEmpty(t, projects[0].ProjectHash)
	assert.NotEmpty(t, projects[0].DatabasePath)
	assert.NotEmpty(t, projects[0].BatchFilesDirectory)
}

func TestRegisterWorkspaceFolderTwicePreservesStatus(t *testing.T) {
	m := newTestManager(t)
	ws := newTestWorkspaceFolder(t)

	_, err := m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)

	projects, err := m.ListProjectsInWorkspace(ws)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.NoError(t, m.UpdateProjectIndexingStatus(ws, projects[0].ProjectPath, StatusIndexed, ""))

	_, err = m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)

	after, err := m.ListProjectsInWorkspace(ws)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, StatusIndexed, after[0].Status)
	assert.NotNil(t, after[0].LastIndexedAt)
}

func TestListAllProjectsAcrossWorkspaceFolders(t *testing.T) {
	m := newTestManager(t)
	ws1 := newTestWorkspaceFolder(t)
	ws2 := newTestWorkspaceFolder(t)

	_, err := m.RegisterWorkspaceFolder(ws1)
	require.NoError(t, err)
	_, err = m.RegisterWorkspaceFolder(ws2)
	require.NoError(t, err)

	all, err := m.ListAllProjects()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetProjectForPathFindsRegisteredProject(t *testing.T) {
	m := newTestManager(t)
	ws := newTestWorkspaceFolder(t)
	_, err := m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)

	p, ok, err := m.GetProjectForPath(ws)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ws, p.ProjectPath)

	_, ok, err = m.GetProjectForPath("/does/not/exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProjectIndexingStatusRecordsErrorMessage(t *testing.T) {
	m := newTestManager(t)
	ws := newTestWorkspaceFolder(t)
	_, err := m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)

	require.NoError(t, m.UpdateProjectIndexingStatus(ws, ws, StatusError, "parse failed"))

	p, ok, err := m.GetProjectForPath(ws)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusError, p.Status)
	assert.Equal(t, "parse failed", p.ErrorMessage)
}

func TestUpdateProjectIndexingStatusUnknownProjectErrors(t *testing.T) {
	m := newTestManager(t)
	ws := newTestWorkspaceFolder(t)
	_, err := m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)

	err = m.UpdateProjectIndexingStatus(ws, "/nonexistent", StatusIndexed, "")
	assert.Error(t, err)
}

func TestCleanResetsManifestAndRemovesProjectDirs(t *testing.T) {
	m := newTestManager(t)
	ws := newTestWorkspaceFolder(t)
	_, err := m.RegisterWorkspaceFolder(ws)
	require.NoError(t, err)

	require.NoError(t, m.Clean())

	all, err := m.ListAllProjects()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetDataDirectoryInfoForUnknownWorkspaceReturnsZero(t *testing.T) {
	m := newTestManager(t)
	info, err := m.GetDataDirectoryInfo("/unknown")
	require.NoError(t, err)
	assert.Equal(t, 0, info.ProjectCount)
	assert.Equal(t, int64(0), info.TotalBytes)
}
