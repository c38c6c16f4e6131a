package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codegraph/internal/workspace"
)

type countingReporter struct {
	started   []string
	completed []string
	failed    []string
}

func (r *countingReporter) ProjectStarted(project string)   { r.started = append(r.started, project) }
func (r *countingReporter) ProjectCompleted(project string) { r.completed = append(r.completed, project) }
func (r *countingReporter) ProjectFailed(project string, err error) {
	r.failed = append(r.failed, project)
}

func newTestWorkspace(t *testing.T) (*workspace.Manager, string) {
	t.Helper()
	dataRoot := t.TempDir()
	d, err := workspace.NewDataDirectory(dataRoot)
	require.NoError(t, err)
	s, err := workspace.NewLocalStateService(d.ManifestPath())
	require.NoError(t, err)
	manager := workspace.New(d, s)

	wsRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wsRoot, "main.py"), []byte("def greet():\n    pass\n"), 0o644))
	return manager, wsRoot
}

func TestIndexWorkspaceFolderIndexesDiscoveredProject(t *testing.T) {
	if testing.Short() {
		t.Skip("requires cgo tree-sitter and kuzu bindings")
	}
	manager, wsRoot := newTestWorkspace(t)
	p := New(manager)
	report := &countingReporter{}

	indexed, err := p.IndexWorkspaceFolder(context.Background(), wsRoot, report)
	require.NoError(t, err)
	assert.Equal(t, []string{wsRoot}, indexed)
	assert.Equal(t, []string{wsRoot}, report.completed)
	assert.Empty(t, report.failed)

	projects, err := manager.ListProjectsInWorkspace(wsRoot)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, workspace.StatusIndexed, projects[0].Status)
}

func TestIndexWorkspaceFolderSecondRunTakesReindexPath(t *testing.T) {
	if testing.Short() {
		t.Skip("requires cgo tree-sitter and kuzu bindings")
	}
	manager, wsRoot := newTestWorkspace(t)
	p := New(manager)

	_, err := p.IndexWorkspaceFolder(context.Background(), wsRoot, &countingReporter{})
	require.NoError(t, err)

	report := &countingReporter{}
	indexed, err := p.IndexWorkspaceFolder(context.Background(), wsRoot, report)
	require.NoError(t, err)
	assert.Equal(t, []string{wsRoot}, indexed)
	assert.Empty(t, report.failed)
}

func TestIndexWorkspaceFolderAbortsOnCancelledContext(t *testing.T) {
	manager, wsRoot := newTestWorkspace(t)
	p := New(manager)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	indexed, err := p.IndexWorkspaceFolder(ctx, wsRoot, &countingReporter{})
	assert.Error(t, err)
	assert.Empty(t, indexed)
}
