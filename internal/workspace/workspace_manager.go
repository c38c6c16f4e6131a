// Package workspace is the workspace manager §4.J describes: it registers
// workspace folders, discovers the projects within them, and persists a
// manifest (paths, hashes, status, timestamps) describing both. Every
// mutation goes through LocalStateService, which serializes reads and
// writes to manifest.json behind a file lock.
package workspace

import (
	"fmt"
	"sync"
	"time"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
)

// WorkspaceFolderInfo is returned by RegisterWorkspaceFolder: the
// registered folder and how many projects were discovered in it.
type WorkspaceFolderInfo struct {
	WorkspaceFolderPath string
	ProjectCount        int
}

// Manager registers workspace folders and tracks the projects discovered
// within them, persisting everything through a LocalStateService.
type Manager struct {
	dataDir *DataDirectory
	state   *LocalStateService

	mu sync.Mutex
}

// New builds a Manager from an explicit DataDirectory and
// LocalStateService, for callers that want dependency injection (tests,
// custom data roots).
func New(dataDir *DataDirectory, state *LocalStateService) *Manager {
	return &Manager{dataDir: dataDir, state: state}
}

// NewSystemDefault builds a Manager rooted at the OS's default config
// directory.
func NewSystemDefault() (*Manager, error) {
	dataDir, err := SystemDefaultDataDirectory()
	if err != nil {
		return nil, err
	}
	state, err := NewLocalStateService(dataDir.ManifestPath())
	if err != nil {
		return nil, err
	}
	return New(dataDir, state), nil
}

// RegisterWorkspaceFolder discovers the projects under workspaceFolderPath
// and persists a record for the folder and each project. Re-registering
// an already-known folder refreshes its project list without disturbing
// the status or last-indexed timestamp of projects that are still
// present.
func (m *Manager) RegisterWorkspaceFolder(workspaceFolderPath string) (WorkspaceFolderInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	manifest, err := m.state.Load()
	if err != nil {
		return WorkspaceFolderInfo{}, err
	}

	projectPaths, err := discoverProjects(workspaceFolderPath)
	if err != nil {
		return WorkspaceFolderInfo{}, cgerrors.New(cgerrors.KindIO, "discover projects", err).WithFile(workspaceFolderPath)
	}

	existing := indexWorkspaceFolders(manifest)
	prior, hadPrior := existing[workspaceFolderPath]
	priorProjects := map[string]ProjectMetadata{}
	if hadPrior {
		for _, p := range prior.Projects {
			priorProjects[p.ProjectPath] = p
		}
	}

	folder := WorkspaceFolderMetadata{
		Path:              workspaceFolderPath,
		DataDirectoryName: GeneratePathHash(workspaceFolderPath),
		Status:            StatusPending,
	}
	for _, projectPath := range projectPaths {
		hash := GeneratePathHash(projectPath)
		if err := m.dataDir.EnsureProjectDirs(hash); err != nil {
			return WorkspaceFolderInfo{}, err
		}
		if prior, ok := priorProjects[projectPath]; ok {
			folder.Projects = append(folder.Projects, prior)
			continue
		}
		folder.Projects = append(folder.Projects, ProjectMetadata{
			ProjectPath:         projectPath,
			WorkspaceFolderPath: workspaceFolderPath,
			ProjectHash:         hash,
			Status:              StatusPending,
			DatabasePath:        m.dataDir.DatabasePath(hash),
			BatchFilesDirectory: m.dataDir.BatchFilesDirectory(hash),
		})
	}

	existing[workspaceFolderPath] = folder
	manifest.WorkspaceFolders = flattenWorkspaceFolders(existing, manifest.WorkspaceFolders, workspaceFolderPath)

	if err := m.state.Save(manifest); err != nil {
		return WorkspaceFolderInfo{}, err
	}

	return WorkspaceFolderInfo{WorkspaceFolderPath: workspaceFolderPath, ProjectCount: len(folder.Projects)}, nil
}

// ListWorkspaceFolders returns every registered workspace folder.
func (m *Manager) ListWorkspaceFolders() ([]WorkspaceFolderMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	manifest, err := m.state.Load()
	if err != nil {
		return nil, err
	}
	return manifest.WorkspaceFolders, nil
}

// ListProjectsInWorkspace returns the projects registered under
// workspaceFolderPath.
func (m *Manager) ListProjectsInWorkspace(workspaceFolderPath string) ([]ProjectMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	manifest, err := m.state.Load()
	if err != nil {
		return nil, err
	}
	for _, folder := range manifest.WorkspaceFolders {
		if folder.Path == workspaceFolderPath {
			return folder.Projects, nil
		}
	}
	return nil, nil
}

// ListAllProjects returns every project across every registered
// workspace folder.
func (m *Manager) ListAllProjects() ([]ProjectMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	manifest, err := m.state.Load()
	if err != nil {
		return nil, err
	}
	var all []ProjectMetadata
	for _, folder := range manifest.WorkspaceFolders {
		all = append(all, folder.Projects...)
	}
	return all, nil
}

// GetProjectForPath looks up the project registered at projectPath,
// regardless of which workspace folder it belongs to.
func (m *Manager) GetProjectForPath(projectPath string) (ProjectMetadata, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	manifest, err := m.state.Load()
	if err != nil {
		return ProjectMetadata{}, false, err
	}
	for _, folder := range manifest.WorkspaceFolders {
		for _, p := range folder.Projects {
			if p.ProjectPath == projectPath {
				return p, true, nil
			}
		}
	}
	return ProjectMetadata{}, false, nil
}

// UpdateProjectIndexingStatus transitions a project's status, recording
// an error message for Error and a timestamp for Indexed.
func (m *Manager) UpdateProjectIndexingStatus(workspaceFolderPath, projectPath string, status Status, errMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	manifest, err := m.state.Load()
	if err != nil {
		return err
	}

	found := false
	for fi := range manifest.WorkspaceFolders {
		folder := &manifest.WorkspaceFolders[fi]
		if folder.Path != workspaceFolderPath {
			continue
		}
		for pi := range folder.Projects {
			p := &folder.Projects[pi]
			if p.ProjectPath != projectPath {
				continue
			}
			p.Status = status
			p.ErrorMessage = errMessage
			if status == StatusIndexed {
				now := time.Now()
				p.LastIndexedAt = &now
			}
			found = true
		}
	}
	if !found {
		return fmt.Errorf("project %s not registered under workspace folder %s", projectPath, workspaceFolderPath)
	}

	return m.state.Save(manifest)
}

// Clean wipes the data root (all project directories) and resets the
// manifest to empty.
func (m *Manager) Clean() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dataDir.Clean(); err != nil {
		return err
	}
	return m.state.Save(newManifest())
}

// GetDataDirectoryInfo reports on-disk usage for a registered workspace
// folder's projects.
func (m *Manager) GetDataDirectoryInfo(workspaceFolderPath string) (WorkspaceFolderDataDirectoryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	manifest, err := m.state.Load()
	if err != nil {
		return WorkspaceFolderDataDirectoryInfo{}, err
	}
	for _, folder := range manifest.WorkspaceFolders {
		if folder.Path != workspaceFolderPath {
			continue
		}
		hashes := make([]string, len(folder.Projects))
		for i, p := range folder.Projects {
			hashes[i] = p.ProjectHash
		}
		return m.dataDir.GetDataDirectoryInfo(workspaceFolderPath, hashes)
	}
	return WorkspaceFolderDataDirectoryInfo{WorkspaceFolderPath: workspaceFolderPath}, nil
}

func indexWorkspaceFolders(m Manifest) map[string]WorkspaceFolderMetadata {
	out := make(map[string]WorkspaceFolderMetadata, len(m.WorkspaceFolders))
	for _, folder := range m.WorkspaceFolders {
		out[folder.Path] = folder
	}
	return out
}

// flattenWorkspaceFolders rebuilds the manifest's folder slice from the
// index map, preserving the original order and appending newPath at the
// end if it wasn't already present.
func flattenWorkspaceFolders(byPath map[string]WorkspaceFolderMetadata, original []WorkspaceFolderMetadata, newPath string) []WorkspaceFolderMetadata {
	seen := make(map[string]bool, len(original))
	out := make([]WorkspaceFolderMetadata, 0, len(byPath))
	for _, folder := range original {
		out = append(out, byPath[folder.Path])
		seen[folder.Path] = true
	}
	if !seen[newPath] {
		out = append(out, byPath[newPath])
	}
	return out
}
