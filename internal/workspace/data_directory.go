package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
)

// DataDirectory owns the on-disk layout rooted at one directory: the
// manifest file and, per project, a batch-files subdirectory and a Kuzu
// database path, both named by the project's path hash.
type DataDirectory struct {
	Root string
}

// NewDataDirectory creates (if needed) and returns a DataDirectory rooted
// at root.
func NewDataDirectory(root string) (*DataDirectory, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, cgerrors.New(cgerrors.KindIO, "create data directory", err).WithFile(root)
	}
	return &DataDirectory{Root: root}, nil
}

// SystemDefaultDataDirectory returns the data directory under the current
// user's config directory, creating it if necessary.
func SystemDefaultDataDirectory() (*DataDirectory, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, cgerrors.New(cgerrors.KindIO, "locate system data directory", err)
	}
	return NewDataDirectory(filepath.Join(base, "codegraph"))
}

// ManifestPath is the path to the manifest.json file under the data root.
func (d *DataDirectory) ManifestPath() string {
	return filepath.Join(d.Root, "manifest.json")
}

// ProjectDir is the per-project directory, named by projectHash, that
// holds the project's batch-files subdirectory and database path.
func (d *DataDirectory) ProjectDir(projectHash string) string {
	return filepath.Join(d.Root, "projects", projectHash)
}

// BatchFilesDirectory is where the columnar writer puts one project's
// batch files before they're imported into the store.
func (d *DataDirectory) BatchFilesDirectory(projectHash string) string {
	return filepath.Join(d.ProjectDir(projectHash), "batches")
}

// DatabasePath is the Kuzu database path for one project.
func (d *DataDirectory) DatabasePath(projectHash string) string {
	return filepath.Join(d.ProjectDir(projectHash), "db")
}

// EnsureProjectDirs creates the batch-files and database parent
// directories for projectHash.
func (d *DataDirectory) EnsureProjectDirs(projectHash string) error {
	if err := os.MkdirAll(d.BatchFilesDirectory(projectHash), 0o755); err != nil {
		return cgerrors.New(cgerrors.KindIO, "create batch files directory", err).WithFile(d.BatchFilesDirectory(projectHash))
	}
	if err := os.MkdirAll(d.ProjectDir(projectHash), 0o755); err != nil {
		return cgerrors.New(cgerrors.KindIO, "create project directory", err).WithFile(d.ProjectDir(projectHash))
	}
	return nil
}

// Clean removes everything under the data root except the manifest file
// itself; callers that also want the manifest reset should truncate it
// separately.
func (d *DataDirectory) Clean() error {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return cgerrors.New(cgerrors.KindIO, "read data directory", err).WithFile(d.Root)
	}
	for _, entry := range entries {
		if entry.Name() == "manifest.json" {
			continue
		}
		path := filepath.Join(d.Root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return cgerrors.New(cgerrors.KindIO, "remove data directory entry", err).WithFile(path)
		}
	}
	return nil
}

// WorkspaceFolderDataDirectoryInfo reports on-disk space used by one
// workspace folder's projects, for the status CLI command.
type WorkspaceFolderDataDirectoryInfo struct {
	WorkspaceFolderPath string
	ProjectCount        int
	TotalBytes          int64
}

// GetDataDirectoryInfo walks every project directory belonging to
// projectHashes and sums their on-disk size.
func (d *DataDirectory) GetDataDirectoryInfo(workspaceFolderPath string, projectHashes []string) (WorkspaceFolderDataDirectoryInfo, error) {
	info := WorkspaceFolderDataDirectoryInfo{
		WorkspaceFolderPath: workspaceFolderPath,
		ProjectCount:        len(projectHashes),
	}
	for _, hash := range projectHashes {
		size, err := dirSize(d.ProjectDir(hash))
		if err != nil {
			return WorkspaceFolderDataDirectoryInfo{}, err
		}
		info.TotalBytes += size
	}
	return info, nil
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !fi.IsDir() {
			total += fi.Size()
		}
		return nil
	})
	if err != nil {
		return 0, cgerrors.New(cgerrors.KindIO, "walk project directory", err).WithFile(root)
	}
	return total, nil
}

// FormatBytes renders a byte count as a human-readable size string.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), units[exp])
}
