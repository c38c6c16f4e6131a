package workspace

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SchemaVersion is the manifest format version this build writes and
// expects to read. A manifest with a different version is corrupt from
// this build's point of view and refuses to load (§7 ManifestCorruption).
const SchemaVersion = 1

// Status is a project's indexing lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusIndexing Status = "indexing"
	StatusIndexed  Status = "indexed"
	StatusError    Status = "error"
)

// ProjectMetadata is the persisted record for one discovered project.
type ProjectMetadata struct {
	ProjectPath         string     `json:"project_path"`
	WorkspaceFolderPath string     `json:"workspace_folder_path"`
	ProjectHash         string     `json:"project_hash"`
	Status              Status     `json:"status"`
	LastIndexedAt       *time.Time `json:"last_indexed_at,omitempty"`
	ErrorMessage        string     `json:"error_message,omitempty"`
	DatabasePath        string     `json:"database_path"`
	BatchFilesDirectory string     `json:"batch_files_directory"`
}

// WorkspaceFolderMetadata is the persisted record for one registered
// workspace folder and the projects discovered within it.
type WorkspaceFolderMetadata struct {
	Path              string            `json:"path"`
	DataDirectoryName string            `json:"data_directory_name"`
	Status            Status            `json:"status"`
	LastIndexedAt     *time.Time        `json:"last_indexed_at,omitempty"`
	Projects          []ProjectMetadata `json:"projects"`
}

// Manifest is the full contents of manifest.json.
type Manifest struct {
	SchemaVersion    int                       `json:"schema_version"`
	WorkspaceFolders []WorkspaceFolderMetadata `json:"workspace_folders"`
}

// newManifest returns an empty manifest at the current schema version,
// used both for a fresh data directory and for a missing manifest file.
func newManifest() Manifest {
	return Manifest{SchemaVersion: SchemaVersion}
}

// GeneratePathHash derives a project's stable on-disk directory name from
// its absolute path, so re-registering the same path after a clean reuses
// the same data directory name instead of allocating a new one.
func GeneratePathHash(absPath string) string {
	sum := xxhash.Sum64String(absPath)
	return fmt.Sprintf("%016x", sum)
}
