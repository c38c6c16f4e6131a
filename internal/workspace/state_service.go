package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
)

// LocalStateService persists the manifest to a JSON file, guarding every
// read and write with a file lock so concurrent workspace managers (or a
// CLI invocation racing a long-lived daemon) never interleave writes.
type LocalStateService struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewLocalStateService creates a state service backed by the file at
// manifestPath. The file need not exist yet; Load tolerates that.
func NewLocalStateService(manifestPath string) (*LocalStateService, error) {
	if err := os.MkdirAll(filepath.Dir(manifestPath), 0o755); err != nil {
		return nil, cgerrors.New(cgerrors.KindIO, "create manifest directory", err).WithFile(manifestPath)
	}
	return &LocalStateService{
		path: manifestPath,
		lock: flock.New(manifestPath + ".lock"),
	}, nil
}

// Load reads the manifest from disk. A missing file is treated as a
// fresh, empty manifest rather than an error (first run). A manifest
// whose schema_version doesn't match this build's is ManifestCorruption:
// the caller must not proceed with a stale format.
func (s *LocalStateService) Load() (Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return Manifest{}, cgerrors.New(cgerrors.KindIO, "lock manifest", err).WithFile(s.path)
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newManifest(), nil
		}
		return Manifest{}, cgerrors.New(cgerrors.KindIO, "read manifest", err).WithFile(s.path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, cgerrors.New(cgerrors.KindManifestCorruption, "parse manifest", err).WithFile(s.path)
	}
	if m.SchemaVersion != SchemaVersion {
		return Manifest{}, cgerrors.New(cgerrors.KindManifestCorruption, "check manifest schema version",
			schemaVersionMismatch(m.SchemaVersion)).WithFile(s.path)
	}
	return m, nil
}

// Save writes m to disk under the file lock, via write-tmp-then-rename
// so a crash mid-write never leaves a half-written manifest behind.
func (s *LocalStateService) Save(m Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return cgerrors.New(cgerrors.KindIO, "lock manifest", err).WithFile(s.path)
	}
	defer s.lock.Unlock()

	m.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return cgerrors.New(cgerrors.KindIO, "encode manifest", err).WithFile(s.path)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cgerrors.New(cgerrors.KindIO, "write manifest tmp file", err).WithFile(tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return cgerrors.New(cgerrors.KindIO, "rename manifest tmp file", err).WithFile(s.path)
	}
	return nil
}

func schemaVersionMismatch(got int) error {
	return fmt.Errorf("manifest schema_version %d does not match expected %d", got, SchemaVersion)
}
