package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/workspace"
)

// scanCache persists the path→contentHash map from a project's last
// successful scan, next to its batch files directory. Its presence is
// what tells indexProject whether a project has been built before (take
// the reindex path) or not (take the full-build path); its contents are
// what fsdiscovery.Diff needs to compute the change set.
type scanCache struct {
	path string
}

func newScanCache(proj workspace.ProjectMetadata) *scanCache {
	return &scanCache{path: filepath.Join(filepath.Dir(proj.BatchFilesDirectory), "scan_cache.json")}
}

// Load returns nil (not an error) when no cache exists yet.
func (c *scanCache) Load() (map[string]uint64, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, cgerrors.New(cgerrors.KindIO, "read scan cache", err).WithFile(c.path)
	}
	var hashes map[string]uint64
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, cgerrors.New(cgerrors.KindIO, "parse scan cache", err).WithFile(c.path)
	}
	return hashes, nil
}

func (c *scanCache) Save(hashes map[string]uint64) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return cgerrors.New(cgerrors.KindIO, "create scan cache directory", err).WithFile(c.path)
	}
	data, err := json.Marshal(hashes)
	if err != nil {
		return cgerrors.New(cgerrors.KindIO, "encode scan cache", err).WithFile(c.path)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cgerrors.New(cgerrors.KindIO, "write scan cache tmp file", err).WithFile(tmp)
	}
	return os.Rename(tmp, c.path)
}
