// Package config loads and validates the project configuration consumed by
// the file scanner, the workspace manager and the dispatcher. It follows
// the teacher's config package: a plain struct with sane defaults,
// optionally overridden by a project-local KDL file.
package config

import (
	"fmt"
	"runtime"
)

// Config is the fully-resolved configuration for indexing one project.
type Config struct {
	Project     Project
	Index       Index
	Performance Performance
	Languages   []string // enabled language tags; empty means all supported
	Include     []string // doublestar globs; when non-empty, only matches are scanned
	Exclude     []string // doublestar globs, applied in addition to .gitignore
}

// Project identifies the root of the repository being indexed.
type Project struct {
	Root string
	Name string
}

// Index controls file discovery (§4.A).
type Index struct {
	MaxFileSize      int64 // bytes; larger files are skipped, not errored
	MaxFileCount     int
	FollowSymlinks   bool
	RespectGitignore bool
	WatchMode        bool
	WatchDebounceMs  int
}

// Performance controls the worker pool and per-job timeouts (§5).
type Performance struct {
	ParallelFileWorkers int // 0 = auto-detect (NumCPU)
	IndexingTimeoutSec  int
}

// DefaultMaxFileSize matches spec §4.A's stated default.
const DefaultMaxFileSize = 5 * 1024 * 1024

// Default returns a Config with the defaults spec.md names explicitly
// (max file size 5MB) and reasonable values for everything else.
func Default(projectRoot string) *Config {
	return &Config{
		Project: Project{Root: projectRoot},
		Index: Index{
			MaxFileSize:      DefaultMaxFileSize,
			MaxFileCount:     200_000,
			FollowSymlinks:   false,
			RespectGitignore: true,
			WatchMode:        false,
			WatchDebounceMs:  300,
		},
		Performance: Performance{
			ParallelFileWorkers: 0,
			IndexingTimeoutSec:  0, // 0 = no timeout, per §5
		},
	}
}

// ResolvedWorkerCount returns the configured worker count, defaulting to
// runtime.NumCPU() when unset.
func (c *Config) ResolvedWorkerCount() int {
	if c.Performance.ParallelFileWorkers > 0 {
		return c.Performance.ParallelFileWorkers
	}
	return runtime.NumCPU()
}

// Validate rejects out-of-range configuration, following the teacher's
// validator style (internal/config/validator.go).
func (c *Config) Validate() error {
	if c.Project.Root == "" {
		return fmt.Errorf("config: project root must not be empty")
	}
	if c.Index.MaxFileSize <= 0 {
		return fmt.Errorf("config: index.max_file_size must be positive, got %d", c.Index.MaxFileSize)
	}
	if c.Index.MaxFileCount <= 0 {
		return fmt.Errorf("config: index.max_file_count must be positive, got %d", c.Index.MaxFileCount)
	}
	if c.Index.WatchDebounceMs < 0 {
		return fmt.Errorf("config: index.watch_debounce_ms must not be negative, got %d", c.Index.WatchDebounceMs)
	}
	if c.Performance.ParallelFileWorkers < 0 {
		return fmt.Errorf("config: performance.parallel_file_workers must not be negative, got %d", c.Performance.ParallelFileWorkers)
	}
	if c.Performance.IndexingTimeoutSec < 0 {
		return fmt.Errorf("config: performance.indexing_timeout_sec must not be negative, got %d", c.Performance.IndexingTimeoutSec)
	}
	return nil
}
