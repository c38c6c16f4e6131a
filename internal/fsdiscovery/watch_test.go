package fsdiscovery

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codegraph/internal/config"
)

func TestWatcherDeliversDebouncedWriteEvent(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(filePath, []byte("pass\n"), 0o644))

	scanner, err := NewScanner(dir, config.Default(dir))
	require.NoError(t, err)

	cfg := config.Default(dir)
	cfg.Index.WatchDebounceMs = 20

	var mu sync.Mutex
	var seen []string
	w, err := NewWatcher(scanner, cfg, func(path string, kind EventKind) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	defer func() {
		cancel()
		require.NoError(t, w.Stop())
	}()

	require.NoError(t, os.WriteFile(filePath, []byte("pass\npass\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, "main.py")
}

func TestWatcherIgnoresExcludedPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	scanner, err := NewScanner(dir, config.Default(dir))
	require.NoError(t, err)

	cfg := config.Default(dir)
	cfg.Index.WatchDebounceMs = 10

	var mu sync.Mutex
	var seen []string
	w, err := NewWatcher(scanner, cfg, func(path string, kind EventKind) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	defer func() {
		cancel()
		require.NoError(t, w.Stop())
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, seen)
}
