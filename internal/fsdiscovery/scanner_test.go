package fsdiscovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codegraph/internal/config"
)

func writeFile(t *testing.T, dir, rel, contents string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestScanSkipsUnsupportedExtensionsAndVendor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.rb", "puts 1")
	writeFile(t, dir, "README.md", "hello")
	writeFile(t, dir, "vendor/gem.rb", "puts 2")
	writeFile(t, dir, ".gitignore", "vendor/\n")

	cfg := config.Default(dir)
	scanner, err := NewScanner(dir, cfg)
	require.NoError(t, err)

	result, err := scanner.Scan()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "main.rb", result.Files[0].Path)
}

func TestScanRespectsMaxFileSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.py", string(make([]byte, 100)))

	cfg := config.Default(dir)
	cfg.Index.MaxFileSize = 10
	scanner, err := NewScanner(dir, cfg)
	require.NoError(t, err)

	result, err := scanner.Scan()
	require.NoError(t, err)
	assert.Len(t, result.Files, 0)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "big.py", result.Skipped[0].Path)
	assert.Equal(t, "File too large", result.Skipped[0].Reason)
}

func TestScanSkipsNonUTF8Content(t *testing.T) {
	dir := t.TempDir()
	invalid := []byte{0xff, 0xfe, 0xfd, 0x00, 0x01}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binary.py"), invalid, 0o644))
	writeFile(t, dir, "main.py", "print(1)")

	cfg := config.Default(dir)
	scanner, err := NewScanner(dir, cfg)
	require.NoError(t, err)

	result, err := scanner.Scan()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "main.py", result.Files[0].Path)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "binary.py", result.Skipped[0].Path)
	assert.Equal(t, "Not valid UTF-8", result.Skipped[0].Reason)
}

func TestScanAppliesExcludeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/main.rs", "fn main() {}")
	writeFile(t, dir, "src/generated/codegen.rs", "fn x() {}")

	cfg := config.Default(dir)
	cfg.Exclude = []string{"**/generated/**"}
	scanner, err := NewScanner(dir, cfg)
	require.NoError(t, err)

	result, err := scanner.Scan()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "src/main.rs", result.Files[0].Path)
}

func TestDiffDetectsAddedModifiedRemoved(t *testing.T) {
	previous := map[string]uint64{
		"a.py": 1,
		"b.py": 2,
		"d.py": 4,
	}
	current := []FileRecord{
		{Path: "a.py", Hash: 1},  // unchanged
		{Path: "b.py", Hash: 99}, // modified
		{Path: "c.py", Hash: 3},  // added
	}

	changes := Diff(previous, current)
	byPath := make(map[string]ChangeKind, len(changes))
	for _, c := range changes {
		byPath[c.Path] = c.Kind
	}

	assert.Equal(t, ChangeModified, byPath["b.py"])
	assert.Equal(t, ChangeAdded, byPath["c.py"])
	assert.Equal(t, ChangeRemoved, byPath["d.py"])
	_, unchangedPresent := byPath["a.py"]
	assert.False(t, unchangedPresent)
}
