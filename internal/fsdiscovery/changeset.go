package fsdiscovery

import "path"

// ChangeKind classifies how a file differs between two scans.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes one file's delta between a previous and current scan.
type Change struct {
	Path string
	Kind ChangeKind
}

// Diff compares a previous scan's records (keyed by path, as persisted in
// the workspace manifest) against a fresh scan and returns the minimal set
// of changes an incremental reindex needs to process (§4.G).
func Diff(previous map[string]uint64, current []FileRecord) []Change {
	seen := make(map[string]bool, len(current))
	var changes []Change

	for _, rec := range current {
		seen[rec.Path] = true
		prevHash, existed := previous[rec.Path]
		switch {
		case !existed:
			changes = append(changes, Change{Path: rec.Path, Kind: ChangeAdded})
		case prevHash != rec.Hash:
			changes = append(changes, Change{Path: rec.Path, Kind: ChangeModified})
		}
	}
	for path := range previous {
		if !seen[path] {
			changes = append(changes, Change{Path: path, Kind: ChangeRemoved})
		}
	}
	return changes
}

// HashesByPath is a convenience for building the `previous` argument to
// Diff from a prior scan's records.
func HashesByPath(records []FileRecord) map[string]uint64 {
	out := make(map[string]uint64, len(records))
	for _, r := range records {
		out[r.Path] = r.Hash
	}
	return out
}

// OrphanedDirectories returns every directory that had a file beneath it
// in the previous scan but has none in the current one — the set §4.G
// step 2's delete_by(DirectoryNode, …) needs, and what makes §3's "a
// deleted file also purges its Directory node when no sibling file
// remains" actually happen instead of being inert.
func OrphanedDirectories(previous map[string]uint64, current []FileRecord) []string {
	prevDirs := make(map[string]bool)
	for p := range previous {
		for _, d := range ancestorDirs(p) {
			prevDirs[d] = true
		}
	}
	currDirs := make(map[string]bool)
	for _, rec := range current {
		for _, d := range ancestorDirs(rec.Path) {
			currDirs[d] = true
		}
	}

	var orphaned []string
	for d := range prevDirs {
		if !currDirs[d] {
			orphaned = append(orphaned, d)
		}
	}
	return orphaned
}

// ancestorDirs returns every ancestor directory of a forward-slash
// relative file path, nearest first, not including the project root.
func ancestorDirs(filePath string) []string {
	var dirs []string
	dir := path.Dir(filePath)
	for dir != "." && dir != "/" && dir != "" {
		dirs = append(dirs, dir)
		dir = path.Dir(dir)
	}
	return dirs
}
