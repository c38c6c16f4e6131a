package workspace

import (
	"os"
	"path/filepath"
)

// projectMarkers are file names that mark a directory as the root of one
// project. A workspace folder may contain several projects (a monorepo's
// packages, or sibling checkouts); discoverProjects finds each one.
var projectMarkers = []string{
	"go.mod",
	"Cargo.toml",
	"pyproject.toml",
	"setup.py",
	"Gemfile",
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"package.json",
}

// discoverProjects walks the immediate contents of workspaceFolderPath
// and returns the absolute path of every directory that looks like a
// project root: the workspace folder itself if it carries a marker, plus
// any direct subdirectory that does. If nothing matches, the workspace
// folder itself is treated as a single project so registration never
// yields zero projects for a non-empty folder.
func discoverProjects(workspaceFolderPath string) ([]string, error) {
	var projects []string

	if hasMarker(workspaceFolderPath) {
		projects = append(projects, workspaceFolderPath)
	}

	entries, err := os.ReadDir(workspaceFolderPath)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		dir := filepath.Join(workspaceFolderPath, entry.Name())
		if hasMarker(dir) {
			projects = append(projects, dir)
		}
	}

	if len(projects) == 0 {
		projects = append(projects, workspaceFolderPath)
	}
	return projects, nil
}

func hasMarker(dir string) bool {
	for _, marker := range projectMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
