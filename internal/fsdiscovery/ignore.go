package fsdiscovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/codegraph/internal/config"
)

// gitignorePattern is one parsed line of a .gitignore file, converted to a
// doublestar glob at load time rather than kept as a raw gitignore token.
type gitignorePattern struct {
	glob    string
	negate  bool
	dirOnly bool
}

// ignoreSet combines a project's .gitignore patterns with its configured
// include/exclude globs into one matcher, following the teacher's
// GitignoreParser/shouldExcludeFast split but converting everything to
// doublestar patterns up front instead of hand-rolling a second glob
// engine for the gitignore case.
type ignoreSet struct {
	gitignore []gitignorePattern
	exclude   []string
	include   []string
}

func newIgnoreSet(root string, cfg *config.Config) (*ignoreSet, error) {
	is := &ignoreSet{
		exclude: cfg.Exclude,
		include: cfg.Include,
	}
	if cfg.Index.RespectGitignore {
		if err := is.loadGitignore(root); err != nil {
			return nil, err
		}
	}
	return is, nil
}

func (is *ignoreSet) loadGitignore(root string) error {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		is.gitignore = append(is.gitignore, parseGitignoreLine(line))
	}
	return scanner.Err()
}

func parseGitignoreLine(line string) gitignorePattern {
	p := gitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	absolute := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")

	if absolute {
		p.glob = line
	} else if strings.Contains(line, "/") {
		p.glob = line
	} else {
		// A bare name with no slash matches at any depth in gitignore.
		p.glob = "**/" + line
	}
	return p
}

// shouldIgnore reports whether rel (project-root-relative, forward-slash)
// should be excluded from the scan. isDir lets directory-only gitignore
// patterns match the directory itself without pruning files that merely
// share its name as a substring.
func (is *ignoreSet) shouldIgnore(rel string, isDir bool) bool {
	ignored := false
	for _, p := range is.gitignore {
		if p.dirOnly && !isDir {
			if matchesWithin(p.glob, rel) {
				ignored = !p.negate
			}
			continue
		}
		if matches(p.glob, rel) || matchesWithin(p.glob, rel) {
			ignored = !p.negate
		}
	}
	for _, pattern := range is.exclude {
		if matches(pattern, rel) {
			ignored = true
		}
	}
	if len(is.include) > 0 && !isDir {
		included := false
		for _, pattern := range is.include {
			if matches(pattern, rel) {
				included = true
				break
			}
		}
		if !included {
			ignored = true
		}
	}
	return ignored
}

func matches(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}

// matchesWithin reports whether path is inside a directory named by
// pattern (pattern with no wildcard prefix is treated as a directory the
// path must descend from).
func matchesWithin(pattern, path string) bool {
	base := strings.TrimPrefix(pattern, "**/")
	return matches(base+"/**", path) || matches(pattern+"/**", path)
}
