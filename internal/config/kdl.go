package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// FileName is the name of the project-local config file this package looks
// for in the project root, same convention as the teacher's lci.kdl.
const FileName = ".codegraph.kdl"

// Load reads FileName from projectRoot if present and applies it on top of
// Default(projectRoot). A missing file is not an error: the defaults alone
// are returned.
func Load(projectRoot string) (*Config, error) {
	cfg := Default(projectRoot)

	path := filepath.Join(projectRoot, FileName)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := applyKDL(cfg, f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyKDL parses r as KDL and overlays its nodes onto cfg. Unknown nodes
// are ignored, matching the teacher's forward-compatible parsing style.
func applyKDL(cfg *Config, r io.Reader) error {
	doc, err := kdl.Parse(r)
	if err != nil {
		return err
	}
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			applyProjectNode(cfg, n)
		case "index":
			applyIndexNode(cfg, n)
		case "performance":
			applyPerformanceNode(cfg, n)
		case "languages":
			cfg.Languages = collectStringArgs(n)
		case "include":
			cfg.Include = collectStringArgs(n)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}
	return nil
}

func applyProjectNode(cfg *Config, n *document.Node) {
	for _, c := range n.Children {
		switch nodeName(c) {
		case "name":
			assignSimpleString(c, &cfg.Project.Name)
		}
	}
}

func applyIndexNode(cfg *Config, n *document.Node) {
	for _, c := range n.Children {
		switch nodeName(c) {
		case "max_file_size":
			if v, ok := firstIntArg(c); ok {
				cfg.Index.MaxFileSize = v
			}
		case "max_file_count":
			if v, ok := firstIntArg(c); ok {
				cfg.Index.MaxFileCount = int(v)
			}
		case "follow_symlinks":
			if v, ok := firstBoolArg(c); ok {
				cfg.Index.FollowSymlinks = v
			}
		case "respect_gitignore":
			if v, ok := firstBoolArg(c); ok {
				cfg.Index.RespectGitignore = v
			}
		case "watch_mode":
			if v, ok := firstBoolArg(c); ok {
				cfg.Index.WatchMode = v
			}
		case "watch_debounce_ms":
			if v, ok := firstIntArg(c); ok {
				cfg.Index.WatchDebounceMs = int(v)
			}
		}
	}
}

func applyPerformanceNode(cfg *Config, n *document.Node) {
	for _, c := range n.Children {
		switch nodeName(c) {
		case "parallel_file_workers":
			if v, ok := firstIntArg(c); ok {
				cfg.Performance.ParallelFileWorkers = int(v)
			}
		case "indexing_timeout_sec":
			if v, ok := firstIntArg(c); ok {
				cfg.Performance.IndexingTimeoutSec = int(v)
			}
		}
	}
}

// nodeName returns a KDL node's own name as a plain string.
func nodeName(n *document.Node) string {
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int64, bool) {
	for _, a := range n.Arguments {
		switch v := a.Value.(type) {
		case int64:
			return v, true
		case float64:
			return int64(v), true
		}
	}
	return 0, false
}

func firstStringArg(n *document.Node) (string, bool) {
	for _, a := range n.Arguments {
		if v, ok := a.Value.(string); ok {
			return v, true
		}
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	for _, a := range n.Arguments {
		if v, ok := a.Value.(bool); ok {
			return v, true
		}
	}
	return false, false
}

// collectStringArgs gathers string arguments off n directly (inline style:
// `exclude "a" "b"`), falling back to n's children when n carries no
// arguments of its own (block style: `exclude { "a"; "b" }`).
func collectStringArgs(n *document.Node) []string {
	var out []string
	for _, a := range n.Arguments {
		if v, ok := a.Value.(string); ok {
			out = append(out, v)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, c := range n.Children {
		name := strings.TrimSpace(nodeName(c))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target *string) {
	if v, ok := firstStringArg(n); ok {
		*target = v
	}
}
