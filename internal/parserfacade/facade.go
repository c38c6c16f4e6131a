// Package parserfacade wraps go-tree-sitter behind one entry point per
// language: a pooled *tree_sitter.Parser, the compiled grammar, and a few
// node-navigation helpers shared by every per-language analyzer in
// internal/analysis. It mirrors the teacher's internal/parser package
// (TreeSitterParser, per-extension parser/query maps, lazy setup) scoped
// down to the five languages this indexer supports.
package parserfacade

import (
	"fmt"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"

	"github.com/standardbeagle/codegraph/internal/types"
)

// Facade owns one compiled grammar and a pool of parsers per language. A
// *tree_sitter.Parser is not safe for concurrent use, so each caller
// borrows one with Acquire and returns it with Release, same shape as the
// teacher's per-language parser pool.
type Facade struct {
	mu        sync.Mutex
	languages map[types.Language]*tree_sitter.Language
	pools     map[types.Language][]*tree_sitter.Parser
}

// New builds a Facade with all five supported grammars loaded.
func New() (*Facade, error) {
	f := &Facade{
		languages: make(map[types.Language]*tree_sitter.Language),
		pools:     make(map[types.Language][]*tree_sitter.Parser),
	}

	grammars := map[types.Language]func() unsafe.Pointer{
		types.LanguageRuby:   tree_sitter_ruby.Language,
		types.LanguageJava:   tree_sitter_java.Language,
		types.LanguageKotlin: tree_sitter_kotlin.Language,
		types.LanguagePython: tree_sitter_python.Language,
		types.LanguageRust:   tree_sitter_rust.Language,
	}

	for lang, grammarFn := range grammars {
		f.languages[lang] = tree_sitter.NewLanguage(grammarFn())
	}
	return f, nil
}

// Acquire borrows a parser configured for lang, creating one if the pool
// is empty. Callers must call Release when done.
func (f *Facade) Acquire(lang types.Language) (*tree_sitter.Parser, error) {
	f.mu.Lock()
	if pool := f.pools[lang]; len(pool) > 0 {
		p := pool[len(pool)-1]
		f.pools[lang] = pool[:len(pool)-1]
		f.mu.Unlock()
		return p, nil
	}
	f.mu.Unlock()

	language, ok := f.languages[lang]
	if !ok {
		return nil, fmt.Errorf("parserfacade: no grammar registered for language %q", lang)
	}
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("parserfacade: set language %q: %w", lang, err)
	}
	return p, nil
}

// Release returns a parser to lang's pool for reuse.
func (f *Facade) Release(lang types.Language, p *tree_sitter.Parser) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pools[lang] = append(f.pools[lang], p)
}

// Language returns the compiled grammar for lang, used by analyzers that
// need to compile their own tree-sitter queries.
func (f *Facade) Language(lang types.Language) (*tree_sitter.Language, bool) {
	l, ok := f.languages[lang]
	return l, ok
}

// Parse parses content with a pooled parser for lang and returns the
// resulting tree plus a release func the caller must invoke exactly once.
func (f *Facade) Parse(lang types.Language, content []byte) (*tree_sitter.Tree, func(), error) {
	p, err := f.Acquire(lang)
	if err != nil {
		return nil, func() {}, err
	}
	tree := p.Parse(content, nil)
	if tree == nil {
		f.Release(lang, p)
		return nil, func() {}, fmt.Errorf("parserfacade: parse produced no tree for language %q", lang)
	}
	release := func() { f.Release(lang, p) }
	return tree, release, nil
}
