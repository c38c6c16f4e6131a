package analysis

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

// rubySpec is grounded on the teacher's closest equivalent extractor
// shape (internal/symbollinker/extractor.go's table-driven visibility
// rules) applied to tree-sitter-ruby's node kinds. Ruby modules are
// indexed as namespaces per SPEC_FULL.md's Open Question (b): the source
// oscillates, the spec sides with "index modules".
var rubySpec = langSpec{
	Language: types.LanguageRuby,
	Definitions: []definitionSpec{
		{NodeKind: "class", Kind: types.KindClass, NameFields: []string{"name"}},
		{NodeKind: "module", Kind: types.KindModule, NameFields: []string{"name"}},
		{NodeKind: "method", Kind: types.KindMethod, NameFields: []string{"name"}},
		{NodeKind: "singleton_method", Kind: types.KindSingletonMethod, NameFields: []string{"name"}},
	},
	Imports: []importSpec{
		{NodeKind: "call", Kind: types.ImportDirect}, // require/require_relative are plain calls in Ruby's grammar
	},
	Calls: []callSpec{
		{NodeKind: "call", CalleeFields: []string{"method"}, ReceiverFields: []string{"receiver"}},
		{NodeKind: "method_call", CalleeFields: []string{"method"}, ReceiverFields: []string{"receiver"}},
	},
	PropertyKind: "",
	ParseImport:  parseRubyImport,
}

// parseRubyImport recognizes `require "x"` / `require_relative "x"` calls,
// which tree-sitter-ruby parses as an ordinary `call` node rather than a
// dedicated import statement. Anything else shaped like a call is not an
// import and is left to the reference-resolution pass.
func parseRubyImport(n *tree_sitter.Node, content []byte) []ImportedSymbolRecord {
	method, ok := parserfacade.FieldText(n, "method", content)
	if !ok || (method != "require" && method != "require_relative") {
		return nil
	}
	argsNode := n.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	path := parserfacade.NodeText(argsNode, content)
	path = trimQuotes(path)
	if path == "" {
		return nil
	}
	return []ImportedSymbolRecord{{
		ImportKind: types.ImportDirect,
		ImportPath: path,
		Name:       path,
		Range:      parserfacade.NodeRange(n),
	}}
}

func trimQuotes(s string) string {
	s = stripOuter(s, '"')
	s = stripOuter(s, '\'')
	return s
}

func stripOuter(s string, q byte) string {
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}

func init() {
	registerLang(rubySpec)
}
