package analysis

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

// rustSpec treats `impl` blocks as containers (KindImpl). Every
// `function_item`, inside an impl block or not, is recorded as
// KindFunction: methods taking self are not told apart from associated
// functions without one.
var rustSpec = langSpec{
	Language: types.LanguageRust,
	Definitions: []definitionSpec{
		{NodeKind: "mod_item", Kind: types.KindModule, NameFields: []string{"name"}},
		{NodeKind: "struct_item", Kind: types.KindStruct, NameFields: []string{"name"}},
		{NodeKind: "enum_item", Kind: types.KindEnum, NameFields: []string{"name"}},
		{NodeKind: "enum_variant", Kind: types.KindVariant, NameFields: []string{"name"}},
		{NodeKind: "trait_item", Kind: types.KindTrait, NameFields: []string{"name"}},
		{NodeKind: "union_item", Kind: types.KindUnion, NameFields: []string{"name"}},
		{NodeKind: "impl_item", Kind: types.KindImpl, NameFields: []string{"type"}},
		{NodeKind: "function_item", Kind: types.KindFunction, NameFields: []string{"name"}},
	},
	Imports: []importSpec{
		{NodeKind: "use_declaration", Kind: types.ImportDirect},
	},
	Calls: []callSpec{
		{NodeKind: "call_expression", CalleeFields: []string{"function"}, ReceiverFields: nil},
		{NodeKind: "method_call_expression", CalleeFields: []string{"name"}, ReceiverFields: []string{"receiver"}},
	},
	PropertyKind: "field_expression",
	ParseImport:  parseRustImport,
}

// parseRustImport flattens a `use` tree (`use a::b::{c, d as e};`,
// `use a::b::*;`) into one ImportedSymbolRecord per leaf, recursing
// through tree-sitter-rust's nested `scoped_use_list`/`use_list` shape.
func parseRustImport(n *tree_sitter.Node, content []byte) []ImportedSymbolRecord {
	arg := n.ChildByFieldName("argument")
	if arg == nil {
		return nil
	}
	var out []ImportedSymbolRecord
	walkRustUseTree(arg, "", content, &out, parserfacade.NodeRange(n))
	return out
}

func walkRustUseTree(n *tree_sitter.Node, prefix string, content []byte, out *[]ImportedSymbolRecord, rng types.Range) {
	switch n.Kind() {
	case "scoped_identifier":
		path := parserfacade.NodeText(n, content)
		*out = append(*out, ImportedSymbolRecord{
			ImportKind: types.ImportDirect,
			ImportPath: rustParentPath(path),
			Name:       rustLastSegment(path),
			Range:      rng,
		})
	case "identifier", "self":
		name := parserfacade.NodeText(n, content)
		*out = append(*out, ImportedSymbolRecord{
			ImportKind: types.ImportDirect,
			ImportPath: prefix,
			Name:       name,
			Range:      rng,
		})
	case "use_as_clause":
		path, _ := parserfacade.FieldText(n, "path", content)
		alias, _ := parserfacade.FieldText(n, "alias", content)
		*out = append(*out, ImportedSymbolRecord{
			ImportKind: types.ImportAliased,
			ImportPath: rustParentPath(path),
			Name:       rustLastSegment(path),
			Alias:      alias,
			Range:      rng,
		})
	case "use_wildcard":
		path := strings.TrimSuffix(parserfacade.NodeText(n, content), "::*")
		*out = append(*out, ImportedSymbolRecord{
			ImportKind: types.ImportWildcard,
			ImportPath: path,
			Name:       "*",
			Range:      rng,
		})
	case "scoped_use_list":
		path, _ := parserfacade.FieldText(n, "path", content)
		list := n.ChildByFieldName("list")
		if list != nil {
			for _, c := range parserfacade.Children(list) {
				walkRustUseTree(c, path, content, out, rng)
			}
		}
	case "use_list":
		for _, c := range parserfacade.Children(n) {
			walkRustUseTree(c, prefix, content, out, rng)
		}
	default:
		for _, c := range parserfacade.Children(n) {
			walkRustUseTree(c, prefix, content, out, rng)
		}
	}
}

func rustParentPath(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func rustLastSegment(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx < 0 {
		return path
	}
	return path[idx+2:]
}

func init() {
	registerLang(rustSpec)
}
