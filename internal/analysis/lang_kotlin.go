package analysis

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

// kotlinSpec follows the same field-table shape as javaSpec. Kotlin's
// grammar folds class and interface declarations into one
// class_declaration node kind; both are recorded as KindClass, and
// object declarations get their own NodeKind entry, also as KindClass.
var kotlinSpec = langSpec{
	Language: types.LanguageKotlin,
	Definitions: []definitionSpec{
		{NodeKind: "class_declaration", Kind: types.KindClass, NameFields: []string{"name"}},
		{NodeKind: "object_declaration", Kind: types.KindClass, NameFields: []string{"name"}},
		{NodeKind: "function_declaration", Kind: types.KindFunction, NameFields: []string{"name"}},
		{NodeKind: "property_declaration", Kind: types.KindField, NameFields: []string{"name"}},
		{NodeKind: "enum_entry", Kind: types.KindEnumConstant, NameFields: []string{"name"}},
	},
	Imports: []importSpec{
		{NodeKind: "import_header", Kind: types.ImportDirect},
	},
	Calls: []callSpec{
		{NodeKind: "call_expression", CalleeFields: []string{"name"}, ReceiverFields: []string{"receiver"}},
		{NodeKind: "navigation_expression", CalleeFields: []string{"name"}, ReceiverFields: []string{"receiver"}},
	},
	PropertyKind: "navigation_expression",
	ParseImport:  parseKotlinImport,
}

// parseKotlinImport handles `import a.b.C` and `import a.b.C as D`.
func parseKotlinImport(n *tree_sitter.Node, content []byte) []ImportedSymbolRecord {
	pathText, ok := parserfacade.FieldText(n, "identifier", content)
	if !ok {
		pathText = strings.TrimSpace(strings.TrimPrefix(parserfacade.NodeText(n, content), "import"))
	}
	alias, _ := parserfacade.FieldText(n, "alias", content)

	kind := types.ImportDirect
	name := pathText
	path := pathText
	if strings.HasSuffix(pathText, ".*") {
		kind = types.ImportWildcard
		path = strings.TrimSuffix(pathText, ".*")
		name = "*"
	} else if idx := strings.LastIndex(pathText, "."); idx >= 0 {
		name = pathText[idx+1:]
		path = pathText[:idx]
	}
	if alias != "" {
		kind = types.ImportAliased
	}
	if pathText == "" {
		return nil
	}
	return []ImportedSymbolRecord{{
		ImportKind: kind,
		ImportPath: path,
		Name:       name,
		Alias:      alias,
		Range:      parserfacade.NodeRange(n),
	}}
}

func init() {
	registerLang(kotlinSpec)
}
