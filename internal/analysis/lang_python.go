package analysis

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

var pythonSpec = langSpec{
	Language: types.LanguagePython,
	Definitions: []definitionSpec{
		{NodeKind: "class_definition", Kind: types.KindClass, NameFields: []string{"name"}},
		{NodeKind: "function_definition", Kind: types.KindFunction, NameFields: []string{"name"}},
	},
	Imports: []importSpec{
		{NodeKind: "import_statement", Kind: types.ImportDirect},
		{NodeKind: "import_from_statement", Kind: types.ImportDirect},
	},
	Calls: []callSpec{
		{NodeKind: "call", CalleeFields: []string{"function"}, ReceiverFields: nil},
	},
	PropertyKind: "attribute",
	ParseImport:  parsePythonImport,
}

// parsePythonImport covers both `import a.b` and `from a.b import c, d as e`,
// the two shapes tree-sitter-python distinguishes by node kind.
func parsePythonImport(n *tree_sitter.Node, content []byte) []ImportedSymbolRecord {
	if n.Kind() == "import_statement" {
		var out []ImportedSymbolRecord
		for _, c := range parserfacade.Children(n) {
			switch c.Kind() {
			case "dotted_name", "identifier":
				path := parserfacade.NodeText(c, content)
				out = append(out, ImportedSymbolRecord{
					ImportKind: types.ImportDirect,
					ImportPath: path,
					Name:       lastPythonSegment(path),
					Range:      parserfacade.NodeRange(n),
				})
			case "aliased_import":
				name, alias := parsePythonAliasedImport(c, content)
				out = append(out, ImportedSymbolRecord{
					ImportKind: types.ImportAliased,
					ImportPath: name,
					Name:       lastPythonSegment(name),
					Alias:      alias,
					Range:      parserfacade.NodeRange(n),
				})
			}
		}
		return out
	}

	// import_from_statement: `from <module> import a, b as c` or `import *`
	modulePath, _ := parserfacade.FieldText(n, "module_name", content)
	var out []ImportedSymbolRecord
	for _, c := range parserfacade.Children(n) {
		switch c.Kind() {
		case "dotted_name", "identifier":
			name := parserfacade.NodeText(c, content)
			if name == modulePath {
				continue
			}
			out = append(out, ImportedSymbolRecord{
				ImportKind: types.ImportDirect,
				ImportPath: modulePath,
				Name:       name,
				Range:      parserfacade.NodeRange(n),
			})
		case "aliased_import":
			name, alias := parsePythonAliasedImport(c, content)
			out = append(out, ImportedSymbolRecord{
				ImportKind: types.ImportAliased,
				ImportPath: modulePath,
				Name:       name,
				Alias:      alias,
				Range:      parserfacade.NodeRange(n),
			})
		case "wildcard_import":
			out = append(out, ImportedSymbolRecord{
				ImportKind: types.ImportWildcard,
				ImportPath: modulePath,
				Name:       "*",
				Range:      parserfacade.NodeRange(n),
			})
		}
	}
	return out
}

func parsePythonAliasedImport(n *tree_sitter.Node, content []byte) (name, alias string) {
	if txt, ok := parserfacade.FieldText(n, "name", content); ok {
		name = txt
	}
	if txt, ok := parserfacade.FieldText(n, "alias", content); ok {
		alias = txt
	}
	return name, alias
}

func lastPythonSegment(path string) string {
	idx := -1
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			idx = i
		}
	}
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

func init() {
	registerLang(pythonSpec)
}
