package analysis

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

var javaSpec = langSpec{
	Language: types.LanguageJava,
	Definitions: []definitionSpec{
		{NodeKind: "class_declaration", Kind: types.KindClass, NameFields: []string{"name"}},
		{NodeKind: "interface_declaration", Kind: types.KindInterface, NameFields: []string{"name"}},
		{NodeKind: "enum_declaration", Kind: types.KindEnum, NameFields: []string{"name"}},
		{NodeKind: "record_declaration", Kind: types.KindRecord, NameFields: []string{"name"}},
		{NodeKind: "annotation_type_declaration", Kind: types.KindAnnotation, NameFields: []string{"name"}},
		{NodeKind: "method_declaration", Kind: types.KindMethod, NameFields: []string{"name"}},
		{NodeKind: "constructor_declaration", Kind: types.KindConstructor, NameFields: []string{"name"}},
		{NodeKind: "enum_constant", Kind: types.KindEnumConstant, NameFields: []string{"name"}},
	},
	Imports: []importSpec{
		{NodeKind: "import_declaration", Kind: types.ImportDirect},
	},
	Calls: []callSpec{
		{NodeKind: "method_invocation", CalleeFields: []string{"name"}, ReceiverFields: []string{"object"}},
	},
	PropertyKind:        "field_access",
	ParseImport:         parseJavaImport,
	ResolveReceiverType: resolveJavaReceiverType,
	Locals: []localSpec{
		{NodeKind: "local_variable_declaration", Parse: parseJavaLocalBindings},
	},
}

// parseJavaImport handles `import a.b.C;` and `import static a.b.C.m;`.
// tree-sitter-java exposes the dotted path as a scoped_identifier under a
// "name" field, with an optional leading "static" token and a trailing
// "asterisk" for wildcard imports.
func parseJavaImport(n *tree_sitter.Node, content []byte) []ImportedSymbolRecord {
	isStatic := false
	isWildcard := false
	var pathText string

	for _, c := range parserfacade.Children(n) {
		switch c.Kind() {
		case "static":
			isStatic = true
		case "asterisk":
			isWildcard = true
		case "scoped_identifier", "identifier":
			pathText = parserfacade.NodeText(c, content)
		}
	}
	if pathText == "" {
		return nil
	}

	kind := types.ImportDirect
	name := pathText
	path := pathText
	if idx := strings.LastIndex(pathText, "."); idx >= 0 {
		name = pathText[idx+1:]
		path = pathText[:idx]
	}
	if isWildcard {
		kind = types.ImportWildcard
		name = "*"
		path = pathText
	} else if isStatic {
		kind = types.ImportStatic
	}

	return []ImportedSymbolRecord{{
		ImportKind: kind,
		ImportPath: path,
		Name:       name,
		Range:      parserfacade.NodeRange(n),
	}}
}

// resolveJavaReceiverType strips `new Foo(...)` down to the type name
// `Foo` so that S2-style `new C().m()` call sites resolve the receiver's
// static type without a full type-inference pass.
func resolveJavaReceiverType(receiverText string) string {
	t := strings.TrimSpace(receiverText)
	if !strings.HasPrefix(t, "new ") {
		return ""
	}
	t = strings.TrimSpace(strings.TrimPrefix(t, "new "))
	if idx := strings.IndexAny(t, "(<"); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

// parseJavaLocalBindings pulls the (name, type) pairs out of a
// `local_variable_declaration`: the declaration carries one "type" field
// shared by every declarator, and one "variable_declarator" child per
// name declared (`int a, b;` binds both `a` and `b` to `int`).
func parseJavaLocalBindings(n *tree_sitter.Node, content []byte) []localBinding {
	typeText, ok := parserfacade.FieldText(n, "type", content)
	if !ok {
		return nil
	}
	var out []localBinding
	for _, c := range parserfacade.Children(n) {
		if c.Kind() != "variable_declarator" {
			continue
		}
		name, nok := parserfacade.FieldText(c, "name", content)
		if !nok {
			continue
		}
		out = append(out, localBinding{Name: name, DeclaredType: typeText})
	}
	return out
}

func init() {
	registerLang(javaSpec)
}
