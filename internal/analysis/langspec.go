package analysis

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

// definitionSpec maps one tree-sitter node kind onto a DefinitionKind.
// NameFields are tried in order; the first present field's text becomes
// the definition's short name. Anonymous constructs (a lambda with no
// name field) fall back to a synthetic, traversal-order name.
type definitionSpec struct {
	NodeKind   string
	Kind       types.DefinitionKind
	NameFields []string
}

// importSpec identifies one kind of import/use statement node.
type importSpec struct {
	NodeKind string
	Kind     types.ImportKind
}

// callSpec identifies one kind of call/reference node and how to pull
// the callee name and optional receiver expression out of it.
type callSpec struct {
	NodeKind       string
	CalleeFields   []string // fields that may hold the callee identifier directly
	ReceiverFields []string // fields that may hold a receiver expression (member access)
}

// localBinding is one (name, declared-type-text) pair a local variable
// declaration introduces; the declared type is raw source text (possibly
// carrying generics/array brackets), resolved against the project's
// definitions separately.
type localBinding struct {
	Name         string
	DeclaredType string
}

// localSpec identifies a local-variable-declaration node kind and how to
// pull its (name, type) pairs out of it, feeding §4.C.2's "local var"
// step of the symbol-chain walk.
type localSpec struct {
	NodeKind string
	Parse    func(n *tree_sitter.Node, content []byte) []localBinding
}

// langSpec bundles everything a language needs from the generic engine:
// its node-kind tables plus a few per-language extraction hooks that
// don't reduce to simple field lookups.
type langSpec struct {
	Language     types.Language
	Definitions  []definitionSpec
	Imports      []importSpec
	Calls        []callSpec
	PropertyKind string // node kind for a bare member/field access (non-call)

	// ParseImport extracts the import path, symbol name and alias from an
	// import node; languages differ enough in import grammar shape that
	// this is easier as a hook than a field table.
	ParseImport func(n *tree_sitter.Node, content []byte) []ImportedSymbolRecord

	// ResolveReceiverType gives best-effort static typing for a receiver
	// expression's text, e.g. stripping a Java `new Foo()` down to `Foo`.
	// Returns "" when no better guess than the raw text is available.
	ResolveReceiverType func(receiverText string) string

	// Locals identifies local-variable-declaration node kinds, so phase
	// two can bind each declared name to its type in the current scope
	// frame (the "local var" step of the symbol-chain walk).
	Locals []localSpec
}

var langRegistry = make(map[types.Language]langSpec)

// registerLang adds a language's spec to the registry consulted by the
// generic engine; each lang_*.go file calls this from an init func.
func registerLang(s langSpec) {
	langRegistry[s.Language] = s
}

func fieldText(n *tree_sitter.Node, fields []string, content []byte) (string, bool) {
	for _, f := range fields {
		if txt, ok := parserfacade.FieldText(n, f, content); ok {
			return txt, true
		}
	}
	return "", false
}

func matchDefinition(specs []definitionSpec, n *tree_sitter.Node) (definitionSpec, bool) {
	kind := n.Kind()
	for _, s := range specs {
		if s.NodeKind == kind {
			return s, true
		}
	}
	return definitionSpec{}, false
}

func matchImport(specs []importSpec, n *tree_sitter.Node) (importSpec, bool) {
	kind := n.Kind()
	for _, s := range specs {
		if s.NodeKind == kind {
			return s, true
		}
	}
	return importSpec{}, false
}

func matchCall(specs []callSpec, n *tree_sitter.Node) (callSpec, bool) {
	kind := n.Kind()
	for _, s := range specs {
		if s.NodeKind == kind {
			return s, true
		}
	}
	return callSpec{}, false
}

func matchLocal(specs []localSpec, n *tree_sitter.Node) (localSpec, bool) {
	kind := n.Kind()
	for _, s := range specs {
		if s.NodeKind == kind {
			return s, true
		}
	}
	return localSpec{}, false
}
