package analysis

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

// globalIndex is the whole-project definition table phase two resolves
// against: by FQN (unique, enforced in phase one) and by short name
// (which may be ambiguous across files/classes).
type globalIndex struct {
	byFQN   map[string]DefinitionRecord
	byShort map[string][]DefinitionRecord
}

func buildGlobalIndex(defs []DefinitionRecord) *globalIndex {
	idx := &globalIndex{
		byFQN:   make(map[string]DefinitionRecord, len(defs)),
		byShort: make(map[string][]DefinitionRecord, len(defs)),
	}
	for _, d := range defs {
		idx.byFQN[d.FQN] = d
		idx.byShort[d.ShortName] = append(idx.byShort[d.ShortName], d)
	}
	return idx
}

func callableCandidates(cands []DefinitionRecord) []DefinitionRecord {
	var out []DefinitionRecord
	for _, c := range cands {
		switch c.Kind {
		case types.KindMethod, types.KindSingletonMethod, types.KindFunction,
			types.KindConstructor, types.KindAssociatedFunc, types.KindLambda, types.KindProc:
			out = append(out, c)
		}
	}
	return out
}

// phase2Walker resolves reference chains against the global index and a
// per-file import table, per §4.C.2. It is a deliberately reduced
// implementation of the full symbol-chain walk: it resolves the
// immediate receiver (self, a known local, or a statically-named type)
// and looks up one member level, rather than walking supertype/mixin
// chains. See DESIGN.md for the scope this cuts and why.
type phase2Walker struct {
	spec    langSpec
	file    FileInput
	scope   *scopeManager
	index   *globalIndex
	imports map[string]ImportedSymbolRecord // short name -> record, this file only
	anonSeq int

	relationships []RelationshipRecord
}

func analyzeFilePhase2(facade *parserfacade.Facade, in FileInput, index *globalIndex, fileImports []ImportedSymbolRecord) ([]RelationshipRecord, error) {
	spec, ok := langRegistry[in.Language]
	if !ok {
		return nil, nil
	}
	tree, release, err := facade.Parse(in.Language, in.Content)
	if err != nil {
		return nil, err
	}
	defer release()

	importsBySymbol := make(map[string]ImportedSymbolRecord, len(fileImports))
	for _, imp := range fileImports {
		importsBySymbol[imp.Name] = imp
	}

	w := &phase2Walker{
		spec:    spec,
		file:    in,
		scope:   newScopeManager(in.Language),
		index:   index,
		imports: importsBySymbol,
	}
	w.walk(tree.RootNode())
	return w.relationships, nil
}

func (w *phase2Walker) walk(n *tree_sitter.Node) {
	if spec, ok := matchDefinition(w.spec.Definitions, n); ok {
		name, ok := fieldText(n, spec.NameFields, w.file.Content)
		if !ok {
			w.anonSeq++
			name = fmt.Sprintf("<%s#%d>", spec.Kind, w.anonSeq)
		}
		w.scope.Push(name, spec.Kind, parserfacade.NodeRange(n), w.file.FilePath)
		for _, c := range parserfacade.Children(n) {
			w.walk(c)
		}
		w.scope.Pop()
		return
	}

	if spec, ok := matchCall(w.spec.Calls, n); ok {
		w.resolveCall(n, spec)
	} else if w.spec.PropertyKind != "" && n.Kind() == w.spec.PropertyKind {
		w.resolveProperty(n)
	}

	if spec, ok := matchLocal(w.spec.Locals, n); ok {
		w.bindLocals(n, spec)
	}

	for _, c := range parserfacade.Children(n) {
		w.walk(c)
	}
}

// bindLocals binds each name a local-variable declaration introduces to
// its declared type's FQN in the current scope frame, the "local var"
// step of the symbol-chain walk (§4.C.2). A declared type that doesn't
// resolve against the project's definitions is left unbound rather than
// bound to a guess: a later lookup simply falls through to the next
// step, same as if the declaration had never been seen.
func (w *phase2Walker) bindLocals(n *tree_sitter.Node, spec localSpec) {
	for _, b := range spec.Parse(n, w.file.Content) {
		if t := w.resolveDeclaredTypeFQN(b.DeclaredType); t != "" {
			w.scope.BindLocal(b.Name, t)
		}
	}
}

// resolveDeclaredTypeFQN resolves a local variable's declared-type text
// (possibly carrying generics or array brackets) to the FQN of a known
// class-like definition, or "" if it names nothing in the project.
func (w *phase2Walker) resolveDeclaredTypeFQN(typeText string) string {
	typeText = strings.TrimSpace(typeText)
	if typeText == "" {
		return ""
	}
	if idx := strings.IndexAny(typeText, "<["); idx >= 0 {
		typeText = strings.TrimSpace(typeText[:idx])
	}
	if def, ok := w.index.byFQN[typeText]; ok && isClassLike(def.Kind) {
		return def.FQN
	}
	if def, ok := w.findTypeByShortName(typeText); ok {
		return def.FQN
	}
	return ""
}

func (w *phase2Walker) resolveCall(n *tree_sitter.Node, spec callSpec) {
	callee, ok := fieldText(n, spec.CalleeFields, w.file.Content)
	if !ok {
		return
	}
	rng := parserfacade.NodeRange(n)
	source := w.callerKey()

	var receiverText string
	if len(spec.ReceiverFields) > 0 {
		receiverText, _ = fieldText(n, spec.ReceiverFields, w.file.Content)
	}

	if receiverText != "" {
		w.emitMemberResolution(receiverText, callee, rng, source, true)
		return
	}

	w.emitUnqualifiedResolution(callee, rng, source, true)
}

func (w *phase2Walker) resolveProperty(n *tree_sitter.Node) {
	receiver, rok := parserfacade.FieldText(n, "receiver", w.file.Content)
	if !rok {
		receiver, rok = parserfacade.FieldText(n, "object", w.file.Content)
	}
	name, nok := parserfacade.FieldText(n, "field", w.file.Content)
	if !nok {
		name, nok = parserfacade.FieldText(n, "name", w.file.Content)
	}
	if !rok || !nok {
		return
	}
	rng := parserfacade.NodeRange(n)
	source := w.callerKey()
	w.emitMemberResolution(receiver, name, rng, source, false)
}

// callerKey returns the logical key of whatever range "owns" a call
// site: the innermost enclosing definition, or the File itself for
// top-level call sites (§8 invariant 3).
func (w *phase2Walker) callerKey() EntityKey {
	if cur, ok := w.scope.Current(); ok {
		return cur.Key()
	}
	return EntityKey{Table: TableFile, FilePath: w.file.FilePath}
}

func (w *phase2Walker) emitUnqualifiedResolution(name string, rng types.Range, source EntityKey, isCall bool) {
	kind := "CALLS"
	if !isCall {
		kind = "PROPERTY_REFERENCE"
	}

	// self/enclosing-class member first.
	if enclosing, ok := w.scope.EnclosingClassLike(); ok {
		if def, ok := w.index.byFQN[enclosing.FQN+typeLangSep(w.file.Language)+name]; ok {
			w.emit(kind, source, def.Key(), rng)
			return
		}
	}
	// top-level definition anywhere in the project (FQN has exactly one part: itself).
	if def, ok := w.index.byFQN[name]; ok {
		w.emit(kind, source, def.Key(), rng)
		return
	}

	candidates := w.index.byShort[name]
	if isCall {
		candidates = callableCandidates(candidates)
	}
	switch len(candidates) {
	case 0:
		if imp, ok := w.imports[name]; ok {
			w.emit(kind, source, imp.Key(), rng)
		}
	case 1:
		w.emit(kind, source, candidates[0].Key(), rng)
	default:
		for _, c := range candidates {
			w.emit("AMBIGUOUSLY_CALLS", source, c.Key(), rng)
		}
	}
}

func (w *phase2Walker) emitMemberResolution(receiverText, member string, rng types.Range, source EntityKey, isCall bool) {
	kind := "CALLS"
	if !isCall {
		kind = "PROPERTY_REFERENCE"
	}

	receiverText = strings.TrimSpace(receiverText)
	typeFQN := w.resolveReceiverTypeFQN(receiverText)
	if typeFQN == "" {
		return
	}

	if def, ok := w.index.byFQN[typeFQN+typeLangSep(w.file.Language)+member]; ok {
		w.emit(kind, source, def.Key(), rng)
		return
	}
	if imp, ok := w.imports[member]; ok {
		w.emit(kind, source, imp.Key(), rng)
	}
}

func (w *phase2Walker) resolveReceiverTypeFQN(receiverText string) string {
	if receiverText == "self" || receiverText == "this" {
		if enclosing, ok := w.scope.EnclosingClassLike(); ok {
			return enclosing.FQN
		}
	}
	if t, ok := w.scope.LookupLocal(receiverText); ok {
		return t
	}
	if w.spec.ResolveReceiverType != nil {
		if t := w.spec.ResolveReceiverType(receiverText); t != "" {
			if def, ok := w.findTypeByShortName(t); ok {
				return def.FQN
			}
			return t
		}
	}
	if def, ok := w.index.byFQN[receiverText]; ok && isClassLike(def.Kind) {
		return def.FQN
	}
	if def, ok := w.findTypeByShortName(receiverText); ok {
		return def.FQN
	}
	return ""
}

func (w *phase2Walker) findTypeByShortName(name string) (DefinitionRecord, bool) {
	for _, d := range w.index.byShort[name] {
		if isClassLike(d.Kind) {
			return d, true
		}
	}
	return DefinitionRecord{}, false
}

func (w *phase2Walker) emit(kind string, source, target EntityKey, rng types.Range) {
	r := rng
	w.relationships = append(w.relationships, RelationshipRecord{
		Kind:        kind,
		Source:      source,
		Target:      target,
		SourceRange: &r,
	})
}

func typeLangSep(lang types.Language) string {
	return lang.Separator()
}
