package analysis

import "github.com/standardbeagle/codegraph/internal/types"

// scopeFrame is one level of the FQN stack maintained during both
// phases' traversal: the definition that introduced it and the locals
// phase two has bound directly inside it (local variable declarations).
type scopeFrame struct {
	def    DefinitionRecord
	locals map[string]string // local name -> inferred type FQN (best effort)
}

// scopeManager tracks the enclosing-definition chain while walking one
// file's AST, the way the teacher's symbollinker.ScopeManager tracks a
// scope stack during traversal, generalized here to double as the FQN
// builder: Push both enters a lexical scope and extends the current
// FQN by one part.
type scopeManager struct {
	lang  types.Language
	stack []scopeFrame
}

func newScopeManager(lang types.Language) *scopeManager {
	return &scopeManager{lang: lang}
}

// Push enters a new definition scope, returning the fully-qualified name
// assigned to it (built from every enclosing frame plus this part).
func (sm *scopeManager) Push(name string, kind types.DefinitionKind, rng types.Range, primaryFile string) DefinitionRecord {
	parts := sm.fqnParts()
	parts = append(parts, types.FQNPart{Name: name, Kind: kind})
	fqn := types.BuildFQN(sm.lang, parts)

	def := DefinitionRecord{
		FQN:             fqn,
		ShortName:       name,
		Kind:            kind,
		PrimaryFilePath: primaryFile,
		Range:           rng,
	}
	sm.stack = append(sm.stack, scopeFrame{def: def, locals: make(map[string]string)})
	return def
}

// Pop leaves the current definition scope.
func (sm *scopeManager) Pop() {
	if len(sm.stack) > 0 {
		sm.stack = sm.stack[:len(sm.stack)-1]
	}
}

// Depth reports how many definitions enclose the current position.
func (sm *scopeManager) Depth() int {
	return len(sm.stack)
}

// Current returns the innermost enclosing definition, or the zero value
// at file (top-level) scope.
func (sm *scopeManager) Current() (DefinitionRecord, bool) {
	if len(sm.stack) == 0 {
		return DefinitionRecord{}, false
	}
	return sm.stack[len(sm.stack)-1].def, true
}

// Parent returns the definition enclosing the current one (used when
// computing a containment edge's parent side, which is always the frame
// one level up from the child being pushed).
func (sm *scopeManager) Parent() (DefinitionRecord, bool) {
	if len(sm.stack) < 2 {
		return DefinitionRecord{}, false
	}
	return sm.stack[len(sm.stack)-2].def, true
}

func (sm *scopeManager) fqnParts() []types.FQNPart {
	parts := make([]types.FQNPart, 0, len(sm.stack))
	for _, f := range sm.stack {
		parts = append(parts, types.FQNPart{Name: f.def.ShortName, Kind: f.def.Kind})
	}
	return parts
}

// BindLocal records a local name's inferred type in the innermost scope,
// used by phase two to resolve the first link of a reference chain.
func (sm *scopeManager) BindLocal(name, typeFQN string) {
	if len(sm.stack) == 0 {
		return
	}
	sm.stack[len(sm.stack)-1].locals[name] = typeFQN
}

// LookupLocal searches the scope stack outward (innermost first) for a
// local binding, mirroring §4.C.2 step 1's "local var → parameter →
// enclosing method/lambda" order.
func (sm *scopeManager) LookupLocal(name string) (string, bool) {
	for i := len(sm.stack) - 1; i >= 0; i-- {
		if t, ok := sm.stack[i].locals[name]; ok {
			return t, true
		}
	}
	return "", false
}

// EnclosingClassLike returns the nearest enclosing definition whose kind
// can own members (class, module, interface, trait, struct, enum, impl),
// used as the `self`/receiver type when resolving an unqualified call.
func (sm *scopeManager) EnclosingClassLike() (DefinitionRecord, bool) {
	for i := len(sm.stack) - 1; i >= 0; i-- {
		if isClassLike(sm.stack[i].def.Kind) {
			return sm.stack[i].def, true
		}
	}
	return DefinitionRecord{}, false
}

func isClassLike(k types.DefinitionKind) bool {
	switch k {
	case types.KindClass, types.KindModule, types.KindInterface, types.KindTrait,
		types.KindStruct, types.KindEnum, types.KindImpl, types.KindRecord, types.KindUnion:
		return true
	default:
		return false
	}
}
