package analysis

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

// FileInput is one parsed file ready for analysis.
type FileInput struct {
	FilePath string
	Language types.Language
	Content  []byte
}

// phase1Walker runs phase one (§4.C.1) over a single file's AST: it
// populates a scopeManager as it descends, emitting a DefinitionRecord
// and a FILE_DEFINES edge for every matched node, and a containment edge
// whenever the allow-list in containment.go permits the parent/child
// kind pair.
type phase1Walker struct {
	spec    langSpec
	file    FileInput
	scope   *scopeManager
	anonSeq int

	out FileAnalysis
}

// analyzeFilePhase1 parses one file and returns its FileAnalysis
// (definitions, imports, FILE_DEFINES and containment edges). Duplicate
// (fqn, primary_file_path) keys within the file are rejected with a
// warning rather than merged, per §4.C.1; warnings are returned as
// skipped, recoverable cgerrors so the caller can log and continue.
func analyzeFilePhase1(facade *parserfacade.Facade, in FileInput) (FileAnalysis, []error) {
	spec, ok := langRegistry[in.Language]
	if !ok {
		return FileAnalysis{}, []error{fmt.Errorf("analysis: no language spec registered for %q", in.Language)}
	}

	tree, release, err := facade.Parse(in.Language, in.Content)
	if err != nil {
		return FileAnalysis{}, []error{cgerrors.New(cgerrors.KindParse, "parse file", err).WithFile(in.FilePath).WithRecoverable(true)}
	}
	defer release()

	w := &phase1Walker{
		spec:  spec,
		file:  in,
		scope: newScopeManager(in.Language),
		out:   FileAnalysis{FilePath: in.FilePath, Language: in.Language},
	}

	seen := make(map[string]bool)
	var warnings []error
	w.walk(tree.RootNode(), seen, &warnings)
	return w.out, warnings
}

func (w *phase1Walker) walk(n *tree_sitter.Node, seen map[string]bool, warnings *[]error) {
	if spec, ok := matchDefinition(w.spec.Definitions, n); ok {
		w.visitDefinition(n, spec, seen, warnings)
		return
	}
	if spec, ok := matchImport(w.spec.Imports, n); ok && w.spec.ParseImport != nil {
		for _, imp := range w.spec.ParseImport(n, w.file.Content) {
			imp.DeclaringFilePath = w.file.FilePath
			w.out.Imports = append(w.out.Imports, imp)
		}
		_ = spec
	}
	for _, c := range parserfacade.Children(n) {
		w.walk(c, seen, warnings)
	}
}

func (w *phase1Walker) visitDefinition(n *tree_sitter.Node, spec definitionSpec, seen map[string]bool, warnings *[]error) {
	name, ok := fieldText(n, spec.NameFields, w.file.Content)
	if !ok {
		w.anonSeq++
		name = fmt.Sprintf("<%s#%d>", spec.Kind, w.anonSeq)
	}

	rng := parserfacade.NodeRange(n)
	def := w.scope.Push(name, spec.Kind, rng, w.file.FilePath)

	key := def.FQN + "\x00" + def.PrimaryFilePath
	if seen[key] {
		*warnings = append(*warnings, cgerrors.New(cgerrors.KindAnalyze, "duplicate definition", fmt.Errorf("fqn %q already defined in %s", def.FQN, def.PrimaryFilePath)).WithFile(w.file.FilePath).WithRecoverable(true))
		w.scope.Pop()
		for _, c := range parserfacade.Children(n) {
			w.walk(c, seen, warnings)
		}
		return
	}
	seen[key] = true

	w.out.Definitions = append(w.out.Definitions, def)
	w.out.Relationships = append(w.out.Relationships, RelationshipRecord{
		Kind:   "FILE_DEFINES",
		Source: EntityKey{Table: TableFile, FilePath: w.file.FilePath},
		Target: def.Key(),
	})

	if parent, ok := w.scope.Parent(); ok {
		if edge, ok := containmentEdge(parent.Kind, def.Kind); ok {
			w.out.Relationships = append(w.out.Relationships, RelationshipRecord{
				Kind:   edge,
				Source: parent.Key(),
				Target: def.Key(),
			})
		}
	}

	for _, c := range parserfacade.Children(n) {
		w.walk(c, seen, warnings)
	}
	w.scope.Pop()
}
