package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/types"
)

func newTestFacade(t *testing.T) *parserfacade.Facade {
	t.Helper()
	f, err := parserfacade.New()
	require.NoError(t, err)
	return f
}

func findRelationship(rels []RelationshipRecord, kind string) []RelationshipRecord {
	var out []RelationshipRecord
	for _, r := range rels {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func findDefinition(defs []DefinitionRecord, fqn string) (DefinitionRecord, bool) {
	for _, d := range defs {
		if d.FQN == fqn {
			return d, true
		}
	}
	return DefinitionRecord{}, false
}

// S1: a Ruby class with one method nests a CLASS_TO_METHOD edge under a
// FILE_DEFINES edge for each of the two definitions.
func TestRubyClassWithMethodScenario(t *testing.T) {
	facade := newTestFacade(t)
	src := "class A\n  def b\n  end\nend\n"

	fa, warnings := analyzeFilePhase1(facade, FileInput{
		FilePath: "a.rb",
		Language: types.LanguageRuby,
		Content:  []byte(src),
	})
	require.Empty(t, warnings)

	_, ok := findDefinition(fa.Definitions, "A")
	assert.True(t, ok, "expected definition A")
	_, ok = findDefinition(fa.Definitions, "A::b")
	assert.True(t, ok, "expected definition A::b")

	fileDefines := findRelationship(fa.Relationships, "FILE_DEFINES")
	assert.Len(t, fileDefines, 2)

	containment := findRelationship(fa.Relationships, "CLASS_TO_METHOD")
	require.Len(t, containment, 1)
	assert.Equal(t, "A", containment[0].Source.FQN)
	assert.Equal(t, "A::b", containment[0].Target.FQN)
}

// S2: `new C().m()` inside C's own method m resolves to a single CALLS
// edge targeting C.m, exercising resolveJavaReceiverType.
func TestJavaSelfConstructingCallScenario(t *testing.T) {
	facade := newTestFacade(t)
	src := "class C { void m() { new C().m(); } }\n"

	input := FileInput{FilePath: "C.java", Language: types.LanguageJava, Content: []byte(src)}
	fa, warnings := analyzeFilePhase1(facade, input)
	require.Empty(t, warnings)

	index := buildGlobalIndex(fa.Definitions)
	rels, err := analyzeFilePhase2(facade, input, index, nil)
	require.NoError(t, err)

	calls := findRelationship(rels, "CALLS")
	require.Len(t, calls, 1)
	assert.Equal(t, "C.m", calls[0].Source.FQN)
	assert.Equal(t, "C.m", calls[0].Target.FQN)
	assert.NotNil(t, calls[0].SourceRange)

	assert.Empty(t, findRelationship(rels, "AMBIGUOUSLY_CALLS"))
}

// A local variable declared `C c = new C();` then called as `c.m()`
// resolves via the declared type, not just the `new C()` constructor
// pattern, exercising local-variable type binding in bindLocals.
func TestJavaLocalVariableCallScenario(t *testing.T) {
	facade := newTestFacade(t)
	src := "class C { void m() {} void n() { C c = new C(); c.m(); } }\n"

	input := FileInput{FilePath: "C.java", Language: types.LanguageJava, Content: []byte(src)}
	fa, warnings := analyzeFilePhase1(facade, input)
	require.Empty(t, warnings)

	index := buildGlobalIndex(fa.Definitions)
	rels, err := analyzeFilePhase2(facade, input, index, nil)
	require.NoError(t, err)

	calls := findRelationship(rels, "CALLS")
	var sawLocalCall bool
	for _, c := range calls {
		if c.Source.FQN == "C.n" && c.Target.FQN == "C.m" {
			sawLocalCall = true
		}
	}
	assert.True(t, sawLocalCall, "expected c.m() to resolve to C.m via the local's declared type")
}

// S3: `from os.path import join` then a bare call to join() resolves
// through the file's import table, not the project-wide definition index.
func TestPythonImportedCallScenario(t *testing.T) {
	facade := newTestFacade(t)
	src := "from os.path import join\n\ndef f():\n    return join(\"a\", \"b\")\n"

	input := FileInput{FilePath: "f.py", Language: types.LanguagePython, Content: []byte(src)}
	fa, warnings := analyzeFilePhase1(facade, input)
	require.Empty(t, warnings)
	require.Len(t, fa.Imports, 1)
	assert.Equal(t, "join", fa.Imports[0].Name)
	assert.Equal(t, "os.path", fa.Imports[0].ImportPath)

	index := buildGlobalIndex(fa.Definitions)
	rels, err := analyzeFilePhase2(facade, input, index, fa.Imports)
	require.NoError(t, err)

	calls := findRelationship(rels, "CALLS")
	require.Len(t, calls, 1)
	assert.Equal(t, "f", calls[0].Source.FQN)
	assert.Equal(t, "join", calls[0].Target.Name)
	assert.Equal(t, "f.py", calls[0].Target.FilePath)
}

// Duplicate (fqn, primary_file_path) keys are rejected with a warning,
// never silently merged (§4.C.1).
func TestDuplicateDefinitionRejectedWithWarning(t *testing.T) {
	facade := newTestFacade(t)
	src := "class A\n  def b\n  end\n\n  def b\n  end\nend\n"

	fa, warnings := analyzeFilePhase1(facade, FileInput{
		FilePath: "a.rb",
		Language: types.LanguageRuby,
		Content:  []byte(src),
	})
	require.Len(t, warnings, 1)

	var count int
	for _, d := range fa.Definitions {
		if d.FQN == "A::b" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate definition must not be merged into a second row")
}

func TestContainmentUnmappedPairProducesNoEdge(t *testing.T) {
	_, ok := containmentEdge(types.KindField, types.KindMethod)
	assert.False(t, ok)

	edge, ok := containmentEdge(types.KindClass, types.KindMethod)
	require.True(t, ok)
	assert.Equal(t, "CLASS_TO_METHOD", edge)
}

func TestFQNBuildAndSplitRoundTrip(t *testing.T) {
	parts := []types.FQNPart{
		{Name: "pkg", Kind: types.KindModule},
		{Name: "Widget", Kind: types.KindClass},
		{Name: "render", Kind: types.KindMethod},
	}
	fqn := types.BuildFQN(types.LanguagePython, parts)
	assert.Equal(t, "pkg.Widget.render", fqn)

	names := types.SplitFQN(types.LanguagePython, fqn)
	require.Len(t, names, 3)
	assert.Equal(t, []string{"pkg", "Widget", "render"}, names)
}

func TestFQNSplitEscapesPythonDotInName(t *testing.T) {
	parts := []types.FQNPart{
		{Name: "a.b", Kind: types.KindModule},
		{Name: "c", Kind: types.KindFunction},
	}
	fqn := types.BuildFQN(types.LanguagePython, parts)
	names := types.SplitFQN(types.LanguagePython, fqn)
	require.Len(t, names, 2)
	assert.Equal(t, "a.b", names[0])
	assert.Equal(t, "c", names[1])
}

func TestAnalyzeProjectCrossFileCall(t *testing.T) {
	facade := newTestFacade(t)
	files := []FileInput{
		{FilePath: "a.py", Language: types.LanguagePython, Content: []byte("def helper():\n    return 1\n")},
		{FilePath: "b.py", Language: types.LanguagePython, Content: []byte("def main():\n    return helper()\n")},
	}

	proj, warnings, err := AnalyzeProject(context.Background(), facade, files, 2)
	require.NoError(t, err)
	require.Empty(t, warnings)

	calls := findRelationship(proj.Relationships, "CALLS")
	var found bool
	for _, c := range calls {
		if c.Source.FQN == "main" && c.Target.FQN == "helper" {
			found = true
		}
	}
	assert.True(t, found, "expected main -> helper CALLS edge across files")
}
