package reindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codegraph/internal/analysis"
	"github.com/standardbeagle/codegraph/internal/columnar"
	"github.com/standardbeagle/codegraph/internal/graph"
	"github.com/standardbeagle/codegraph/internal/store"
	"github.com/standardbeagle/codegraph/internal/types"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping KuzuDB-backed reindex test in short mode")
	}
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunReplacesChangedFileWithoutDuplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	idGen := columnar.NewNodeIdGenerator()
	tm := graph.NewRelationshipTypeMapping()

	initialDir := t.TempDir()
	_, err := columnar.Write(initialDir, columnar.WriterInput{
		Files: []columnar.PendingFile{
			{Path: "a.py", AbsolutePath: "/repo/a.py", Language: types.LanguagePython, Extension: ".py", Name: "a.py"},
		},
		Analysis: analysis.ProjectAnalysis{
			Definitions: []analysis.DefinitionRecord{
				{FQN: "old_fn", ShortName: "old_fn", Kind: types.KindFunction, PrimaryFilePath: "a.py"},
			},
		},
	}, idGen, tm)
	require.NoError(t, err)
	require.NoError(t, s.Import(ctx, initialDir, store.FullBuild))

	reindexIdGen := columnar.NewNodeIdGenerator()
	in := Input{
		Changes:  ChangeSet{ChangedFiles: []string{"a.py"}},
		BatchDir: t.TempDir(),
		Files: []columnar.PendingFile{
			{Path: "a.py", AbsolutePath: "/repo/a.py", Language: types.LanguagePython, Extension: ".py", Name: "a.py"},
		},
		Analysis: analysis.ProjectAnalysis{
			Definitions: []analysis.DefinitionRecord{
				{FQN: "new_fn", ShortName: "new_fn", Kind: types.KindFunction, PrimaryFilePath: "a.py"},
			},
		},
	}
	_, err = Run(ctx, s, reindexIdGen, tm, in)
	require.NoError(t, err)

	rows, err := s.Execute(ctx, "MATCH (d:definitions) RETURN d.fqn", nil)
	require.NoError(t, err)
	var fqns []string
	for _, r := range rows {
		fqns = append(fqns, r[0].(string))
	}
	assert.ElementsMatch(t, []string{"new_fn"}, fqns)
}

func TestRunSeedsIdGeneratorPastExistingRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureSchema(ctx))

	idGen := columnar.NewNodeIdGenerator()
	tm := graph.NewRelationshipTypeMapping()
	dir := t.TempDir()
	_, err := columnar.Write(dir, columnar.WriterInput{
		Files: []columnar.PendingFile{
			{Path: "a.py", AbsolutePath: "/repo/a.py", Language: types.LanguagePython, Extension: ".py", Name: "a.py"},
		},
	}, idGen, tm)
	require.NoError(t, err)
	require.NoError(t, s.Import(ctx, dir, store.FullBuild))

	reindexIdGen := columnar.NewNodeIdGenerator()
	_, err = Run(ctx, s, reindexIdGen, tm, Input{BatchDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, types.NodeID(2), reindexIdGen.Next(graph.TableFile))
}

func TestUnionDeduplicates(t *testing.T) {
	got := union([]string{"a", "b"}, []string{"b", "c"})
	assert.ElementsMatch(t, []string{"a", "b", "c"}, got)
}
