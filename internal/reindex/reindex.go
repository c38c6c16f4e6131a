// Package reindex implements the incremental reindex protocol (§4.G):
// seed id generation from the store's current high-water marks, delete the
// rows a change set invalidates, then append the freshly analysed graph
// data for the changed files.
package reindex

import (
	"context"

	"github.com/standardbeagle/codegraph/internal/analysis"
	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/columnar"
	"github.com/standardbeagle/codegraph/internal/graph"
	"github.com/standardbeagle/codegraph/internal/store"
)

// ChangeSet is the output of §4.A's change detector: which files changed
// (modified or added), which files were removed, and which directories
// disappeared entirely.
type ChangeSet struct {
	ChangedFiles []string
	DeletedFiles []string
	DeletedDirs  []string
}

// Input bundles a ChangeSet with the freshly analysed graph data for the
// changed files, ready for the writer.
type Input struct {
	Changes     ChangeSet
	BatchDir    string
	Directories []columnar.PendingDirectory
	Files       []columnar.PendingFile
	Analysis    analysis.ProjectAnalysis
}

var seedTables = []graph.NodeTable{
	graph.TableDirectory,
	graph.TableFile,
	graph.TableDefinition,
	graph.TableImportedSymbol,
}

// Run executes the five-step protocol against an already schema-ensured
// store. idGen and typeMapping are the same instances a full build would
// use; Run seeds and reuses them rather than owning its own.
//
// Step 3 of the protocol ("clear the writer's id-mapping caches") needs no
// explicit action here: columnar.Write builds a fresh builder — and so a
// fresh set of path/key-to-id caches — on every call, so there is nothing
// left over from a prior run to clear.
func Run(ctx context.Context, s *store.Store, idGen *columnar.NodeIdGenerator, typeMapping *graph.RelationshipTypeMapping, in Input) (columnar.WriterResult, error) {
	// 1. Seed the id generator from the store's current max id per table.
	for _, table := range seedTables {
		max, ok, err := s.Aggregate(ctx, table, "max", "id")
		if err != nil {
			return columnar.WriterResult{}, cgerrors.New(cgerrors.KindStore, "seed id generator", err)
		}
		if ok {
			idGen.Seed(table, max)
		}
	}

	// 2. Delete the rows this change set invalidates. Cascading edge
	// deletion is the store's responsibility (DETACH DELETE).
	changedOrDeleted := union(in.Changes.ChangedFiles, in.Changes.DeletedFiles)
	if err := s.DeleteBy(ctx, graph.TableDefinition, "primary_file_path", changedOrDeleted); err != nil {
		return columnar.WriterResult{}, cgerrors.New(cgerrors.KindStore, "delete stale definitions", err)
	}
	if err := s.DeleteBy(ctx, graph.TableFile, "path", changedOrDeleted); err != nil {
		return columnar.WriterResult{}, cgerrors.New(cgerrors.KindStore, "delete stale files", err)
	}
	if err := s.DeleteBy(ctx, graph.TableDirectory, "path", in.Changes.DeletedDirs); err != nil {
		return columnar.WriterResult{}, cgerrors.New(cgerrors.KindStore, "delete stale directories", err)
	}

	// 3. (no-op, see doc comment above)

	// 4. Run the writer on the new graph data.
	result, err := columnar.Write(in.BatchDir, columnar.WriterInput{
		Directories: in.Directories,
		Files:       in.Files,
		Analysis:    in.Analysis,
	}, idGen, typeMapping)
	if err != nil {
		return columnar.WriterResult{}, err
	}

	// 5. Import the new batch in Reindex mode.
	if err := s.Import(ctx, in.BatchDir, store.Reindex); err != nil {
		return columnar.WriterResult{}, cgerrors.New(cgerrors.KindStore, "import reindex batch", err)
	}
	return result, nil
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
