package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/parserfacade"
)

// AnalyzeProject runs both phases over a whole project: phase one over
// every file (in parallel, bounded by workers), then phase two over
// every file again against the global index phase one produced. Phase
// two cannot start on any file until phase one has finished for all of
// them, since a call in file A may target a definition in file B.
//
// Warnings collected during phase one (duplicate definitions) are
// returned alongside the result rather than aborting the run.
func AnalyzeProject(ctx context.Context, facade *parserfacade.Facade, files []FileInput, workers int) (ProjectAnalysis, []error, error) {
	if workers < 1 {
		workers = 1
	}

	type fileResult struct {
		analysis FileAnalysis
		warnings []error
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fa, warnings := analyzeFilePhase1(facade, f)
			results[i] = fileResult{analysis: fa, warnings: warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ProjectAnalysis{}, nil, cgerrors.New(cgerrors.KindAnalyze, "phase one", err)
	}

	var proj ProjectAnalysis
	var warnings []error
	importsByFile := make(map[string][]ImportedSymbolRecord, len(files))
	for _, r := range results {
		proj.Definitions = append(proj.Definitions, r.analysis.Definitions...)
		proj.Imports = append(proj.Imports, r.analysis.Imports...)
		proj.Relationships = append(proj.Relationships, r.analysis.Relationships...)
		importsByFile[r.analysis.FilePath] = r.analysis.Imports
		warnings = append(warnings, r.warnings...)
	}

	index := buildGlobalIndex(proj.Definitions)

	phase2Results := make([][]RelationshipRecord, len(files))
	g2, gctx2 := errgroup.WithContext(ctx)
	g2.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g2.Go(func() error {
			if err := gctx2.Err(); err != nil {
				return err
			}
			rels, err := analyzeFilePhase2(facade, f, index, importsByFile[f.FilePath])
			if err != nil {
				return err
			}
			phase2Results[i] = rels
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return ProjectAnalysis{}, warnings, cgerrors.New(cgerrors.KindAnalyze, "phase two", err)
	}
	for _, rels := range phase2Results {
		proj.Relationships = append(proj.Relationships, rels...)
	}

	return proj, warnings, nil
}
