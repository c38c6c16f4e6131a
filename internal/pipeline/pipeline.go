// Package pipeline wires the per-project stages (§4.A file discovery,
// §4.B/§4.C parsing and analysis, §4.E batch writing, §4.F store import,
// §4.G incremental reindex) into the single operation the job dispatcher
// drives: index everything under one workspace folder. It implements
// dispatch.Executor so internal/dispatch never imports this package.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/standardbeagle/codegraph/internal/analysis"
	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/columnar"
	"github.com/standardbeagle/codegraph/internal/config"
	"github.com/standardbeagle/codegraph/internal/diag"
	"github.com/standardbeagle/codegraph/internal/dispatch"
	"github.com/standardbeagle/codegraph/internal/fsdiscovery"
	"github.com/standardbeagle/codegraph/internal/graph"
	"github.com/standardbeagle/codegraph/internal/parserfacade"
	"github.com/standardbeagle/codegraph/internal/reindex"
	"github.com/standardbeagle/codegraph/internal/store"
	"github.com/standardbeagle/codegraph/internal/workspace"
)

// Pipeline indexes every project registered under a workspace folder.
// One Pipeline can be shared by multiple dispatcher workers: all
// per-job state (id generators, type mappings, parser facades) is
// allocated fresh inside indexProject, per §5's "owned by the active
// job, not shared across jobs" rule.
type Pipeline struct {
	manager *workspace.Manager
}

// New builds a Pipeline backed by manager.
func New(manager *workspace.Manager) *Pipeline {
	return &Pipeline{manager: manager}
}

var _ dispatch.Executor = (*Pipeline)(nil)

// IndexWorkspaceFolder registers workspaceFolderPath (discovering or
// refreshing its project list) and indexes every project in it in turn.
// A project-level failure is recorded against that project and does not
// stop the remaining projects (§7's propagation policy); a cancelled
// context aborts the whole workspace job at the next project boundary.
func (p *Pipeline) IndexWorkspaceFolder(ctx context.Context, workspaceFolderPath string, report dispatch.ProgressReporter) ([]string, error) {
	if _, err := p.manager.RegisterWorkspaceFolder(workspaceFolderPath); err != nil {
		return nil, err
	}
	projects, err := p.manager.ListProjectsInWorkspace(workspaceFolderPath)
	if err != nil {
		return nil, err
	}

	var indexed []string
	for _, proj := range projects {
		if err := ctx.Err(); err != nil {
			return indexed, cgerrors.New(cgerrors.KindCancelled, "index workspace folder", err)
		}

		report.ProjectStarted(proj.ProjectPath)
		_ = p.manager.UpdateProjectIndexingStatus(workspaceFolderPath, proj.ProjectPath, workspace.StatusIndexing, "")

		if err := p.indexProject(ctx, proj); err != nil {
			diag.Tracef("pipeline: project %s failed: %v", proj.ProjectPath, err)
			_ = p.manager.UpdateProjectIndexingStatus(workspaceFolderPath, proj.ProjectPath, workspace.StatusError, err.Error())
			report.ProjectFailed(proj.ProjectPath, err)
			continue
		}

		_ = p.manager.UpdateProjectIndexingStatus(workspaceFolderPath, proj.ProjectPath, workspace.StatusIndexed, "")
		report.ProjectCompleted(proj.ProjectPath)
		indexed = append(indexed, proj.ProjectPath)
	}
	return indexed, nil
}

// indexProject runs A through F for one project: scan, analyze, write,
// import. A project with a scan cache left by a prior successful index
// takes the incremental reindex path instead of rebuilding from scratch.
func (p *Pipeline) indexProject(ctx context.Context, proj workspace.ProjectMetadata) error {
	cfg := config.Default(proj.ProjectPath)
	if err := cfg.Validate(); err != nil {
		return cgerrors.New(cgerrors.KindIO, "validate config", err)
	}

	scanner, err := fsdiscovery.NewScanner(proj.ProjectPath, cfg)
	if err != nil {
		return cgerrors.New(cgerrors.KindIO, "create scanner", err)
	}
	scanResult, err := scanner.Scan()
	if err != nil {
		return cgerrors.New(cgerrors.KindIO, "scan project", err)
	}
	records := scanResult.Files
	for _, sk := range scanResult.Skipped {
		diag.Tracef("pipeline: skipped %s: %s", sk.Path, sk.Reason)
	}
	for _, se := range scanResult.Errors {
		diag.Tracef("pipeline: scan error for %s: %s", se.Path, se.Reason)
	}

	facade, err := parserfacade.New()
	if err != nil {
		return cgerrors.New(cgerrors.KindParse, "create parser facade", err)
	}

	files := make([]analysis.FileInput, 0, len(records))
	for _, rec := range records {
		files = append(files, analysis.FileInput{
			FilePath: rec.Path,
			Language: rec.Language,
			Content:  rec.Content,
		})
	}

	result, warnings, err := analysis.AnalyzeProject(ctx, facade, files, cfg.ResolvedWorkerCount())
	for _, w := range warnings {
		diag.Tracef("pipeline: analysis warning for %s: %v", proj.ProjectPath, w)
	}
	if err != nil {
		return err
	}

	cache := newScanCache(proj)
	previous, _ := cache.Load()
	isIncremental := previous != nil

	s, err := store.Open(proj.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	idGen := columnar.NewNodeIdGenerator()
	typeMapping := graph.NewRelationshipTypeMapping()

	if isIncremental {
		changes := fsdiscovery.Diff(previous, records)
		changeSet := reindex.ChangeSet{
			DeletedDirs: fsdiscovery.OrphanedDirectories(previous, records),
		}
		changedPaths := make(map[string]bool, len(changes))
		for _, c := range changes {
			switch c.Kind {
			case fsdiscovery.ChangeAdded, fsdiscovery.ChangeModified:
				changeSet.ChangedFiles = append(changeSet.ChangedFiles, c.Path)
				changedPaths[c.Path] = true
			case fsdiscovery.ChangeRemoved:
				changeSet.DeletedFiles = append(changeSet.DeletedFiles, c.Path)
			}
		}

		// Only the changed files' directories/rows/analysis go into the
		// writer: the store already holds rows for every unchanged file,
		// and re-writing them here would duplicate them (fresh ids, so no
		// primary-key conflict would catch it).
		changedRecords := make([]fsdiscovery.FileRecord, 0, len(changeSet.ChangedFiles))
		for _, rec := range records {
			if changedPaths[rec.Path] {
				changedRecords = append(changedRecords, rec)
			}
		}
		directories, fileRows := batchInputs(changedRecords)

		if _, err := reindex.Run(ctx, s, idGen, typeMapping, reindex.Input{
			Changes:     changeSet,
			BatchDir:    proj.BatchFilesDirectory,
			Directories: directories,
			Files:       fileRows,
			Analysis:    filterAnalysisToChanged(result, changedPaths),
		}); err != nil {
			return err
		}
	} else {
		directories, fileRows := batchInputs(records)
		writerResult, err := columnar.Write(proj.BatchFilesDirectory, columnar.WriterInput{
			Directories: directories,
			Files:       fileRows,
			Analysis:    result,
		}, idGen, typeMapping)
		if err != nil {
			return err
		}
		if err := s.Import(ctx, proj.BatchFilesDirectory, store.FullBuild); err != nil {
			return err
		}
		diag.Tracef("pipeline: full build for %s wrote %d nodes, %d edges", proj.ProjectPath, writerResult.NodesWritten, writerResult.EdgesWritten)
	}

	return cache.Save(fsdiscovery.HashesByPath(records))
}

// batchInputs derives PendingDirectory/PendingFile rows from the file
// records a scan produced: every distinct parent directory becomes a
// directory row, and every file becomes a file row.
func batchInputs(records []fsdiscovery.FileRecord) ([]columnar.PendingDirectory, []columnar.PendingFile) {
	seen := make(map[string]bool)
	var dirs []columnar.PendingDirectory
	var files []columnar.PendingFile

	for _, rec := range records {
		dir := filepath.ToSlash(filepath.Dir(rec.Path))
		absDir := filepath.Dir(rec.AbsPath)
		for dir != "." && dir != "/" && dir != "" && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, columnar.PendingDirectory{
				Path:         dir,
				AbsolutePath: absDir,
				Name:         filepath.Base(dir),
			})
			dir = filepath.ToSlash(filepath.Dir(dir))
			absDir = filepath.Dir(absDir)
		}
		files = append(files, columnar.PendingFile{
			Path:         rec.Path,
			AbsolutePath: rec.AbsPath,
			Language:     rec.Language,
			Extension:    filepath.Ext(rec.Path),
			Name:         filepath.Base(rec.Path),
		})
	}
	return dirs, files
}

// filterAnalysisToChanged keeps only the definitions, imports, and
// relationships that belong to a changed file, so an incremental reindex
// writes rows for the changed files once instead of appending the whole
// project's analysis on top of what the store already has. Ownership of
// a relationship is its source file's, matching FILE_DEFINES direction.
func filterAnalysisToChanged(result analysis.ProjectAnalysis, changed map[string]bool) analysis.ProjectAnalysis {
	var out analysis.ProjectAnalysis
	for _, d := range result.Definitions {
		if changed[d.PrimaryFilePath] {
			out.Definitions = append(out.Definitions, d)
		}
	}
	for _, imp := range result.Imports {
		if changed[imp.DeclaringFilePath] {
			out.Imports = append(out.Imports, imp)
		}
	}
	for _, rel := range result.Relationships {
		if changed[rel.Source.FilePath] {
			out.Relationships = append(out.Relationships, rel)
		}
	}
	return out
}
