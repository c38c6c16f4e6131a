package columnar

import (
	"fmt"
	"os"
	pathpkg "path"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/standardbeagle/codegraph/internal/analysis"
	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/graph"
	"github.com/standardbeagle/codegraph/internal/types"
)

// PendingDirectory is a Directory row not yet assigned an id.
type PendingDirectory struct {
	Path           string // project-relative, '/'-separated, no trailing slash
	AbsolutePath   string
	RepositoryName string
	Name           string
}

// PendingFile is a File row not yet assigned an id.
type PendingFile struct {
	Path           string
	AbsolutePath   string
	Language       types.Language
	Extension      string
	Name           string
	RepositoryName string
}

// WriterInput bundles everything one writer run needs: the directory and
// file rows discovered by §4.A, and the analyzer output from §4.C.
// Directory/file containment edges are derived here from path structure;
// every other relationship comes from analysis.ProjectAnalysis.
type WriterInput struct {
	Directories []PendingDirectory
	Files       []PendingFile
	Analysis    analysis.ProjectAnalysis
}

// WriterResult reports what a writer run produced.
type WriterResult struct {
	FilesWritten []string
	NodesWritten int
	EdgesWritten int
}

// Write serialises in to one parquet batch file per node table and one per
// non-empty relationship (from, to) pair under outputDir, per §4.E/§6. The
// output directory is flushed (stale batch files removed) before anything
// is written, so the prior batch set is gone even if this run then fails,
// and a failed run may leave only part of the new batch set behind.
func Write(outputDir string, in WriterInput, idGen *NodeIdGenerator, typeMapping *graph.RelationshipTypeMapping) (WriterResult, error) {
	if err := os.RemoveAll(outputDir); err != nil {
		return WriterResult{}, cgerrors.New(cgerrors.KindIO, "flush output directory", err).WithFile(outputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return WriterResult{}, cgerrors.New(cgerrors.KindIO, "create output directory", err).WithFile(outputDir)
	}

	b := newBuilder(idGen, typeMapping)
	b.addDirectories(in.Directories)
	b.addFiles(in.Files)
	b.addDefinitions(in.Analysis.Definitions)
	b.addImportedSymbols(in.Analysis.Imports)
	b.addDirectoryContainment(in.Directories, in.Files)
	if err := b.addRelationships(in.Analysis.Relationships); err != nil {
		return WriterResult{}, err
	}

	result := WriterResult{}
	writeTable := func(name string, rowType any, rows int, writeFn func(w *writer.ParquetWriter) error) error {
		path := filepath.Join(outputDir, name+".parquet")
		if err := writeParquetFile(path, rowType, writeFn); err != nil {
			return cgerrors.New(cgerrors.KindIO, "write batch file", err).WithFile(path)
		}
		result.FilesWritten = append(result.FilesWritten, path)
		result.NodesWritten += rows
		return nil
	}

	if err := writeTable(string(graph.TableDirectory), new(directoryRow), len(b.directories), func(w *writer.ParquetWriter) error {
		return writeRows(w, b.directories)
	}); err != nil {
		return WriterResult{}, err
	}
	if err := writeTable(string(graph.TableFile), new(fileRow), len(b.files), func(w *writer.ParquetWriter) error {
		return writeRows(w, b.files)
	}); err != nil {
		return WriterResult{}, err
	}
	if err := writeTable(string(graph.TableDefinition), new(definitionRow), len(b.definitions), func(w *writer.ParquetWriter) error {
		return writeRows(w, b.definitions)
	}); err != nil {
		return WriterResult{}, err
	}
	if err := writeTable(string(graph.TableImportedSymbol), new(importedSymbolRow), len(b.importedSymbols), func(w *writer.ParquetWriter) error {
		return writeRows(w, b.importedSymbols)
	}); err != nil {
		return WriterResult{}, err
	}

	relTables := map[graph.RelationshipTable]pairRows{
		graph.TableDirectoryRelationships:  b.directoryRelationships,
		graph.TableFileRelationships:       b.fileRelationships,
		graph.TableDefinitionRelationships: b.definitionRelationships,
	}
	for _, table := range []graph.RelationshipTable{
		graph.TableDirectoryRelationships, graph.TableFileRelationships, graph.TableDefinitionRelationships,
	} {
		for _, ep := range graph.Endpoints(table) {
			rows := relTables[table][ep]
			if len(rows) == 0 {
				continue
			}
			name := RelationshipFileName(table, ep)
			if err := writeTable(name, new(relationshipRow), 0, func(w *writer.ParquetWriter) error {
				return writeRows(w, rows)
			}); err != nil {
				return WriterResult{}, err
			}
			result.EdgesWritten += len(rows)
		}
	}

	return result, nil
}

// RelationshipFileName names the batch file for one relationship table's
// (from, to) pair. A relationship table may join more than one pair of node
// tables (e.g. directory_relationships covers both directory-to-directory
// and directory-to-file containment), and Kuzu's COPY FROM needs a separate
// invocation with explicit from/to options per pair, so each pair gets its
// own file rather than sharing the table's.
func RelationshipFileName(table graph.RelationshipTable, ep graph.Endpoint) string {
	return fmt.Sprintf("%s__%s_to_%s", table, ep.From, ep.To)
}

func writeParquetFile(path string, rowType any, writeFn func(w *writer.ParquetWriter) error) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("open parquet file: %w", err)
	}
	pw, err := writer.NewParquetWriter(fw, rowType, 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	if err := writeFn(pw); err != nil {
		pw.WriteStop()
		fw.Close()
		return err
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return fw.Close()
}

func writeRows[T any](w *writer.ParquetWriter, rows []T) error {
	for i := range rows {
		if err := w.Write(rows[i]); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}

// pairRows groups relationship rows by their (from, to) node table pair
// within a single relationship table.
type pairRows map[graph.Endpoint][]relationshipRow

// builder accumulates rows and resolves analysis logical keys to the ids
// idGen assigns, so relationship rows can be written with real endpoint
// ids in the same pass.
type builder struct {
	idGen *NodeIdGenerator
	types *graph.RelationshipTypeMapping

	directories     []directoryRow
	files           []fileRow
	definitions     []definitionRow
	importedSymbols []importedSymbolRow

	directoryRelationships  pairRows
	fileRelationships       pairRows
	definitionRelationships pairRows

	dirIDs  map[string]types.NodeID
	fileIDs map[string]types.NodeID
	defIDs  map[string]types.NodeID
	impIDs  map[string]types.NodeID
}

func newBuilder(idGen *NodeIdGenerator, tm *graph.RelationshipTypeMapping) *builder {
	return &builder{
		idGen:                   idGen,
		types:                   tm,
		directoryRelationships:  make(pairRows),
		fileRelationships:       make(pairRows),
		definitionRelationships: make(pairRows),
		dirIDs:                  make(map[string]types.NodeID),
		fileIDs:                 make(map[string]types.NodeID),
		defIDs:                  make(map[string]types.NodeID),
		impIDs:                  make(map[string]types.NodeID),
	}
}

func (b *builder) addDirectories(dirs []PendingDirectory) {
	for _, d := range dirs {
		id := b.idGen.Next(graph.TableDirectory)
		b.dirIDs[d.Path] = id
		b.directories = append(b.directories, directoryRow{
			ID:             int64(id),
			Path:           d.Path,
			AbsolutePath:   d.AbsolutePath,
			RepositoryName: d.RepositoryName,
			Name:           d.Name,
		})
	}
}

func (b *builder) addFiles(files []PendingFile) {
	for _, f := range files {
		id := b.idGen.Next(graph.TableFile)
		b.fileIDs[f.Path] = id
		b.files = append(b.files, fileRow{
			ID:             int64(id),
			Path:           f.Path,
			AbsolutePath:   f.AbsolutePath,
			Language:       string(f.Language),
			Extension:      f.Extension,
			Name:           f.Name,
			RepositoryName: f.RepositoryName,
		})
	}
}

func definitionKey(fqn, primaryFilePath string) string {
	return fqn + "\x00" + primaryFilePath
}

func importedSymbolKey(name, declaringFilePath string) string {
	return name + "\x00" + declaringFilePath
}

func (b *builder) addDefinitions(defs []analysis.DefinitionRecord) {
	for _, d := range defs {
		id := b.idGen.Next(graph.TableDefinition)
		b.defIDs[definitionKey(d.FQN, d.PrimaryFilePath)] = id
		b.definitions = append(b.definitions, definitionRow{
			ID:              int64(id),
			FQN:             d.FQN,
			ShortName:       d.ShortName,
			Kind:            string(d.Kind),
			PrimaryFilePath: d.PrimaryFilePath,
			StartByte:       d.Range.StartByte,
			EndByte:         d.Range.EndByte,
			StartLine:       d.Range.StartLine,
			StartCol:        d.Range.StartCol,
			EndLine:         d.Range.EndLine,
			EndCol:          d.Range.EndCol,
		})
	}
}

func (b *builder) addImportedSymbols(imports []analysis.ImportedSymbolRecord) {
	for _, imp := range imports {
		id := b.idGen.Next(graph.TableImportedSymbol)
		b.impIDs[importedSymbolKey(imp.Name, imp.DeclaringFilePath)] = id
		b.importedSymbols = append(b.importedSymbols, importedSymbolRow{
			ID:                int64(id),
			ImportKind:        string(imp.ImportKind),
			ImportPath:        imp.ImportPath,
			Name:              imp.Name,
			Alias:             imp.Alias,
			DeclaringFilePath: imp.DeclaringFilePath,
			StartByte:         imp.Range.StartByte,
			EndByte:           imp.Range.EndByte,
			StartLine:         imp.Range.StartLine,
			StartCol:          imp.Range.StartCol,
			EndLine:           imp.Range.EndLine,
			EndCol:            imp.Range.EndCol,
		})

		// FILE_IMPORTS is mechanically derivable from the import's own
		// declaring file, so the writer synthesizes it directly instead
		// of routing it through an analysis.RelationshipRecord.
		fileID, ok := b.fileIDs[imp.DeclaringFilePath]
		if !ok {
			continue
		}
		typeID, err := b.types.Register(graph.FileImports)
		if err != nil {
			continue
		}
		ep := graph.Endpoint{From: graph.TableFile, To: graph.TableImportedSymbol}
		b.fileRelationships[ep] = append(b.fileRelationships[ep], relationshipRow{
			SourceID: int64(fileID),
			TargetID: int64(id),
			Type:     int32(typeID),
		})
	}
}

// addDirectoryContainment derives DIR_CONTAINS_DIR and DIR_CONTAINS_FILE
// edges from path structure: a directory/file's parent (by path.Dir)
// becomes its container whenever that parent is itself a known
// directory. Project roots (no known parent) simply have no incoming
// containment edge.
func (b *builder) addDirectoryContainment(dirs []PendingDirectory, files []PendingFile) {
	dirTypeID, err := b.types.Register(graph.DirContainsDir)
	if err != nil {
		return
	}
	fileTypeID, err := b.types.Register(graph.DirContainsFile)
	if err != nil {
		return
	}

	dirToDir := graph.Endpoint{From: graph.TableDirectory, To: graph.TableDirectory}
	dirToFile := graph.Endpoint{From: graph.TableDirectory, To: graph.TableFile}

	for _, d := range dirs {
		parent := pathpkg.Dir(d.Path)
		parentID, ok := b.dirIDs[parent]
		if !ok {
			continue
		}
		childID := b.dirIDs[d.Path]
		b.directoryRelationships[dirToDir] = append(b.directoryRelationships[dirToDir], relationshipRow{
			SourceID: int64(parentID),
			TargetID: int64(childID),
			Type:     int32(dirTypeID),
		})
	}
	for _, f := range files {
		parent := pathpkg.Dir(f.Path)
		parentID, ok := b.dirIDs[parent]
		if !ok {
			continue
		}
		childID := b.fileIDs[f.Path]
		b.directoryRelationships[dirToFile] = append(b.directoryRelationships[dirToFile], relationshipRow{
			SourceID: int64(parentID),
			TargetID: int64(childID),
			Type:     int32(fileTypeID),
		})
	}
}

// resolve maps an analysis.EntityKey to its assigned node id and which
// node table it belongs to.
func (b *builder) resolve(key analysis.EntityKey) (types.NodeID, graph.NodeTable, bool) {
	switch key.Table {
	case analysis.TableFile:
		id, ok := b.fileIDs[key.FilePath]
		return id, graph.TableFile, ok
	case analysis.TableDefinition:
		id, ok := b.defIDs[definitionKey(key.FQN, key.FilePath)]
		return id, graph.TableDefinition, ok
	case analysis.TableImportedSymbol:
		id, ok := b.impIDs[importedSymbolKey(key.Name, key.FilePath)]
		return id, graph.TableImportedSymbol, ok
	case analysis.TableDirectory:
		id, ok := b.dirIDs[key.FilePath]
		return id, graph.TableDirectory, ok
	default:
		return 0, "", false
	}
}

// addRelationships resolves every analyzer-emitted relationship's
// logical-key endpoints to ids and files it into whichever of the three
// relationship tables its endpoint kinds belong to. A relationship whose
// endpoint cannot be resolved (the target def/import was never indexed,
// e.g. a dropped ambiguous chain) is skipped, never written half-formed.
func (b *builder) addRelationships(rels []analysis.RelationshipRecord) error {
	for _, r := range rels {
		sourceID, sourceTable, ok := b.resolve(r.Source)
		if !ok {
			continue
		}
		targetID, targetTable, ok := b.resolve(r.Target)
		if !ok {
			continue
		}
		table, ok := graph.RelationshipTableFor(sourceTable, targetTable)
		if !ok {
			continue
		}
		typeID, err := b.types.Register(r.Kind)
		if err != nil {
			return err
		}

		row := relationshipRow{
			SourceID: int64(sourceID),
			TargetID: int64(targetID),
			Type:     int32(typeID),
		}
		if r.SourceRange != nil {
			row.HasSourceRange = true
			row.SourceStartByte = r.SourceRange.StartByte
			row.SourceEndByte = r.SourceRange.EndByte
			row.SourceStartLine = r.SourceRange.StartLine
			row.SourceStartCol = r.SourceRange.StartCol
			row.SourceEndLine = r.SourceRange.EndLine
			row.SourceEndCol = r.SourceRange.EndCol
		}

		ep := graph.Endpoint{From: sourceTable, To: targetTable}
		switch table {
		case graph.TableDirectoryRelationships:
			b.directoryRelationships[ep] = append(b.directoryRelationships[ep], row)
		case graph.TableFileRelationships:
			b.fileRelationships[ep] = append(b.fileRelationships[ep], row)
		case graph.TableDefinitionRelationships:
			b.definitionRelationships[ep] = append(b.definitionRelationships[ep], row)
		}
	}
	return nil
}
