// Package analysis implements the two-phase per-language semantic
// analyzer: phase one builds a global definition index from parsed
// files, phase two walks call/property expressions and resolves them
// against that index and each file's imports. It is the heart of the
// pipeline (see SPEC_FULL.md §4.C) and the largest package in this
// module, the way internal/parser and internal/symbollinker together are
// the largest packages in the teacher.
package analysis

import "github.com/standardbeagle/codegraph/internal/types"

// EntityTable names which node table an EntityKey points into. Writers
// resolve these logical keys to integer node IDs; analyzers never see an
// ID themselves (see SPEC_FULL.md §9, "Graph references").
type EntityTable string

const (
	TableDirectory      EntityTable = "directory"
	TableFile           EntityTable = "file"
	TableDefinition     EntityTable = "definition"
	TableImportedSymbol EntityTable = "imported_symbol"
)

// EntityKey is the logical identity of a node before ID assignment: for a
// Definition, (fqn, primary_file_path); for a File or Directory, just the
// path; for an ImportedSymbol, (name, declaring_file_path).
type EntityKey struct {
	Table    EntityTable
	FQN      string
	Name     string
	FilePath string
}

// DefinitionRecord is one Definition row, still addressed by logical key
// rather than integer ID.
type DefinitionRecord struct {
	FQN             string
	ShortName       string
	Kind            types.DefinitionKind
	PrimaryFilePath string
	Range           types.Range
}

func (d DefinitionRecord) Key() EntityKey {
	return EntityKey{Table: TableDefinition, FQN: d.FQN, FilePath: d.PrimaryFilePath}
}

// ImportedSymbolRecord is one ImportedSymbol row.
type ImportedSymbolRecord struct {
	ImportKind        types.ImportKind
	ImportPath        string
	Name              string
	Alias             string
	DeclaringFilePath string
	Range             types.Range
}

func (s ImportedSymbolRecord) Key() EntityKey {
	return EntityKey{Table: TableImportedSymbol, Name: s.Name, FilePath: s.DeclaringFilePath}
}

// RelationshipRecord is a consolidated edge addressed by logical key,
// carrying an optional call-site range for CALLS/AMBIGUOUSLY_CALLS/
// PROPERTY_REFERENCE edges.
type RelationshipRecord struct {
	Kind        string
	Source      EntityKey
	Target      EntityKey
	SourceRange *types.Range
}

// FileAnalysis is the per-file output of phase one: the definitions and
// imports found in that file, plus the FILE_DEFINES and containment
// edges phase one can compute without looking outside the file.
type FileAnalysis struct {
	FilePath       string
	Language       types.Language
	Definitions    []DefinitionRecord
	Imports        []ImportedSymbolRecord
	Relationships  []RelationshipRecord
}

// ProjectAnalysis is the full output of both phases across every file in
// a project, ready for the writer (internal/columnar) to assign IDs.
type ProjectAnalysis struct {
	Definitions   []DefinitionRecord
	Imports       []ImportedSymbolRecord
	Relationships []RelationshipRecord
}
