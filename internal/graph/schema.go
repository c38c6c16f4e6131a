package graph

import (
	"github.com/standardbeagle/codegraph/internal/types"
)

// NodeTable names one of the four node tables §3 defines.
type NodeTable string

const (
	TableDirectory      NodeTable = "directories"
	TableFile           NodeTable = "files"
	TableDefinition     NodeTable = "definitions"
	TableImportedSymbol NodeTable = "imported_symbols"
)

// RelationshipTable names one of the three endpoint-pair-partitioned
// relationship tables §3 defines. Every relationship row lives in
// exactly one of these three tables depending on its endpoint kinds.
type RelationshipTable string

const (
	TableDirectoryRelationships  RelationshipTable = "directory_relationships"
	TableFileRelationships       RelationshipTable = "file_relationships"
	TableDefinitionRelationships RelationshipTable = "definition_relationships"
)

// Endpoint pairs a (from, to) NodeTable combination the edge may connect.
type Endpoint struct {
	From NodeTable
	To   NodeTable
}

// allowedEndpoints enumerates, per relationship table, which endpoint
// pairs are legal, per §3's "Allowed (from, to) pairs" column.
var allowedEndpoints = map[RelationshipTable][]Endpoint{
	TableDirectoryRelationships: {
		{From: TableDirectory, To: TableDirectory},
		{From: TableDirectory, To: TableFile},
	},
	TableFileRelationships: {
		{From: TableFile, To: TableDefinition},
		{From: TableFile, To: TableImportedSymbol},
	},
	TableDefinitionRelationships: {
		{From: TableDefinition, To: TableDefinition},
		{From: TableDefinition, To: TableImportedSymbol},
		{From: TableImportedSymbol, To: TableDefinition},
		{From: TableImportedSymbol, To: TableFile},
		{From: TableImportedSymbol, To: TableImportedSymbol},
	},
}

// RelationshipTableFor returns which of the three tables an edge between
// the given node tables belongs in, and whether that pair is legal at
// all (an unlisted pair is a schema violation, not a valid edge).
func RelationshipTableFor(from, to NodeTable) (RelationshipTable, bool) {
	for table, pairs := range allowedEndpoints {
		for _, p := range pairs {
			if p.From == from && p.To == to {
				return table, true
			}
		}
	}
	return "", false
}

// Endpoints returns the legal (from, to) pairs for a relationship table, in
// the order they were declared. Kuzu's bulk loader needs one COPY FROM per
// pair (its "from"/"to" options disambiguate which node table a row's ids
// belong to), so callers that bulk-load or enumerate a table's rows by pair
// use this instead of allowedEndpoints directly.
func Endpoints(table RelationshipTable) []Endpoint {
	return allowedEndpoints[table]
}

// DirectoryNode is one Directory row (§3).
type DirectoryNode struct {
	ID             types.NodeID
	Path           string // project-relative, '/'-separated, no trailing slash
	AbsolutePath   string // platform-native
	RepositoryName string
	Name           string
}

// FileNode is one File row (§3).
type FileNode struct {
	ID             types.NodeID
	Path           string
	AbsolutePath   string
	Language       types.Language
	Extension      string
	Name           string
	RepositoryName string
}

// DefinitionNode is one Definition row (§3). A definition with multiple
// declaration sites (e.g. a reopened Ruby class) becomes multiple
// DefinitionNode rows sharing an FQN but differing PrimaryFilePath.
type DefinitionNode struct {
	ID              types.NodeID
	FQN             string
	ShortName       string
	Kind            types.DefinitionKind
	PrimaryFilePath string
	Range           types.Range
}

// ImportedSymbolNode is one ImportedSymbol row (§3).
type ImportedSymbolNode struct {
	ID                types.NodeID
	ImportKind        types.ImportKind
	ImportPath        string
	Name              string
	Alias             string
	DeclaringFilePath string
	Range             types.Range
}

// Relationship is one row of whichever RelationshipTable its endpoints
// resolve to: a one-byte type discriminator plus resolved endpoint node
// IDs and, for reference edges, the call-site source range.
type Relationship struct {
	SourceID    types.NodeID
	TargetID    types.NodeID
	Type        uint8
	SourceRange *types.Range
}
