package store

import "github.com/standardbeagle/codegraph/internal/graph"

// ddlStatements creates the four node tables and three relationship tables
// from §3/§4.D, in dependency order: node tables before the relationship
// tables that reference them. Column names match the batch file schema in
// internal/columnar/rows.go so COPY FROM can load a parquet file straight
// into its table without a projection.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS ` + string(graph.TableDirectory) + `(
		id INT64,
		path STRING,
		absolute_path STRING,
		repository_name STRING,
		name STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS ` + string(graph.TableFile) + `(
		id INT64,
		path STRING,
		absolute_path STRING,
		language STRING,
		extension STRING,
		name STRING,
		repository_name STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS ` + string(graph.TableDefinition) + `(
		id INT64,
		fqn STRING,
		short_name STRING,
		kind STRING,
		primary_file_path STRING,
		start_byte INT64,
		end_byte INT64,
		start_line INT32,
		start_col INT32,
		end_line INT32,
		end_col INT32,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS ` + string(graph.TableImportedSymbol) + `(
		id INT64,
		import_kind STRING,
		import_path STRING,
		name STRING,
		alias STRING,
		declaring_file_path STRING,
		start_byte INT64,
		end_byte INT64,
		start_line INT32,
		start_col INT32,
		end_line INT32,
		end_col INT32,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS ` + string(graph.TableDirectoryRelationships) + `(
		FROM ` + string(graph.TableDirectory) + ` TO ` + string(graph.TableDirectory) + `,
		FROM ` + string(graph.TableDirectory) + ` TO ` + string(graph.TableFile) + `,
		type INT32,
		source_start_byte INT64,
		source_end_byte INT64,
		source_start_line INT32,
		source_end_line INT32,
		source_start_col INT32,
		source_end_col INT32,
		has_source_range BOOLEAN
	)`,
	`CREATE REL TABLE IF NOT EXISTS ` + string(graph.TableFileRelationships) + `(
		FROM ` + string(graph.TableFile) + ` TO ` + string(graph.TableDefinition) + `,
		FROM ` + string(graph.TableFile) + ` TO ` + string(graph.TableImportedSymbol) + `,
		type INT32,
		source_start_byte INT64,
		source_end_byte INT64,
		source_start_line INT32,
		source_end_line INT32,
		source_start_col INT32,
		source_end_col INT32,
		has_source_range BOOLEAN
	)`,
	`CREATE REL TABLE IF NOT EXISTS ` + string(graph.TableDefinitionRelationships) + `(
		FROM ` + string(graph.TableDefinition) + ` TO ` + string(graph.TableDefinition) + `,
		FROM ` + string(graph.TableDefinition) + ` TO ` + string(graph.TableImportedSymbol) + `,
		FROM ` + string(graph.TableImportedSymbol) + ` TO ` + string(graph.TableDefinition) + `,
		FROM ` + string(graph.TableImportedSymbol) + ` TO ` + string(graph.TableFile) + `,
		FROM ` + string(graph.TableImportedSymbol) + ` TO ` + string(graph.TableImportedSymbol) + `,
		type INT32,
		source_start_byte INT64,
		source_end_byte INT64,
		source_start_line INT32,
		source_end_line INT32,
		source_start_col INT32,
		source_end_col INT32,
		has_source_range BOOLEAN
	)`,
}

var nodeTableNames = []graph.NodeTable{
	graph.TableDirectory,
	graph.TableFile,
	graph.TableDefinition,
	graph.TableImportedSymbol,
}

var relationshipTableNames = []graph.RelationshipTable{
	graph.TableDirectoryRelationships,
	graph.TableFileRelationships,
	graph.TableDefinitionRelationships,
}
