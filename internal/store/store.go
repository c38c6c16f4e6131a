// Package store adapts the graph tables §3/§4.D define onto an embedded
// KuzuDB database: schema creation, bulk batch-file loading, targeted
// deletes, aggregates, and a generic query entry point (§4.F).
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/standardbeagle/codegraph/internal/cgerrors"
	"github.com/standardbeagle/codegraph/internal/columnar"
	"github.com/standardbeagle/codegraph/internal/graph"
)

// ImportMode distinguishes a from-scratch load from one that assumes the
// store already holds surviving rows (§4.F, §4.G).
type ImportMode int

const (
	// FullBuild assumes the store is empty.
	FullBuild ImportMode = iota
	// Reindex assumes the caller has already deleted the rows that changed
	// or were removed, via DeleteBy, before calling Import.
	Reindex
)

// Store is a KuzuDB-backed graph store. It requires cgo: the go-kuzu
// driver wraps KuzuDB's C++ library.
type Store struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Open opens (creating if absent) a file-backed KuzuDB database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, cgerrors.New(cgerrors.KindIO, "create database parent directory", err).WithFile(dbPath)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, cgerrors.New(cgerrors.KindStore, "open database", err).WithFile(dbPath)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, cgerrors.New(cgerrors.KindStore, "open connection", err).WithFile(dbPath)
	}
	return &Store{db: db, conn: conn}, nil
}

// OpenInMemory opens a transient in-memory database, for tests and one-shot
// verification runs.
func OpenInMemory() (*Store, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, cgerrors.New(cgerrors.KindStore, "open in-memory database", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, cgerrors.New(cgerrors.KindStore, "open connection", err)
	}
	return &Store{db: db, conn: conn}, nil
}

// Close releases the connection and database.
func (s *Store) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// EnsureSchema idempotently creates the four node tables and three
// relationship tables. Safe to call on every run, including against an
// already-populated store.
func (s *Store) EnsureSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		if err := s.exec(stmt, nil); err != nil {
			return cgerrors.New(cgerrors.KindStore, "ensure schema", err)
		}
	}
	return nil
}

// Import bulk-loads a batch directory written by internal/columnar. Node
// tables load unconditionally; relationship files load per (from, to)
// endpoint pair, since Kuzu's COPY FROM needs from/to options to resolve
// which node table a pair's row ids name. A batch file absent from
// batchDir (no rows of that pair were produced) is simply skipped.
//
// mode does not change the SQL issued: FullBuild expects an empty store,
// Reindex expects the caller already ran DeleteBy for changed/deleted
// files, directories, and definitions before calling Import (§4.G).
// Either way Import itself just appends whatever batch files it finds.
func (s *Store) Import(_ context.Context, batchDir string, mode ImportMode) error {
	_ = mode // see doc comment: mode only governs caller-side pre-deletion

	for _, table := range nodeTableNames {
		path := filepath.Join(batchDir, string(table)+".parquet")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cypher := fmt.Sprintf("COPY %s FROM '%s' (FORMAT 'parquet')", table, path)
		if err := s.exec(cypher, nil); err != nil {
			return cgerrors.New(cgerrors.KindStore, "import node table", err).WithFile(path)
		}
	}

	for _, table := range relationshipTableNames {
		for _, ep := range graph.Endpoints(table) {
			name := columnar.RelationshipFileName(table, ep)
			path := filepath.Join(batchDir, name+".parquet")
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cypher := fmt.Sprintf("COPY %s FROM '%s' (from='%s', to='%s')", table, path, ep.From, ep.To)
			if err := s.exec(cypher, nil); err != nil {
				return cgerrors.New(cgerrors.KindStore, "import relationship table", err).WithFile(path)
			}
		}
	}
	return nil
}

// DeleteBy detach-deletes every row of table whose column is in values.
// DETACH DELETE cascades to incident edges, so callers never need a
// separate edge-cleanup pass.
func (s *Store) DeleteBy(_ context.Context, table graph.NodeTable, column string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cypher := fmt.Sprintf("MATCH (n:%s) WHERE n.%s IN [%s] DETACH DELETE n",
		table, column, quotedList(values))
	if err := s.exec(cypher, nil); err != nil {
		return cgerrors.New(cgerrors.KindStore, "delete by "+column, err)
	}
	return nil
}

// Aggregate runs aggFn(column) over every row of table, e.g. "max"/"id" to
// find the current high-water mark a reindex run should seed
// columnar.NodeIdGenerator from. Returns 0, false if the table is empty.
func (s *Store) Aggregate(_ context.Context, table graph.NodeTable, aggFn, column string) (uint32, bool, error) {
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN %s(n.%s)", table, aggFn, column)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, false, cgerrors.New(cgerrors.KindStore, "aggregate", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == nil {
		return 0, false, nil
	}
	return uint32(toInt(rows[0][0])), true, nil
}

// Execute runs a parameterized Cypher statement and returns its rows, for
// the downstream MCP/HTTP query layer (§4.F, §6). Each row is a []any in
// column order, KuzuDB's native typed values.
func (s *Store) Execute(_ context.Context, cypher string, params map[string]any) ([][]any, error) {
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, cgerrors.New(cgerrors.KindStore, "execute", err)
	}
	return rows, nil
}

// WithTx opens a dedicated connection scoped to f's lifetime so several
// operations share one KuzuDB transaction context, mirroring the
// supplemented transaction/new_with_transaction split (SPEC_FULL.md §12).
// The default Store methods above each use the shared connection directly
// and need no transaction awareness; WithTx is for callers that want
// several statements to commit or fail together.
func (s *Store) WithTx(f func(tx *Store) error) error {
	conn, err := kuzu.OpenConnection(s.db)
	if err != nil {
		return cgerrors.New(cgerrors.KindStore, "open transaction connection", err)
	}
	defer conn.Close()
	tx := &Store{db: s.db, conn: conn}
	if err := tx.exec("BEGIN TRANSACTION", nil); err != nil {
		return cgerrors.New(cgerrors.KindStore, "begin transaction", err)
	}
	if err := f(tx); err != nil {
		_ = tx.exec("ROLLBACK", nil)
		return err
	}
	if err := tx.exec("COMMIT", nil); err != nil {
		return cgerrors.New(cgerrors.KindStore, "commit transaction", err)
	}
	return nil
}

// exec runs a Cypher statement that produces no result rows.
func (s *Store) exec(cypher string, params map[string]any) error {
	if len(params) == 0 {
		res, err := s.conn.Query(cypher)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		res.Close()
		return nil
	}
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a Cypher statement and collects all result rows.
func (s *Store) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error
	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}
