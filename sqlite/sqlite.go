// Package sqlite provides SQLite-based storage implementations for techdoc services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/techdoc"
	"github.com/ncruces/go-sqlite3"
	"github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DistanceFunc is the SQL function that returns the L2 distance between two
// embedding blobs.
const DistanceFunc = "vec_distance_l2"

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := driver.Open(db.path, initConn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := db.migrate(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// initConn prepares every new connection: lock timeout, foreign keys and
// the distance function used by vector search.
func initConn(c *sqlite3.Conn) error {
	// Wait 5 seconds before failing on lock contention.
	if err := c.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	// Embeddings cascade with their document.
	if err := c.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return c.CreateFunction(DistanceFunc, 2, sqlite3.DETERMINISTIC|sqlite3.INNOCUOUS, distance)
}

// distance implements vec_distance_l2 over little-endian float32 blobs.
func distance(ctx sqlite3.Context, arg ...sqlite3.Value) {
	if arg[0].Type() == sqlite3.NULL || arg[1].Type() == sqlite3.NULL {
		ctx.ResultNull()
		return
	}
	a, err := techdoc.DecodeVector(arg[0].RawBlob())
	if err != nil {
		ctx.ResultError(err)
		return
	}
	b, err := techdoc.DecodeVector(arg[1].RawBlob())
	if err != nil {
		ctx.ResultError(err)
		return
	}
	d, err := techdoc.L2Distance(a, b)
	if err != nil {
		ctx.ResultError(err)
		return
	}
	ctx.ResultFloat(d)
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT UNIQUE,
			url TEXT,
			text TEXT,
			category TEXT,
			content_hash TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS doc_embeddings (
			doc_id INTEGER PRIMARY KEY REFERENCES documents(id) ON DELETE CASCADE,
			embedding BLOB NOT NULL,
			model TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
	`

	_, err := db.db.Exec(schema)
	return err
}

// migrate adds columns introduced after the first schema version to
// databases created before them.
func (db *DB) migrate() error {
	columns, err := db.columns("documents")
	if err != nil {
		return err
	}
	if !columns["url"] {
		if _, err := db.db.Exec("ALTER TABLE documents ADD COLUMN url TEXT"); err != nil {
			return fmt.Errorf("failed to add url column: %w", err)
		}
	}
	if !columns["content_hash"] {
		if _, err := db.db.Exec("ALTER TABLE documents ADD COLUMN content_hash TEXT NOT NULL DEFAULT ''"); err != nil {
			return fmt.Errorf("failed to add content_hash column: %w", err)
		}
	}

	columns, err = db.columns("doc_embeddings")
	if err != nil {
		return err
	}
	if !columns["model"] {
		if _, err := db.db.Exec("ALTER TABLE doc_embeddings ADD COLUMN model TEXT NOT NULL DEFAULT ''"); err != nil {
			return fmt.Errorf("failed to add model column: %w", err)
		}
	}
	return nil
}

// columns returns the set of column names of table.
func (db *DB) columns(table string) (map[string]bool, error) {
	rows, err := db.db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
