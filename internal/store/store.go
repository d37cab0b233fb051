package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Store not created yet
// 1 - records table, store_indexes catalog and declared indexes
const currentSchemaVersion = 1

// Store provides durable storage for records of type T.
// Uses SQLite with WAL mode for concurrent read access.
type Store[T any] struct {
	db      *sql.DB
	path    string
	indexes []IndexSpec
	byName  map[string]IndexSpec
}

// Open creates or opens the store held in the SQLite database at path.
//
// Index declarations are applied only when the database is created. On an
// existing store they are ignored and the indexes recorded at creation time
// stay in effect.
//
// Any failure is reported as an ErrCodeStoreOpen error.
func Open[T any](ctx context.Context, path string, indexes ...IndexSpec) (*Store[T], error) {
	if err := validateIndexes(indexes); err != nil {
		return nil, newError(ErrCodeStoreOpen, "open", err)
	}

	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, newError(ErrCodeStoreOpen, "open", fmt.Errorf("failed to open database: %w", err))
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, newError(ErrCodeStoreOpen, "open", fmt.Errorf("failed to connect to database: %w", err))
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, newError(ErrCodeStoreOpen, "open", fmt.Errorf("failed to apply pragmas: %w", err))
	}

	catalog, err := applySchema(ctx, db, indexes)
	if err != nil {
		db.Close()
		return nil, newError(ErrCodeStoreOpen, "open", fmt.Errorf("failed to apply schema: %w", err))
	}

	s := &Store[T]{
		db:      db,
		path:    path,
		indexes: catalog,
		byName:  make(map[string]IndexSpec, len(catalog)),
	}
	for _, spec := range catalog {
		s.byName[spec.Name] = spec
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store[T]) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database path the store was opened with.
func (s *Store[T]) Path() string {
	return s.path
}

// Indexes returns the indexes in effect, in declaration order.
func (s *Store[T]) Indexes() []IndexSpec {
	out := make([]IndexSpec, len(s.indexes))
	copy(out, s.indexes)
	return out
}

// HasIndex reports whether an index with the given name is in effect.
func (s *Store[T]) HasIndex(name string) bool {
	_, ok := s.byName[name]
	return ok
}

func (s *Store[T]) index(op, name string) (IndexSpec, error) {
	spec, ok := s.byName[name]
	if !ok {
		return IndexSpec{}, indexError(ErrCodeUnknownIndex, op, name, nil)
	}
	return spec, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the collection on first open and loads the index
// catalog. Declarations are only used when the store is being created.
func applySchema(ctx context.Context, db *sql.DB, declared []IndexSpec) ([]IndexSpec, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var version int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := createSchema(ctx, tx, declared); err != nil {
			return nil, err
		}
	}

	catalog, err := loadCatalog(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit schema: %w", err)
	}
	return catalog, nil
}

func createSchema(ctx context.Context, tx *sql.Tx, declared []IndexSpec) error {
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	for i, spec := range declared {
		unique := ""
		if spec.Unique {
			unique = "UNIQUE "
		}
		stmt := fmt.Sprintf(
			"CREATE %sINDEX IF NOT EXISTS %s ON records(%s)",
			unique, spec.physicalName(), spec.expr(),
		)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index %q: %w", spec.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO store_indexes (name, source_field, is_unique, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO NOTHING
		`, spec.Name, spec.Field, spec.Unique, i); err != nil {
			return fmt.Errorf("record index %q: %w", spec.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func loadCatalog(ctx context.Context, tx *sql.Tx) ([]IndexSpec, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT name, source_field, is_unique
		FROM store_indexes
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query index catalog: %w", err)
	}
	defer rows.Close()

	catalog := []IndexSpec{}
	for rows.Next() {
		var spec IndexSpec
		if err := rows.Scan(&spec.Name, &spec.Field, &spec.Unique); err != nil {
			return nil, fmt.Errorf("scan index catalog: %w", err)
		}
		catalog = append(catalog, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index catalog: %w", err)
	}
	return catalog, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store[T]) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
