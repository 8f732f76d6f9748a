//go:build !wasm

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/praetorian-inc/matchers/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	version, err := ReadSchemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("unsupported schema version %d (want %d)", version, SchemaVersion)
	}

	return &SQLiteStore{db: db}, nil
}

// AddSearch stores a record and sets r.ID.
func (s *SQLiteStore) AddSearch(r *types.SearchRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	offsetsJSON, err := marshalOffsets(r.Offsets)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT OR IGNORE INTO haystacks (id, size) VALUES (?, ?)", r.HaystackID.Hex(), r.HaystackSize)
	if err != nil {
		return fmt.Errorf("inserting haystack: %w", err)
	}

	res, err := tx.Exec(`
		INSERT INTO searches (haystack_id, needle, matcher, offsets_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		r.HaystackID.Hex(),
		[]byte(r.Needle),
		r.Matcher,
		offsetsJSON,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting search: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading search id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing search: %w", err)
	}
	r.ID = id
	return nil
}

// GetSearches retrieves all records.
func (s *SQLiteStore) GetSearches() ([]*types.SearchRecord, error) {
	return s.querySearches(`
		SELECT s.id, s.haystack_id, h.size, s.needle, s.matcher, s.offsets_json, s.created_at
		FROM searches s JOIN haystacks h ON h.id = s.haystack_id
		ORDER BY s.id
	`)
}

// GetSearchesByHaystack retrieves records for one haystack.
func (s *SQLiteStore) GetSearchesByHaystack(id types.HaystackID) ([]*types.SearchRecord, error) {
	return s.querySearches(`
		SELECT s.id, s.haystack_id, h.size, s.needle, s.matcher, s.offsets_json, s.created_at
		FROM searches s JOIN haystacks h ON h.id = s.haystack_id
		WHERE s.haystack_id = ?
		ORDER BY s.id
	`, id.Hex())
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) querySearches(query string, args ...any) ([]*types.SearchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	return scanSearches(rows)
}
