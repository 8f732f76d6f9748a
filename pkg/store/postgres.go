//go:build !wasm

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/praetorian-inc/matchers/pkg/types"
)

// IsPostgresURL reports whether path is a PostgreSQL connection URL.
func IsPostgresURL(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

// PostgresStore implements Store using PostgreSQL through pgx.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres connects to the database at url and creates the schema.
func NewPostgres(url string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := createPostgresSchema(db); err != nil {
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

	return &PostgresStore{db: db}, nil
}

// AddSearch stores a record and sets r.ID.
func (s *PostgresStore) AddSearch(r *types.SearchRecord) error {
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

	_, err = tx.Exec("INSERT INTO haystacks (id, size) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING", r.HaystackID.Hex(), r.HaystackSize)
	if err != nil {
		return fmt.Errorf("inserting haystack: %w", err)
	}

	var id int64
	err = tx.QueryRow(`
		INSERT INTO searches (haystack_id, needle, matcher, offsets_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		r.HaystackID.Hex(),
		[]byte(r.Needle),
		r.Matcher,
		offsetsJSON,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("inserting search: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing search: %w", err)
	}
	r.ID = id
	return nil
}

// GetSearches retrieves all records.
func (s *PostgresStore) GetSearches() ([]*types.SearchRecord, error) {
	return s.querySearches(`
		SELECT s.id, s.haystack_id, h.size, s.needle, s.matcher, s.offsets_json, s.created_at
		FROM searches s JOIN haystacks h ON h.id = s.haystack_id
		ORDER BY s.id
	`)
}

// GetSearchesByHaystack retrieves records for one haystack.
func (s *PostgresStore) GetSearchesByHaystack(id types.HaystackID) ([]*types.SearchRecord, error) {
	return s.querySearches(`
		SELECT s.id, s.haystack_id, h.size, s.needle, s.matcher, s.offsets_json, s.created_at
		FROM searches s JOIN haystacks h ON h.id = s.haystack_id
		WHERE s.haystack_id = $1
		ORDER BY s.id
	`, id.Hex())
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) querySearches(query string, args ...any) ([]*types.SearchRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	return scanSearches(rows)
}

// postgresSchema creates the tables. Needles are BYTEA since they are
// arbitrary bytes, which TEXT columns reject when not valid UTF-8 or when
// they contain NUL.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS haystacks (
		id TEXT PRIMARY KEY NOT NULL,
		size BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS searches (
		id BIGSERIAL PRIMARY KEY,
		haystack_id TEXT NOT NULL REFERENCES haystacks(id),
		needle BYTEA NOT NULL,
		matcher TEXT NOT NULL,
		offsets_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_haystack_id ON searches(haystack_id)`,
}

const postgresInsertVersion = "INSERT INTO schema_version (version) VALUES ($1)"

func createPostgresSchema(db *sql.DB) error {
	for _, stmt := range postgresSchema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec(postgresInsertVersion, SchemaVersion)
		return err
	}
	return nil
}
