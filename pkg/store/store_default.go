//go:build !wasm

package store

import "fmt"

// New creates a Store. ":memory:" returns a MemoryStore, a postgres:// URL
// connects to PostgreSQL, and any other path opens a SQLite database file.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == MemoryPath {
		return NewMemory(), nil
	}

	if IsPostgresURL(cfg.Path) {
		return NewPostgres(cfg.Path)
	}

	return NewSQLite(cfg.Path)
}
