// Package store persists search history.
package store

import (
	"github.com/praetorian-inc/matchers/pkg/types"
)

// MemoryPath selects the in-memory store.
const MemoryPath = ":memory:"

// Store provides persistence for search records.
type Store interface {
	// AddSearch stores a record and assigns its ID.
	AddSearch(r *types.SearchRecord) error

	// GetSearches retrieves all records, oldest first.
	GetSearches() ([]*types.SearchRecord, error)

	// GetSearchesByHaystack retrieves records for one haystack, oldest first.
	GetSearchesByHaystack(id types.HaystackID) ([]*types.SearchRecord, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a process-local store (useful for testing).
	Path string
}
