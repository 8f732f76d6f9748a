package store

import (
	"slices"
	"sync"
	"time"

	"github.com/praetorian-inc/matchers/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	searches []*types.SearchRecord
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		searches: make([]*types.SearchRecord, 0),
	}
}

// AddSearch stores a copy of r and sets r.ID.
func (m *MemoryStore) AddSearch(r *types.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.ID = m.nextID
	m.nextID++

	m.searches = append(m.searches, cloneRecord(r))
	return nil
}

// GetSearches retrieves all records.
func (m *MemoryStore) GetSearches() ([]*types.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.SearchRecord, 0, len(m.searches))
	for _, r := range m.searches {
		result = append(result, cloneRecord(r))
	}
	return result, nil
}

// GetSearchesByHaystack retrieves records for one haystack.
func (m *MemoryStore) GetSearchesByHaystack(id types.HaystackID) ([]*types.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*types.SearchRecord{}
	for _, r := range m.searches {
		if r.HaystackID == id {
			result = append(result, cloneRecord(r))
		}
	}
	return result, nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func cloneRecord(r *types.SearchRecord) *types.SearchRecord {
	c := *r
	c.Offsets = slices.Clone(r.Offsets)
	if c.Offsets == nil {
		c.Offsets = []int{}
	}
	return &c
}
