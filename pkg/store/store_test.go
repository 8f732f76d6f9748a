//go:build !wasm

package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &MemoryStore{}, s)

	s2, err := New(Config{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	defer s2.Close()
	assert.IsType(t, &SQLiteStore{}, s2)

	_, err = New(Config{})
	assert.ErrorContains(t, err, "path is required")
}

func TestStore_Interface(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}

func TestStore_RoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemory()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLite(filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			first := []byte("abcdfffggffgg")
			second := []byte("Hello World")
			created := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)

			r1 := &types.SearchRecord{
				HaystackID:   types.ComputeHaystackID(first),
				HaystackSize: len(first),
				Needle:       "fgg",
				Matcher:      "kmp",
				Offsets:      []int{6, 10},
				CreatedAt:    created,
			}
			r2 := &types.SearchRecord{
				HaystackID:   types.ComputeHaystackID(second),
				HaystackSize: len(second),
				Needle:       "xyz",
				Matcher:      "brute",
			}
			r3 := &types.SearchRecord{
				HaystackID:   types.ComputeHaystackID(first),
				HaystackSize: len(first),
				Needle:       "a\x00\xff",
				Matcher:      "rabin-karp",
				Offsets:      []int{},
			}

			require.NoError(t, s.AddSearch(r1))
			require.NoError(t, s.AddSearch(r2))
			require.NoError(t, s.AddSearch(r3))
			assert.Less(t, r1.ID, r2.ID)
			assert.Less(t, r2.ID, r3.ID)
			assert.False(t, r2.CreatedAt.IsZero())

			all, err := s.GetSearches()
			require.NoError(t, err)
			require.Len(t, all, 3)

			assert.Equal(t, r1.ID, all[0].ID)
			assert.Equal(t, r1.HaystackID, all[0].HaystackID)
			assert.Equal(t, 13, all[0].HaystackSize)
			assert.Equal(t, "fgg", all[0].Needle)
			assert.Equal(t, "kmp", all[0].Matcher)
			assert.Equal(t, []int{6, 10}, all[0].Offsets)
			assert.True(t, created.Equal(all[0].CreatedAt))

			assert.Equal(t, []int{}, all[1].Offsets)

			byHaystack, err := s.GetSearchesByHaystack(types.ComputeHaystackID(first))
			require.NoError(t, err)
			require.Len(t, byHaystack, 2)
			assert.Equal(t, "fgg", byHaystack[0].Needle)
			assert.Equal(t, "a\x00\xff", byHaystack[1].Needle)

			none, err := s.GetSearchesByHaystack(types.ComputeHaystackID([]byte("unseen")))
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemory()
	r := &types.SearchRecord{Needle: "a", Matcher: "kmp", Offsets: []int{1, 2}}
	require.NoError(t, s.AddSearch(r))

	r.Offsets[0] = 99
	got, err := s.GetSearches()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got[0].Offsets)

	got[0].Offsets[1] = 42
	again, err := s.GetSearches()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again[0].Offsets)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AddSearch(&types.SearchRecord{
		HaystackID: types.ComputeHaystackID([]byte("aaaa")),
		Needle:     "aa",
		Matcher:    "kmp",
		Offsets:    []int{0, 1, 2},
	}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.GetSearches()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []int{0, 1, 2}, all[0].Offsets)
}

func TestSQLiteStore_RejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, CreateSchema(db))
	_, err = db.Exec("UPDATE schema_version SET version = ?", SchemaVersion+1)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLite(path)
	assert.ErrorContains(t, err, "unsupported schema version")
}
