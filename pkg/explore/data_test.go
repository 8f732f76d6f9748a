package explore

import (
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []*types.SearchRecord {
	return []*types.SearchRecord{
		{ID: 1, HaystackID: types.ComputeHaystackID([]byte("aaaa")), HaystackSize: 4, Needle: "aa", Matcher: "kmp", Offsets: []int{0, 1, 2}},
		{ID: 2, HaystackID: types.ComputeHaystackID([]byte("abc")), HaystackSize: 3, Needle: "z", Matcher: "brute", Offsets: []int{}},
		{ID: 3, HaystackID: types.ComputeHaystackID([]byte("abab")), HaystackSize: 4, Needle: "ab", Matcher: "kmp", Offsets: []int{0, 2}},
	}
}

func TestBuildHistoryRow(t *testing.T) {
	row := buildHistoryRow(sampleRecords()[0])
	assert.Equal(t, "kmp", row.Matcher)
	assert.Equal(t, "aa", row.Needle)
	assert.Equal(t, 3, row.Matches)
}

func TestLoadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := store.NewSQLite(path)
	require.NoError(t, err)
	for _, r := range sampleRecords() {
		r.ID = 0
		require.NoError(t, s.AddSearch(r))
	}
	require.NoError(t, s.Close())

	data, err := loadData(path)
	require.NoError(t, err)
	assert.Equal(t, path, data.path)
	require.Len(t, data.rows, 3)
	assert.Equal(t, "brute", data.rows[1].Matcher)

	_, err = loadData(":memory:")
	assert.ErrorContains(t, err, "in-memory")
}

func TestFormatOffsetList(t *testing.T) {
	assert.Equal(t, "-", formatOffsetList(nil, 10))
	assert.Equal(t, "1, 2, 3", formatOffsetList([]int{1, 2, 3}, 10))
	assert.Equal(t, "1, 2, ... (3 more), 6, 7", formatOffsetList([]int{1, 2, 3, 4, 5, 6, 7}, 4))
}
