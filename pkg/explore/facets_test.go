package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFacets(t *testing.T) {
	data := newExploreData("test.db", sampleRecords())
	facets := buildFacets(data.rows)

	require.Len(t, facets, 2)
	assert.Equal(t, "kmp", facets[0].Value)
	assert.Equal(t, 2, facets[0].Count)
	assert.Equal(t, "brute", facets[1].Value)
	assert.Equal(t, 1, facets[1].Count)
}

func TestFilterRows(t *testing.T) {
	data := newExploreData("test.db", sampleRecords())
	facets := buildFacets(data.rows)

	assert.Len(t, filterRows(data.rows, facets), 3)

	facets[1].Selected = true
	rows := filterRows(data.rows, facets)
	require.Len(t, rows, 1)
	assert.Equal(t, "brute", rows[0].Matcher)
}
