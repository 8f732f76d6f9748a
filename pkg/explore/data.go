package explore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
)

// historyRow is one search as displayed in the table.
type historyRow struct {
	Record  *types.SearchRecord
	Matcher string
	Needle  string
	Matches int
}

// exploreData holds everything loaded from the datastore.
type exploreData struct {
	path string
	rows []*historyRow
}

// loadData reads all recorded searches from the datastore at path.
func loadData(path string) (*exploreData, error) {
	if path == store.MemoryPath {
		return nil, fmt.Errorf("cannot explore an in-memory store")
	}

	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	records, err := s.GetSearches()
	if err != nil {
		return nil, fmt.Errorf("retrieving searches: %w", err)
	}

	return newExploreData(path, records), nil
}

func newExploreData(path string, records []*types.SearchRecord) *exploreData {
	data := &exploreData{path: path, rows: make([]*historyRow, 0, len(records))}
	for _, r := range records {
		data.rows = append(data.rows, buildHistoryRow(r))
	}
	return data
}

func buildHistoryRow(r *types.SearchRecord) *historyRow {
	return &historyRow{
		Record:  r,
		Matcher: r.Matcher,
		Needle:  r.Needle,
		Matches: len(r.Offsets),
	}
}

// formatOffsetList renders offsets as "a, b, c", eliding the middle of long
// lists to at most limit entries.
func formatOffsetList(offsets []int, limit int) string {
	if len(offsets) == 0 {
		return "-"
	}

	parts := make([]string, 0, min(len(offsets), limit)+1)
	if limit > 0 && len(offsets) > limit {
		head := limit / 2
		tail := limit - head
		for _, off := range offsets[:head] {
			parts = append(parts, strconv.Itoa(off))
		}
		parts = append(parts, fmt.Sprintf("... (%d more)", len(offsets)-limit))
		for _, off := range offsets[len(offsets)-tail:] {
			parts = append(parts, strconv.Itoa(off))
		}
		return strings.Join(parts, ", ")
	}

	for _, off := range offsets {
		parts = append(parts, strconv.Itoa(off))
	}
	return strings.Join(parts, ", ")
}
