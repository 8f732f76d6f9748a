package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/praetorian-inc/matchers/pkg/types"
)

func marshalOffsets(offsets []int) (string, error) {
	if offsets == nil {
		offsets = []int{}
	}
	b, err := json.Marshal(offsets)
	if err != nil {
		return "", fmt.Errorf("marshaling offsets: %w", err)
	}
	return string(b), nil
}

// scanSearches reads rows of (id, haystack_id, size, needle, matcher,
// offsets_json, created_at).
func scanSearches(rows *sql.Rows) ([]*types.SearchRecord, error) {
	searches := []*types.SearchRecord{}
	for rows.Next() {
		var r types.SearchRecord
		var haystackHex, offsetsJSON, createdAt string

		err := rows.Scan(&r.ID, &haystackHex, &r.HaystackSize, &r.Needle, &r.Matcher, &offsetsJSON, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}

		r.HaystackID, err = types.ParseHaystackID(haystackHex)
		if err != nil {
			return nil, fmt.Errorf("parsing haystack ID: %w", err)
		}

		if err := json.Unmarshal([]byte(offsetsJSON), &r.Offsets); err != nil {
			return nil, fmt.Errorf("unmarshaling offsets: %w", err)
		}

		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		searches = append(searches, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating searches: %w", err)
	}

	return searches, nil
}
