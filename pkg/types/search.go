package types

import "time"

// SearchRecord is a persisted search: which matcher ran against which
// haystack for which needle, and what it found.
type SearchRecord struct {
	ID           int64      `json:"id,omitempty"`
	HaystackID   HaystackID `json:"haystack_id"`
	HaystackSize int        `json:"haystack_size"`
	Needle       string     `json:"needle"`
	Matcher      string     `json:"matcher"`
	Offsets      []int      `json:"offsets"`
	CreatedAt    time.Time  `json:"created_at"`
}
