package search

import "github.com/praetorian-inc/matchers/pkg/types"

// Request describes one search.
type Request struct {
	Haystack  []byte
	Needle    []byte
	Algorithm string // matcher name; unknown names fall back to the default
	Require   string // characteristic requirement, e.g. "fast,!experimental"
	Prefilter bool   // skip the matcher when the needle is absent
	Source    string // optional label for the haystack (file path, "stdin", ...)
}

// Result is the outcome of one search.
type Result struct {
	Source      string             `json:"source,omitempty"`
	Matcher     string             `json:"matcher"`
	Needle      string             `json:"needle"`
	HaystackID  types.HaystackID   `json:"haystack_id"`
	Offsets     []int              `json:"offsets"`
	Occurrences []types.Occurrence `json:"occurrences,omitempty"`
}

// BatchResult collects the results of SearchBatch.
type BatchResult struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}
