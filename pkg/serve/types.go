package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "match" | "match_batch" | "list" | "close"
	Payload json.RawMessage `json:"payload"`
}

// MatchPayload is the payload for "match" requests
type MatchPayload struct {
	Haystack  string `json:"haystack"`
	Needle    string `json:"needle"`
	Algorithm string `json:"algorithm,omitempty"`
	Require   string `json:"require,omitempty"`
	Prefilter bool   `json:"prefilter,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Request converts the payload into a search request.
func (p MatchPayload) Request() search.Request {
	return search.Request{
		Haystack:  []byte(p.Haystack),
		Needle:    []byte(p.Needle),
		Algorithm: p.Algorithm,
		Require:   p.Require,
		Prefilter: p.Prefilter,
		Source:    p.Source,
	}
}

// MatchBatchPayload is the payload for "match_batch" requests
type MatchBatchPayload struct {
	Items []MatchPayload `json:"items"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | request type | "decode"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version  string `json:"version"`
	Matchers int    `json:"matchers"`
}

// ListData is the data field for "list" responses
type ListData struct {
	Default  string             `json:"default"`
	Matchers []types.Descriptor `json:"matchers"`
}
