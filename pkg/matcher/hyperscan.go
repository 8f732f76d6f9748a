//go:build cgo && hyperscan

package matcher

import (
	"fmt"
	"strings"

	"github.com/flier/gohs/hyperscan"
)

// Hyperscan runs the search on the Hyperscan/Vectorscan engine. The needle is
// compiled as a literal of \xHH escapes into a per-call block database.
// Hyperscan reports every match end offset, overlaps included; for a literal
// the start is simply end - len(needle).
type Hyperscan struct{}

// NewHyperscan creates a Hyperscan-backed matcher.
func NewHyperscan() (Matcher, error) {
	return &Hyperscan{}, nil
}

// Name implements Matcher.
func (h *Hyperscan) Name() string {
	return NameHyperscan
}

// Match implements Matcher.
func (h *Hyperscan) Match(haystack, needle []byte) ([]int, error) {
	if !searchable(haystack, needle) {
		return nil, nil
	}

	p := hyperscan.NewPattern(escapeLiteral(needle), 0)
	db, err := hyperscan.NewBlockDatabase(p)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Hyperscan database: %w", err)
	}
	defer db.Close()

	scratch, err := hyperscan.NewScratch(db)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate Hyperscan scratch: %w", err)
	}
	defer scratch.Free()

	var positions []int
	onMatch := func(id uint, from, to uint64, flags uint, context interface{}) error {
		positions = append(positions, int(to)-len(needle))
		return nil
	}

	if err := db.Scan(haystack, scratch, onMatch, nil); err != nil {
		return nil, fmt.Errorf("Hyperscan scan failed: %w", err)
	}

	// Block mode reports in end-offset order, which for a fixed-length
	// literal is start order.
	return positions, nil
}

func escapeLiteral(needle []byte) string {
	var b strings.Builder
	b.Grow(len(needle) * 4)
	for _, c := range needle {
		fmt.Fprintf(&b, `\x%02x`, c)
	}
	return b.String()
}

// HyperscanAvailable reports whether the Hyperscan engine is compiled in.
func HyperscanAvailable() bool {
	return true
}
