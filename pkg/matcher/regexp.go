package matcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultRegexpTimeout bounds a single Regexp search.
const DefaultRegexpTimeout = 5 * time.Second

// Regexp runs the search on the regexp2 backtracking engine. The needle is
// compiled as a zero-width lookahead of escaped literal bytes, so every
// position (overlapping ones included) is reported and the needle is never
// interpreted as a pattern.
//
// Bytes are mapped one-to-one onto runes 0-255 before matching. regexp2
// reports rune indexes, and with this mapping a rune index is exactly the byte
// offset; invalid UTF-8 compares byte-exact instead of collapsing to U+FFFD.
type Regexp struct {
	timeout time.Duration
}

// NewRegexp creates a regexp2-backed matcher. A non-positive timeout selects
// DefaultRegexpTimeout.
func NewRegexp(timeout time.Duration) *Regexp {
	if timeout <= 0 {
		timeout = DefaultRegexpTimeout
	}
	return &Regexp{timeout: timeout}
}

// Name implements Matcher.
func (r *Regexp) Name() string {
	return NameRegexp
}

// Match implements Matcher. Errors come from regexp2, typically a match
// timeout on very large inputs.
func (r *Regexp) Match(haystack, needle []byte) ([]int, error) {
	if !searchable(haystack, needle) {
		return nil, nil
	}

	re, err := regexp2.Compile(literalLookahead(needle), regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compiling needle: %w", err)
	}
	re.MatchTimeout = r.timeout

	var positions []int
	m, err := re.FindRunesMatch(bytesToRunes(haystack))
	for m != nil {
		positions = append(positions, m.Index)
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("regexp search: %w", err)
	}

	return positions, nil
}

// literalLookahead renders needle as (?=\xHH\xHH...).
func literalLookahead(needle []byte) string {
	var b strings.Builder
	b.Grow(len(needle)*4 + 4)
	b.WriteString("(?=")
	for _, c := range needle {
		fmt.Fprintf(&b, `\x%02X`, c)
	}
	b.WriteString(")")
	return b.String()
}

func bytesToRunes(content []byte) []rune {
	runes := make([]rune, len(content))
	for i, c := range content {
		runes[i] = rune(c)
	}
	return runes
}
