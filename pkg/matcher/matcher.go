// Package matcher implements exact substring search engines behind a single
// Matcher contract. Every engine reports the zero-based byte offsets of all
// occurrences of a needle in a haystack, in ascending order, overlaps
// included.
package matcher

import "errors"

// Matcher finds all occurrences of needle in haystack.
type Matcher interface {
	// Name is the registry key of the engine, e.g. "kmp".
	Name() string

	// Match returns the starting offsets of every occurrence of needle in
	// haystack, strictly ascending. Neither slice is modified.
	// An empty needle yields no matches.
	Match(haystack, needle []byte) ([]int, error)
}

// Builtin engine names.
const (
	NameBruteForce = "brute"
	NameKMP        = "kmp"
	NameRabinKarp  = "rabin-karp"
	NameRegexp     = "regexp"
	NameHyperscan  = "hyperscan"
)

// ErrUnavailable is returned by constructors for engines that were not
// compiled into this binary.
var ErrUnavailable = errors.New("matcher not available in this build")

// searchable reports whether a search can produce any match at all. Both the
// empty needle and a needle longer than the haystack produce none.
func searchable(haystack, needle []byte) bool {
	return len(needle) > 0 && len(needle) <= len(haystack)
}
