// Package prefilter skips full searches on haystacks that cannot contain the
// needle, using an Aho-Corasick automaton as a single linear presence check.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/matchers/pkg/matcher"
)

// Prefilter wraps a matcher and only runs it when the needle occurs in the
// haystack at all.
type Prefilter struct {
	inner matcher.Matcher
}

// New wraps inner with an Aho-Corasick presence check.
func New(inner matcher.Matcher) *Prefilter {
	return &Prefilter{inner: inner}
}

// Name reports the wrapped matcher's name; the prefilter does not change
// which algorithm produced the offsets.
func (p *Prefilter) Name() string {
	return p.inner.Name()
}

// Contains reports whether needle occurs anywhere in haystack.
func Contains(haystack, needle []byte) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	ac := ahocorasick.NewMatcher([][]byte{needle})
	return len(ac.Match(haystack)) > 0
}

// Match implements matcher.Matcher.
func (p *Prefilter) Match(haystack, needle []byte) ([]int, error) {
	if !Contains(haystack, needle) {
		return nil, nil
	}
	return p.inner.Match(haystack, needle)
}
