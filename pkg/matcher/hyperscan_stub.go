//go:build !cgo || !hyperscan

package matcher

import "fmt"

// NewHyperscan stub for builds without Hyperscan (non-CGO or missing hyperscan tag).
func NewHyperscan() (Matcher, error) {
	return nil, fmt.Errorf("%w: Hyperscan requires CGO (build with CGO_ENABLED=1 and -tags=hyperscan)", ErrUnavailable)
}

// HyperscanAvailable reports whether the Hyperscan engine is compiled in.
func HyperscanAvailable() bool {
	return false
}
