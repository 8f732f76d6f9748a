package matcher

import "bytes"

// primeRK is the multiplicative base of the rolling hash.
const primeRK = 16777619

// RabinKarp compares rolling hashes of each haystack window against the
// needle's hash and verifies candidates byte by byte, so hash collisions
// never produce false positives.
type RabinKarp struct{}

// NewRabinKarp creates a Rabin-Karp matcher.
func NewRabinKarp() *RabinKarp {
	return &RabinKarp{}
}

// Name implements Matcher.
func (RabinKarp) Name() string {
	return NameRabinKarp
}

// Match implements Matcher. It never returns an error.
func (RabinKarp) Match(haystack, needle []byte) ([]int, error) {
	if !searchable(haystack, needle) {
		return nil, nil
	}

	var positions []int
	hashNeedle, pow := hashBytes(needle)
	n := len(needle)

	var h uint32
	for i := 0; i < n; i++ {
		h = h*primeRK + uint32(haystack[i])
	}
	if h == hashNeedle && bytes.Equal(haystack[:n], needle) {
		positions = append(positions, 0)
	}

	for i := n; i < len(haystack); {
		h *= primeRK
		h += uint32(haystack[i])
		h -= pow * uint32(haystack[i-n])
		i++
		if h == hashNeedle && bytes.Equal(haystack[i-n:i], needle) {
			positions = append(positions, i-n)
		}
	}

	return positions, nil
}

// hashBytes returns the hash of sep and primeRK^len(sep), the factor needed
// to drop the outgoing byte from the rolling window.
func hashBytes(sep []byte) (uint32, uint32) {
	hash := uint32(0)
	for i := 0; i < len(sep); i++ {
		hash = hash*primeRK + uint32(sep[i])
	}
	var pow, sq uint32 = 1, primeRK
	for i := len(sep); i > 0; i >>= 1 {
		if i&1 != 0 {
			pow *= sq
		}
		sq *= sq
	}
	return hash, pow
}
