package matcher

// BruteForce is the naive double-scan matcher: every candidate position is
// compared from scratch. O((n-m+1)*m) worst case, no preprocessing.
type BruteForce struct{}

// NewBruteForce creates a brute-force matcher.
func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

// Name implements Matcher.
func (BruteForce) Name() string {
	return NameBruteForce
}

// Match implements Matcher. It never returns an error.
func (BruteForce) Match(haystack, needle []byte) ([]int, error) {
	if !searchable(haystack, needle) {
		return nil, nil
	}

	var positions []int
	last := len(needle) - 1
	runUntil := len(haystack) - len(needle)

	for i := 0; i <= runUntil; i++ {
		for j := 0; haystack[i+j] == needle[j]; j++ {
			if j == last {
				positions = append(positions, i)
				break
			}
		}
	}

	return positions, nil
}
