package matcher

// KMP is the Knuth-Morris-Pratt matcher. After a mismatch it shifts the
// pattern by the border table instead of restarting, so the furthest
// inspected haystack byte never moves backwards. O(n+m).
type KMP struct{}

// NewKMP creates a Knuth-Morris-Pratt matcher.
func NewKMP() *KMP {
	return &KMP{}
}

// Name implements Matcher.
func (KMP) Name() string {
	return NameKMP
}

// Match implements Matcher. It never returns an error.
func (KMP) Match(haystack, needle []byte) ([]int, error) {
	if !searchable(haystack, needle) {
		return nil, nil
	}

	var positions []int
	borders := computeBorders(needle)
	n := len(haystack) - 1
	m := len(needle) - 1

	// Invariant at the top of each pass: haystack[i:i+j] == needle[:j].
	i, j := 0, 0
	for i <= n-m {
		for haystack[i+j] == needle[j] {
			if j == m {
				positions = append(positions, i)
				break
			}
			j++
		}

		i = i + j - borders[j]
		j = max(0, borders[j])
	}

	return positions, nil
}
