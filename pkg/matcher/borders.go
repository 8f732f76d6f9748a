package matcher

// computeBorders builds the KMP failure function for pattern.
//
// borders[0] is -1 (nothing matched, restart from scratch). For j >= 1,
// borders[j] is the length of the longest proper border of pattern[:j], i.e.
// how much of the pattern is still matched after a mismatch at position j.
// The table has len(pattern) entries; an empty pattern yields an empty table.
func computeBorders(pattern []byte) []int {
	plen := len(pattern)
	if plen == 0 {
		return nil
	}

	borders := make([]int, plen)
	borders[0] = -1
	if plen > 1 {
		borders[1] = 0
	}

	i := 0
	for j := 2; j < plen; j++ {
		for i >= 0 && pattern[i] != pattern[j-1] {
			i = borders[i]
		}
		i++
		borders[j] = i
	}

	return borders
}
