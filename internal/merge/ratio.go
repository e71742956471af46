package merge

// Ratio computes the sequence-matching similarity of two strings as
// 2*M / (len(a)+len(b)), where M is the total number of matching
// characters found by recursively taking the longest common contiguous
// block and matching the pieces to its left and right. Case-sensitive,
// rune-based. Two empty strings are identical (ratio 1).
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1
	}
	m := matchingChars(ar, br, 0, len(ar), 0, len(br))
	return 2 * float64(m) / float64(total)
}

// matchingChars returns the summed length of all matching blocks between
// a[alo:ahi] and b[blo:bhi].
func matchingChars(a, b []rune, alo, ahi, blo, bhi int) int {
	ai, bj, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	n := size
	n += matchingChars(a, b, alo, ai, blo, bj)
	n += matchingChars(a, b, ai+size, ahi, bj+size, bhi)
	return n
}

// longestMatch finds the longest contiguous block common to a[alo:ahi] and
// b[blo:bhi]. Ties resolve to the earliest position in a, then in b, which
// keeps the decomposition deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] = length of the longest run ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
