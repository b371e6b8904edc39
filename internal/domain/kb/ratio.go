package kb

// Ratio computes a sequence similarity score in [0, 1]: twice the number of
// characters in the longest common matching blocks divided by the total
// length of both strings. Two empty strings score 1. The comparison works on
// runes so Malayalam tags are measured per character, not per byte.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	m := newBlockMatcher(ra, rb)
	return 2 * float64(m.matchCount(0, len(ra), 0, len(rb))) / float64(total)
}

type blockMatcher struct {
	a   []rune
	b   []rune
	b2j map[rune][]int
}

func newBlockMatcher(a, b []rune) *blockMatcher {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	return &blockMatcher{a: a, b: b, b2j: b2j}
}

// matchCount sums the sizes of all matching blocks between a[alo:ahi] and
// b[blo:bhi]: it finds the longest match, then recurses on the pieces to its
// left and right.
func (m *blockMatcher) matchCount(alo, ahi, blo, bhi int) int {
	i, j, size := m.longestMatch(alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size + m.matchCount(alo, i, blo, j) + m.matchCount(i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest block where a[i:i+size] == b[j:j+size] within
// the given bounds, preferring the earliest position in a, then in b.
func (m *blockMatcher) longestMatch(alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
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
