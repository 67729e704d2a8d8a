package extraction

import (
	"math"

	"github.com/hbollon/go-edlib"
)

// ratio is the normalized indel similarity of a and b on a 0..100 scale.
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 100
	}
	return 200 * float64(edlib.LCS(a, b)) / float64(la+lb)
}

// partialRatio slides the shorter string across the longer one and keeps the
// best ratio. Windows hanging off either end are clipped, so a needle that only
// overlaps the start or end of the haystack still scores.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	n := len(short)
	if n == 0 {
		return 0
	}

	best := 0.0
	needle := string(short)
	for start := 1 - n; start < len(long); start++ {
		lo, hi := start, start+n
		if lo < 0 {
			lo = 0
		}
		if hi > len(long) {
			hi = len(long)
		}
		if score := ratio(needle, string(long[lo:hi])); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return math.Round(best*100) / 100
}
