package utility

import (
	"math"
	"math/rand/v2"
)

// Between returns a uniform integer in [lo, hi], both ends included.
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// ColorHex formats a 0xRRGGBB value the way the browser expects it.
func ColorHex(c uint32) string {
	const digits = "0123456789abcdef"
	b := []byte("#000000")
	for i := 6; i >= 1; i-- {
		b[i] = digits[c&0xf]
		c >>= 4
	}
	return string(b)
}
