package display

import (
	"math"
	"strconv"
)

// FormatNumber renders v the way the keypad shows results: plain decimals
// for everyday magnitudes, exponent form outside them, and words for the
// values that are not representable.
func FormatNumber(v float64) string {
	if !Representable(v) {
		switch {
		case math.IsNaN(v):
			return "NaN"
		case v > 0:
			return "Infinity"
		default:
			return "-Infinity"
		}
	}
	if v == 0 {
		return "0"
	}
	if abs := math.Abs(v); abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Representable reports whether v is an ordinary finite number.
func Representable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
