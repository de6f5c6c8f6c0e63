package chart

import (
	"fmt"
	"math"
	"strconv"
)

// Compact label thresholds and divisors are fixed display constants.
const (
	croreThreshold = 10_000_000
	lakhThreshold  = 100_000
	thousandLimit  = 1_000
)

// Formatter renders currency labels. It is a plain value threaded into
// layout calls so tests can pin symbol and mode instead of relying on a
// process-wide locale.
type Formatter struct {
	Symbol  string
	Compact bool
}

// Label formats v as a tick or bar label. In compact mode large values
// collapse to k/L/Cr magnitude suffixes; everything else gets the full
// currency form. Halves round up, so 12,500 reads "13k", never "12k".
func (f Formatter) Label(v float64) string {
	if !f.Compact {
		return f.full(v)
	}
	abs := math.Abs(v)
	switch {
	case abs >= croreThreshold:
		return f.Symbol + fmt.Sprintf("%.1fCr", roundHalfUp(abs/croreThreshold, 1))
	case abs >= lakhThreshold:
		return f.Symbol + fmt.Sprintf("%.1fL", roundHalfUp(abs/lakhThreshold, 1))
	case abs >= thousandLimit:
		return f.Symbol + fmt.Sprintf("%.0fk", roundHalfUp(abs/thousandLimit, 0))
	default:
		return f.full(v)
	}
}

// roundHalfUp rounds to places decimals with exact halves going up; the
// %.*f verb alone would round them to even.
func roundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(v*scale+0.5) / scale
}

// full renders the whole-unit currency form with digit grouping, no
// decimals (axis ticks are whole units by construction).
func (f Formatter) full(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Round(math.Abs(v)), 'f', 0, 64)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + f.Symbol + s
	}
	return f.Symbol + s
}
