// Package chart computes bar-chart layouts: nice-number axis scaling,
// bar and tick geometry, and currency tick labels. It produces layout
// data only; rendering belongs to the consumer.
package chart

import "math"

// AxisSpec is a scaled Y axis: a "nice" ceiling at or above the data
// maximum and evenly spaced tick values from 0 to the ceiling.
type AxisSpec struct {
	Ceiling float64   `json:"ceiling"`
	Step    float64   `json:"step"`
	Ticks   []float64 `json:"ticks"`
}

// ComputeAxis picks an axis for maxValue using steps from {1,2,5,10}*10^n
// so bounds stay round regardless of dataset scale, with tick count close
// to targetTicks. maxValue <= 0 yields the degenerate unit axis; callers
// handle empty datasets themselves.
func ComputeAxis(maxValue float64, targetTicks int) AxisSpec {
	if maxValue <= 0 {
		return AxisSpec{Ceiling: 1, Step: 1, Ticks: []float64{0, 1}}
	}
	if targetTicks < 1 {
		targetTicks = 1
	}
	rawStep := maxValue / float64(targetTicks)
	mag := math.Pow(10, math.Floor(math.Log10(rawStep)))
	norm := rawStep / mag
	var niceNorm float64
	switch {
	case norm <= 1:
		niceNorm = 1
	case norm <= 2:
		niceNorm = 2
	case norm <= 5:
		niceNorm = 5
	default:
		niceNorm = 10
	}
	step := niceNorm * mag
	ceiling := math.Ceil(maxValue/step) * step

	var ticks []float64
	for v := 0.0; v <= ceiling+1e-6; v += step {
		ticks = append(ticks, v)
	}
	return AxisSpec{Ceiling: ceiling, Step: step, Ticks: ticks}
}
