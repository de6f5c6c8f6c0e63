package chart

import (
	"math"
	"testing"
)

func TestComputeAxisWorkedExample(t *testing.T) {
	axis := ComputeAxis(930, 4)
	if axis.Ceiling != 1000 || axis.Step != 500 {
		t.Fatalf("expected ceiling 1000 step 500, got %v / %v", axis.Ceiling, axis.Step)
	}
	want := []float64{0, 500, 1000}
	if len(axis.Ticks) != len(want) {
		t.Fatalf("expected ticks %v, got %v", want, axis.Ticks)
	}
	for i, v := range want {
		if axis.Ticks[i] != v {
			t.Fatalf("tick %d: expected %v, got %v", i, v, axis.Ticks[i])
		}
	}
}

func TestComputeAxisDegenerate(t *testing.T) {
	for _, max := range []float64{0, -5} {
		axis := ComputeAxis(max, 4)
		if axis.Ceiling != 1 || axis.Step != 1 {
			t.Fatalf("maxValue=%v: expected unit axis, got %+v", max, axis)
		}
	}
}

func TestComputeAxisTable(t *testing.T) {
	cases := []struct {
		max     float64
		ticks   int
		ceiling float64
		step    float64
	}{
		{930, 4, 1000, 500},
		{100, 4, 100, 50},
		{7, 4, 8, 2},
		{12500, 4, 15000, 5000},
		{0.7, 4, 0.8, 0.2},
	}
	for _, tc := range cases {
		axis := ComputeAxis(tc.max, tc.ticks)
		if math.Abs(axis.Ceiling-tc.ceiling) > 1e-9 || math.Abs(axis.Step-tc.step) > 1e-9 {
			t.Fatalf("ComputeAxis(%v, %d): expected ceiling %v step %v, got %v / %v",
				tc.max, tc.ticks, tc.ceiling, tc.step, axis.Ceiling, axis.Step)
		}
	}
}

func TestComputeAxisProperties(t *testing.T) {
	niceStep := func(step float64) bool {
		mag := math.Pow(10, math.Floor(math.Log10(step)))
		norm := step / mag
		for _, k := range []float64{1, 2, 5, 10} {
			if math.Abs(norm-k) < 1e-9 {
				return true
			}
		}
		return false
	}
	for _, max := range []float64{0.003, 0.9, 1, 7, 42, 930, 999, 1001, 88000, 123456, 9.3e6, 2.5e9} {
		for _, ticks := range []int{1, 3, 4, 5, 8} {
			axis := ComputeAxis(max, ticks)
			if axis.Ceiling < max {
				t.Fatalf("max=%v ticks=%d: ceiling %v below max", max, ticks, axis.Ceiling)
			}
			if !niceStep(axis.Step) {
				t.Fatalf("max=%v ticks=%d: step %v not in {1,2,5,10}*10^n", max, ticks, axis.Step)
			}
			if axis.Ticks[0] != 0 {
				t.Fatalf("max=%v: first tick %v, expected 0", max, axis.Ticks[0])
			}
			last := axis.Ticks[len(axis.Ticks)-1]
			if math.Abs(last-axis.Ceiling) > 1e-6*axis.Ceiling {
				t.Fatalf("max=%v: last tick %v does not reach ceiling %v", max, last, axis.Ceiling)
			}
		}
	}
}
