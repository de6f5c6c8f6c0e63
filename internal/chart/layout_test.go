package chart

import (
	"math"
	"testing"
)

func TestFormatterCompact(t *testing.T) {
	f := Formatter{Compact: true}
	cases := []struct {
		in   float64
		want string
	}{
		{12500, "13k"},
		{14500, "15k"},
		{250000, "2.5L"},
		{125000, "1.3L"},
		{15000000, "1.5Cr"},
		{12500000, "1.3Cr"},
		{1000, "1k"},
		{999, "999"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := f.Label(tc.in); got != tc.want {
			t.Fatalf("Label(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFormatterFull(t *testing.T) {
	f := Formatter{Symbol: "₹"}
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{930, "₹930"},
		{12500, "₹12,500"},
		{1500000, "₹1,500,000"},
		{-42, "-₹42"},
	}
	for _, tc := range cases {
		if got := f.Label(tc.in); got != tc.want {
			t.Fatalf("Label(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestComputeLayoutEmpty(t *testing.T) {
	lay := Compute(nil, ComputeAxis(0, 4), Geometry{Width: 400, Height: 200}, Options{})
	if lay.Placeholder == nil {
		t.Fatalf("expected placeholder for empty dataset")
	}
	if len(lay.Bars) != 0 || len(lay.Ticks) != 0 {
		t.Fatalf("expected no geometry, got %d bars %d ticks", len(lay.Bars), len(lay.Ticks))
	}
	if lay.Placeholder.Y != 100 {
		t.Fatalf("placeholder not vertically centered: %v", lay.Placeholder.Y)
	}
}

func TestComputeLayoutGeometry(t *testing.T) {
	buckets := []Bucket{
		{Label: "08 Aug", Value: 120},
		{Label: "09 Aug", Value: 0},
		{Label: "10 Aug", Value: 930},
	}
	axis := ComputeAxis(930, 4)
	geom := Geometry{Width: 400, Height: 200}
	lay := Compute(buckets, axis, geom, Options{BarWidthFraction: 0.3})

	if len(lay.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(lay.Bars))
	}
	if len(lay.Ticks) != len(axis.Ticks) {
		t.Fatalf("expected %d ticks, got %d", len(axis.Ticks), len(lay.Ticks))
	}

	// Left margin fits the widest tick label plus padding.
	opts := Options{}.withDefaults()
	widest := 0.0
	for _, tk := range lay.Ticks {
		if w := float64(len([]rune(tk.Label))) * opts.CharWidth; w > widest {
			widest = w
		}
		if tk.X < 0 {
			t.Fatalf("tick label %q clips left edge: x=%v", tk.Label, tk.X)
		}
	}
	if lay.LeftMargin != widest+opts.LabelPad {
		t.Fatalf("left margin %v, expected %v", lay.LeftMargin, widest+opts.LabelPad)
	}

	// Value-to-extent mapping is linear against the ceiling.
	chartH := lay.Bottom - lay.Top
	for _, b := range lay.Bars {
		wantH := b.Value / axis.Ceiling * chartH
		if math.Abs(b.Height-wantH) > 1e-9 {
			t.Fatalf("bar %q height %v, expected %v", b.Label, b.Height, wantH)
		}
		if math.Abs(b.Y+b.Height-lay.Bottom) > 1e-9 {
			t.Fatalf("bar %q does not sit on the baseline", b.Label)
		}
	}

	// The full-height bar spans the chart; the zero bar has no extent.
	if math.Abs(lay.Bars[2].Height-chartH*930/1000) > 1e-9 {
		t.Fatalf("tallest bar height %v", lay.Bars[2].Height)
	}
	if lay.Bars[1].Height != 0 {
		t.Fatalf("zero-value bar has height %v", lay.Bars[1].Height)
	}

	// Bars are centered in consecutive equal slots.
	slotW := (lay.Right - lay.LeftMargin) / 3
	for i, b := range lay.Bars {
		cx := b.X + b.Width/2
		wantCX := lay.LeftMargin + slotW*(float64(i)+0.5)
		if math.Abs(cx-wantCX) > 1e-9 {
			t.Fatalf("bar %d center %v, expected %v", i, cx, wantCX)
		}
	}
}

func TestComputeLayoutBarWidthClamping(t *testing.T) {
	buckets := []Bucket{{Label: "a", Value: 10}}
	axis := ComputeAxis(10, 4)
	geom := Geometry{Width: 400, Height: 200}

	wide := Compute(buckets, axis, geom, Options{BarWidthFraction: 5})
	narrow := Compute(buckets, axis, geom, Options{BarWidthFraction: 0.01})
	slotW := wide.Right - wide.LeftMargin
	if math.Abs(wide.Bars[0].Width-slotW*0.9) > 1e-9 {
		t.Fatalf("fraction not clamped to 0.9: width %v of slot %v", wide.Bars[0].Width, slotW)
	}
	slotW = narrow.Right - narrow.LeftMargin
	if math.Abs(narrow.Bars[0].Width-slotW*0.1) > 1e-9 {
		t.Fatalf("fraction not clamped to 0.1: width %v of slot %v", narrow.Bars[0].Width, slotW)
	}
}

func TestComputeLayoutMinBarWidth(t *testing.T) {
	var buckets []Bucket
	for i := 0; i < 200; i++ {
		buckets = append(buckets, Bucket{Label: "x", Value: 1})
	}
	lay := Compute(buckets, ComputeAxis(1, 4), Geometry{Width: 300, Height: 150}, Options{BarWidthFraction: 0.1})
	opts := Options{}.withDefaults()
	for _, b := range lay.Bars {
		if b.Width < opts.MinBarWidth {
			t.Fatalf("bar narrower than floor: %v", b.Width)
		}
	}
}

func TestComputeLayoutTinyBudget(t *testing.T) {
	lay := Compute([]Bucket{{Label: "a", Value: 1}}, ComputeAxis(1, 4), Geometry{Width: 10, Height: 10}, Options{})
	if len(lay.Bars) != 0 {
		t.Fatalf("expected no bars when the budget cannot fit the margins")
	}
}
