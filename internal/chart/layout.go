package chart

// Bucket is one (label, value) pair in display order.
type Bucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Geometry is the pixel budget the layout must fit into.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options are the layout tunables. Zero values take the defaults below.
type Options struct {
	// BarWidthFraction of each equal-width slot, clamped to [0.1, 0.9].
	BarWidthFraction float64
	// MinBarWidth keeps bars visible for large bucket counts.
	MinBarWidth float64
	// OuterPad is the outer padding on the top and right edges.
	OuterPad float64
	// LabelPad separates tick labels from the Y axis.
	LabelPad float64
	// CharWidth approximates the rendered width of one label character.
	CharWidth float64
	// LabelHeight is the vertical space of one text line.
	LabelHeight float64
	Formatter   Formatter
}

const (
	defaultBarWidthFraction = 0.6
	defaultMinBarWidth      = 2
	defaultOuterPad         = 6
	defaultLabelPad         = 4
	defaultCharWidth        = 7
	defaultLabelHeight      = 14
)

func (o Options) withDefaults() Options {
	if o.BarWidthFraction == 0 {
		o.BarWidthFraction = defaultBarWidthFraction
	}
	if o.BarWidthFraction < 0.1 {
		o.BarWidthFraction = 0.1
	}
	if o.BarWidthFraction > 0.9 {
		o.BarWidthFraction = 0.9
	}
	if o.MinBarWidth == 0 {
		o.MinBarWidth = defaultMinBarWidth
	}
	if o.OuterPad == 0 {
		o.OuterPad = defaultOuterPad
	}
	if o.LabelPad == 0 {
		o.LabelPad = defaultLabelPad
	}
	if o.CharWidth == 0 {
		o.CharWidth = defaultCharWidth
	}
	if o.LabelHeight == 0 {
		o.LabelHeight = defaultLabelHeight
	}
	return o
}

// Bar is one rendered bar plus its centered X-axis label position.
type Bar struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`
}

// Tick is one Y-axis tick label, right-aligned to the axis.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Text is a positioned string, used for the empty-dataset placeholder.
type Text struct {
	Value string  `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Layout is everything a dumb renderer needs to draw the chart.
type Layout struct {
	Axis        AxisSpec `json:"axis"`
	Bars        []Bar    `json:"bars"`
	Ticks       []Tick   `json:"ticks"`
	LeftMargin  float64  `json:"leftMargin"`
	Top         float64  `json:"top"`
	Bottom      float64  `json:"bottom"`
	Right       float64  `json:"right"`
	Placeholder *Text    `json:"placeholder,omitempty"`
}

const emptyPlaceholder = "No data to display"

// Compute lays out buckets against a scaled axis inside geom. An empty
// bucket set yields a single centered placeholder and no geometry.
func Compute(buckets []Bucket, axis AxisSpec, geom Geometry, opts Options) Layout {
	opts = opts.withDefaults()
	measure := func(s string) float64 {
		return float64(len([]rune(s))) * opts.CharWidth
	}

	if len(buckets) == 0 {
		return Layout{
			Axis: axis,
			Placeholder: &Text{
				Value: emptyPlaceholder,
				X:     (geom.Width - measure(emptyPlaceholder)) / 2,
				Y:     geom.Height / 2,
			},
		}
	}

	// Left margin sized to the widest rendered tick label so labels never
	// clip regardless of magnitude.
	labels := make([]string, len(axis.Ticks))
	var widest float64
	for i, v := range axis.Ticks {
		labels[i] = opts.Formatter.Label(v)
		if w := measure(labels[i]); w > widest {
			widest = w
		}
	}

	left := widest + opts.LabelPad
	right := geom.Width - opts.OuterPad
	top := opts.OuterPad
	bottom := geom.Height - (opts.LabelHeight + opts.LabelPad)
	out := Layout{Axis: axis, LeftMargin: left, Top: top, Bottom: bottom, Right: right}
	if right <= left || bottom <= top {
		return out
	}
	chartH := bottom - top
	yToPix := func(v float64) float64 {
		return bottom - v/axis.Ceiling*chartH
	}

	for i, v := range axis.Ticks {
		y := yToPix(v)
		out.Ticks = append(out.Ticks, Tick{
			Value: v,
			Label: labels[i],
			X:     left - opts.LabelPad - measure(labels[i]),
			Y:     y,
		})
	}

	count := float64(len(buckets))
	slotW := (right - left) / count
	barW := slotW * opts.BarWidthFraction
	if barW < opts.MinBarWidth {
		barW = opts.MinBarWidth
	}
	for i, b := range buckets {
		cx := left + slotW*(float64(i)+0.5)
		barH := b.Value / axis.Ceiling * chartH
		if barH < 0 {
			barH = 0
		}
		out.Bars = append(out.Bars, Bar{
			Label:  b.Label,
			Value:  b.Value,
			X:      cx - barW/2,
			Y:      bottom - barH,
			Width:  barW,
			Height: barH,
			LabelX: cx - measure(b.Label)/2,
			LabelY: bottom + opts.LabelHeight,
		})
	}
	return out
}
