package viz

import (
	"math"
	"strconv"
)

// Layout is the pixel geometry of one render, derived from a Domain and a
// Config. It is never shared between renders.
type Layout struct {
	Width, Height float64

	// Space reserved for the value labels on the left (and mirrored on the
	// right) and for the time labels below (and mirrored above).
	AxeYWidth  float64
	AxeXHeight float64

	// Inner plot rectangle.
	InnerX, InnerY          float64
	InnerWidth, InnerHeight float64

	// Scale factors of the inner rectangle.
	InnerPxPerMs    float64
	InnerPxPerValue float64
}

// ComputeLayout reserves room for the axis labels and derives the inner plot
// rectangle.
func ComputeLayout(d Domain, cfg Config) (Layout, error) {
	cfg = cfg.WithDefaults()
	fs := cfg.TextFontSize

	l := Layout{
		Width:      cfg.Width,
		Height:     cfg.Height,
		AxeYWidth:  float64(digitCount(d.ValueMax))*fs*1.5 + cfg.AxeMarkerWidth,
		AxeXHeight: fs * 3,
	}
	l.InnerX = l.AxeYWidth
	l.InnerY = l.AxeXHeight
	l.InnerWidth = cfg.Width - 2*l.AxeYWidth
	l.InnerHeight = cfg.Height - 2*l.AxeXHeight
	if l.InnerWidth <= 0 || l.InnerHeight <= 0 {
		return Layout{}, NewConfigError("width/height",
			"page %gx%g leaves no room for the plot after %gx%g axis margins", cfg.Width, cfg.Height, 2*l.AxeYWidth, 2*l.AxeXHeight)
	}
	if r := d.TimeRange(); r > 0 {
		l.InnerPxPerMs = l.InnerWidth / float64(r)
	}
	if r := d.ValueRange(); r > 0 {
		l.InnerPxPerValue = l.InnerHeight / r
	}
	cfg.logger().Debug("computed layout",
		"axeYWidth", l.AxeYWidth, "axeXHeight", l.AxeXHeight,
		"innerWidth", l.InnerWidth, "innerHeight", l.InnerHeight)
	return l, nil
}

// digitCount is the printed width of v rounded to an integer.
func digitCount(v float64) int {
	return len(strconv.FormatFloat(math.Round(v), 'f', 0, 64))
}
