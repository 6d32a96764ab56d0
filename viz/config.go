package viz

import (
	"log/slog"
	"math"
	"time"
)

// DefaultSeriesColor is used for series given without a color.
const DefaultSeriesColor = "#1db34f"

// Config holds every recognized chart option. Fields left at their zero
// value take the DefaultConfig value when passed through WithDefaults, so
// Padding, LineWidth, PointRadius and the axe marker sizes cannot be set
// to zero.
type Config struct {
	// Page size in pixels.
	Width  float64
	Height float64

	// MinValue, if set, seeds the lower bound of the value axis. Points
	// below it still widen the domain.
	MinValue *float64

	// Padding is the gap between tick labels and their axis markers.
	Padding float64

	PointRadius float64
	LineWidth   float64

	AxeColor        string
	AxeMarkerWidth  float64
	AxeMarkerHeight float64

	TextColor      string
	TextFontSize   float64
	TextFontFamily string

	// AutoFill rebuilds every series on a fixed grid of AutoFillInterval
	// milliseconds, filling missing slots with AutoFillValue.
	AutoFill          bool
	AutoFillValue     float64
	AutoFillInterval  int64
	AutoFillStartTime *Instant
	AutoFillEndTime   *Instant

	// DefaultColor is the stroke and fill for series without a color.
	DefaultColor string

	// Axes toggles tick labels and markers. Nil means true.
	Axes *bool

	// Responsive replaces the fixed width/height of the root element with
	// a viewBox that scales uniformly.
	Responsive bool

	// Location is the time zone of time labels. Nil means UTC.
	Location *time.Location

	// Locale is the BCP 47 tag used to format value labels.
	Locale string

	// Logger receives debug traces of each render. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Width:           796,
		Height:          200,
		Padding:         4,
		PointRadius:     4,
		LineWidth:       1,
		AxeColor:        "#eee",
		AxeMarkerWidth:  10,
		AxeMarkerHeight: 5,
		TextColor:       "#aaa",
		TextFontSize:    10,
		TextFontFamily:  "helvetica",
		DefaultColor:    DefaultSeriesColor,
		Locale:          "en",
	}
}

// WithDefaults returns a copy of c with unset fields taken from
// DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Padding == 0 {
		c.Padding = d.Padding
	}
	if c.PointRadius == 0 {
		c.PointRadius = d.PointRadius
	}
	if c.LineWidth == 0 {
		c.LineWidth = d.LineWidth
	}
	if c.AxeColor == "" {
		c.AxeColor = d.AxeColor
	}
	if c.AxeMarkerWidth == 0 {
		c.AxeMarkerWidth = d.AxeMarkerWidth
	}
	if c.AxeMarkerHeight == 0 {
		c.AxeMarkerHeight = d.AxeMarkerHeight
	}
	if c.TextColor == "" {
		c.TextColor = d.TextColor
	}
	if c.TextFontSize == 0 {
		c.TextFontSize = d.TextFontSize
	}
	if c.TextFontFamily == "" {
		c.TextFontFamily = d.TextFontFamily
	}
	if c.DefaultColor == "" {
		c.DefaultColor = d.DefaultColor
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	return c
}

// Validate checks options that are illegal on their own. Combinations that
// depend on the data (auto-fill bounds, page too small) are checked during
// the render.
func (c Config) Validate() error {
	for option, v := range map[string]float64{
		"width": c.Width, "height": c.Height, "padding": c.Padding,
		"pointRadius": c.PointRadius, "lineWidth": c.LineWidth,
		"axeMarker": c.AxeMarkerWidth + c.AxeMarkerHeight, "textFontSize": c.TextFontSize,
		"autoFillValue": c.AutoFillValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewConfigError(option, "must be finite, got %g", v)
		}
	}
	if c.MinValue != nil && (math.IsNaN(*c.MinValue) || math.IsInf(*c.MinValue, 0)) {
		return NewConfigError("minValue", "must be finite, got %g", *c.MinValue)
	}
	switch {
	case c.Width <= 0:
		return NewConfigError("width", "must be positive, got %g", c.Width)
	case c.Height <= 0:
		return NewConfigError("height", "must be positive, got %g", c.Height)
	case c.TextFontSize <= 0:
		return NewConfigError("textFontSize", "must be positive, got %g", c.TextFontSize)
	case c.PointRadius < 0:
		return NewConfigError("pointRadius", "must not be negative, got %g", c.PointRadius)
	case c.LineWidth < 0:
		return NewConfigError("lineWidth", "must not be negative, got %g", c.LineWidth)
	case c.AxeMarkerWidth < 0 || c.AxeMarkerHeight < 0:
		return NewConfigError("axeMarker", "must not be negative")
	}
	return nil
}

// ShouldDrawAxes returns whether tick labels and markers are drawn.
func (c Config) ShouldDrawAxes() bool {
	if c.Axes != nil {
		return *c.Axes
	}
	return true
}

func (c Config) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
