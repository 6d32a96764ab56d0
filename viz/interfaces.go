// Package viz lays out and renders time-series line charts as SVG.
//
// A render is a single pure pass: raw series and a Config go in, an ordered
// list of draw commands comes out and is replayed onto a Surface, which
// serializes it to the output format.
package viz

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --- Input data ---

// Instant is a point in time given either as epoch milliseconds or as a
// date. The zero Instant is unset.
type Instant struct {
	ms  int64
	set bool
}

// Millis returns the Instant at ms milliseconds since the Unix epoch.
func Millis(ms int64) Instant { return Instant{ms: ms, set: true} }

// Date returns the Instant for t.
func Date(t time.Time) Instant { return Instant{ms: t.UnixMilli(), set: true} }

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant accepts integer milliseconds or a date-like string.
func ParseInstant(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Millis(ms), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Millis(int64(f)), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t), nil
		}
	}
	return Instant{}, fmt.Errorf("cannot parse %q as a time", s)
}

// IsSet reports whether the Instant was given.
func (i Instant) IsSet() bool { return i.set }

// UnixMilli returns the Instant as milliseconds since the Unix epoch.
func (i Instant) UnixMilli() int64 { return i.ms }

// Time returns the Instant as a UTC time.
func (i Instant) Time() time.Time { return time.UnixMilli(i.ms).UTC() }

func (i Instant) String() string {
	if !i.set {
		return "<unset>"
	}
	return strconv.FormatInt(i.ms, 10)
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(i.ms, 10)), nil
}

// UnmarshalJSON accepts a number of milliseconds or a date-like string.
func (i *Instant) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = Instant{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	parsed, err := ParseInstant(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// RawPoint is one observation as supplied by the caller.
type RawPoint struct {
	Value float64 `json:"value"`
	Time  Instant `json:"time"`
}

// UnmarshalJSON also accepts the "date" key as an alias for "time".
func (p *RawPoint) UnmarshalJSON(data []byte) error {
	var aux struct {
		Value float64 `json:"value"`
		Time  Instant `json:"time"`
		Date  Instant `json:"date"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Value = aux.Value
	p.Time = aux.Time
	if !p.Time.IsSet() {
		p.Time = aux.Date
	}
	return nil
}

// RawSeries is one labeled, possibly unordered, list of observations.
type RawSeries struct {
	Title  string     `json:"title"`
	Color  string     `json:"color,omitempty"`
	Points []RawPoint `json:"points"`
}

// --- Normalized data ---

// Point is a normalized observation.
type Point struct {
	Time  int64   // milliseconds since the Unix epoch
	Value float64
}

// Series is a normalized series: points sorted ascending by time, ties in
// input order, color always set.
type Series struct {
	Title  string
	Color  string
	Points []Point
}

// Domain is the bounding box in time and value of everything rendered.
type Domain struct {
	TimeMin, TimeMax   int64
	ValueMin, ValueMax float64
}

// Union returns the smallest Domain covering both d and o.
func (d Domain) Union(o Domain) Domain {
	return Domain{
		TimeMin:  min(d.TimeMin, o.TimeMin),
		TimeMax:  max(d.TimeMax, o.TimeMax),
		ValueMin: min(d.ValueMin, o.ValueMin),
		ValueMax: max(d.ValueMax, o.ValueMax),
	}
}

// TimeRange returns TimeMax - TimeMin in milliseconds.
func (d Domain) TimeRange() int64 { return d.TimeMax - d.TimeMin }

// ValueRange returns ValueMax - ValueMin.
func (d Domain) ValueRange() float64 { return d.ValueMax - d.ValueMin }

// Tick is one labeled gridline; Position is a pixel offset on the page
// (x for time ticks, y for value ticks).
type Tick struct {
	Position float64
	Value    float64
	Label    string
}

// TickPlan is the ordered set of ticks for one axis.
type TickPlan []Tick

// Pixel is an absolute position on the page.
type Pixel struct {
	X, Y float64
}

// --- Collaborators ---

// Attr is an extra attribute attached to a drawn element, such as data-*
// metadata on point markers.
type Attr struct {
	Name, Value string
}

// Surface is the vector drawing capability a render writes to.
type Surface interface {
	SetSize(w, h float64)
	DrawLine(x1, y1, x2, y2 float64, stroke string, strokeWidth float64)
	DrawCircle(cx, cy, r float64, fill, stroke string, strokeWidth float64, attrs ...Attr)
	DrawText(x, y float64, fontFamily string, fontSize float64, fill, textAnchor, content string)
	Serialize() (string, error)
}

// Plotter defines the interface for creating charts.
type Plotter interface {
	Generate(series []RawSeries) (string, error)
}
