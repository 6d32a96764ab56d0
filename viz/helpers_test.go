package viz

import (
	"fmt"
	"strings"
)

// now is the reference timestamp of the sample data sets.
const now = int64(1438441036156)

func raw(title string, pts ...[2]float64) RawSeries {
	s := RawSeries{Title: title}
	for _, p := range pts {
		s.Points = append(s.Points, RawPoint{Time: Millis(int64(p[0])), Value: p[1]})
	}
	return s
}

// visitsAndDownloads is the two-series, two-point chart used across tests.
func visitsAndDownloads() []RawSeries {
	downloads := raw("Downloads", [2]float64{0, 100}, [2]float64{100, 1000})
	downloads.Color = "#1d7fb3"
	return []RawSeries{
		raw("Visits", [2]float64{0, 500}, [2]float64{100, 300}),
		downloads,
	}
}

func floatPtr(f float64) *float64 { return &f }

// recordingSurface is a Surface that logs every call.
type recordingSurface struct {
	calls []string
	w, h  float64
}

func (s *recordingSurface) SetSize(w, h float64) {
	s.w, s.h = w, h
	s.calls = append(s.calls, fmt.Sprintf("size %g %g", w, h))
}

func (s *recordingSurface) DrawLine(x1, y1, x2, y2 float64, stroke string, strokeWidth float64) {
	s.calls = append(s.calls, fmt.Sprintf("line %g,%g %g,%g %s %g", x1, y1, x2, y2, stroke, strokeWidth))
}

func (s *recordingSurface) DrawCircle(cx, cy, r float64, fill, stroke string, strokeWidth float64, attrs ...Attr) {
	s.calls = append(s.calls, fmt.Sprintf("circle %g,%g r=%g %s %s %g %v", cx, cy, r, fill, stroke, strokeWidth, attrs))
}

func (s *recordingSurface) DrawText(x, y float64, fontFamily string, fontSize float64, fill, textAnchor, content string) {
	s.calls = append(s.calls, fmt.Sprintf("text %g,%g %s %g %s %s %s", x, y, fontFamily, fontSize, fill, textAnchor, content))
}

func (s *recordingSurface) Serialize() (string, error) {
	return strings.Join(s.calls, "\n"), nil
}

func (s *recordingSurface) count(prefix string) int {
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
