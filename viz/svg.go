package viz

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

// SVGSurface is a Surface that writes SVG through svgo. Coordinates are
// rounded to whole pixels.
type SVGSurface struct {
	buf     bytes.Buffer
	canvas  *svg.SVG
	started bool
	out     string
	done    bool
}

func NewSVGSurface() *SVGSurface {
	s := &SVGSurface{}
	s.canvas = svg.New(&s.buf)
	return s
}

func (s *SVGSurface) SetSize(w, h float64) {
	s.canvas.Start(px(w), px(h))
	s.started = true
}

func (s *SVGSurface) DrawLine(x1, y1, x2, y2 float64, stroke string, strokeWidth float64) {
	s.canvas.Line(px(x1), px(y1), px(x2), px(y2),
		attr("stroke", stroke), attr("stroke-width", num(strokeWidth)))
}

func (s *SVGSurface) DrawCircle(cx, cy, r float64, fill, stroke string, strokeWidth float64, attrs ...Attr) {
	extra := []string{attr("fill", fill), attr("stroke", stroke), attr("stroke-width", num(strokeWidth))}
	for _, a := range attrs {
		extra = append(extra, attr(a.Name, a.Value))
	}
	s.canvas.Circle(px(cx), px(cy), px(r), extra...)
}

func (s *SVGSurface) DrawText(x, y float64, fontFamily string, fontSize float64, fill, textAnchor, content string) {
	s.canvas.Text(px(x), px(y), content,
		attr("font-family", fontFamily),
		attr("font-size", num(fontSize)),
		attr("fill", fill),
		attr("text-anchor", textAnchor))
}

// Serialize closes the document and returns it. It may be called more than
// once.
func (s *SVGSurface) Serialize() (string, error) {
	if !s.started {
		return "", NewInvariantError("SVGSurface.Serialize", "SetSize was never called")
	}
	if !s.done {
		s.canvas.End()
		s.out = s.buf.String()
		s.done = true
	}
	return s.out, nil
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

// rootSize matches the fixed size attributes of the root element.
var rootSize = regexp.MustCompile(`width="([0-9.]+)"\s+height="([0-9.]+)"`)

// MakeResponsive swaps the fixed width and height of the first element in
// doc for an equivalent viewBox that scales uniformly with its container.
func MakeResponsive(doc string) string {
	loc := rootSize.FindStringSubmatchIndex(doc)
	if loc == nil {
		return doc
	}
	w, h := doc[loc[2]:loc[3]], doc[loc[4]:loc[5]]
	viewBox := fmt.Sprintf(`viewBox="0 0 %s %s" preserveAspectRatio="xMinYMin meet"`, w, h)
	return doc[:loc[0]] + viewBox + doc[loc[1]:]
}
