package viz

import (
	"fmt"
	"strconv"
)

// Command is one abstract draw call. Commands are replayed onto a Surface
// in order; later commands paint over earlier ones.
type Command interface {
	Apply(s Surface)
}

type LineCommand struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	StrokeWidth    float64
}

func (c LineCommand) Apply(s Surface) {
	s.DrawLine(c.X1, c.Y1, c.X2, c.Y2, c.Stroke, c.StrokeWidth)
}

type CircleCommand struct {
	CX, CY, R    float64
	Fill, Stroke string
	StrokeWidth  float64
	Attrs        []Attr
}

func (c CircleCommand) Apply(s Surface) {
	s.DrawCircle(c.CX, c.CY, c.R, c.Fill, c.Stroke, c.StrokeWidth, c.Attrs...)
}

type TextCommand struct {
	X, Y       float64
	FontFamily string
	FontSize   float64
	Fill       string
	Anchor     string
	Content    string
}

func (c TextCommand) Apply(s Surface) {
	s.DrawText(c.X, c.Y, c.FontFamily, c.FontSize, c.Fill, c.Anchor, c.Content)
}

// markerStroke is the outline of every point marker.
const markerStroke = "#FFFFFF"

type phase int

const (
	phasePlanAxes phase = iota
	phaseDrawAxes
	phaseDrawSeries
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phasePlanAxes:
		return "PlanAxes"
	case phaseDrawAxes:
		return "DrawAxes"
	case phaseDrawSeries:
		return "DrawSeries"
	case phaseDone:
		return "Done"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

// RenderDirector turns normalized series into draw commands in three
// phases that must run in order, each exactly once: PlanAxes, DrawAxes,
// DrawSeries.
type RenderDirector struct {
	series []Series
	domain Domain
	layout Layout
	cfg    Config

	phase      phase
	valueTicks TickPlan
	timeTicks  TickPlan
	commands   []Command
}

func NewRenderDirector(series []Series, domain Domain, layout Layout, cfg Config) *RenderDirector {
	return &RenderDirector{
		series: series,
		domain: domain,
		layout: layout,
		cfg:    cfg.WithDefaults(),
	}
}

func (r *RenderDirector) enter(p phase) error {
	if r.phase != p {
		return NewInvariantError("RenderDirector", "cannot run %s while in %s", p, r.phase)
	}
	return nil
}

// PlanAxes computes the tick plans of both axes.
func (r *RenderDirector) PlanAxes() error {
	if err := r.enter(phasePlanAxes); err != nil {
		return err
	}
	// Time first: a single instant has no time unit, which is a
	// configuration problem rather than a broken domain.
	var err error
	if r.timeTicks, err = PlanTimeTicks(r.domain, r.layout, r.cfg); err != nil {
		return err
	}
	if r.valueTicks, err = PlanValueTicks(r.domain, r.layout, r.cfg); err != nil {
		return err
	}
	r.phase = phaseDrawAxes
	return nil
}

// DrawAxes emits gridlines, markers and labels for every planned tick. With
// axes disabled the phase emits nothing.
func (r *RenderDirector) DrawAxes() error {
	if err := r.enter(phaseDrawAxes); err != nil {
		return err
	}
	r.phase = phaseDrawSeries
	if !r.cfg.ShouldDrawAxes() {
		return nil
	}

	l, cfg := r.layout, r.cfg
	fs := cfg.TextFontSize
	left, right := l.InnerX, l.InnerX+l.InnerWidth
	bottom := l.InnerY + l.InnerHeight

	for _, t := range r.valueTicks {
		r.line(left, t.Position, right, t.Position, cfg.AxeColor)
		r.line(left-cfg.AxeMarkerWidth, t.Position, left, t.Position, cfg.AxeColor)
		r.text(left-cfg.AxeMarkerWidth-cfg.Padding, t.Position+fs/3, "end", t.Label)
	}

	r.line(left, bottom, right, bottom, cfg.AxeColor)
	for _, t := range r.timeTicks {
		r.line(t.Position, bottom, t.Position, bottom+cfg.AxeMarkerHeight, cfg.AxeColor)
		r.text(t.Position, bottom+cfg.AxeMarkerHeight+cfg.Padding+fs, "middle", t.Label)
	}
	return nil
}

// DrawSeries emits, for each series in order, a line between consecutive
// points and a marker on every point. The first series also draws the
// vertical gridlines shared by all series.
func (r *RenderDirector) DrawSeries() error {
	if err := r.enter(phaseDrawSeries); err != nil {
		return err
	}
	l, cfg := r.layout, r.cfg
	top, bottom := l.InnerY, l.InnerY+l.InnerHeight

	for si, s := range r.series {
		pix := make([]Pixel, len(s.Points))
		for j, p := range s.Points {
			px, err := ToPixel(p, r.domain, l)
			if err != nil {
				return fmt.Errorf("series %q point %d: %w", s.Title, j, err)
			}
			pix[j] = px
		}

		if len(pix) == 1 {
			if si == 0 {
				r.line(pix[0].X, top, pix[0].X, bottom, cfg.AxeColor)
			}
			r.marker(s, 0, pix[0])
			continue
		}
		for j := 0; j+1 < len(pix); j++ {
			last := j == len(pix)-2
			if si == 0 {
				r.line(pix[j].X, top, pix[j].X, bottom, cfg.AxeColor)
				if last {
					r.line(pix[j+1].X, top, pix[j+1].X, bottom, cfg.AxeColor)
				}
			}
			r.line(pix[j].X, pix[j].Y, pix[j+1].X, pix[j+1].Y, s.Color)
			r.marker(s, j, pix[j])
			if last {
				r.marker(s, j+1, pix[j+1])
			}
		}
	}
	r.phase = phaseDone
	return nil
}

// Run executes all phases and returns the finished command list.
func (r *RenderDirector) Run() ([]Command, error) {
	for _, step := range []func() error{r.PlanAxes, r.DrawAxes, r.DrawSeries} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return r.Commands(), nil
}

// Commands returns the commands emitted so far.
func (r *RenderDirector) Commands() []Command {
	return append([]Command(nil), r.commands...)
}

// ValueTicks and TimeTicks return the plans made by PlanAxes.
func (r *RenderDirector) ValueTicks() TickPlan { return r.valueTicks }
func (r *RenderDirector) TimeTicks() TickPlan  { return r.timeTicks }

func (r *RenderDirector) line(x1, y1, x2, y2 float64, stroke string) {
	r.commands = append(r.commands, LineCommand{X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: stroke, StrokeWidth: r.cfg.LineWidth})
}

func (r *RenderDirector) text(x, y float64, anchor, content string) {
	r.commands = append(r.commands, TextCommand{
		X: x, Y: y,
		FontFamily: r.cfg.TextFontFamily,
		FontSize:   r.cfg.TextFontSize,
		Fill:       r.cfg.TextColor,
		Anchor:     anchor,
		Content:    content,
	})
}

// marker draws point j of s. The two endpoints get a thinner outline than
// interior points.
func (r *RenderDirector) marker(s Series, j int, at Pixel) {
	width := r.cfg.LineWidth * 2
	if j == 0 || j == len(s.Points)-1 {
		width = r.cfg.LineWidth
	}
	p := s.Points[j]
	r.commands = append(r.commands, CircleCommand{
		CX: at.X, CY: at.Y, R: r.cfg.PointRadius,
		Fill: s.Color, Stroke: markerStroke, StrokeWidth: width,
		Attrs: []Attr{
			{Name: "data-series", Value: s.Title},
			{Name: "data-time", Value: strconv.FormatInt(p.Time, 10)},
			{Name: "data-value", Value: strconv.FormatFloat(p.Value, 'g', -1, 64)},
		},
	})
}

// Chart is everything one render computed before touching a Surface.
type Chart struct {
	Series     []Series
	Domain     Domain
	Layout     Layout
	ValueTicks TickPlan
	TimeTicks  TickPlan
	Commands   []Command
	Config     Config
}

// Plan normalizes raw, lays out the page and runs the RenderDirector.
func Plan(raw []RawSeries, cfg Config) (*Chart, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	series, domain, err := Normalize(raw, cfg)
	if err != nil {
		return nil, err
	}
	layout, err := ComputeLayout(domain, cfg)
	if err != nil {
		return nil, err
	}
	director := NewRenderDirector(series, domain, layout, cfg)
	commands, err := director.Run()
	if err != nil {
		return nil, err
	}
	cfg.logger().Debug("planned chart", "series", len(series), "commands", len(commands))
	return &Chart{
		Series:     series,
		Domain:     domain,
		Layout:     layout,
		ValueTicks: director.ValueTicks(),
		TimeTicks:  director.TimeTicks(),
		Commands:   commands,
		Config:     cfg,
	}, nil
}

// Draw replays the chart onto surface and returns the serialized output.
func (c *Chart) Draw(surface Surface) (string, error) {
	surface.SetSize(c.Config.Width, c.Config.Height)
	for _, cmd := range c.Commands {
		cmd.Apply(surface)
	}
	out, err := surface.Serialize()
	if err != nil {
		return "", err
	}
	if c.Config.Responsive {
		out = MakeResponsive(out)
	}
	return out, nil
}

// Render plans the chart for raw and draws it onto surface. On error
// nothing is drawn.
func Render(raw []RawSeries, cfg Config, surface Surface) (string, error) {
	chart, err := Plan(raw, cfg)
	if err != nil {
		return "", err
	}
	return chart.Draw(surface)
}

// RenderSVG renders raw to an SVG document.
func RenderSVG(raw []RawSeries, cfg Config) (string, error) {
	return Render(raw, cfg, NewSVGSurface())
}
