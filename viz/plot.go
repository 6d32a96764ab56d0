package viz

import (
	"log/slog"
)

// SVGPlotter implements the Plotter interface to generate SVG charts.
type SVGPlotter struct {
	config Config
}

var _ Plotter = (*SVGPlotter)(nil)

// NewSVGPlotter returns a plotter for config. Unset fields take their
// defaults.
func NewSVGPlotter(config Config) *SVGPlotter {
	return &SVGPlotter{config: config.WithDefaults()}
}

// Config returns the effective configuration.
func (p *SVGPlotter) Config() Config {
	return p.config
}

// Generate creates an SVG string from a multi-series dataset.
func (p *SVGPlotter) Generate(series []RawSeries) (string, error) {
	out, err := RenderSVG(series, p.config)
	if err != nil {
		p.config.logger().Debug("render failed", slog.Any("error", err))
		return "", err
	}
	return out, nil
}
