package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSVG(t *testing.T) {
	out, err := RenderSVG(visitsAndDownloads(), e2eConfig())
	require.NoError(t, err)

	assert.Contains(t, out, `<svg width="796" height="200"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
	assert.Equal(t, 4, strings.Count(out, "<circle"))
	assert.Equal(t, 17, strings.Count(out, "<line"))
	assert.Equal(t, 9, strings.Count(out, "<text"))
	assert.Contains(t, out, ">1,000</text>")
	assert.Contains(t, out, `fill="#1d7fb3"`)
	assert.Contains(t, out, `stroke="#FFFFFF"`)
	assert.Contains(t, out, `data-series="Visits"`)
	assert.NotContains(t, out, "viewBox")
}

func TestRenderSVG_Responsive(t *testing.T) {
	cfg := e2eConfig()
	cfg.Responsive = true
	out, err := RenderSVG(visitsAndDownloads(), cfg)
	require.NoError(t, err)

	assert.Contains(t, out, `<svg viewBox="0 0 796 200" preserveAspectRatio="xMinYMin meet"`)
	assert.NotContains(t, out, `width="796"`)
}

func TestRenderSVG_EscapesTitles(t *testing.T) {
	in := []RawSeries{raw(`a "quoted" <title> & more`, [2]float64{0, 1}, [2]float64{100, 2})}
	out, err := RenderSVG(in, Config{})
	require.NoError(t, err)
	assert.Contains(t, out, `data-series="a &#34;quoted&#34; &lt;title&gt; &amp; more"`)
	assert.NotContains(t, out, "<title>")
}

func TestMakeResponsive(t *testing.T) {
	assert.Equal(t,
		`<svg viewBox="0 0 300 150.5" preserveAspectRatio="xMinYMin meet"><rect width="1" height="2"/></svg>`,
		MakeResponsive(`<svg width="300" height="150.5"><rect width="1" height="2"/></svg>`))
	assert.Equal(t, "<svg/>", MakeResponsive("<svg/>"))
}

func TestSVGSurface_SerializeBeforeSetSize(t *testing.T) {
	_, err := NewSVGSurface().Serialize()
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestSVGSurface_SerializeTwice(t *testing.T) {
	s := NewSVGSurface()
	s.SetSize(10, 20)
	s.DrawLine(0, 0, 10.4, 19.6, "#000", 1)
	first, err := s.Serialize()
	require.NoError(t, err)
	second, err := s.Serialize()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(first, "</svg>"))
	assert.Contains(t, first, `x2="10" y2="20"`)
}

func TestSVGPlotter(t *testing.T) {
	p := NewSVGPlotter(Config{Width: 400})
	assert.Equal(t, 400.0, p.Config().Width)
	assert.Equal(t, 200.0, p.Config().Height)

	out, err := p.Generate(visitsAndDownloads())
	require.NoError(t, err)
	assert.Contains(t, out, `width="400"`)

	_, err = p.Generate(nil)
	assert.ErrorIs(t, err, ErrValidation)
}
