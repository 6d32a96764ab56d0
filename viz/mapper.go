package viz

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// Position maps fractions of the page to a page position. fy grows upwards.
func (l Layout) Position(fx, fy float64) Pixel {
	return Pixel{X: fx * l.Width, Y: l.Height * (1 - fy)}
}

// InnerPosition maps fractions of the inner plot rectangle to a page
// position. fy grows upwards.
func (l Layout) InnerPosition(fx, fy float64) Pixel {
	return Pixel{
		X: l.InnerX + fx*l.InnerWidth,
		Y: l.InnerY + (1-fy)*l.InnerHeight,
	}
}

// ToPixel maps p to its position inside the inner plot rectangle. Later
// times map further right, larger values higher up. A degenerate domain is
// an InvariantError: Normalize never produces one for the value axis and the
// tick planner rejects it for the time axis.
func ToPixel(p Point, d Domain, l Layout) (Pixel, error) {
	if d.TimeMax <= d.TimeMin {
		return Pixel{}, NewInvariantError("ToPixel", "empty time domain [%d, %d]", d.TimeMin, d.TimeMax)
	}
	if !(d.ValueMax > d.ValueMin) {
		return Pixel{}, NewInvariantError("ToPixel", "empty value domain [%g, %g]", d.ValueMin, d.ValueMax)
	}
	fx := scale.Linear{Min: float64(d.TimeMin), Max: float64(d.TimeMax)}.Map(float64(p.Time))
	fy := scale.Linear{Min: d.ValueMin, Max: d.ValueMax}.Map(p.Value)
	if !isFinite(fx) || !isFinite(fy) {
		return Pixel{}, NewInvariantError("ToPixel", "non-finite fractions (%g, %g) for %+v", fx, fy, p)
	}
	return l.InnerPosition(fx, fy), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
