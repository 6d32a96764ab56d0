package viz

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	gfn "github.com/panyam/goutils/fn"
)

// maxAutoFillPoints bounds the grid a single series may be expanded to.
const maxAutoFillPoints = 1 << 20

// emptyDomain is the identity of Domain.Union.
var emptyDomain = Domain{
	TimeMin:  math.MaxInt64,
	TimeMax:  math.MinInt64,
	ValueMin: math.Inf(1),
	ValueMax: math.Inf(-1),
}

// Normalize validates raw, converts every point to milliseconds, sorts each
// series by time and computes the Domain covering all of them. With
// cfg.AutoFill set, every series is rebuilt on the auto-fill grid first.
// raw is never modified.
func Normalize(raw []RawSeries, cfg Config) ([]Series, Domain, error) {
	if len(raw) == 0 {
		return nil, Domain{}, NewValidationError(-1, "", "", "need at least one series")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, Domain{}, err
	}

	seed := emptyDomain
	if cfg.MinValue != nil {
		seed.ValueMin = *cfg.MinValue
	}

	series := make([]Series, len(raw))
	domain := seed
	for i, rs := range raw {
		s, bounds, err := normalizeSeries(i, rs, cfg.DefaultColor)
		if err != nil {
			return nil, Domain{}, err
		}
		series[i] = s
		domain = domain.Union(bounds)
	}

	if cfg.AutoFill {
		var err error
		series, domain, err = autoFill(series, domain, cfg)
		if err != nil {
			return nil, Domain{}, err
		}
	}

	if math.IsInf(domain.ValueRange(), 0) {
		return nil, Domain{}, NewValidationError(-1, "", "points", "value range ["+
			strconv.FormatFloat(domain.ValueMin, 'g', -1, 64)+", "+
			strconv.FormatFloat(domain.ValueMax, 'g', -1, 64)+"] overflows float64")
	}
	if domain.ValueMax == domain.ValueMin {
		domain.ValueMax = domain.ValueMin + 1
	}
	cfg.logger().Debug("normalized series",
		"series", len(series),
		"timeMin", domain.TimeMin, "timeMax", domain.TimeMax,
		"valueMin", domain.ValueMin, "valueMax", domain.ValueMax)
	return series, domain, nil
}

func normalizeSeries(index int, rs RawSeries, defaultColor string) (Series, Domain, error) {
	if rs.Title == "" {
		return Series{}, Domain{}, NewValidationError(index, "", "title", "need a series title")
	}
	if len(rs.Points) == 0 {
		return Series{}, Domain{}, NewValidationError(index, rs.Title, "points", "need a list of points")
	}
	for j, p := range rs.Points {
		if !p.Time.IsSet() {
			return Series{}, Domain{}, NewValidationError(index, rs.Title, "points", "point "+strconv.Itoa(j)+" has no time")
		}
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return Series{}, Domain{}, NewValidationError(index, rs.Title, "points", "point "+strconv.Itoa(j)+" has a non-finite value")
		}
	}

	points := gfn.Map(rs.Points, func(p RawPoint) Point {
		return Point{Time: p.Time.UnixMilli(), Value: p.Value}
	})
	slices.SortStableFunc(points, func(a, b Point) int {
		return cmp.Compare(a.Time, b.Time)
	})

	color := rs.Color
	if color == "" {
		color = defaultColor
	}
	s := Series{Title: rs.Title, Color: color, Points: points}
	return s, seriesBounds(points), nil
}

// seriesBounds expects points sorted by time.
func seriesBounds(points []Point) Domain {
	vmin, vmax := stats.Bounds(gfn.Map(points, func(p Point) float64 { return p.Value }))
	return Domain{
		TimeMin:  points[0].Time,
		TimeMax:  points[len(points)-1].Time,
		ValueMin: vmin,
		ValueMax: vmax,
	}
}

// autoFill rebuilds every series on a fixed grid from the effective start
// up to (excluding) the generation bound. Original points that fall exactly
// on a grid slot are kept; every other slot gets cfg.AutoFillValue. Original
// points between slots are dropped.
func autoFill(series []Series, domain Domain, cfg Config) ([]Series, Domain, error) {
	interval := cfg.AutoFillInterval
	if interval <= 0 {
		return nil, Domain{}, NewConfigError("autoFillInterval", "must be greater than 0 when autoFill is set, got %d", interval)
	}

	start := domain.TimeMin
	if cfg.AutoFillStartTime != nil && cfg.AutoFillStartTime.IsSet() {
		start = cfg.AutoFillStartTime.UnixMilli()
	}
	// Without an explicit end the grid runs one interval past the last
	// observation so it covers the whole observed range.
	var bound int64
	if cfg.AutoFillEndTime != nil && cfg.AutoFillEndTime.IsSet() {
		bound = cfg.AutoFillEndTime.UnixMilli()
	} else if domain.TimeMax > math.MaxInt64-interval {
		return nil, Domain{}, NewConfigError("autoFillInterval", "%d ms past %d overflows the time axis", interval, domain.TimeMax)
	} else {
		bound = domain.TimeMax + interval
	}
	if bound <= start {
		return nil, Domain{}, NewConfigError("autoFillEndTime", "grid ends at %d, not after its start %d", bound, start)
	}
	count := AutoFillCount(start, bound, interval)
	if count > maxAutoFillPoints {
		return nil, Domain{}, NewConfigError("autoFillInterval", "%d ms over [%d, %d) needs %d points, more than %d", interval, start, bound, count, maxAutoFillPoints)
	}

	filled := make([]Series, len(series))
	for i, s := range series {
		filled[i] = Series{
			Title:  s.Title,
			Color:  s.Color,
			Points: fillGrid(s.Points, start, count, interval, cfg.AutoFillValue),
		}
	}

	domain.TimeMin = start
	// The last grid slot, not AutoFillEndTime: the end bound is exclusive.
	domain.TimeMax = start + (count-1)*interval
	domain.ValueMin = min(domain.ValueMin, cfg.AutoFillValue)
	domain.ValueMax = max(domain.ValueMax, cfg.AutoFillValue)
	return filled, domain, nil
}

// AutoFillCount returns the number of grid slots in [start, bound) at the
// given interval. It never overflows: the span is measured unsigned and
// the result saturates at math.MaxInt64.
func AutoFillCount(start, bound, interval int64) int64 {
	if bound <= start || interval <= 0 {
		return 0
	}
	span := uint64(bound) - uint64(start)
	count := (span-1)/uint64(interval) + 1
	if count > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(count)
}

// fillGrid merge-joins sorted points against the count slots of the grid
// starting at start.
func fillGrid(points []Point, start, count, interval int64, fill float64) []Point {
	out := make([]Point, 0, count)
	cursor := 0
	for i := int64(0); i < count; i++ {
		t := start + i*interval
		for cursor < len(points) && points[cursor].Time < t {
			cursor++
		}
		if cursor < len(points) && points[cursor].Time == t {
			out = append(out, points[cursor])
			cursor++
			continue
		}
		out = append(out, Point{Time: t, Value: fill})
	}
	return out
}
