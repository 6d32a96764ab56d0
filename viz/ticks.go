package viz

import (
	"math"
	"time"
)

// maxTicksPerAxis guards tick generation against runaway loops.
const maxTicksPerAxis = 10000

// OptimalTickStep returns a "nice" step for splitting rng into at most
// maxTicks intervals: 1, 2, 5 or 10 times a power of ten, the smallest of
// those not below rng/maxTicks. rng and maxTicks must be positive.
func OptimalTickStep(rng, maxTicks float64) float64 {
	minimumStep := rng / maxTicks
	magnitude := math.Pow(10, math.Floor(math.Log10(minimumStep)))
	residual := minimumStep / magnitude
	switch {
	case residual > 5:
		return 10 * magnitude
	case residual > 2:
		return 5 * magnitude
	case residual > 1:
		return 2 * magnitude
	}
	return magnitude
}

const (
	msSecond = int64(time.Second / time.Millisecond)
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
	msWeek   = 7 * msDay
	msMonth  = 30 * msDay
	msYear   = 365 * msDay
)

// TimeUnit is one candidate granularity for the time axis.
type TimeUnit struct {
	Name     string
	Interval int64  // nominal length in milliseconds
	Layout   string // time.Format layout for labels

	months int // calendar step for month based units
	days   int // calendar step for day based units
}

// timeUnits is ordered from the coarsest to the finest granularity.
var timeUnits = []TimeUnit{
	{Name: "century", Interval: 100 * msYear, Layout: "2006", months: 1200},
	{Name: "decade", Interval: 10 * msYear, Layout: "2006", months: 120},
	{Name: "year", Interval: msYear, Layout: "2006", months: 12},
	{Name: "month", Interval: msMonth, Layout: "Jan 2006", months: 1},
	{Name: "week", Interval: msWeek, Layout: "Jan 2", days: 7},
	{Name: "day", Interval: msDay, Layout: "Jan 2", days: 1},
	{Name: "hour", Interval: msHour, Layout: "15:04"},
	{Name: "minute", Interval: msMinute, Layout: "15:04"},
	{Name: "second", Interval: msSecond, Layout: "15:04:05"},
	{Name: "decisecond", Interval: 100, Layout: "15:04:05.0"},
	{Name: "centisecond", Interval: 10, Layout: "04:05.00"},
	{Name: "millisecond", Interval: 1, Layout: "04:05.000"},
}

// TimeUnits returns the candidate units, coarsest first.
func TimeUnits() []TimeUnit {
	return append([]TimeUnit(nil), timeUnits...)
}

// SelectTimeUnit walks the units from the coarsest down and returns the
// first one that splits [timeMin, timeMax] into more than one interval.
func SelectTimeUnit(timeMin, timeMax int64) (TimeUnit, error) {
	rng := float64(timeMax - timeMin)
	for _, u := range timeUnits {
		if rng/float64(u.Interval) > 1 {
			return u, nil
		}
	}
	return TimeUnit{}, NewConfigError("timeRange", "%d ms is too small for any time unit", timeMax-timeMin)
}

// first returns the earliest tick at or after ms, aligned on a boundary of
// mult units in loc.
func (u TimeUnit) first(ms int64, mult int, loc *time.Location) time.Time {
	lt := time.UnixMilli(ms).In(loc)
	switch {
	case u.months > 0:
		step := u.months * mult
		total := lt.Year()*12 + int(lt.Month()) - 1
		total = floorDiv(total, step) * step
		t := time.Date(floorDiv(total, 12), time.Month(total-floorDiv(total, 12)*12+1), 1, 0, 0, 0, 0, loc)
		for t.UnixMilli() < ms {
			t = t.AddDate(0, step, 0)
		}
		return t
	case u.days > 0:
		t := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
		for t.UnixMilli() < ms {
			t = t.AddDate(0, 0, u.days*mult)
		}
		return t
	}
	step := u.Interval * int64(mult)
	_, offset := lt.Zone()
	local := ms + int64(offset)*msSecond
	aligned := floorDiv64(local, step) * step
	if aligned < local {
		aligned += step
	}
	return time.UnixMilli(aligned - int64(offset)*msSecond).In(loc)
}

func (u TimeUnit) next(t time.Time, mult int) time.Time {
	switch {
	case u.months > 0:
		return t.AddDate(0, u.months*mult, 0)
	case u.days > 0:
		return t.AddDate(0, 0, u.days*mult)
	}
	return t.Add(time.Duration(u.Interval*int64(mult)) * time.Millisecond)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ValueTickCapacity estimates how many value ticks fit on the inner plot,
// one per four font heights.
func ValueTickCapacity(l Layout, cfg Config) float64 {
	return l.InnerHeight / (cfg.TextFontSize * 4)
}

// TimeTickCapacity estimates how many time ticks fit on the inner plot,
// one per ten font heights.
func TimeTickCapacity(l Layout, cfg Config) float64 {
	return l.InnerWidth / (cfg.TextFontSize * 10)
}

// PlanValueTicks places ticks at multiples of the optimal step inside the
// value domain. Positions are page y coordinates.
func PlanValueTicks(d Domain, l Layout, cfg Config) (TickPlan, error) {
	rng := d.ValueRange()
	capacity := ValueTickCapacity(l, cfg)
	if !(rng > 0) || !(capacity > 0) {
		return nil, NewInvariantError("PlanValueTicks", "range %g and capacity %g must be positive", rng, capacity)
	}
	step := OptimalTickStep(rng, capacity)
	format := newValueFormatter(cfg.Locale, calculateOptimalPrecision(step))

	var plan TickPlan
	start := math.Ceil(d.ValueMin/step) * step
	for i := 0; i < maxTicksPerAxis; i++ {
		v := start + float64(i)*step
		if v > d.ValueMax+step*1e-9 {
			break
		}
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		px, err := ToPixel(Point{Time: d.TimeMin, Value: v}, d, l)
		if err != nil {
			return nil, err
		}
		plan = append(plan, Tick{Position: px.Y, Value: v, Label: format(v)})
	}
	return plan, nil
}

// PlanTimeTicks selects the time unit for the domain and places ticks every
// mult units, where mult is the nice step (at least 1) for the tick
// capacity. Positions are page x coordinates.
func PlanTimeTicks(d Domain, l Layout, cfg Config) (TickPlan, error) {
	unit, err := SelectTimeUnit(d.TimeMin, d.TimeMax)
	if err != nil {
		return nil, err
	}
	capacity := TimeTickCapacity(l, cfg)
	if !(capacity > 0) {
		return nil, NewInvariantError("PlanTimeTicks", "capacity %g must be positive", capacity)
	}
	units := float64(d.TimeRange()) / float64(unit.Interval)
	mult := int(math.Max(1, math.Round(OptimalTickStep(units, capacity))))

	loc := cfg.location()
	var plan TickPlan
	t := unit.first(d.TimeMin, mult, loc)
	for i := 0; i < maxTicksPerAxis && t.UnixMilli() <= d.TimeMax; i++ {
		ms := t.UnixMilli()
		px, err := ToPixel(Point{Time: ms, Value: d.ValueMin}, d, l)
		if err != nil {
			return nil, err
		}
		plan = append(plan, Tick{Position: px.X, Value: float64(ms), Label: t.Format(unit.Layout)})
		t = unit.next(t, mult)
	}
	cfg.logger().Debug("planned time ticks", "unit", unit.Name, "every", mult, "ticks", len(plan))
	return plan, nil
}
