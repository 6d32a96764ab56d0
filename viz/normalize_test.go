package viz

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toRaw(series []Series) []RawSeries {
	out := make([]RawSeries, len(series))
	for i, s := range series {
		out[i] = RawSeries{Title: s.Title, Color: s.Color}
		for _, p := range s.Points {
			out[i].Points = append(out[i].Points, RawPoint{Time: Millis(p.Time), Value: p.Value})
		}
	}
	return out
}

func TestNormalize_Validation(t *testing.T) {
	_, _, err := Normalize(nil, Config{})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = Normalize([]RawSeries{{Points: []RawPoint{{Time: Millis(1), Value: 1}}}}, Config{})
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, ve.Series)
	assert.Equal(t, "title", ve.Field)

	_, _, err = Normalize([]RawSeries{raw("ok", [2]float64{0, 1}), {Title: "empty"}}, Config{})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 1, ve.Series)
	assert.Equal(t, "empty", ve.Title)

	_, _, err = Normalize([]RawSeries{{Title: "no time", Points: []RawPoint{{Value: 3}}}}, Config{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalize_SortsStably(t *testing.T) {
	in := []RawSeries{raw("s", [2]float64{20, 1}, [2]float64{10, 2}, [2]float64{20, 3}, [2]float64{5, 4})}
	series, _, err := Normalize(in, Config{})
	require.NoError(t, err)
	assert.Equal(t, []Point{{5, 4}, {10, 2}, {20, 1}, {20, 3}}, series[0].Points)

	// The caller's slice is left alone.
	assert.Equal(t, int64(20), in[0].Points[0].Time.UnixMilli())
}

func TestNormalize_Idempotent(t *testing.T) {
	in := []RawSeries{
		raw("a", [2]float64{300, 1}, [2]float64{100, 7}, [2]float64{300, 2}, [2]float64{200, -4}),
		raw("b", [2]float64{150, 9}),
	}
	once, d1, err := Normalize(in, Config{})
	require.NoError(t, err)
	twice, d2, err := Normalize(toRaw(once), Config{})
	require.NoError(t, err)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("normalizing twice changed the series (-once +twice):\n%s", diff)
	}
	assert.Equal(t, d1, d2)
}

func TestNormalize_DomainAndColors(t *testing.T) {
	series, d, err := Normalize(visitsAndDownloads(), Config{})
	require.NoError(t, err)
	assert.Equal(t, Domain{TimeMin: 0, TimeMax: 100, ValueMin: 100, ValueMax: 1000}, d)
	assert.Equal(t, DefaultSeriesColor, series[0].Color)
	assert.Equal(t, "#1d7fb3", series[1].Color)

	_, d, err = Normalize(visitsAndDownloads(), Config{MinValue: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.ValueMin)

	// A forced minimum above the data drops nothing: points are kept
	// and the lower bound still follows them.
	series, d, err = Normalize(visitsAndDownloads(), Config{MinValue: floatPtr(200)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, d.ValueMin)
	assert.Len(t, series[1].Points, 2)
}

func TestNormalize_DegenerateValueRange(t *testing.T) {
	_, d, err := Normalize([]RawSeries{raw("flat", [2]float64{0, 5}, [2]float64{10, 5})}, Config{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, d.ValueMin)
	assert.Equal(t, 6.0, d.ValueMax)
}

func TestNormalize_AutoFillNeedsInterval(t *testing.T) {
	_, _, err := Normalize(visitsAndDownloads(), Config{AutoFill: true})
	require.ErrorIs(t, err, ErrConfig)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "autoFillInterval", ce.Option)
}

func TestNormalize_AutoFill(t *testing.T) {
	visits := raw("Visits",
		[2]float64{float64(now - 1000), 500},
		[2]float64{float64(now - 900), 300},
		[2]float64{float64(now - 700), 600},
		[2]float64{float64(now - 600), 1000},
		[2]float64{float64(now - 400), 500},
		[2]float64{float64(now - 300), 100},
	)
	downloads := raw("Downloads",
		[2]float64{float64(now - 900), 1000},
		[2]float64{float64(now - 800), 250},
		[2]float64{float64(now - 700), 500},
		[2]float64{float64(now - 600), 250},
		[2]float64{float64(now - 400), 40},
	)
	cfg := Config{MinValue: floatPtr(0), AutoFill: true, AutoFillInterval: 100}
	series, d, err := Normalize([]RawSeries{visits, downloads}, cfg)
	require.NoError(t, err)

	values := func(s Series) []float64 {
		var vs []float64
		for i, p := range s.Points {
			assert.Equal(t, now-1000+int64(i)*100, p.Time)
			vs = append(vs, p.Value)
		}
		return vs
	}
	assert.Equal(t, []float64{500, 300, 0, 600, 1000, 0, 500, 100}, values(series[0]))
	assert.Equal(t, []float64{0, 1000, 250, 500, 250, 0, 40, 0}, values(series[1]))
	assert.Equal(t, Domain{TimeMin: now - 1000, TimeMax: now - 300, ValueMin: 0, ValueMax: 1000}, d)
}

func TestNormalize_AutoFillDropsOffGridPoints(t *testing.T) {
	in := []RawSeries{raw("s", [2]float64{0, 1}, [2]float64{150, 2}, [2]float64{200, 3})}
	series, d, err := Normalize(in, Config{AutoFill: true, AutoFillInterval: 100, AutoFillValue: -1})
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 1}, {100, -1}, {200, 3}}, series[0].Points)
	assert.Equal(t, -1.0, d.ValueMin)
	assert.Equal(t, int64(200), d.TimeMax)
}

func TestNormalize_AutoFillExplicitBounds(t *testing.T) {
	start, end := Millis(-100), Millis(250)
	in := []RawSeries{raw("s", [2]float64{0, 4}, [2]float64{100, 5})}
	series, d, err := Normalize(in, Config{AutoFill: true, AutoFillInterval: 100, AutoFillStartTime: &start, AutoFillEndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, []Point{{-100, 0}, {0, 4}, {100, 5}, {200, 0}}, series[0].Points)
	assert.Equal(t, int64(-100), d.TimeMin)
	assert.Equal(t, int64(200), d.TimeMax)

	early := Millis(-500)
	_, _, err = Normalize(in, Config{AutoFill: true, AutoFillInterval: 100, AutoFillStartTime: &start, AutoFillEndTime: &early})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNormalize_AutoFillPointCount(t *testing.T) {
	for _, tc := range []struct {
		first, last, interval int64
	}{
		{0, 1000, 100},
		{0, 999, 100},
		{-50, 70, 7},
		{5, 5, 1},
		{1, 1000000, 333},
	} {
		in := []RawSeries{raw("s", [2]float64{float64(tc.first), 1}, [2]float64{float64(tc.last), 2})}
		series, d, err := Normalize(in, Config{AutoFill: true, AutoFillInterval: tc.interval})
		require.NoError(t, err)

		bound := tc.last + tc.interval
		want := (bound - tc.first + tc.interval - 1) / tc.interval
		assert.Equal(t, want, AutoFillCount(tc.first, bound, tc.interval))
		require.Len(t, series[0].Points, int(want))
		for i := 1; i < len(series[0].Points); i++ {
			assert.Equal(t, tc.interval, series[0].Points[i].Time-series[0].Points[i-1].Time)
		}
		assert.Equal(t, series[0].Points[len(series[0].Points)-1].Time, d.TimeMax)
	}
}

func TestNormalize_AutoFillExtremeInterval(t *testing.T) {
	in := []RawSeries{raw("s", [2]float64{0, 1}, [2]float64{10, 2})}

	series, d, err := Normalize(in, Config{AutoFill: true, AutoFillInterval: 1 << 62})
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 1}, {1 << 62, 0}}, series[0].Points)
	assert.Equal(t, int64(1<<62), d.TimeMax)

	_, _, err = Normalize(in, Config{AutoFill: true, AutoFillInterval: math.MaxInt64})
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "autoFillInterval", ce.Option)

	start, end := Millis(math.MinInt64), Millis(math.MaxInt64)
	_, _, err = Normalize(in, Config{AutoFill: true, AutoFillInterval: 1, AutoFillStartTime: &start, AutoFillEndTime: &end})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestAutoFillCount_Saturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), AutoFillCount(math.MinInt64, math.MaxInt64, 1))
	assert.Equal(t, int64(2), AutoFillCount(0, 10+(1<<62), 1<<62))
	assert.Equal(t, int64(1), AutoFillCount(math.MinInt64, math.MaxInt64, math.MaxInt64))
	assert.Equal(t, int64(0), AutoFillCount(5, 5, 1))
}

func TestNormalize_ValueRangeOverflow(t *testing.T) {
	in := []RawSeries{raw("huge", [2]float64{0, -1e308}, [2]float64{10, 1e308})}
	_, _, err := Normalize(in, Config{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, ErrValidation)
}
