package viz

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1438441036156", now},
		{" 42 ", 42},
		{"1.5e3", 1500},
		{"2015-08-01", 1438387200000},
		{"2015-08-01T14:57:16.156Z", now},
		{"2015-08-01T14:57:16", 1438441036000},
		{"2015-08-01 14:57:16", 1438441036000},
		{"2015-08-01T16:57:16.156+02:00", now},
	}
	for _, tt := range tests {
		got, err := ParseInstant(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.IsSet())
		assert.Equal(t, tt.want, got.UnixMilli(), tt.in)
	}

	_, err := ParseInstant("yesterday")
	assert.Error(t, err)
}

func TestInstant(t *testing.T) {
	var zero Instant
	assert.False(t, zero.IsSet())
	assert.Equal(t, "<unset>", zero.String())

	d := Date(time.Date(2015, time.August, 1, 14, 57, 16, 156e6, time.UTC))
	assert.Equal(t, Millis(now), d)
	assert.Equal(t, "1438441036156", d.String())
	assert.Equal(t, time.UTC, d.Time().Location())
}

func TestRawSeries_JSON(t *testing.T) {
	doc := `[{
		"title": "Visits",
		"color": "#1d7fb3",
		"points": [
			{"time": 1438441036156, "value": 5},
			{"date": "2015-08-01", "value": 7},
			{"time": "2015-08-01T14:57:16.156Z", "value": 1},
			{"value": 3}
		]
	}]`
	var series []RawSeries
	require.NoError(t, json.Unmarshal([]byte(doc), &series))
	require.Len(t, series, 1)
	assert.Equal(t, "Visits", series[0].Title)
	assert.Equal(t, "#1d7fb3", series[0].Color)

	pts := series[0].Points
	require.Len(t, pts, 4)
	assert.Equal(t, Millis(now), pts[0].Time)
	assert.Equal(t, Millis(1438387200000), pts[1].Time)
	assert.Equal(t, 7.0, pts[1].Value)
	assert.Equal(t, Millis(now), pts[2].Time)
	assert.False(t, pts[3].Time.IsSet())

	out, err := json.Marshal(series[0].Points[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"time": 1438441036156, "value": 5}`, string(out))

	var bad []RawSeries
	assert.Error(t, json.Unmarshal([]byte(`[{"title":"x","points":[{"time":"soon"}]}]`), &bad))
}

func TestDomain_Union(t *testing.T) {
	a := Domain{TimeMin: 10, TimeMax: 20, ValueMin: -1, ValueMax: 1}
	b := Domain{TimeMin: 5, TimeMax: 15, ValueMin: 0, ValueMax: 3}
	assert.Equal(t, Domain{TimeMin: 5, TimeMax: 20, ValueMin: -1, ValueMax: 3}, a.Union(b))
	assert.Equal(t, a.Union(b), b.Union(a))
	assert.Equal(t, a, emptyDomain.Union(a))
	assert.Equal(t, int64(15), a.Union(b).TimeRange())
	assert.Equal(t, 4.0, a.Union(b).ValueRange())
	assert.True(t, math.IsInf(emptyDomain.ValueMin, 1))
}
