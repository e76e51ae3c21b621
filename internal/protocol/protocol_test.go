package protocol

import (
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dushixiang/svggraph/internal/graph"
)

func TestParseTime(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+8", 8*3600)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"now", now},
		{"now-1h", now.Add(-time.Hour)},
		{"now - 30m", now.Add(-30 * time.Minute)},
		{"now+2d", now.Add(48 * time.Hour)},
		{"now-1w", now.Add(-7 * 24 * time.Hour)},
		{"now-1M", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)}, // 2 月没有 31 日，顺延
		{"now-1y", time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC)},
		{"1704067200", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01 08:00:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input, now, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "yesterday", "now-1x", "2024-13-01 00:00:00"} {
		_, err := ParseTime(s, time.Now(), time.UTC)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, ErrInvalidTime), s)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("1d")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	d, err = ParseDuration("-2h")
	require.NoError(t, err)
	assert.Equal(t, -2*time.Hour, d)

	d, err = ParseDuration("90")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	d, err = ParseDuration("")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = ParseDuration("1 day")
	assert.Error(t, err)
}

func TestParseOptions(t *testing.T) {
	typ, err := ParseDisplayType("staircase")
	require.NoError(t, err)
	assert.Equal(t, graph.TypeStaircase, typ)

	axis, err := ParseAxis("")
	require.NoError(t, err)
	assert.Equal(t, graph.AxisLeft, axis)

	approx, err := ParseApproximation("all")
	require.NoError(t, err)
	assert.Equal(t, graph.ApproxAll, approx)

	missing, err := ParseMissingData("last_known")
	require.NoError(t, err)
	assert.Equal(t, graph.MissingLastKnown, missing)

	_, err = ParseDisplayType("pie")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestPointDataSample(t *testing.T) {
	v := 5.0
	lo, hi := 1.0, 9.0

	assert.Equal(t, graph.Sample{Clock: 10, Min: 5, Avg: 5, Max: 5}, PointData{Clock: 10, Value: &v}.Sample())
	assert.Equal(t, graph.Sample{Clock: 10, Min: 1, Avg: 5, Max: 9}, PointData{Clock: 10, Min: &lo, Avg: &v, Max: &hi}.Sample())
	assert.Equal(t, graph.Sample{Clock: 10, Null: true}, PointData{Clock: 10, Null: true}.Sample())
}

const yamlRequest = `
timeFrom: now-1h
timeTill: now
width: 800
axes:
  showRight: true
  leftMin: 0
metrics:
  - name: cpu
    units: "%"
    type: bar
    color: FF0000
    transparency: 7
    points:
      - {clock: 1704067200, value: 1.5}
      - {clock: 1704067260, min: 1, avg: 2, max: 3}
  - name: traffic
    units: bps
    series:
      name: eth0
      data:
        - {timestamp: 1704067200000, value: 100}
problems:
  - {eventId: "42", name: disk full, severity: 4, clock: 1704067300}
`

func TestDecodeYAML(t *testing.T) {
	req, err := Decode([]byte(yamlRequest))
	require.NoError(t, err)

	assert.Equal(t, "now-1h", req.TimeFrom)
	assert.Equal(t, 800, req.Width)
	assert.True(t, req.Axes.ShowRight)
	require.NotNil(t, req.Axes.LeftMin)
	assert.Equal(t, 0.0, *req.Axes.LeftMin)
	assert.Nil(t, req.Axes.ShowLeft)

	require.Len(t, req.Metrics, 2)
	cpu := req.Metrics[0]
	assert.Equal(t, "bar", cpu.Type)
	require.NotNil(t, cpu.Transparency)
	assert.Equal(t, 7, *cpu.Transparency)
	require.Len(t, cpu.Points, 2)
	assert.Equal(t, 1.5, *cpu.Points[0].Value)

	require.NotNil(t, req.Metrics[1].Series)
	assert.Equal(t, int64(1704067200000), req.Metrics[1].Series.Data[0].Timestamp)

	require.Len(t, req.Problems, 1)
	assert.Equal(t, 4, req.Problems[0].Severity)
}

func TestDecodeJSON(t *testing.T) {
	req, err := Decode([]byte(`{"timeFrom": "1704067200", "timeTill": "1704070800", "metrics": [{"name": "cpu", "points": [{"clock": 1704067200, "avg": 3}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "1704067200", req.TimeFrom)
	require.Len(t, req.Metrics, 1)
	assert.Equal(t, 3.0, *req.Metrics[0].Points[0].Avg)
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/requests/cpu-load.yaml", []byte(yamlRequest), 0o644))

	req, err := ReadFile(fs, "/requests/cpu-load.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cpu-load", req.Name)

	_, err = ReadFile(fs, "/requests/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/requests/broken.yaml", []byte("metrics: [\n"), 0o644))
	_, err = ReadFile(fs, "/requests/broken.yaml")
	assert.Error(t, err)
}
