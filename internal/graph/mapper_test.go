package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapper() Mapper {
	return NewMapper(Rect{X: 0, Y: 10, Width: 100, Height: 100}, 0, 100, 0, 50)
}

func TestMapperBoundaries(t *testing.T) {
	m := testMapper()
	assert.Equal(t, 10.0, m.Y(50))
	assert.Equal(t, 110.0, m.Y(0))
	assert.Equal(t, 0.0, m.X(0, 0))
	assert.Equal(t, 100.0, m.X(100, 0))

	c, ok := m.Map(50, 0, 25, false)
	require.True(t, ok)
	assert.Equal(t, 50, c.X)
	assert.Equal(t, 60, c.Y)
}

func TestMapperTimeShift(t *testing.T) {
	m := testMapper()
	assert.Equal(t, 40.0, m.X(50, 10))
}

func TestMapperMonotonicX(t *testing.T) {
	m := testMapper()
	last := -1
	for clock := int64(0); clock <= 100; clock += 7 {
		c, ok := m.Map(clock, 0, 10, false)
		require.True(t, ok)
		assert.GreaterOrEqual(t, c.X, last)
		last = c.X
	}
}

func TestMapperOutOfRange(t *testing.T) {
	m := testMapper()

	c, ok := m.Map(10, 0, 1e9, false)
	require.True(t, ok)
	assert.Equal(t, -pixelBound, c.Y)

	c, ok = m.Map(10, 0, -1e9, false)
	require.True(t, ok)
	assert.Equal(t, pixelBound, c.Y)

	// 点图丢弃超出范围的值
	_, ok = m.Map(10, 0, 1e9, true)
	assert.False(t, ok)
}

func TestBuildPathsSplitsOnNull(t *testing.T) {
	metric := Metric{Options: MetricOptions{Type: TypeLine}}
	samples := []Sample{
		{Clock: 10, Avg: 1},
		{Clock: 20, Null: true},
		{Clock: 30, Avg: 3},
		{Clock: 40, Avg: 4},
	}

	paths := buildPaths(metric, samples, testMapper())
	require.Len(t, paths, 2)
	assert.Len(t, paths[0], 1)
	assert.Len(t, paths[1], 2)

	c, ok := paths[1][0].At(ChannelAvg)
	require.True(t, ok)
	assert.Equal(t, "3", c.Label)

	_, ok = paths[1][0].At(ChannelMax)
	assert.False(t, ok)
}

func TestBuildPathsAllChannels(t *testing.T) {
	metric := Metric{Options: MetricOptions{Approximation: ApproxAll}}
	paths := buildPaths(metric, []Sample{{Clock: 50, Min: 0, Avg: 25, Max: 50}}, testMapper())
	require.Len(t, paths, 1)

	for c, y := range map[Channel]int{ChannelMin: 110, ChannelAvg: 60, ChannelMax: 10} {
		coord, ok := paths[0][0].At(c)
		require.True(t, ok)
		assert.Equal(t, y, coord.Y)
	}
}
