package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 平均间隔 200 秒，阈值 600 秒，最后一个间隔 960 秒，补点间隔 1 秒
func gappedSamples() []Sample {
	clocks := []int64{0, 10, 20, 30, 40, 1000}
	out := make([]Sample, len(clocks))
	for i, c := range clocks {
		v := float64(c) / 10
		out[i] = Sample{Clock: c, Min: v, Avg: v, Max: v}
	}
	return out
}

func clocksOf(samples []Sample) []int64 {
	out := make([]int64, len(samples))
	for i, s := range samples {
		out[i] = s.Clock
	}
	return out
}

func TestFillGapsConnected(t *testing.T) {
	samples := gappedSamples()
	out, inserted := FillGaps(samples, MissingConnected)
	assert.False(t, inserted)
	assert.Equal(t, samples, out)
}

func TestFillGapsBelowThreshold(t *testing.T) {
	samples := make([]Sample, 10)
	for i := range samples {
		samples[i] = Sample{Clock: int64(i) * 60, Avg: 1}
	}
	for _, policy := range []MissingData{MissingNone, MissingZero, MissingLastKnown} {
		out, inserted := FillGaps(samples, policy)
		assert.False(t, inserted)
		assert.Len(t, out, len(samples))
	}
}

func TestFillGapsNone(t *testing.T) {
	samples := gappedSamples()
	out, inserted := FillGaps(samples, MissingNone)
	require.True(t, inserted)
	assert.Equal(t, []int64{0, 10, 20, 30, 40, 41, 1000}, clocksOf(out))
	assert.True(t, out[5].Null)
	// 输入不被修改
	assert.Len(t, samples, 6)
}

func TestFillGapsZero(t *testing.T) {
	out, inserted := FillGaps(gappedSamples(), MissingZero)
	require.True(t, inserted)
	assert.Equal(t, []int64{0, 10, 20, 30, 40, 41, 999, 1000}, clocksOf(out))
	for _, s := range out[5:7] {
		assert.False(t, s.Null)
		assert.Equal(t, 0.0, s.Avg)
	}
}

func TestFillGapsLastKnown(t *testing.T) {
	out, inserted := FillGaps(gappedSamples(), MissingLastKnown)
	require.True(t, inserted)
	assert.Equal(t, []int64{0, 10, 20, 30, 40, 999, 1000}, clocksOf(out))
	assert.Equal(t, 4.0, out[5].Avg)
	assert.Equal(t, 4.0, out[5].Max)
}

func TestFillGapsTooFewSamples(t *testing.T) {
	out, inserted := FillGaps([]Sample{{Clock: 1}}, MissingZero)
	assert.False(t, inserted)
	assert.Len(t, out, 1)
}
