package workperiod

import (
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 是周一
func monday(hour, minute int) int64 {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC).Unix()
}

func TestParse(t *testing.T) {
	s, err := Parse("1-5,09:00-18:00;6-7,10:00-16:00")
	require.NoError(t, err)
	require.Len(t, s.Periods, 2)
	assert.Equal(t, Period{DayFrom: 1, DayTill: 5, From: 9 * 3600, Till: 18 * 3600}, s.Periods[0])
	assert.Equal(t, Period{DayFrom: 6, DayTill: 7, From: 10 * 3600, Till: 16 * 3600}, s.Periods[1])

	s, err = Parse("3,00:00-24:00;")
	require.NoError(t, err)
	assert.Equal(t, Period{DayFrom: 3, DayTill: 3, From: 0, Till: secondsPerDay}, s.Periods[0])
}

func TestParseInvalid(t *testing.T) {
	for _, expr := range []string{
		"",
		"1-5",
		"0-5,09:00-18:00",
		"5-1,09:00-18:00",
		"1-5,18:00-09:00",
		"1-5,09:00-24:30",
		"1-5,9:0-18:00",
		"1-8,09:00-18:00",
	} {
		_, err := Parse(expr)
		require.Error(t, err, expr)
		assert.True(t, errors.Is(err, ErrInvalidPeriod), expr)
	}
}

func TestFindStart(t *testing.T) {
	s, err := Parse("1-5,09:00-18:00")
	require.NoError(t, err)

	start, ok := s.FindStart(monday(8, 0), time.UTC)
	require.True(t, ok)
	assert.Equal(t, monday(9, 0), start)

	// 处于工作时间内时返回自身
	start, ok = s.FindStart(monday(10, 30), time.UTC)
	require.True(t, ok)
	assert.Equal(t, monday(10, 30), start)

	// 周六之后跳到下周一
	saturday := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC).Unix()
	start, ok = s.FindStart(saturday, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC).Unix(), start)
}

func TestFindEnd(t *testing.T) {
	s, err := Parse("1-5,09:00-18:00")
	require.NoError(t, err)

	assert.Equal(t, monday(18, 0), s.FindEnd(monday(9, 0), monday(23, 0), time.UTC))
	assert.Equal(t, monday(12, 0), s.FindEnd(monday(9, 0), monday(12, 0), time.UTC))

	// 跨越午夜的连续工作时间
	all, err := Parse("1-7,00:00-24:00")
	require.NoError(t, err)
	limit := time.Date(2024, 1, 4, 6, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, limit, all.FindEnd(monday(9, 0), limit, time.UTC))
}

func TestFindStartEmpty(t *testing.T) {
	s := &Schedule{}
	_, ok := s.FindStart(monday(9, 0), time.UTC)
	assert.False(t, ok)
}
