package graph

import (
	"math"
	"time"

	"github.com/go-errors/errors"
)

// ErrInvalidTimePeriod 时间范围的结束早于开始，无法生成时间轴
var ErrInvalidTimePeriod = errors.Errorf("invalid time period")

const (
	timeGridCellWidth = 100 // 时间网格单元的目标宽度（像素）

	DateFormat          = "2006-01-02"
	DateFormatShort     = "01-02"
	DateTimeFormatShort = "01-02 15:04"
	TimeFormat          = "15:04"
	TimeFormatSeconds   = "15:04:05"
	DateTimeFormat      = "2006-01-02 15:04:05"
)

// 从粗到细依次尝试的时间格式
var timeGridFormats = []string{
	DateFormat,
	DateFormatShort,
	DateTimeFormatShort,
	TimeFormat,
	TimeFormatSeconds,
}

// timeGrid 计算时间轴网格线的位置与标签。
// 选择第一个不会产生重复标签的格式，全部重复时使用最细的格式。
func timeGrid(from, till int64, width int, loc *time.Location) ([]GridLabel, error) {
	if till < from {
		return nil, errors.WrapPrefix(ErrInvalidTimePeriod, "time till is before time from", 0)
	}
	if width <= 0 {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	period := till - from
	step := int64(math.Round(float64(period) / float64(width) * timeGridCellWidth))

	// 时间范围太短时只显示起止两个时刻
	if step == 0 {
		return []GridLabel{
			{Pos: 0, Label: formatClock(from, TimeFormatSeconds, loc)},
			{Pos: width, Label: formatClock(till, TimeFormatSeconds, loc)},
		}, nil
	}

	start := from + step - floorMod(from, step)
	w := float64(width)

	var labels map[int]string
	for i, layout := range timeGridFormats {
		labels = make(map[int]string)
		for clock := start; clock <= till; clock += step {
			pos := int(math.Round(w - w*float64(till-clock)/float64(period)))
			labels[pos] = formatClock(clock, layout, loc)
		}
		if i == len(timeGridFormats)-1 || unique(labels) {
			break
		}
	}
	return sortedLabels(labels), nil
}

func formatClock(clock int64, layout string, loc *time.Location) string {
	return time.Unix(clock, 0).In(loc).Format(layout)
}

func unique(labels map[int]string) bool {
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			return false
		}
		seen[label] = struct{}{}
	}
	return true
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
