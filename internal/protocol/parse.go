package protocol

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"

	"github.com/dushixiang/svggraph/internal/graph"
)

const DateTimeLayout = "2006-01-02 15:04:05"

var (
	ErrInvalidTime   = errors.Errorf("invalid time")
	ErrInvalidOption = errors.Errorf("invalid option")

	relativeTime = regexp.MustCompile(`^now(?:\s*([+-])\s*(\d+)([smhdwMy]))?$`)
	duration     = regexp.MustCompile(`^([+-]?)(\d+)([smhdwMy]?)$`)
)

// ParseTime 解析时间：unix 秒、"2006-01-02 15:04:05"（按 loc 解释）或 now、now-1h 这样的相对时间
func ParseTime(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}

	if m := relativeTime.FindStringSubmatch(s); m != nil {
		if m[1] == "" {
			return now.In(loc), nil
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, errors.WrapPrefix(ErrInvalidTime, s, 0)
		}
		if m[1] == "-" {
			n = -n
		}
		return shift(now.In(loc), n, m[3]), nil
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).In(loc), nil
	}

	t, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, errors.WrapPrefix(ErrInvalidTime, strconv.Quote(s), 0)
	}
	return t, nil
}

// shift 月和年按日历计算，其余单位按固定秒数
func shift(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "M":
		return t.AddDate(0, n, 0)
	case "y":
		return t.AddDate(n, 0, 0)
	default:
		return t.Add(time.Duration(n) * unitDuration(unit))
	}
}

func unitDuration(unit string) time.Duration {
	switch unit {
	case "m":
		return time.Minute
	case "h":
		return time.Hour
	case "d":
		return 24 * time.Hour
	case "w":
		return 7 * 24 * time.Hour
	case "M":
		return 30 * 24 * time.Hour
	case "y":
		return 365 * 24 * time.Hour
	default:
		return time.Second
	}
}

// ParseDuration 解析 1d、-2h、30 这样的时长，无单位时为秒
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m := duration.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.WrapPrefix(ErrInvalidTime, strconv.Quote(s), 0)
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, errors.WrapPrefix(ErrInvalidTime, strconv.Quote(s), 0)
	}
	d := time.Duration(n) * unitDuration(m[3])
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// ParseDisplayType 解析绘制类型，空字符串为折线
func ParseDisplayType(s string) (graph.DisplayType, error) {
	switch s {
	case "", "line":
		return graph.TypeLine, nil
	case "points":
		return graph.TypePoints, nil
	case "staircase":
		return graph.TypeStaircase, nil
	case "bar":
		return graph.TypeBar, nil
	}
	return 0, invalidOption("type", s)
}

// ParseAxis 解析坐标轴位置，空字符串为左轴
func ParseAxis(s string) (graph.AxisSide, error) {
	switch s {
	case "", "left":
		return graph.AxisLeft, nil
	case "right":
		return graph.AxisRight, nil
	}
	return 0, invalidOption("axis", s)
}

// ParseApproximation 解析取值方式，空字符串为平均值
func ParseApproximation(s string) (graph.Approximation, error) {
	switch s {
	case "", "avg":
		return graph.ApproxAvg, nil
	case "min":
		return graph.ApproxMin, nil
	case "max":
		return graph.ApproxMax, nil
	case "all":
		return graph.ApproxAll, nil
	}
	return 0, invalidOption("approximation", s)
}

// ParseMissingData 解析缺失数据处理方式，空字符串为直接连接
func ParseMissingData(s string) (graph.MissingData, error) {
	switch s {
	case "", "connected":
		return graph.MissingConnected, nil
	case "none":
		return graph.MissingNone, nil
	case "zero":
		return graph.MissingZero, nil
	case "last_known":
		return graph.MissingLastKnown, nil
	}
	return 0, invalidOption("missingData", s)
}

func invalidOption(name, value string) error {
	return errors.WrapPrefix(ErrInvalidOption, name+"="+strconv.Quote(value), 1)
}

// Sample 将数据点转换为样本；只填 value 时三个通道取同一值，缺省的通道取平均值
func (p PointData) Sample() graph.Sample {
	if p.Null {
		return graph.Sample{Clock: p.Clock, Null: true}
	}
	var avg float64
	switch {
	case p.Avg != nil:
		avg = *p.Avg
	case p.Value != nil:
		avg = *p.Value
	}
	s := graph.Sample{Clock: p.Clock, Min: avg, Avg: avg, Max: avg}
	if p.Min != nil {
		s.Min = *p.Min
	}
	if p.Max != nil {
		s.Max = *p.Max
	}
	return s
}

func baseName(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
