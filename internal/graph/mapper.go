package graph

import (
	"math"

	"github.com/dushixiang/svggraph/internal/units"
)

// 超出可见范围的值被钳制到该像素边界，避免极大坐标导致渲染失败
const pixelBound = 1 << 16

// Coord 数据点的像素坐标与格式化后的值
type Coord struct {
	X     int
	Y     int
	Label string
}

// PathPoint 路径上的一个时间点，每个使用中的通道一个坐标
type PathPoint struct {
	Clock  int64
	Coords [3]Coord
	Has    [3]bool
}

// At 读取指定通道的坐标
func (p PathPoint) At(c Channel) (Coord, bool) {
	return p.Coords[c], p.Has[c]
}

// Path 连续非空样本构成的一段路径
type Path []PathPoint

// Mapper 将 (时间, 值) 映射为画布像素坐标
type Mapper struct {
	canvas    Rect
	timeFrom  int64
	timeTill  int64
	timeRange float64
	min       float64
	max       float64
}

// NewMapper 创建坐标映射器
func NewMapper(canvas Rect, timeFrom, timeTill int64, lo, hi float64) Mapper {
	return Mapper{
		canvas:    canvas,
		timeFrom:  timeFrom,
		timeTill:  timeTill,
		timeRange: float64(max(1, timeTill-timeFrom)),
		min:       lo,
		max:       hi,
	}
}

// X 时间对应的横坐标（未取整）
func (m Mapper) X(clock, timeshift int64) float64 {
	w := float64(m.canvas.Width)
	return float64(m.canvas.X) + w - w*float64(m.timeTill-clock+timeshift)/m.timeRange
}

// Y 值对应的纵坐标（未取整、未钳制）
func (m Mapper) Y(value float64) float64 {
	var ratio float64
	if math.IsInf(m.max-m.min, 0) {
		ratio = (m.max/10 - value/10) / (m.max/10 - m.min/10)
	} else {
		ratio = (m.max - value) / (m.max - m.min)
	}
	return float64(m.canvas.Y) + safeMul(float64(m.canvas.Height), ratio)
}

// InRange 值是否位于坐标轴范围内
func (m Mapper) InRange(value float64) bool {
	return m.min <= value && value <= m.max
}

// Map 映射单个值。点图中超出范围的值被丢弃，其他类型钳制到像素边界
func (m Mapper) Map(clock, timeshift int64, value float64, dropOutOfRange bool) (Coord, bool) {
	inRange := m.InRange(value)
	if !inRange && dropOutOfRange {
		return Coord{}, false
	}

	x := m.X(clock, timeshift)
	y := m.Y(value)
	if !inRange {
		if value > m.max {
			y = math.Max(-pixelBound, y)
		} else {
			y = math.Min(pixelBound, y)
		}
	}

	return Coord{X: ceilPixel(x), Y: ceilPixel(y)}, true
}

// buildPaths 将指标样本转换为像素路径，空样本处断开
func buildPaths(metric Metric, samples []Sample, mapper Mapper) []Path {
	channels := metric.Options.Approximation.Channels()
	dropOutOfRange := metric.Options.Type == TypePoints

	var paths []Path
	var current Path
	for _, s := range samples {
		if s.Null {
			if len(current) > 0 {
				paths = append(paths, current)
				current = nil
			}
			continue
		}

		point := PathPoint{Clock: s.Clock}
		for _, c := range channels {
			v := s.Value(c)
			coord, ok := mapper.Map(s.Clock, metric.Options.TimeShift, v, dropOutOfRange)
			if !ok {
				continue
			}
			coord.Label = units.Convert(v, metric.Units)
			point.Coords[c] = coord
			point.Has[c] = true
		}
		current = append(current, point)
	}
	if len(current) > 0 {
		paths = append(paths, current)
	}
	return paths
}

// safeMul 乘积溢出时返回最大有限值
func safeMul(a, b float64) float64 {
	r := a * b
	if math.IsInf(r, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(r, -1) {
		return -math.MaxFloat64
	}
	return r
}

func ceilPixel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Ceil(v)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}
