package graph

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dushixiang/svggraph/internal/units"
)

const (
	offsetTop             = 10
	xAxisHeight           = 20
	xAxisLabelMargin      = 5
	yAxisLeftLabelMargin  = 5
	yAxisRightLabelMargin = 12
)

var whitespace = regexp.MustCompile(`\s+`)

// AxisState 单侧 Y 轴的计算结果
type AxisState struct {
	Side          AxisSide
	Min           float64
	Max           float64
	Interval      float64
	Power         int
	Rows          int
	Units         string
	Binary        bool
	MinCalculated bool
	MaxCalculated bool
	Empty         bool    // 该侧没有指标
	Zero          float64 // 零值线的纵坐标
}

// GridLabel 网格线位置及标签。Y 轴的 Pos 自画布底部向上计算，X 轴自画布左侧向右计算
type GridLabel struct {
	Pos   int
	Label string
}

// Layout 画布与坐标轴布局
type Layout struct {
	Canvas      Rect
	OffsetLeft  int
	OffsetRight int
	Left        AxisState
	Right       AxisState
	LeftTicks   []GridLabel
	RightTicks  []GridLabel
	TimeTicks   []GridLabel
}

// Axis 返回指定侧的坐标轴
func (l *Layout) Axis(side AxisSide) AxisState {
	if side == AxisRight {
		return l.Right
	}
	return l.Left
}

// Drawable 画布宽高均为正数时才进行绘制
func (l *Layout) Drawable() bool {
	return l.Canvas.Width > 0 && l.Canvas.Height > 0
}

// extents 每侧的数据范围与指标数量
type extents struct {
	min     [2]float64
	max     [2]float64
	seen    [2]bool // 该侧至少有一个非空样本
	metrics [2]int
}

func (e *extents) add(side AxisSide, lo, hi float64) {
	if !e.seen[side] || lo < e.min[side] {
		e.min[side] = lo
	}
	if !e.seen[side] || hi > e.max[side] {
		e.max[side] = hi
	}
	e.seen[side] = true
}

// computeExtents 按每个指标的取值方式汇总两侧数据范围
func computeExtents(metrics []Metric) extents {
	var ext extents
	for _, m := range metrics {
		ext.metrics[m.Options.Axis]++

		low, high := m.Options.Approximation.Extremes()
		for _, s := range m.Samples {
			if s.Null {
				continue
			}
			ext.add(m.Options.Axis, s.Value(low), s.Value(high))
		}
	}
	return ext
}

// computeLayout 计算画布尺寸、坐标轴刻度与偏移、零值线和网格
func computeLayout(opts Options, metrics []Metric, ext extents) (Layout, error) {
	lc := normalizeLayoutConfig(opts.Layout)

	var l Layout
	l.Canvas.Y = offsetTop
	l.Canvas.Height = opts.Height - offsetTop - xAxisHeight

	leftUnits := resolveUnits(opts.Axes.LeftUnits, metrics, AxisLeft)
	rightUnits := resolveUnits(opts.Axes.RightUnits, metrics, AxisRight)

	rowsMin, rowsMax := RowsRange(l.Canvas.Height, lc.CellHeightMin)

	l.Left = axisScale(AxisLeft, opts.Axes.LeftMin, opts.Axes.LeftMax, ext, leftUnits, rowsMin, rowsMax)
	// 左轴完全自动计算时，右轴沿用相同的行数保持两侧网格对齐
	if l.Left.MinCalculated && l.Left.MaxCalculated {
		rowsMin, rowsMax = l.Left.Rows, l.Left.Rows
	}
	l.Right = axisScale(AxisRight, opts.Axes.RightMin, opts.Axes.RightMax, ext, rightUnits, rowsMin, rowsMax)

	l.LeftTicks = valueGrid(l.Left, l.Canvas.Height)
	l.RightTicks = valueGrid(l.Right, l.Canvas.Height)

	if opts.Axes.ShowLeft {
		l.OffsetLeft = axisOffset(l.LeftTicks, lc, 0)
	}
	if opts.Axes.ShowRight {
		l.OffsetRight = axisOffset(l.RightTicks, lc, yAxisRightLabelMargin)
	}

	l.Canvas.X = l.OffsetLeft
	l.Canvas.Width = opts.Width - l.OffsetLeft - l.OffsetRight

	l.Left.Zero = zeroLine(l.Left, l.Canvas)
	l.Right.Zero = zeroLine(l.Right, l.Canvas)

	if l.Drawable() && opts.Axes.ShowX {
		ticks, err := timeGrid(opts.TimeFrom, opts.TimeTill, l.Canvas.Width, opts.Location)
		if err != nil {
			return l, err
		}
		l.TimeTicks = ticks
	}

	return l, nil
}

func normalizeLayoutConfig(lc LayoutConfig) LayoutConfig {
	def := DefaultLayoutConfig()
	if lc.ApproxCharWidth <= 0 {
		lc.ApproxCharWidth = def.ApproxCharWidth
	}
	if lc.BaseOffset <= 0 {
		lc.BaseOffset = def.BaseOffset
	}
	if lc.MaxAxisWidth <= 0 {
		lc.MaxAxisWidth = def.MaxAxisWidth
	}
	if lc.CellHeightMin <= 0 {
		lc.CellHeightMin = def.CellHeightMin
	}
	return lc
}

// resolveUnits 未配置单位时取该侧第一个指标的单位
func resolveUnits(configured *string, metrics []Metric, side AxisSide) string {
	if configured != nil {
		return strings.TrimSpace(whitespace.ReplaceAllString(*configured, " "))
	}
	for _, m := range metrics {
		if m.Options.Axis == side {
			return m.Units
		}
	}
	return ""
}

func axisScale(side AxisSide, userMin, userMax *float64, ext extents, unit string, rowsMin, rowsMax int) AxisState {
	axis := AxisState{
		Side:          side,
		Units:         unit,
		Binary:        units.IsBinary(unit),
		MinCalculated: userMin == nil,
		MaxCalculated: userMax == nil,
		Empty:         ext.metrics[side] == 0,
	}

	lo, hi := 0.0, 1.0
	if ext.seen[side] {
		lo = ext.min[side]
		if ext.max[side] != 0 {
			hi = ext.max[side]
		}
	}
	if userMin != nil {
		lo = *userMin
	}
	if userMax != nil {
		hi = *userMax
	}

	scale := CalculateScale(ScaleRequest{
		Min:       lo,
		Max:       hi,
		Binary:    axis.Binary,
		CalcPower: units.CalcPower(unit),
		CalcMin:   axis.MinCalculated,
		CalcMax:   axis.MaxCalculated,
		RowsMin:   rowsMin,
		RowsMax:   rowsMax,
	})

	axis.Min = scale.Min
	axis.Max = scale.Max
	axis.Interval = scale.Interval
	axis.Power = scale.Power
	axis.Rows = scale.Rows
	return axis
}

// valueGrid 把 Y 轴刻度换算为像素位置，同一像素只保留最后一个标签
func valueGrid(axis AxisState, canvasHeight int) []GridLabel {
	var ticks []ValueTick
	if axis.Empty {
		ticks = ValueTicks(0, 1, 1, "", 0, false)
	} else {
		ticks = ValueTicks(axis.Min, axis.Max, axis.Interval, axis.Units, axis.Power, axis.Binary)
	}

	byPos := make(map[int]string, len(ticks))
	for _, t := range ticks {
		byPos[int(math.Round(float64(canvasHeight)*t.RelPos))] = t.Label
	}
	return sortedLabels(byPos)
}

// axisOffset Y 轴占用宽度，由最长刻度标签估算
func axisOffset(ticks []GridLabel, lc LayoutConfig, margin int) int {
	if len(ticks) == 0 {
		return lc.BaseOffset
	}
	longest := 0
	for _, t := range ticks {
		longest = max(longest, utf8.RuneCountInString(t.Label))
	}
	offset := max(lc.BaseOffset, longest*lc.ApproxCharWidth) + margin
	return min(offset, lc.MaxAxisWidth)
}

// zeroLine 零值线纵坐标，超出范围时贴到画布上下边缘
func zeroLine(axis AxisState, canvas Rect) float64 {
	var ratio float64
	if math.IsInf(axis.Max-axis.Min, 0) {
		ratio = axis.Max / 10 / (axis.Max/10 - axis.Min/10)
	} else {
		ratio = axis.Max / (axis.Max - axis.Min)
	}
	return float64(canvas.Y) + float64(canvas.Height)*math.Max(0, math.Min(1, ratio))
}

func sortedLabels(byPos map[int]string) []GridLabel {
	out := make([]GridLabel, 0, len(byPos))
	for pos, label := range byPos {
		out = append(out, GridLabel{Pos: pos, Label: label})
	}
	slices.SortFunc(out, func(a, b GridLabel) int {
		return a.Pos - b.Pos
	})
	return out
}

// withoutPos 去掉指定位置的网格线
func withoutPos(labels []GridLabel, pos int) []GridLabel {
	return slices.DeleteFunc(slices.Clone(labels), func(l GridLabel) bool {
		return l.Pos == pos
	})
}
