package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/dushixiang/svggraph/internal/units"
)

const (
	secondsPerMonth = 30 * 24 * 60 * 60
	// 时间范围超过该值时不绘制工作时间
	workingTimeMaxPeriod = 3 * secondsPerMonth
)

// renderWorkingTime 以非工作时间色块覆盖工作时间之外的区域
func renderWorkingTime(opts Options, canvas Rect, theme Theme) []Primitive {
	if !opts.ShowWorkingTime || opts.WorkPeriod == nil {
		return nil
	}
	period := opts.TimeTill - opts.TimeFrom
	if period <= 0 || period > workingTimeMaxPeriod {
		return nil
	}

	w := float64(canvas.Width)
	pos := func(clock int64) float64 {
		return w * float64(clock-opts.TimeFrom) / float64(period)
	}

	// 偶数下标为非工作时段的起点，奇数下标为终点
	points := []float64{0}
	start, ok := opts.WorkPeriod.FindStart(opts.TimeFrom, opts.Location)
	for ok && start < opts.TimeTill {
		end := opts.WorkPeriod.FindEnd(start, opts.TimeTill, opts.Location)
		points = append(points, math.Floor(pos(start)), math.Ceil(pos(end)))
		if end <= start {
			break
		}
		start, ok = opts.WorkPeriod.FindStart(end, opts.Location)
	}
	points = append(points, w)

	var out []Primitive
	for i := 0; i+1 < len(points); i += 2 {
		x1 := math.Max(0, points[i])
		x2 := math.Min(w, points[i+1])
		if x2 <= x1 {
			continue
		}
		out = append(out, Primitive{
			Kind:   KindRect,
			Layer:  LayerWorkingTime,
			Class:  "svg-graph-nonworktime",
			X:      float64(canvas.X) + x1,
			Y:      float64(canvas.Y),
			Width:  x2 - x1,
			Height: float64(canvas.Height),
			Style:  Style{Fill: hexColor(theme.NonWorkTimeColor)},
		})
	}
	return out
}

// PercentileValue 计算第 p 百分位：升序排序后取下标 ceil(p/100·n)-1 的值
func PercentileValue(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	i := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	i = min(max(i, 0), len(sorted)-1)
	return sorted[i], true
}

// renderPercentiles 绘制左右两侧的百分位线
func renderPercentiles(opts Options, metrics []Metric, samples [][]Sample, layout Layout, theme Theme) []Primitive {
	var out []Primitive
	sides := []struct {
		side  AxisSide
		p     Percentile
		color string
	}{
		{AxisLeft, opts.PercentileLeft, theme.LeftPercentileColor},
		{AxisRight, opts.PercentileRight, theme.RightPercentileColor},
	}

	for _, s := range sides {
		if !s.p.Show || s.p.Value <= 0 {
			continue
		}

		var values []float64
		for i, m := range metrics {
			if m.Options.Axis != s.side {
				continue
			}
			channel := m.Options.Approximation.Primary()
			for _, sample := range samples[i] {
				if !sample.Null {
					values = append(values, sample.Value(channel))
				}
			}
		}

		axis := layout.Axis(s.side)
		// 没有数据时画在 0 处，标签为 "-"
		value, ok := PercentileValue(values, s.p.Value)
		label := "-"
		if ok {
			label = units.Convert(value, axis.Units)
		}
		// 百分位值不在坐标轴范围内时不画线
		if value < axis.Min || value > axis.Max {
			continue
		}

		mapper := NewMapper(layout.Canvas, opts.TimeFrom, opts.TimeTill, axis.Min, axis.Max)
		y := float64(ceilPixel(mapper.Y(value)))
		x1 := float64(layout.Canvas.X)
		x2 := x1 + float64(layout.Canvas.Width)
		color := hexColor(s.color)
		text := fmt.Sprintf("%sth percentile: %s", strconv.FormatFloat(s.p.Value, 'f', -1, 64), label)

		textX, anchor := x1+5, AnchorStart
		if s.side == AxisRight {
			textX, anchor = x2-5, AnchorEnd
		}

		out = append(out,
			Primitive{
				Kind:   KindLine,
				Layer:  LayerPercentile,
				Class:  "svg-graph-percentile",
				Points: []Point{{X: x1, Y: y}, {X: x2, Y: y}},
				Style:  Style{Stroke: color, StrokeWidth: 1},
				Attrs:  map[string]string{"data-axis": s.side.String()},
			},
			Primitive{
				Kind:   KindText,
				Layer:  LayerPercentile,
				Class:  "svg-graph-percentile",
				X:      textX,
				Y:      y - 3,
				Text:   text,
				Anchor: anchor,
				Style:  Style{Fill: color},
				Attrs:  map[string]string{"data-axis": s.side.String()},
			},
		)
	}
	return out
}

// renderTriggers 绘制落在坐标轴范围内的固定阈值线
func renderTriggers(opts Options, triggers []SimpleTrigger, layout Layout) []Primitive {
	if !opts.ShowSimpleTriggers {
		return nil
	}

	var out []Primitive
	for i, t := range triggers {
		axis := layout.Axis(t.Axis)
		if t.Value < axis.Min || t.Value > axis.Max {
			continue
		}

		mapper := NewMapper(layout.Canvas, opts.TimeFrom, opts.TimeTill, axis.Min, axis.Max)
		y := float64(ceilPixel(mapper.Y(t.Value)))
		x1 := float64(layout.Canvas.X)
		x2 := x1 + float64(layout.Canvas.Width)
		color := hexColor(t.Color)
		if color == "" {
			color = DefaultColor
		}
		attrs := map[string]string{
			"data-index": strconv.Itoa(i),
			"data-axis":  t.Axis.String(),
		}

		out = append(out,
			Primitive{
				Kind:   KindLine,
				Layer:  LayerTrigger,
				Class:  "svg-graph-simple-trigger",
				Points: []Point{{X: x1, Y: y}, {X: x2, Y: y}},
				Title:  t.Description,
				Style:  Style{Stroke: color, StrokeWidth: 1, Dashed: true},
				Attrs:  attrs,
			},
			Primitive{
				Kind:   KindText,
				Layer:  LayerTrigger,
				Class:  "svg-graph-simple-trigger",
				X:      x2 - 5,
				Y:      y - 3,
				Text:   t.Constant,
				Title:  t.Description,
				Anchor: AnchorEnd,
				Style:  Style{Fill: color},
				Attrs:  attrs,
			},
		)
	}
	return out
}

// 问题标注的绘制方式，可组合
const (
	AnnotationSimple = 0
	AnnotationRange  = 1
	DashLineStart    = 2
	DashLineEnd      = 4
)

// Annotation 单个问题在画布上的位置
type Annotation struct {
	Problem     Problem
	X           int // 起点横坐标，已截到画布内
	Width       int
	DrawType    int
	Status      string
	StatusColor string
	Color       string // 严重级别色
}

// Range 是否为时段标注
func (a Annotation) Range() bool {
	return a.DrawType&AnnotationRange != 0
}

// problemAnnotations 计算问题标注的位置与样式，不在时间范围内的问题被丢弃
func problemAnnotations(opts Options, problems []Problem, canvas Rect, theme Theme) []Annotation {
	now := opts.Now
	if now == 0 {
		now = opts.TimeTill
	}
	period := float64(max(1, opts.TimeTill-opts.TimeFrom))
	w := float64(canvas.Width)
	left := float64(canvas.X)
	x := func(clock int64) float64 {
		return left + w - w*float64(opts.TimeTill-clock)/period
	}

	var out []Annotation
	for _, p := range problems {
		trueEnd := p.RClock
		if trueEnd == 0 {
			trueEnd = now
		}
		timeTo := min(opts.TimeTill, trueEnd)
		if p.Clock > opts.TimeTill || timeTo < opts.TimeFrom {
			continue
		}

		x1 := math.Ceil(x(p.Clock))
		x2 := math.Floor(x(timeTo))

		a := Annotation{Problem: p, Color: severityColor(theme, p.Severity)}
		a.Status, a.StatusColor = problemStatus(p, theme)

		if x2-x1 > 2 {
			a.DrawType = AnnotationRange
			if p.Clock < opts.TimeFrom {
				a.DrawType |= DashLineStart
			}
			if trueEnd > opts.TimeTill {
				a.DrawType |= DashLineEnd
			}
			start := math.Max(x1, left)
			end := math.Min(x2, left+w)
			a.X = int(start)
			a.Width = int(math.Max(0, end-start))
		} else {
			a.DrawType = AnnotationSimple
			a.X = int(math.Max(left, math.Min(x1, left+w)))
		}
		out = append(out, a)
	}
	return out
}

func severityColor(theme Theme, severity int) string {
	severity = min(max(severity, 0), len(theme.SeverityColors)-1)
	return hexColor(theme.SeverityColors[severity])
}

// problemStatus 问题当前状态及对应颜色
func problemStatus(p Problem, theme Theme) (string, string) {
	if p.RClock != 0 {
		return "RESOLVED", hexColor(theme.OKColor)
	}
	for _, ack := range p.Acknowledges {
		if ack.Action&ActionClose != 0 {
			return "CLOSING", hexColor(theme.OKColor)
		}
	}
	return "PROBLEM", hexColor(theme.ProblemColor)
}

// problemInfo 前端提示框使用的问题详情
type problemInfo struct {
	Name        string `json:"name"`
	Clock       string `json:"clock"`
	RClock      string `json:"r_clock,omitempty"`
	Severity    int    `json:"severity"`
	Status      string `json:"status"`
	StatusColor string `json:"status_color"`
	EventID     string `json:"eventid"`
	REventID    string `json:"r_eventid,omitempty"`
	ObjectID    string `json:"objectid,omitempty"`
}

// problemClock 当天的时间只显示时分秒，否则显示完整日期时间
func problemClock(clock, now int64, loc *time.Location) string {
	t := time.Unix(clock, 0).In(loc)
	n := time.Unix(now, 0).In(loc)
	if t.Year() == n.Year() && t.YearDay() == n.YearDay() {
		return t.Format(TimeFormatSeconds)
	}
	return t.Format(DateTimeFormat)
}

// renderProblems 绘制问题标注：时段标注为半透明矩形加两侧边线，瞬时问题为竖线加底部三角
func renderProblems(opts Options, problems []Problem, canvas Rect, theme Theme) []Primitive {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == 0 {
		now = opts.TimeTill
	}

	var out []Primitive
	for i, a := range problemAnnotations(opts, problems, canvas, theme) {
		info := problemInfo{
			Name:        a.Problem.Name,
			Clock:       problemClock(a.Problem.Clock, now, loc),
			Severity:    a.Problem.Severity,
			Status:      a.Status,
			StatusColor: a.StatusColor,
			EventID:     a.Problem.EventID,
			REventID:    a.Problem.REventID,
			ObjectID:    a.Problem.ObjectID,
		}
		if a.Problem.RClock != 0 {
			info.RClock = problemClock(a.Problem.RClock, now, loc)
		}
		attrs := map[string]string{
			"data-index":     strconv.Itoa(i),
			"data-draw-type": strconv.Itoa(a.DrawType),
		}
		// 详情只用于提示框，序列化失败时省略
		if data, err := json.Marshal(info); err == nil {
			attrs["data-info"] = string(data)
		}
		top := float64(canvas.Y)
		bottom := top + float64(canvas.Height)
		x := float64(a.X)

		if a.Range() {
			out = append(out,
				Primitive{
					Kind:   KindRect,
					Layer:  LayerProblem,
					Class:  "svg-graph-problem",
					X:      x,
					Y:      top,
					Width:  float64(a.Width),
					Height: float64(canvas.Height),
					Title:  a.Problem.Name,
					Style:  Style{Fill: a.Color, FillOpacity: Opacity(.1)},
					Attrs:  attrs,
				},
				problemBorder(x, top, bottom, a.Color, a.DrawType&DashLineStart != 0, attrs),
				problemBorder(x+float64(a.Width), top, bottom, a.Color, a.DrawType&DashLineEnd != 0, attrs),
			)
			continue
		}

		out = append(out,
			problemBorder(x, top, bottom, a.Color, false, attrs),
			Primitive{
				Kind:  KindPolygon,
				Layer: LayerProblem,
				Class: "svg-graph-problem-arrow",
				Points: []Point{
					{X: x - 3, Y: bottom + 5},
					{X: x + 3, Y: bottom + 5},
					{X: x, Y: bottom},
				},
				Title: a.Problem.Name,
				Style: Style{Fill: a.Color},
				Attrs: attrs,
			},
		)
	}
	return out
}

func problemBorder(x, top, bottom float64, color string, dashed bool, attrs map[string]string) Primitive {
	return Primitive{
		Kind:   KindLine,
		Layer:  LayerProblem,
		Class:  "svg-graph-problem-line",
		Points: []Point{{X: x, Y: top}, {X: x, Y: bottom}},
		Style:  Style{Stroke: color, StrokeWidth: 1, Dashed: dashed},
		Attrs:  attrs,
	}
}
