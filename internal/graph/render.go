package graph

import (
	"time"

	"github.com/go-errors/errors"
)

// Render 根据指标、阈值和问题生成一张时间序列图的图元场景。
// 画布宽或高不为正时返回空场景；时间范围倒置时返回 ErrInvalidTimePeriod。
func Render(req Request, theme Theme) (*Scene, error) {
	opts := req.Options
	if opts.TimeTill < opts.TimeFrom {
		return nil, errors.WrapPrefix(ErrInvalidTimePeriod, "render graph", 0)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	scene := &Scene{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: hexColor(theme.BackgroundColor),
		ClipID:     opts.ClipID,
	}

	metrics := req.Metrics
	ext := computeExtents(metrics)
	samples := applyMissingData(metrics, &ext)

	layout, err := computeLayout(opts, metrics, ext)
	if err != nil {
		return nil, err
	}
	scene.Canvas = layout.Canvas
	if !layout.Drawable() {
		return scene, nil
	}

	paths := make([][]Path, len(metrics))
	for i, m := range metrics {
		axis := layout.Axis(m.Options.Axis)
		mapper := NewMapper(layout.Canvas, opts.TimeFrom, opts.TimeTill, axis.Min, axis.Max)
		paths[i] = buildPaths(m, samples[i], mapper)
	}

	scene.add(renderWorkingTime(opts, layout.Canvas, theme)...)
	scene.add(renderGrid(opts.Axes, layout, theme)...)
	scene.add(renderAxes(opts.Axes, layout, theme)...)

	for i, m := range metrics {
		if m.Options.Type == TypeLine || m.Options.Type == TypeStaircase {
			scene.add(renderLines(m, paths[i], layout.Axis(m.Options.Axis).Zero)...)
		}
	}
	for i, m := range metrics {
		if m.Options.Type == TypePoints {
			scene.add(renderPoints(m, paths[i])...)
		}
	}
	bars := buildBarIndex(metrics, paths, layout.Canvas, opts.TimeFrom, opts.TimeTill)
	scene.add(renderBars(metrics, bars, layout)...)

	scene.add(renderPercentiles(opts, metrics, samples, layout, theme)...)
	scene.add(renderTriggers(opts, req.SimpleTriggers, layout)...)
	scene.add(renderProblems(opts, req.Problems, layout.Canvas, theme)...)

	scene.add(Primitive{
		Kind:   KindClip,
		Layer:  LayerClip,
		X:      float64(layout.Canvas.X),
		Y:      float64(layout.Canvas.Y),
		Width:  float64(layout.Canvas.Width),
		Height: float64(layout.Canvas.Height),
		ID:     opts.ClipID,
	})
	return scene, nil
}

// applyMissingData 对线条类指标按缺失数据策略补点。
// 补零后该侧最小值若仍为正数则降到 0，保证补出的零值可见。
func applyMissingData(metrics []Metric, ext *extents) [][]Sample {
	out := make([][]Sample, len(metrics))
	for i, m := range metrics {
		out[i] = m.Samples
		if m.Options.Type == TypePoints || m.Options.Type == TypeBar {
			continue
		}

		filled, inserted := FillGaps(m.Samples, m.Options.MissingData)
		out[i] = filled

		side := m.Options.Axis
		if inserted && m.Options.MissingData == MissingZero && ext.seen[side] && ext.min[side] > 0 {
			ext.min[side] = 0
		}
	}
	return out
}

// renderGrid 网格线。与坐标轴重合的网格线不画
func renderGrid(axes AxesOptions, layout Layout, theme Theme) []Primitive {
	var timeTicks, valueTicks []GridLabel
	if axes.ShowX {
		timeTicks = layout.TimeTicks
	}

	switch {
	case axes.ShowLeft:
		valueTicks = layout.LeftTicks
		timeTicks = withoutPos(timeTicks, 0)
	case axes.ShowRight:
		valueTicks = layout.RightTicks
		timeTicks = withoutPos(timeTicks, layout.Canvas.Width)
	}
	if axes.ShowX {
		valueTicks = withoutPos(valueTicks, 0)
	}

	c := layout.Canvas
	left, top := float64(c.X), float64(c.Y)
	right, bottom := left+float64(c.Width), top+float64(c.Height)
	style := Style{Stroke: hexColor(theme.GridColor), StrokeWidth: 1}

	var out []Primitive
	for _, t := range valueTicks {
		y := bottom - float64(t.Pos)
		out = append(out, Primitive{
			Kind:   KindLine,
			Layer:  LayerGrid,
			Class:  "svg-graph-grid",
			Points: []Point{{X: left, Y: y}, {X: right, Y: y}},
			Style:  style,
		})
	}
	for _, t := range timeTicks {
		x := left + float64(t.Pos)
		out = append(out, Primitive{
			Kind:   KindLine,
			Layer:  LayerGrid,
			Class:  "svg-graph-grid",
			Points: []Point{{X: x, Y: top}, {X: x, Y: bottom}},
			Style:  style,
		})
	}
	return out
}

// renderAxes 坐标轴线、箭头与刻度标签
func renderAxes(axes AxesOptions, layout Layout, theme Theme) []Primitive {
	c := layout.Canvas
	left, top := float64(c.X), float64(c.Y)
	right, bottom := left+float64(c.Width), top+float64(c.Height)
	lineStyle := Style{Stroke: hexColor(theme.TextColor), StrokeWidth: 1}
	textStyle := Style{Fill: hexColor(theme.TextColor)}

	axisLine := func(class string, pts ...Point) Primitive {
		return Primitive{Kind: KindLine, Layer: LayerAxis, Class: class, Points: pts, Style: lineStyle}
	}
	arrow := func(class string, pts ...Point) Primitive {
		return Primitive{Kind: KindPolygon, Layer: LayerAxis, Class: class, Points: pts, Style: textStyle}
	}
	label := func(class string, x, y float64, text string, anchor Anchor) Primitive {
		return Primitive{Kind: KindText, Layer: LayerAxis, Class: class, X: x, Y: y, Text: text, Anchor: anchor, Style: textStyle}
	}

	var out []Primitive
	if axes.ShowLeft {
		out = append(out,
			axisLine("svg-graph-axis-left", Point{left, top}, Point{left, bottom}),
			arrow("svg-graph-axis-left", Point{left - 3, top}, Point{left + 3, top}, Point{left, top - 5}),
		)
		for _, t := range layout.LeftTicks {
			out = append(out, label("svg-graph-axis-left", left-yAxisLeftLabelMargin, bottom-float64(t.Pos)+4, t.Label, AnchorEnd))
		}
	}
	if axes.ShowRight {
		out = append(out,
			axisLine("svg-graph-axis-right", Point{right, top}, Point{right, bottom}),
			arrow("svg-graph-axis-right", Point{right - 3, top}, Point{right + 3, top}, Point{right, top - 5}),
		)
		// 右轴底部标签与 X 轴标签重叠，不显示
		for _, t := range withoutPos(layout.RightTicks, 0) {
			out = append(out, label("svg-graph-axis-right", right+yAxisLeftLabelMargin, bottom-float64(t.Pos)+4, t.Label, AnchorStart))
		}
	}
	if axes.ShowX {
		out = append(out,
			axisLine("svg-graph-axis-x", Point{left, bottom}, Point{right, bottom}),
			arrow("svg-graph-axis-x", Point{right, bottom - 3}, Point{right, bottom + 3}, Point{right + 5, bottom}),
		)
		for _, t := range layout.TimeTicks {
			out = append(out, label("svg-graph-axis-x", left+float64(t.Pos), bottom+xAxisLabelMargin+10, t.Label, AnchorMiddle))
		}
	}
	return out
}
