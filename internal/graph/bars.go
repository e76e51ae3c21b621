package graph

import (
	"math"
	"strconv"
)

// barMember 柱组中某个指标在该时间桶上的一根柱
type barMember struct {
	metric int
	coord  Coord
}

// barGroup 同一侧、同一时间桶的柱
type barGroup struct {
	side    AxisSide
	bucket  int64
	members []barMember
}

// put 每个指标在一个时间桶内只保留一根柱，后来的点覆盖先前的点
func (g *barGroup) put(m barMember) {
	for i := range g.members {
		if g.members[i].metric == m.metric {
			g.members[i] = m
			return
		}
	}
	g.members = append(g.members, m)
}

// barIndex 柱状图分组索引，第一阶段的结果，计算完成后不再修改
type barIndex struct {
	groups   []barGroup
	minWidth [2]float64 // 每侧相邻柱之间的最小像素距离
}

// buildBarIndex 按 (坐标轴, 时间桶) 对柱状图指标的点分组。
// 一个像素需要表示多秒数据时，时间桶退化为 floor(clock/sec_per_px)·sec_per_px。
func buildBarIndex(metrics []Metric, paths [][]Path, canvas Rect, from, till int64) barIndex {
	idx := barIndex{
		minWidth: [2]float64{float64(canvas.Width) * .25, float64(canvas.Width) * .25},
	}

	period := float64(max(1, till-from))
	width := float64(max(1, canvas.Width))
	secPerPx := int64(math.Ceil(period / width))
	pxPerSec := int64(math.Ceil(width / period))

	lookup := map[AxisSide]map[int64]int{AxisLeft: {}, AxisRight: {}}

	for i, m := range metrics {
		if m.Options.Type != TypeBar {
			continue
		}
		side := m.Options.Axis
		channel := m.Options.Approximation.Primary()

		hasLast := false
		var last int
		for _, path := range paths[i] {
			for _, pp := range path {
				coord, ok := pp.At(channel)
				if !ok {
					continue
				}

				bucket := pp.Clock
				if secPerPx > pxPerSec {
					bucket = floorDiv(pp.Clock, secPerPx) * secPerPx
				}

				g, ok := lookup[side][bucket]
				if !ok {
					g = len(idx.groups)
					lookup[side][bucket] = g
					idx.groups = append(idx.groups, barGroup{side: side, bucket: bucket})
				}
				idx.groups[g].put(barMember{metric: i, coord: coord})

				if hasLast {
					idx.minWidth[side] = math.Min(float64(coord.X-last), idx.minWidth[side])
				}
				last = coord.X
				hasLast = true
			}
		}
	}
	return idx
}

// renderBars 第二阶段：由分组索引生成柱形。
// 组宽的 75% 由组内各柱平分，剩余 25% 作为组间空隙；柱底为所在坐标轴的零值线。
func renderBars(metrics []Metric, idx barIndex, layout Layout) []Primitive {
	byMetric := make(map[int][]Primitive)

	for _, g := range idx.groups {
		n := len(g.members)
		groupWidth := math.Max(1, idx.minWidth[g.side])
		barWidth := math.Max(1, math.Ceil(groupWidth/float64(n)*.75))
		anchor := float64(g.members[0].coord.X)
		groupX := anchor - groupWidth*.375
		zero := layout.Axis(g.side).Zero

		for i, member := range g.members {
			center := float64(member.coord.X)
			if n > 1 {
				center = groupX + math.Ceil(barWidth*(float64(i)+.5))
			}

			m := metrics[member.metric]
			style := styleOf(m.Options)
			y := float64(member.coord.Y)
			attrs := metricAttrs(m)
			attrs["data-px"] = strconv.FormatFloat(groupX, 'f', -1, 64)

			byMetric[member.metric] = append(byMetric[member.metric], Primitive{
				Kind:   KindRect,
				Layer:  LayerSeriesBar,
				Class:  "svg-graph-bar",
				X:      center - barWidth/2,
				Y:      math.Min(y, zero),
				Width:  barWidth,
				Height: math.Abs(zero - y),
				Title:  member.coord.Label,
				Style:  Style{Fill: style.color, FillOpacity: Opacity(style.opacity)},
				Clip:   true,
				Attrs:  attrs,
			})
		}
	}

	var out []Primitive
	for i := range metrics {
		out = append(out, byMetric[i]...)
	}
	return out
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
