package graph

import (
	"strconv"
	"strings"
)

const (
	DefaultColor        = "#b0af07"
	DefaultTransparency = 5
	DefaultPointSize    = 1
	DefaultLineWidth    = 1
)

// seriesStyle 指标的描边/填充样式
type seriesStyle struct {
	color     string
	opacity   float64
	fill      float64
	lineWidth float64
	pointSize float64
}

func styleOf(opts MetricOptions) seriesStyle {
	color := hexColor(opts.Color)
	if color == "" {
		color = DefaultColor
	}
	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}
	pointSize := opts.PointSize
	if pointSize <= 0 {
		pointSize = DefaultPointSize
	}
	return seriesStyle{
		color:     color,
		opacity:   tenth(opts.Transparency),
		fill:      tenth(opts.Fill),
		lineWidth: float64(lineWidth),
		pointSize: float64(pointSize),
	}
}

// tenth 0-10 的级别换算为 0-1 的不透明度
func tenth(level int) float64 {
	return float64(min(max(level, 0), 10)) / 10
}

func hexColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}

func metricAttrs(m Metric) map[string]string {
	return map[string]string{
		"data-set":    m.Options.Type.String(),
		"data-metric": m.Name,
		"data-itemid": m.ItemID,
		"data-order":  strconv.Itoa(m.Options.Order),
	}
}

// channelPoints 取路径中指定通道的坐标；阶梯图在每个点之前插入水平过渡点
func channelPoints(path Path, c Channel, staircase bool) []Point {
	var pts []Point
	for _, pp := range path {
		coord, ok := pp.At(c)
		if !ok {
			continue
		}
		if staircase && len(pts) > 0 {
			pts = append(pts, Point{X: float64(coord.X), Y: pts[len(pts)-1].Y})
		}
		pts = append(pts, Point{X: float64(coord.X), Y: float64(coord.Y)})
	}
	return pts
}

func reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// renderLines 绘制折线与阶梯图，以及可选的填充区域
func renderLines(m Metric, paths []Path, zero float64) []Primitive {
	style := styleOf(m.Options)
	staircase := m.Options.Type == TypeStaircase
	approx := m.Options.Approximation

	var out []Primitive
	if style.fill > 0 {
		for _, path := range paths {
			if len(path) < 2 {
				continue
			}

			var pts []Point
			if approx == ApproxAll {
				pts = channelPoints(path, ChannelMax, staircase)
				pts = append(pts, reversed(channelPoints(path, ChannelMin, staircase))...)
			} else {
				pts = channelPoints(path, approx.Primary(), staircase)
				if len(pts) == 0 {
					continue
				}
				pts = append(pts,
					Point{X: pts[len(pts)-1].X, Y: zero},
					Point{X: pts[0].X, Y: zero},
				)
			}

			out = append(out, Primitive{
				Kind:   KindPolygon,
				Layer:  LayerSeriesLine,
				Class:  "svg-graph-fill",
				Points: pts,
				Style:  Style{Fill: style.color, FillOpacity: Opacity(style.fill)},
				Clip:   true,
				Attrs:  metricAttrs(m),
			})
		}
	}

	for _, path := range paths {
		for _, c := range approx.Channels() {
			pts := channelPoints(path, c, staircase)
			attrs := metricAttrs(m)
			attrs["data-channel"] = c.String()

			switch len(pts) {
			case 0:
				continue
			case 1:
				// 孤立的单个点画成小圆点
				out = append(out, Primitive{
					Kind:   KindCircle,
					Layer:  LayerSeriesLine,
					Class:  "svg-graph-line",
					X:      pts[0].X,
					Y:      pts[0].Y,
					Radius: style.lineWidth,
					Style:  Style{Fill: style.color, FillOpacity: Opacity(style.opacity)},
					Clip:   true,
					Attrs:  attrs,
				})
			default:
				out = append(out, Primitive{
					Kind:   KindPolyline,
					Layer:  LayerSeriesLine,
					Class:  "svg-graph-line",
					Points: pts,
					Style: Style{
						Stroke:        style.color,
						StrokeWidth:   style.lineWidth,
						StrokeOpacity: Opacity(style.opacity),
					},
					Clip:  true,
					Attrs: attrs,
				})
			}
		}
	}
	return out
}

// renderPoints 点图：每个样本一个圆点，路径中不存在的样本跳过
func renderPoints(m Metric, paths []Path) []Primitive {
	style := styleOf(m.Options)
	channel := m.Options.Approximation.Primary()

	var out []Primitive
	for _, path := range paths {
		for _, pp := range path {
			coord, ok := pp.At(channel)
			if !ok {
				continue
			}
			out = append(out, Primitive{
				Kind:   KindCircle,
				Layer:  LayerSeriesPoint,
				Class:  "svg-graph-point",
				X:      float64(coord.X),
				Y:      float64(coord.Y),
				Radius: style.pointSize / 2,
				Title:  coord.Label,
				Style:  Style{Fill: style.color, FillOpacity: Opacity(style.opacity)},
				Clip:   true,
				Attrs:  metricAttrs(m),
			})
		}
	}
	return out
}
