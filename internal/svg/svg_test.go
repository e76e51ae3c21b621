package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dushixiang/svggraph/internal/graph"
)

func testScene() *graph.Scene {
	return &graph.Scene{
		Width:      200,
		Height:     100,
		Background: "#FFFFFF",
		ClipID:     "clip-1",
		Primitives: []graph.Primitive{
			{Kind: graph.KindRect, Layer: graph.LayerWorkingTime, X: 0, Y: 10, Width: 50, Height: 70, Style: graph.Style{Fill: "#EBEBEB"}},
			{Kind: graph.KindLine, Layer: graph.LayerGrid, Points: []graph.Point{{X: 0, Y: 40}, {X: 200, Y: 40}}, Style: graph.Style{Stroke: "#CCD5D9", StrokeWidth: 1}},
			{
				Kind:   graph.KindPolyline,
				Layer:  graph.LayerSeriesLine,
				Class:  "svg-graph-line",
				Points: []graph.Point{{X: 0, Y: 80}, {X: 100, Y: 45.5}},
				Style:  graph.Style{Stroke: "#b0af07", StrokeWidth: 2, StrokeOpacity: graph.Opacity(0.5)},
				Clip:   true,
				Attrs:  map[string]string{"data-metric": "cpu <load>", "data-channel": "avg"},
			},
			{Kind: graph.KindCircle, Layer: graph.LayerSeriesPoint, X: 10, Y: 20, Radius: 1.5, Title: "12 %", Style: graph.Style{Fill: "#b0af07"}, Clip: true},
			{Kind: graph.KindText, Layer: graph.LayerAxis, X: 5, Y: 90, Text: "a & b", Anchor: graph.AnchorEnd, Style: graph.Style{Fill: "#1F2C33"}},
			{Kind: graph.KindLine, Layer: graph.LayerTrigger, Points: []graph.Point{{X: 0, Y: 30}, {X: 200, Y: 30}}, Style: graph.Style{Stroke: "#FF0000", Dashed: true}},
			{Kind: graph.KindClip, Layer: graph.LayerClip, X: 0, Y: 10, Width: 200, Height: 70, ID: "clip-1"},
		},
	}
}

func TestEncode(t *testing.T) {
	out := string(Encode(testScene()))

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" class="svg-graph" width="200" height="100" viewBox="0 0 200 100">`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))

	// 背景加每个图元各一个元素
	assert.Equal(t, 3, strings.Count(out, "<rect"))
	assert.Equal(t, 2, strings.Count(out, "<line"))
	assert.Equal(t, 1, strings.Count(out, "<polyline"))
	assert.Equal(t, 1, strings.Count(out, "<circle"))
	assert.Equal(t, 1, strings.Count(out, "<text"))
	assert.Equal(t, 1, strings.Count(out, `<clipPath id="clip-1">`))
}

func TestEncodeAttributes(t *testing.T) {
	out := string(Encode(testScene()))

	assert.Contains(t, out, `<polyline points="0,80 100,45.5" class="svg-graph-line" fill="none" stroke="#b0af07" stroke-width="2" stroke-opacity="0.5" clip-path="url(#clip-1)" data-channel="avg" data-metric="cpu &lt;load&gt;"></polyline>`)
	assert.Contains(t, out, `<circle cx="10" cy="20" r="1.5" fill="#b0af07" clip-path="url(#clip-1)"><title>12 %</title></circle>`)
	assert.Contains(t, out, `<text x="5" y="90" fill="#1F2C33" text-anchor="end">a &amp; b</text>`)
	assert.Contains(t, out, `stroke-dasharray="2,2"`)
	assert.Contains(t, out, `<rect x="0" y="0" width="200" height="100" class="svg-graph-background" fill="#FFFFFF"></rect>`)
}

func TestEncodeZeroOpacity(t *testing.T) {
	scene := &graph.Scene{
		Width:  10,
		Height: 10,
		Primitives: []graph.Primitive{
			{Kind: graph.KindRect, Width: 5, Height: 5, Style: graph.Style{Fill: "#FF0000", FillOpacity: graph.Opacity(0)}},
			{Kind: graph.KindPolyline, Points: []graph.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, Style: graph.Style{Stroke: "#FF0000", StrokeOpacity: graph.Opacity(0)}},
			{Kind: graph.KindRect, Width: 5, Height: 5, Style: graph.Style{Fill: "#00FF00"}},
		},
	}
	out := string(Encode(scene))
	assert.Contains(t, out, `fill="#FF0000" fill-opacity="0"`)
	assert.Contains(t, out, `stroke="#FF0000" stroke-opacity="0"`)
	assert.Contains(t, out, `<rect x="0" y="0" width="5" height="5" fill="#00FF00"></rect>`)
}

func TestEncodeEmptyScene(t *testing.T) {
	out := string(Encode(&graph.Scene{Width: 10, Height: 10}))
	assert.Equal(t, "<svg xmlns=\"http://www.w3.org/2000/svg\" class=\"svg-graph\" width=\"10\" height=\"10\" viewBox=\"0 0 10 10\">\n</svg>\n", out)
}

func TestEncodeRenderedGraph(t *testing.T) {
	samples := make([]graph.Sample, 30)
	for i := range samples {
		samples[i] = graph.Sample{Clock: 1000 + int64(i)*100, Min: 1, Avg: float64(i), Max: 30}
	}
	scene, err := graph.Render(graph.Request{
		Metrics: []graph.Metric{{Name: "cpu", Units: "%", Options: graph.MetricOptions{Transparency: 5}, Samples: samples}},
		Options: graph.Options{
			Width: 400, Height: 200, TimeFrom: 1000, TimeTill: 4000, ClipID: "g1",
			Axes: graph.AxesOptions{ShowLeft: true, ShowX: true},
		},
	}, graph.DefaultTheme())
	require.NoError(t, err)

	out := string(Encode(scene))
	// 每个元素独占一行：文档头之后、每个元素之后各一个换行
	assert.Equal(t, len(scene.Primitives)+2, strings.Count(out, "\n<"))
	assert.Contains(t, out, `<clipPath id="g1">`)
	assert.Contains(t, out, `clip-path="url(#g1)"`)
}
