// Package svg 将图元场景序列化为 SVG 文档
package svg

import (
	"bytes"
	"html"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/dushixiang/svggraph/internal/graph"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

var (
	documentTpl = fasttemplate.New(`<svg xmlns="http://www.w3.org/2000/svg" class="svg-graph" width="{{width}}" height="{{height}}" viewBox="0 0 {{width}} {{height}}">
{{body}}</svg>
`, startTag, endTag)

	rectTpl     = fasttemplate.New(`<rect x="{{x}}" y="{{y}}" width="{{width}}" height="{{height}}"{{attrs}}>{{title}}</rect>`, startTag, endTag)
	lineTpl     = fasttemplate.New(`<line x1="{{x1}}" y1="{{y1}}" x2="{{x2}}" y2="{{y2}}"{{attrs}}>{{title}}</line>`, startTag, endTag)
	polylineTpl = fasttemplate.New(`<polyline points="{{points}}"{{attrs}}>{{title}}</polyline>`, startTag, endTag)
	polygonTpl  = fasttemplate.New(`<polygon points="{{points}}"{{attrs}}>{{title}}</polygon>`, startTag, endTag)
	circleTpl   = fasttemplate.New(`<circle cx="{{cx}}" cy="{{cy}}" r="{{r}}"{{attrs}}>{{title}}</circle>`, startTag, endTag)
	textTpl     = fasttemplate.New(`<text x="{{x}}" y="{{y}}"{{attrs}}>{{title}}{{text}}</text>`, startTag, endTag)
	clipTpl     = fasttemplate.New(`<clipPath id="{{id}}"><rect x="{{x}}" y="{{y}}" width="{{width}}" height="{{height}}"/></clipPath>`, startTag, endTag)
)

// Encode 生成完整的 SVG 文档，每个图元对应一个元素
func Encode(scene *graph.Scene) []byte {
	var body bytes.Buffer
	if scene.Background != "" {
		body.WriteString(rectTpl.ExecuteString(map[string]any{
			"x":      "0",
			"y":      "0",
			"width":  strconv.Itoa(scene.Width),
			"height": strconv.Itoa(scene.Height),
			"attrs":  ` class="svg-graph-background" fill="` + escape(scene.Background) + `"`,
			"title":  "",
		}))
		body.WriteByte('\n')
	}

	for _, p := range scene.Primitives {
		body.WriteString(element(p, scene.ClipID))
		body.WriteByte('\n')
	}

	return []byte(documentTpl.ExecuteString(map[string]any{
		"width":  strconv.Itoa(scene.Width),
		"height": strconv.Itoa(scene.Height),
		"body":   body.String(),
	}))
}

func element(p graph.Primitive, clipID string) string {
	attrs := attributes(p, clipID)
	title := ""
	if p.Title != "" {
		title = "<title>" + escape(p.Title) + "</title>"
	}

	switch p.Kind {
	case graph.KindRect:
		return rectTpl.ExecuteString(map[string]any{
			"x":      num(p.X),
			"y":      num(p.Y),
			"width":  num(p.Width),
			"height": num(p.Height),
			"attrs":  attrs,
			"title":  title,
		})
	case graph.KindLine:
		var from, to graph.Point
		if len(p.Points) > 0 {
			from = p.Points[0]
			to = p.Points[len(p.Points)-1]
		}
		return lineTpl.ExecuteString(map[string]any{
			"x1":    num(from.X),
			"y1":    num(from.Y),
			"x2":    num(to.X),
			"y2":    num(to.Y),
			"attrs": attrs,
			"title": title,
		})
	case graph.KindPolyline:
		return polylineTpl.ExecuteString(map[string]any{"points": points(p.Points), "attrs": attrs, "title": title})
	case graph.KindPolygon:
		return polygonTpl.ExecuteString(map[string]any{"points": points(p.Points), "attrs": attrs, "title": title})
	case graph.KindCircle:
		return circleTpl.ExecuteString(map[string]any{
			"cx":    num(p.X),
			"cy":    num(p.Y),
			"r":     num(p.Radius),
			"attrs": attrs,
			"title": title,
		})
	case graph.KindText:
		return textTpl.ExecuteString(map[string]any{
			"x":     num(p.X),
			"y":     num(p.Y),
			"attrs": attrs,
			"title": title,
			"text":  escape(p.Text),
		})
	case graph.KindClip:
		id := p.ID
		if id == "" {
			id = clipID
		}
		return clipTpl.ExecuteString(map[string]any{
			"id":     escape(id),
			"x":      num(p.X),
			"y":      num(p.Y),
			"width":  num(p.Width),
			"height": num(p.Height),
		})
	default:
		return ""
	}
}

// attributes class、样式、裁剪以及自定义 data 属性，自定义属性按名称排序
func attributes(p graph.Primitive, clipID string) string {
	var sb strings.Builder
	attr := func(name, value string) {
		sb.WriteString(` ` + name + `="` + escape(value) + `"`)
	}

	if p.Class != "" {
		attr("class", p.Class)
	}

	s := p.Style
	switch {
	case s.Fill != "":
		attr("fill", s.Fill)
		if s.FillOpacity != nil {
			attr("fill-opacity", num(*s.FillOpacity))
		}
	case p.Kind != graph.KindText:
		attr("fill", "none")
	}
	if s.Stroke != "" {
		attr("stroke", s.Stroke)
		if s.StrokeWidth > 0 {
			attr("stroke-width", num(s.StrokeWidth))
		}
		if s.StrokeOpacity != nil {
			attr("stroke-opacity", num(*s.StrokeOpacity))
		}
		if s.Dashed {
			attr("stroke-dasharray", "2,2")
		}
	}

	if p.Kind == graph.KindText {
		attr("text-anchor", anchor(p.Anchor))
	}
	if p.Clip && clipID != "" {
		attr("clip-path", "url(#"+clipID+")")
	}

	for _, k := range slices.Sorted(maps.Keys(p.Attrs)) {
		attr(k, p.Attrs[k])
	}
	return sb.String()
}

func anchor(a graph.Anchor) string {
	switch a {
	case graph.AnchorMiddle:
		return "middle"
	case graph.AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

func points(pts []graph.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	return html.EscapeString(s)
}
