package graph

// Kind 图元类型
type Kind int

const (
	KindRect Kind = iota
	KindLine
	KindPolyline
	KindPolygon
	KindCircle
	KindText
	KindClip
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindPolyline:
		return "polyline"
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	case KindText:
		return "text"
	case KindClip:
		return "clip"
	default:
		return "unknown"
	}
}

// Layer 图元所属的绘制层，顺序即绘制顺序
type Layer int

const (
	LayerWorkingTime Layer = iota
	LayerGrid
	LayerAxis
	LayerSeriesLine
	LayerSeriesPoint
	LayerSeriesBar
	LayerPercentile
	LayerTrigger
	LayerProblem
	LayerClip
)

// Anchor 文本水平对齐
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Point 像素坐标
type Point struct {
	X float64
	Y float64
}

// Rect 像素矩形
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Style 描边与填充样式
type Style struct {
	Stroke        string
	StrokeWidth   float64
	StrokeOpacity *float64 // nil 表示不透明
	Fill          string
	FillOpacity   *float64 // nil 表示不透明
	Dashed        bool
}

// Opacity 不透明度，0 为完全透明
func Opacity(v float64) *float64 {
	return &v
}

// Primitive 可绘制图元，坐标均为画布绝对像素
type Primitive struct {
	Kind   Kind
	Layer  Layer
	Class  string
	Points []Point // 折线、多边形，以及直线的两个端点
	X      float64 // 矩形左上角、圆心、文本锚点
	Y      float64
	Width  float64
	Height float64
	Radius float64
	Text   string
	Title  string // 提示文本
	Anchor Anchor
	Style  Style
	Clip   bool // 是否受画布裁剪区约束
	ID     string
	Attrs  map[string]string
}

// Scene 一次绘制的结果
type Scene struct {
	Width      int
	Height     int
	Canvas     Rect
	Background string
	ClipID     string
	Primitives []Primitive
}

// Empty 场景中没有任何图元
func (s *Scene) Empty() bool {
	return len(s.Primitives) == 0
}

// Layer 返回指定层的所有图元
func (s *Scene) Layer(layer Layer) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Layer == layer {
			out = append(out, p)
		}
	}
	return out
}

func (s *Scene) add(p ...Primitive) {
	s.Primitives = append(s.Primitives, p...)
}
