package graph

import (
	"time"

	"github.com/dushixiang/svggraph/internal/workperiod"
)

// DisplayType 指标绘制类型
type DisplayType int

const (
	TypeLine DisplayType = iota
	TypePoints
	TypeStaircase
	TypeBar
)

func (t DisplayType) String() string {
	switch t {
	case TypePoints:
		return "points"
	case TypeStaircase:
		return "staircase"
	case TypeBar:
		return "bar"
	default:
		return "line"
	}
}

// AxisSide Y 轴位置
type AxisSide int

const (
	AxisLeft AxisSide = iota
	AxisRight
)

func (s AxisSide) String() string {
	if s == AxisRight {
		return "right"
	}
	return "left"
}

// Channel 样本的聚合通道
type Channel int

const (
	ChannelMin Channel = iota
	ChannelAvg
	ChannelMax
)

func (c Channel) String() string {
	switch c {
	case ChannelMin:
		return "min"
	case ChannelMax:
		return "max"
	default:
		return "avg"
	}
}

// Approximation 取值方式
type Approximation int

const (
	ApproxAvg Approximation = iota
	ApproxMin
	ApproxMax
	ApproxAll
)

// Primary 用于线条、点、柱以及百分位计算的主通道
func (a Approximation) Primary() Channel {
	switch a {
	case ApproxMin:
		return ChannelMin
	case ApproxMax:
		return ChannelMax
	default:
		return ChannelAvg
	}
}

// Channels 需要绘制的全部通道
func (a Approximation) Channels() []Channel {
	if a == ApproxAll {
		return []Channel{ChannelMin, ChannelAvg, ChannelMax}
	}
	return []Channel{a.Primary()}
}

// Extremes 计算坐标轴范围时使用的下限与上限通道
func (a Approximation) Extremes() (low, high Channel) {
	if a == ApproxAll {
		return ChannelMin, ChannelMax
	}
	return a.Primary(), a.Primary()
}

// MissingData 缺失数据处理方式
type MissingData int

const (
	MissingConnected MissingData = iota
	MissingNone
	MissingZero
	MissingLastKnown
)

// Sample 单个时间点的样本；Null 表示数据中断
type Sample struct {
	Clock int64
	Min   float64
	Avg   float64
	Max   float64
	Null  bool
}

// Value 读取指定通道的值
func (s Sample) Value(c Channel) float64 {
	switch c {
	case ChannelMin:
		return s.Min
	case ChannelMax:
		return s.Max
	default:
		return s.Avg
	}
}

// MetricOptions 指标的展示选项
type MetricOptions struct {
	Type          DisplayType
	Axis          AxisSide
	Approximation Approximation
	Color         string
	Transparency  int // 0-10，线条不透明度
	Fill          int // 0-10，填充不透明度
	LineWidth     int
	PointSize     int
	MissingData   MissingData
	TimeShift     int64 // 秒
	Order         int
}

// Metric 一条待绘制的时间序列
type Metric struct {
	Name    string
	ItemID  string
	Host    string
	Units   string
	Options MetricOptions
	Samples []Sample // 按时间升序
}

// SimpleTrigger 固定阈值线
type SimpleTrigger struct {
	Constant    string
	Description string
	Value       float64
	Color       string
	Axis        AxisSide
}

// Acknowledge 问题的确认记录
type Acknowledge struct {
	Action int
}

// ActionClose 确认动作中的关闭标记位
const ActionClose = 0x01

// Problem 问题时段
type Problem struct {
	EventID      string
	REventID     string
	ObjectID     string
	Name         string
	Severity     int
	Clock        int64
	RClock       int64 // 0 表示尚未恢复
	Acknowledges []Acknowledge
}

// Percentile 百分位线设置
type Percentile struct {
	Show  bool
	Value float64
}

// AxesOptions 坐标轴设置；Min/Max/Units 为 nil 表示自动计算
type AxesOptions struct {
	ShowLeft   bool
	ShowRight  bool
	ShowX      bool
	LeftMin    *float64
	LeftMax    *float64
	LeftUnits  *string
	RightMin   *float64
	RightMax   *float64
	RightUnits *string
}

// LayoutConfig 布局相关的启发式参数
type LayoutConfig struct {
	ApproxCharWidth int // 估算刻度文字宽度时单个字符的像素
	BaseOffset      int // Y 轴最小宽度
	MaxAxisWidth    int // Y 轴最大宽度
	CellHeightMin   int // 网格单元最小高度
}

// DefaultLayoutConfig 默认布局参数
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		ApproxCharWidth: 10,
		BaseOffset:      20,
		MaxAxisWidth:    120,
		CellHeightMin:   30,
	}
}

// Options 一次绘制的显示参数
type Options struct {
	Width    int
	Height   int
	TimeFrom int64
	TimeTill int64
	Now      int64 // 用于未恢复的问题，0 表示使用 TimeTill
	Location *time.Location

	ShowWorkingTime    bool
	WorkPeriod         *workperiod.Schedule
	ShowSimpleTriggers bool
	PercentileLeft     Percentile
	PercentileRight    Percentile

	Axes   AxesOptions
	Layout LayoutConfig
	ClipID string
}

// Theme 图形配色
type Theme struct {
	BackgroundColor      string
	GridColor            string
	TextColor            string
	NonWorkTimeColor     string
	LeftPercentileColor  string
	RightPercentileColor string
	SeverityColors       [6]string
	ProblemColor         string
	OKColor              string
}

// DefaultTheme 默认配色
func DefaultTheme() Theme {
	return Theme{
		BackgroundColor:      "FFFFFF",
		GridColor:            "CCD5D9",
		TextColor:            "1F2C33",
		NonWorkTimeColor:     "EBEBEB",
		LeftPercentileColor:  "429E47",
		RightPercentileColor: "E33734",
		SeverityColors:       [6]string{"97AAB3", "7499FF", "FFC859", "FFA059", "E97659", "E45959"},
		ProblemColor:         "E45959",
		OKColor:              "59DB8F",
	}
}

// Request 一次绘制的全部输入
type Request struct {
	Metrics        []Metric
	SimpleTriggers []SimpleTrigger
	Problems       []Problem
	Options        Options
}
