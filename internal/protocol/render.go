package protocol

import (
	"github.com/go-errors/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/dushixiang/svggraph/internal/metric"
)

// RenderRequest 绘图请求，YAML 与 JSON 格式通用
type RenderRequest struct {
	Name     string `json:"name" yaml:"name"`                                           // 输出文件名（不含扩展名）
	Width    int    `json:"width" yaml:"width" validate:"omitempty,min=1,max=10000"`   // 为 0 时使用配置中的默认宽度
	Height   int    `json:"height" yaml:"height" validate:"omitempty,min=1,max=10000"` // 为 0 时使用配置中的默认高度
	TimeFrom string `json:"timeFrom" yaml:"timeFrom" validate:"required"`              // unix 秒、2006-01-02 15:04:05 或 now-1h
	TimeTill string `json:"timeTill" yaml:"timeTill" validate:"required"`
	Now      string `json:"now,omitempty" yaml:"now,omitempty"`           // 判定未恢复问题的当前时刻，默认当前时间
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"` // IANA 时区，默认使用配置
	Theme    string `json:"theme,omitempty" yaml:"theme,omitempty"`

	ShowWorkingTime    bool              `json:"showWorkingTime" yaml:"showWorkingTime"`
	WorkPeriod         string            `json:"workPeriod,omitempty" yaml:"workPeriod,omitempty"` // 默认使用配置
	ShowSimpleTriggers bool              `json:"showSimpleTriggers" yaml:"showSimpleTriggers"`
	PercentileLeft     *PercentileConfig `json:"percentileLeft,omitempty" yaml:"percentileLeft,omitempty"`
	PercentileRight    *PercentileConfig `json:"percentileRight,omitempty" yaml:"percentileRight,omitempty"`
	Axes               AxesConfig        `json:"axes" yaml:"axes"`

	Metrics        []MetricConfig  `json:"metrics" yaml:"metrics" validate:"dive"`
	SimpleTriggers []TriggerConfig `json:"simpleTriggers,omitempty" yaml:"simpleTriggers,omitempty" validate:"dive"`
	Problems       []ProblemData   `json:"problems,omitempty" yaml:"problems,omitempty" validate:"dive"`
}

// PercentileConfig 百分位线
type PercentileConfig struct {
	Value float64 `json:"value" yaml:"value" validate:"gt=0,lte=100"`
}

// AxesConfig 坐标轴设置，未填写的最小/最大值与单位自动计算
type AxesConfig struct {
	ShowLeft   *bool    `json:"showLeft,omitempty" yaml:"showLeft,omitempty"` // 默认显示
	ShowRight  bool     `json:"showRight" yaml:"showRight"`
	ShowX      *bool    `json:"showX,omitempty" yaml:"showX,omitempty"` // 默认显示
	LeftMin    *float64 `json:"leftMin,omitempty" yaml:"leftMin,omitempty"`
	LeftMax    *float64 `json:"leftMax,omitempty" yaml:"leftMax,omitempty"`
	LeftUnits  *string  `json:"leftUnits,omitempty" yaml:"leftUnits,omitempty"`
	RightMin   *float64 `json:"rightMin,omitempty" yaml:"rightMin,omitempty"`
	RightMax   *float64 `json:"rightMax,omitempty" yaml:"rightMax,omitempty"`
	RightUnits *string  `json:"rightUnits,omitempty" yaml:"rightUnits,omitempty"`
}

// MetricConfig 单个指标的数据与展示选项
type MetricConfig struct {
	Name          string `json:"name" yaml:"name" validate:"required"`
	ItemID        string `json:"itemId,omitempty" yaml:"itemId,omitempty"`
	Host          string `json:"host,omitempty" yaml:"host,omitempty"`
	Units         string `json:"units,omitempty" yaml:"units,omitempty"`
	Type          string `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=line points staircase bar"`
	Axis          string `json:"axis,omitempty" yaml:"axis,omitempty" validate:"omitempty,oneof=left right"`
	Approximation string `json:"approximation,omitempty" yaml:"approximation,omitempty" validate:"omitempty,oneof=avg min max all"`
	Color         string `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor|hexadecimal"`
	Transparency  *int   `json:"transparency,omitempty" yaml:"transparency,omitempty" validate:"omitempty,min=0,max=10"`
	Fill          *int   `json:"fill,omitempty" yaml:"fill,omitempty" validate:"omitempty,min=0,max=10"`
	LineWidth     *int   `json:"lineWidth,omitempty" yaml:"lineWidth,omitempty" validate:"omitempty,min=0,max=10"`
	PointSize     *int   `json:"pointSize,omitempty" yaml:"pointSize,omitempty" validate:"omitempty,min=1,max=10"`
	MissingData   string `json:"missingData,omitempty" yaml:"missingData,omitempty" validate:"omitempty,oneof=connected none zero last_known"`
	TimeShift     string `json:"timeShift,omitempty" yaml:"timeShift,omitempty"` // 例如 1d、-2h

	Points []PointData    `json:"points,omitempty" yaml:"points,omitempty" validate:"dive"`
	Series *metric.Series `json:"series,omitempty" yaml:"series,omitempty"` // 原始毫秒数据，按桶聚合
	Bucket string         `json:"bucket,omitempty" yaml:"bucket,omitempty"` // 聚合桶大小，默认按宽度自动选择
}

// PointData 已聚合的数据点，可以只填 value
type PointData struct {
	Clock int64    `json:"clock" yaml:"clock" validate:"required"`
	Min   *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Avg   *float64 `json:"avg,omitempty" yaml:"avg,omitempty"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Null  bool     `json:"null,omitempty" yaml:"null,omitempty"` // 数据中断
}

// TriggerConfig 固定阈值线
type TriggerConfig struct {
	Constant    string  `json:"constant" yaml:"constant"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Value       float64 `json:"value" yaml:"value"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor|hexadecimal"`
	Axis        string  `json:"axis,omitempty" yaml:"axis,omitempty" validate:"omitempty,oneof=left right"`
}

// ProblemData 问题事件
type ProblemData struct {
	EventID      string            `json:"eventId" yaml:"eventId" validate:"required"`
	REventID     string            `json:"rEventId,omitempty" yaml:"rEventId,omitempty"`
	ObjectID     string            `json:"objectId,omitempty" yaml:"objectId,omitempty"`
	Name         string            `json:"name" yaml:"name"`
	Severity     int               `json:"severity" yaml:"severity" validate:"min=0,max=5"`
	Clock        int64             `json:"clock" yaml:"clock" validate:"required"`
	RClock       int64             `json:"rClock,omitempty" yaml:"rClock,omitempty"` // 0 表示尚未恢复
	Acknowledges []AcknowledgeData `json:"acknowledges,omitempty" yaml:"acknowledges,omitempty"`
}

// AcknowledgeData 问题确认记录，action 为位掩码
type AcknowledgeData struct {
	Action int `json:"action" yaml:"action"`
}

// Decode 解析 YAML 或 JSON 格式的绘图请求
func Decode(data []byte) (*RenderRequest, error) {
	var req RenderRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, errors.WrapPrefix(err, "decode render request", 0)
	}
	return &req, nil
}

// ReadFile 从文件系统读取绘图请求，未填写名称时使用文件名
func ReadFile(fs afero.Fs, path string) (*RenderRequest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WrapPrefix(err, "read render request", 0)
	}
	req, err := Decode(data)
	if err != nil {
		return nil, errors.WrapPrefix(err, path, 0)
	}
	if req.Name == "" {
		req.Name = baseName(path)
	}
	return req, nil
}
