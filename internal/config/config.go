package config

import (
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/dushixiang/svggraph/internal/graph"
)

// DefaultThemeName 未指定主题时使用的主题
const DefaultThemeName = "default"

// AppConfig 应用配置
type AppConfig struct {
	Log    LogConfig              `json:"Log" yaml:"Log"`
	Graph  GraphConfig            `json:"Graph" yaml:"Graph"`
	Themes map[string]ThemeConfig `json:"Themes" yaml:"Themes" validate:"dive"` // 主题名 -> 配色
	Render RenderConfig           `json:"Render" yaml:"Render"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `json:"Level" yaml:"Level" validate:"omitempty,oneof=debug info warn error"`
	File       string `json:"File" yaml:"File"`             // 为空时输出到标准输出
	MaxSize    int    `json:"MaxSize" yaml:"MaxSize"`       // MB
	MaxBackups int    `json:"MaxBackups" yaml:"MaxBackups"` // 保留的旧日志文件数
	MaxAge     int    `json:"MaxAge" yaml:"MaxAge"`         // 天数
	Compress   bool   `json:"Compress" yaml:"Compress"`     // 是否压缩
}

// GraphConfig 绘图默认参数
type GraphConfig struct {
	Width      int          `json:"Width" yaml:"Width" validate:"min=1,max=10000"`
	Height     int          `json:"Height" yaml:"Height" validate:"min=1,max=10000"`
	Timezone   string       `json:"Timezone" yaml:"Timezone"`     // IANA 时区，例如 Asia/Shanghai
	WorkPeriod string       `json:"WorkPeriod" yaml:"WorkPeriod"` // 例如 1-5,09:00-18:00
	Theme      string       `json:"Theme" yaml:"Theme"`           // 默认主题
	Layout     LayoutConfig `json:"Layout" yaml:"Layout"`
}

// LayoutConfig 坐标轴宽度估算参数
type LayoutConfig struct {
	ApproxCharWidth int `json:"ApproxCharWidth" yaml:"ApproxCharWidth" validate:"min=0"` // 单个字符的估算宽度（像素）
	BaseOffset      int `json:"BaseOffset" yaml:"BaseOffset" validate:"min=0"`           // Y 轴最小宽度
	MaxAxisWidth    int `json:"MaxAxisWidth" yaml:"MaxAxisWidth" validate:"min=0"`       // Y 轴最大宽度
	CellHeightMin   int `json:"CellHeightMin" yaml:"CellHeightMin" validate:"min=0"`     // 网格单元最小高度
}

// ThemeConfig 主题配色，十六进制颜色，未填写的颜色使用默认主题
type ThemeConfig struct {
	BackgroundColor      string   `json:"BackgroundColor" yaml:"BackgroundColor" validate:"omitempty,hexadecimal"`
	GridColor            string   `json:"GridColor" yaml:"GridColor" validate:"omitempty,hexadecimal"`
	TextColor            string   `json:"TextColor" yaml:"TextColor" validate:"omitempty,hexadecimal"`
	NonWorkTimeColor     string   `json:"NonWorkTimeColor" yaml:"NonWorkTimeColor" validate:"omitempty,hexadecimal"`
	LeftPercentileColor  string   `json:"LeftPercentileColor" yaml:"LeftPercentileColor" validate:"omitempty,hexadecimal"`
	RightPercentileColor string   `json:"RightPercentileColor" yaml:"RightPercentileColor" validate:"omitempty,hexadecimal"`
	SeverityColors       []string `json:"SeverityColors" yaml:"SeverityColors" validate:"omitempty,len=6,dive,hexadecimal"` // 未分类到灾难共 6 级
	ProblemColor         string   `json:"ProblemColor" yaml:"ProblemColor" validate:"omitempty,hexadecimal"`
	OKColor              string   `json:"OKColor" yaml:"OKColor" validate:"omitempty,hexadecimal"`
}

// RenderConfig 批量绘图参数
type RenderConfig struct {
	Concurrency int    `json:"Concurrency" yaml:"Concurrency" validate:"min=1,max=256"` // 并发绘图数
	CacheTTL    int    `json:"CacheTTL" yaml:"CacheTTL" validate:"min=1"`               // 工作时间解析结果缓存（秒）
	OutputDir   string `json:"OutputDir" yaml:"OutputDir"`
}

// Default 默认配置
func Default() *AppConfig {
	layout := graph.DefaultLayoutConfig()
	return &AppConfig{
		Log: LogConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Graph: GraphConfig{
			Width:      1000,
			Height:     300,
			Timezone:   "UTC",
			WorkPeriod: "1-5,09:00-18:00",
			Theme:      DefaultThemeName,
			Layout: LayoutConfig{
				ApproxCharWidth: layout.ApproxCharWidth,
				BaseOffset:      layout.BaseOffset,
				MaxAxisWidth:    layout.MaxAxisWidth,
				CellHeightMin:   layout.CellHeightMin,
			},
		},
		Themes: map[string]ThemeConfig{
			DefaultThemeName: {},
			"dark": {
				BackgroundColor:      "2B2B2B",
				GridColor:            "454545",
				TextColor:            "F2F2F2",
				NonWorkTimeColor:     "333333",
				LeftPercentileColor:  "429E47",
				RightPercentileColor: "E33734",
				SeverityColors:       []string{"97AAB3", "7499FF", "FFC859", "FFA059", "E97659", "E45959"},
				ProblemColor:         "E45959",
				OKColor:              "59DB8F",
			},
		},
		Render: RenderConfig{
			Concurrency: 4,
			CacheTTL:    600,
			OutputDir:   ".",
		},
	}
}

// Load 读取 YAML 配置并覆盖默认值，path 为空时直接使用默认配置
func Load(fs afero.Fs, path string) (*AppConfig, error) {
	cfg := Default()
	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, errors.WrapPrefix(err, "read config", 0)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapPrefix(err, "parse config "+path, 0)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WrapPrefix(err, "invalid config", 0)
	}
	if _, err := c.Graph.Location(); err != nil {
		return err
	}
	if _, ok := c.Theme(c.Graph.Theme); !ok {
		return errors.Errorf("invalid config: theme %q not found", c.Graph.Theme)
	}
	return nil
}

// Theme 按名称查找主题，空名称使用默认主题
func (c *AppConfig) Theme(name string) (graph.Theme, bool) {
	if name == "" {
		name = c.Graph.Theme
	}
	if name == "" || name == DefaultThemeName {
		if tc, ok := c.Themes[DefaultThemeName]; ok {
			return tc.Theme(), true
		}
		return graph.DefaultTheme(), true
	}
	tc, ok := c.Themes[name]
	if !ok {
		return graph.Theme{}, false
	}
	return tc.Theme(), true
}

// Theme 转换为绘图主题
func (t ThemeConfig) Theme() graph.Theme {
	theme := graph.DefaultTheme()
	set := func(dst *string, v string) {
		if v = strings.TrimPrefix(strings.TrimSpace(v), "#"); v != "" {
			*dst = v
		}
	}
	set(&theme.BackgroundColor, t.BackgroundColor)
	set(&theme.GridColor, t.GridColor)
	set(&theme.TextColor, t.TextColor)
	set(&theme.NonWorkTimeColor, t.NonWorkTimeColor)
	set(&theme.LeftPercentileColor, t.LeftPercentileColor)
	set(&theme.RightPercentileColor, t.RightPercentileColor)
	set(&theme.ProblemColor, t.ProblemColor)
	set(&theme.OKColor, t.OKColor)
	for i, c := range t.SeverityColors {
		if i < len(theme.SeverityColors) {
			set(&theme.SeverityColors[i], c)
		}
	}
	return theme
}

// Location 解析时区
func (g GraphConfig) Location() (*time.Location, error) {
	if g.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, errors.WrapPrefix(err, "invalid timezone", 0)
	}
	return loc, nil
}

// GraphLayout 转换为绘图布局参数
func (g GraphConfig) GraphLayout() graph.LayoutConfig {
	return graph.LayoutConfig{
		ApproxCharWidth: g.Layout.ApproxCharWidth,
		BaseOffset:      g.Layout.BaseOffset,
		MaxAxisWidth:    g.Layout.MaxAxisWidth,
		CellHeightMin:   g.Layout.CellHeightMin,
	}
}

// ThemeNames 所有主题名称，未排序
func (c *AppConfig) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	return names
}
