package service

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/go-orz/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dushixiang/svggraph/internal/config"
	"github.com/dushixiang/svggraph/internal/graph"
	"github.com/dushixiang/svggraph/internal/metric"
	"github.com/dushixiang/svggraph/internal/protocol"
	"github.com/dushixiang/svggraph/internal/svg"
	"github.com/dushixiang/svggraph/internal/workperiod"
)

var (
	ErrInvalidRequest = errors.Errorf("invalid render request")
	ErrUnknownTheme   = errors.Errorf("unknown theme")
)

// GraphService 绘图服务，将请求转换为图元场景并编码为 SVG
type GraphService struct {
	logger   *zap.Logger
	cfg      *config.AppConfig
	validate *requestValidator

	periodCache cache.Cache[string, *workperiod.Schedule]
	now         func() time.Time
}

// NewGraphService 创建绘图服务
func NewGraphService(logger *zap.Logger, cfg *config.AppConfig) *GraphService {
	return &GraphService{
		logger:      logger,
		cfg:         cfg,
		validate:    newRequestValidator(),
		periodCache: cache.New[string, *workperiod.Schedule](time.Minute),
		now:         time.Now,
	}
}

// Render 生成图元场景
func (s *GraphService) Render(ctx context.Context, req *protocol.RenderRequest) (*graph.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	graphReq, theme, err := s.Build(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scene, err := graph.Render(graphReq, theme)
	if err != nil {
		return nil, errors.WrapPrefix(err, req.Name, 0)
	}
	if scene.Empty() {
		s.logger.Warn("画布尺寸不足，生成空白图形",
			zap.String("name", req.Name),
			zap.Int("width", graphReq.Options.Width),
			zap.Int("height", graphReq.Options.Height),
		)
	}
	s.logger.Debug("图形绘制完成",
		zap.String("name", req.Name),
		zap.Int("metrics", len(graphReq.Metrics)),
		zap.Int("primitives", len(scene.Primitives)),
		zap.Duration("cost", time.Since(start)),
	)
	return scene, nil
}

// RenderSVG 生成 SVG 文档
func (s *GraphService) RenderSVG(ctx context.Context, req *protocol.RenderRequest) ([]byte, error) {
	scene, err := s.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	return svg.Encode(scene), nil
}

// Build 校验请求并转换为绘图输入，未填写的参数使用配置中的默认值
func (s *GraphService) Build(req *protocol.RenderRequest) (graph.Request, graph.Theme, error) {
	if req == nil {
		return graph.Request{}, graph.Theme{}, errors.WrapPrefix(ErrInvalidRequest, "empty request", 0)
	}
	if reason := s.validate.Struct(req); reason != "" {
		return graph.Request{}, graph.Theme{}, s.invalid(req, reason)
	}

	theme, ok := s.cfg.Theme(req.Theme)
	if !ok {
		return graph.Request{}, graph.Theme{}, errors.WrapPrefix(ErrUnknownTheme, req.Theme, 0)
	}

	loc, err := s.location(req.Timezone)
	if err != nil {
		return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
	}

	now := s.now()
	if req.Now != "" {
		if now, err = protocol.ParseTime(req.Now, now, loc); err != nil {
			return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
		}
	}
	from, err := protocol.ParseTime(req.TimeFrom, now, loc)
	if err != nil {
		return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
	}
	till, err := protocol.ParseTime(req.TimeTill, now, loc)
	if err != nil {
		return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
	}
	if till.Before(from) {
		return graph.Request{}, graph.Theme{}, s.invalid(req, "timeTill is before timeFrom")
	}

	opts := graph.Options{
		Width:              cmp.Or(req.Width, s.cfg.Graph.Width),
		Height:             cmp.Or(req.Height, s.cfg.Graph.Height),
		TimeFrom:           from.Unix(),
		TimeTill:           till.Unix(),
		Now:                now.Unix(),
		Location:           loc,
		ShowWorkingTime:    req.ShowWorkingTime,
		ShowSimpleTriggers: req.ShowSimpleTriggers,
		PercentileLeft:     percentile(req.PercentileLeft),
		PercentileRight:    percentile(req.PercentileRight),
		Axes: graph.AxesOptions{
			ShowLeft:   boolOr(req.Axes.ShowLeft, true),
			ShowRight:  req.Axes.ShowRight,
			ShowX:      boolOr(req.Axes.ShowX, true),
			LeftMin:    req.Axes.LeftMin,
			LeftMax:    req.Axes.LeftMax,
			LeftUnits:  req.Axes.LeftUnits,
			RightMin:   req.Axes.RightMin,
			RightMax:   req.Axes.RightMax,
			RightUnits: req.Axes.RightUnits,
		},
		Layout: s.cfg.Graph.GraphLayout(),
		ClipID: "svg-graph-clip-" + uuid.NewString(),
	}

	if req.ShowWorkingTime {
		schedule, err := s.workPeriod(cmp.Or(req.WorkPeriod, s.cfg.Graph.WorkPeriod))
		if err != nil {
			return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
		}
		opts.WorkPeriod = schedule
	}

	metrics := make([]graph.Metric, 0, len(req.Metrics))
	for i, mc := range req.Metrics {
		m, err := s.convertMetric(i, mc, opts)
		if err != nil {
			return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
		}
		metrics = append(metrics, m)
	}

	triggers := make([]graph.SimpleTrigger, 0, len(req.SimpleTriggers))
	for _, tc := range req.SimpleTriggers {
		axis, err := protocol.ParseAxis(tc.Axis)
		if err != nil {
			return graph.Request{}, graph.Theme{}, s.invalid(req, err.Error())
		}
		triggers = append(triggers, graph.SimpleTrigger{
			Constant:    tc.Constant,
			Description: tc.Description,
			Value:       tc.Value,
			Color:       strings.TrimPrefix(tc.Color, "#"),
			Axis:        axis,
		})
	}

	problems := make([]graph.Problem, 0, len(req.Problems))
	for _, p := range req.Problems {
		acks := make([]graph.Acknowledge, 0, len(p.Acknowledges))
		for _, a := range p.Acknowledges {
			acks = append(acks, graph.Acknowledge{Action: a.Action})
		}
		problems = append(problems, graph.Problem{
			EventID:      p.EventID,
			REventID:     p.REventID,
			ObjectID:     p.ObjectID,
			Name:         p.Name,
			Severity:     p.Severity,
			Clock:        p.Clock,
			RClock:       p.RClock,
			Acknowledges: acks,
		})
	}

	return graph.Request{
		Metrics:        metrics,
		SimpleTriggers: triggers,
		Problems:       problems,
		Options:        opts,
	}, theme, nil
}

func (s *GraphService) convertMetric(order int, mc protocol.MetricConfig, opts graph.Options) (graph.Metric, error) {
	typ, err := protocol.ParseDisplayType(mc.Type)
	if err != nil {
		return graph.Metric{}, err
	}
	axis, err := protocol.ParseAxis(mc.Axis)
	if err != nil {
		return graph.Metric{}, err
	}
	approx, err := protocol.ParseApproximation(mc.Approximation)
	if err != nil {
		return graph.Metric{}, err
	}
	missing, err := protocol.ParseMissingData(mc.MissingData)
	if err != nil {
		return graph.Metric{}, err
	}
	shift, err := protocol.ParseDuration(mc.TimeShift)
	if err != nil {
		return graph.Metric{}, errors.WrapPrefix(err, "metric "+mc.Name+" timeShift", 0)
	}
	timeShift := int64(shift / time.Second)

	var samples []graph.Sample
	if mc.Series != nil {
		// 偏移后的指标展示的是更早一段时间的数据
		start := (opts.TimeFrom - timeShift) * 1000
		end := (opts.TimeTill-timeShift)*1000 + 999
		bucket := metric.AutoBucket(start, end, opts.Width)
		if mc.Bucket != "" {
			d, err := protocol.ParseDuration(mc.Bucket)
			if err != nil || d <= 0 {
				return graph.Metric{}, errors.Errorf("metric %s: invalid bucket %q", mc.Name, mc.Bucket)
			}
			bucket = d.Milliseconds()
		}
		// 窗口两端扩展到完整的桶，边缘的桶不会只聚合到部分数据
		start, end = metric.AlignTimeRangeToBucket(start, end, bucket)
		samples = metric.Aggregate(*mc.Series, start, end, bucket)
	}
	for _, p := range mc.Points {
		samples = append(samples, p.Sample())
	}
	slices.SortStableFunc(samples, func(a, b graph.Sample) int {
		return cmp.Compare(a.Clock, b.Clock)
	})

	return graph.Metric{
		Name:   mc.Name,
		ItemID: mc.ItemID,
		Host:   mc.Host,
		Units:  mc.Units,
		Options: graph.MetricOptions{
			Type:          typ,
			Axis:          axis,
			Approximation: approx,
			Color:         strings.TrimPrefix(mc.Color, "#"),
			Transparency:  intOr(mc.Transparency, graph.DefaultTransparency),
			Fill:          intOr(mc.Fill, 0),
			LineWidth:     intOr(mc.LineWidth, graph.DefaultLineWidth),
			PointSize:     intOr(mc.PointSize, graph.DefaultPointSize),
			MissingData:   missing,
			TimeShift:     timeShift,
			Order:         order,
		},
		Samples: samples,
	}, nil
}

// workPeriod 解析工作时间，相同表达式的解析结果被缓存
func (s *GraphService) workPeriod(expr string) (*workperiod.Schedule, error) {
	if schedule, ok := s.periodCache.Get(expr); ok {
		return schedule, nil
	}
	schedule, err := workperiod.Parse(expr)
	if err != nil {
		return nil, err
	}
	s.periodCache.Set(expr, schedule, time.Duration(s.cfg.Render.CacheTTL)*time.Second)
	return schedule, nil
}

func (s *GraphService) location(name string) (*time.Location, error) {
	if name == "" {
		return s.cfg.Graph.Location()
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.WrapPrefix(err, "invalid timezone", 0)
	}
	return loc, nil
}

func (s *GraphService) invalid(req *protocol.RenderRequest, reason string) error {
	s.logger.Warn("绘图请求无效", zap.String("name", req.Name), zap.String("reason", reason))
	return errors.WrapPrefix(ErrInvalidRequest, req.Name+": "+reason, 1)
}

func percentile(p *protocol.PercentileConfig) graph.Percentile {
	if p == nil {
		return graph.Percentile{}
	}
	return graph.Percentile{Show: true, Value: p.Value}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
