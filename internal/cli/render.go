package cli

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dushixiang/svggraph/internal/config"
	"github.com/dushixiang/svggraph/internal/service"
)

type renderOptions struct {
	outputDir   string
	concurrency int
	watch       bool
}

func newRenderCommand(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render [request files...]",
		Short: "Render request files to SVG",
		Long: `Render each YAML or JSON request file to <name>.svg in the output directory.

The output name is the request's name field, or the input file name without
its extension. With --watch, files are rendered again whenever they (or the
config file) change.

Examples:
  svggraph render cpu.yaml memory.json
  svggraph render -o out/ --concurrency 8 requests/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), a, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory (default from config)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "number of graphs rendered in parallel (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when request or config files change")
	return cmd
}

func runRender(ctx context.Context, a *app, opts renderOptions, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := a.load()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	svc := newService(log, cfg, opts)
	results, err := svc.RenderFiles(ctx, a.fs, files, opts.outputDir)
	failed := countFailed(results)
	log.Info("渲染完成", zap.Int("total", len(results)), zap.Int("failed", failed))

	if !opts.watch {
		if err != nil {
			return errors.Errorf("%d of %d graphs failed", failed, len(results))
		}
		return nil
	}
	return watchAndRender(ctx, a, opts, files, log, svc)
}

func watchAndRender(ctx context.Context, a *app, opts renderOptions, files []string, log *zap.Logger, svc *service.GraphService) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths := append([]string{}, files...)
	var configAbs string
	if a.configPath != "" {
		paths = append(paths, a.configPath)
		configAbs, _ = filepath.Abs(a.configPath)
	}

	watcher, err := config.NewWatcher(log, paths...)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	go watcher.Run(ctx)

	// 监控事件中是绝对路径，映射回命令行给出的路径
	inputs := make(map[string]string, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			inputs[abs] = f
		}
	}

	log.Info("正在监控文件变化", zap.Strings("files", paths))
	for changed := range watcher.Events() {
		if changed == configAbs {
			cfg, err := a.configOnly()
			if err != nil {
				log.Warn("重新加载配置失败，继续使用旧配置", zap.Error(err))
				continue
			}
			log.Info("配置已重新加载", zap.String("file", a.configPath))
			svc = newService(log, cfg, opts)
			_, _ = svc.RenderFiles(ctx, a.fs, files, opts.outputDir)
			continue
		}
		if input, ok := inputs[changed]; ok {
			_, _ = svc.RenderFiles(ctx, a.fs, []string{input}, opts.outputDir)
		}
	}
	return nil
}

func newService(log *zap.Logger, cfg *config.AppConfig, opts renderOptions) *service.GraphService {
	if opts.concurrency > 0 {
		cfg.Render.Concurrency = opts.concurrency
	}
	return service.NewGraphService(log, cfg)
}

func countFailed(results []service.RenderResult) int {
	var n int
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
