package cli

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dushixiang/svggraph/internal/config"
	"github.com/dushixiang/svggraph/internal/logger"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app 命令共享的运行环境
type app struct {
	fs         afero.Fs
	configPath string
}

func (a *app) configOnly() (*config.AppConfig, error) {
	return config.Load(a.fs, a.configPath)
}

func (a *app) load() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := a.configOnly()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.Log), nil
}

// NewRootCommand 构建命令树，fs 为读取配置、请求与写入 SVG 的文件系统
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	root := &cobra.Command{
		Use:   "svggraph",
		Short: "Render time-series graphs to SVG",
		Long: `svggraph renders monitoring time-series graphs (lines, points, staircase,
bars, percentile and threshold lines, problem periods) into SVG documents.

Each input file is a YAML or JSON render request.

Examples:
  svggraph render cpu.yaml
  svggraph render -c svggraph.yaml -o out/ requests/*.yaml
  svggraph render --watch cpu.yaml`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (YAML)")

	root.AddCommand(newRenderCommand(a))
	root.AddCommand(newThemesCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
