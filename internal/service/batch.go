package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/dushixiang/svggraph/internal/protocol"
)

// RenderResult 单个请求文件的绘制结果
type RenderResult struct {
	Input  string
	Output string
	Err    error
}

// RenderFiles 并发绘制请求文件，结果写入 outDir/<name>.svg。
// 单个文件失败不影响其他文件，返回的错误汇总了所有失败。
func (s *GraphService) RenderFiles(ctx context.Context, fs afero.Fs, files []string, outDir string) ([]RenderResult, error) {
	if outDir == "" {
		outDir = s.cfg.Render.OutputDir
	}
	if err := fs.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.WrapPrefix(err, "create output dir", 0)
	}

	results := make([]RenderResult, len(files))
	p := pool.New().
		WithMaxGoroutines(max(s.cfg.Render.Concurrency, 1)).
		WithContext(ctx)

	for i, file := range files {
		p.Go(func(ctx context.Context) error {
			results[i] = s.renderFile(ctx, fs, file, outDir)
			return results[i].Err
		})
	}
	return results, p.Wait()
}

func (s *GraphService) renderFile(ctx context.Context, fs afero.Fs, file, outDir string) RenderResult {
	result := RenderResult{Input: file}
	start := time.Now()

	req, err := protocol.ReadFile(fs, file)
	if err != nil {
		result.Err = err
		s.logger.Error("读取绘图请求失败", zap.String("file", file), zap.Error(err))
		return result
	}

	data, err := s.RenderSVG(ctx, req)
	if err != nil {
		result.Err = errors.WrapPrefix(err, file, 0)
		s.logger.Error("绘图失败", zap.String("file", file), zap.Error(err))
		if e, ok := result.Err.(*errors.Error); ok {
			s.logger.Debug("错误堆栈", zap.String("stack", e.ErrorStack()))
		}
		return result
	}

	result.Output = filepath.Join(outDir, req.Name+".svg")
	if err := afero.WriteFile(fs, result.Output, data, 0o644); err != nil {
		result.Err = errors.WrapPrefix(err, "write "+result.Output, 0)
		s.logger.Error("写入 SVG 失败", zap.String("file", result.Output), zap.Error(err))
		return result
	}

	s.logger.Info("SVG 已生成",
		zap.String("input", file),
		zap.String("output", result.Output),
		zap.Int("bytes", len(data)),
		zap.Duration("cost", time.Since(start)),
	)
	return result
}
