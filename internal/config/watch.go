package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-errors/errors"
	"go.uber.org/zap"
)

// Watcher 监听配置文件与请求文件的变化
type Watcher struct {
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	targets map[string]struct{}
	eventCh chan string
}

// NewWatcher 创建文件监控器。监控的是文件所在目录，以便编辑器替换文件后仍能收到事件
func NewWatcher(logger *zap.Logger, paths ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapPrefix(err, "创建文件监控器失败", 0)
	}

	w := &Watcher{
		logger:  logger,
		watcher: watcher,
		targets: make(map[string]struct{}, len(paths)),
		eventCh: make(chan string, 16),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, errors.Wrap(err, 0)
		}
		w.targets[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, errors.WrapPrefix(err, "添加文件监控失败", 0)
		}
		dirs[dir] = struct{}{}
	}
	return w, nil
}

// Events 发生变化的文件路径（绝对路径）
func (w *Watcher) Events() <-chan string {
	return w.eventCh
}

// Run 监控循环，ctx 结束或监控器关闭后返回并关闭事件通道
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.eventCh)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := w.targets[name]; !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			select {
			case w.eventCh <- name:
			default:
				// 消费方处理较慢，丢弃重复的通知
				w.logger.Debug("文件变化通知被丢弃", zap.String("file", name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("文件监控错误", zap.Error(err))
		}
	}
}

// Close 停止监控
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
