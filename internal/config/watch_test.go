package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "cpu.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o644))

	w, err := NewWatcher(zap.NewNop(), target)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// 非目标文件的变化被忽略
	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("c"), 0o644))

	select {
	case name := <-w.Events():
		assert.Equal(t, target, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for changed file")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(zap.NewNop(), filepath.Join(t.TempDir(), "missing", "cpu.yaml"))
	assert.Error(t, err)
}
