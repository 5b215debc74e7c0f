package config

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherStopsOnCancel(t *testing.T) {
	path := writeTempConfig(t, "simulation: {}\n")
	w := Watcher{Path: path}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Start(ctx, nil); err == nil {
		t.Fatalf("expected context cancellation")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := Watcher{Path: "/does/not/exist/cfg.yaml"}
	err := w.Start(context.Background(), nil)
	require.Error(t, err)
}

func TestWatcherTriggersOnChange(t *testing.T) {
	path := writeTempConfig(t, "simulation:\n  totalGridLevels: 10\n")
	w := Watcher{Path: path, Debounce: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var levels atomic.Int64
	go func() {
		_ = w.Start(ctx, func(cfg AppConfig) { levels.Store(int64(cfg.Simulation.TotalGridLevels)) })
	}()

	// 监听注册是异步的，持续写入直到回调生效
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(fmt.Sprintf("simulation:\n  totalGridLevels: %d\n", 20)), 0o644)
		return levels.Load() == 20
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, "simulation: {}\n")
	errs := make(chan error, 16)
	w := Watcher{Path: path, Debounce: 10 * time.Millisecond, OnError: func(err error) {
		select {
		case errs <- err:
		default:
		}
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx, func(AppConfig) { t.Errorf("invalid config must not be applied") }) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("simulation:\n  totalGridLevels: 0\n"), 0o644)
		return len(errs) > 0
	}, 5*time.Second, 50*time.Millisecond)
}
