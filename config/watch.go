package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file whenever it is written.
// The parent directory is watched so editors that replace the file are seen too.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnError  func(error) // reload/parse failures; the last good config stays in effect
}

// Start blocks until ctx is done; onUpdate receives each freshly loaded config.
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if w.Debounce <= 0 {
		w.Debounce = 200 * time.Millisecond
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.Path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			cfg, err := LoadWithEnvOverrides(w.Path)
			if err != nil {
				w.reportError(err)
				continue
			}
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		}
	}
}

func (w Watcher) reportError(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
