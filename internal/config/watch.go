// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// ReloadFunc receives the freshly loaded config, or the error that stopped
// it from loading. A bad edit never replaces a good config.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	path     string
	onReload ReloadFunc
	debounce time.Duration

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc

	mu    sync.Mutex
	timer *time.Timer
}

// DefaultWatchDebounce coalesces the burst of events an editor save emits.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watch starts watching path and calls onReload after each change settles.
// The parent directory is watched because atomic saves replace the file.
func Watch(ctx context.Context, path string, onReload ReloadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     abs,
		onReload: onReload,
		debounce: DefaultWatchDebounce,
		watcher:  fsw,
		ctx:      wctx,
		cancel:   cancel,
	}
	go w.processEvents()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onReload(nil, err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	cfg, err := LoadFromPath(w.path)
	w.onReload(cfg, err)
}
