// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ManuGH/dramahub/internal/log"
)

const debounceDuration = 500 * time.Millisecond

// ConfigHolder holds configuration with atomic reloading capability.
// Only the log level takes effect live; other changes are reported and
// forwarded to listeners.
type ConfigHolder struct {
	mu      sync.RWMutex
	current AppConfig
	loader  *Loader
	logger  zerolog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	listenersMu sync.RWMutex
	listeners   []chan<- AppConfig
}

// NewConfigHolder creates a holder with the initially loaded config.
func NewConfigHolder(initial AppConfig, loader *Loader) *ConfigHolder {
	return &ConfigHolder{
		current: initial,
		loader:  loader,
		logger:  log.WithComponent("config"),
	}
}

// Get returns the current configuration.
func (h *ConfigHolder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads and validates the configuration again. On failure the
// previous configuration stays in effect.
func (h *ConfigHolder) Reload(_ context.Context) error {
	h.logger.Info().Str(log.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(log.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.applyChanges(oldCfg, newCfg)
	h.notifyListeners(newCfg)

	h.logger.Info().Str(log.FieldEvent, "config.reload_success").Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher watches the config file for changes. Without a config file
// this is a no-op. The parent directory is watched so editors that replace
// the file on save are picked up.
func (h *ConfigHolder) StartWatcher(ctx context.Context) error {
	path := h.loader.Path()
	if path == "" {
		h.logger.Info().
			Str(log.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.watcher = watcher

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	h.logger.Info().
		Str(log.FieldEvent, "config.watcher_started").
		Str("path", path).
		Msg("watching config file for changes")

	h.wg.Add(1)
	go h.watchLoop(ctx, filepath.Clean(path))
	return nil
}

func (h *ConfigHolder) watchLoop(ctx context.Context, path string) {
	defer h.wg.Done()
	defer func() { _ = h.watcher.Close() }()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(log.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			h.logger.Debug().
				Str(log.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounce == nil {
				debounce = time.NewTimer(debounceDuration)
			} else {
				debounce.Reset(debounceDuration)
			}

		case <-timerC(debounce):
			debounce = nil
			if err := h.Reload(ctx); err != nil {
				h.logger.Error().
					Err(err).
					Str(log.FieldEvent, "config.auto_reload_failed").
					Msg("automatic config reload failed")
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Str(log.FieldEvent, "config.watcher_error").Msg("config watcher error")
		}
	}
}

// timerC returns nil (blocks forever) for an unarmed timer.
func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// Stop stops the watcher and waits for its goroutine.
func (h *ConfigHolder) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()
}

// RegisterListener registers a channel that receives every successfully
// reloaded config. Sends never block; the caller owns the channel.
func (h *ConfigHolder) RegisterListener(ch chan<- AppConfig) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

func (h *ConfigHolder) notifyListeners(cfg AppConfig) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- cfg:
		default:
			h.logger.Warn().
				Str(log.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *ConfigHolder) applyChanges(old, cur AppConfig) {
	if old.LogLevel != cur.LogLevel {
		lvl := log.SetLevel(cur.LogLevel)
		h.logger.Info().
			Str("old", old.LogLevel).
			Str("new", lvl.String()).
			Msg("log level changed")
	}

	restart := map[string]bool{
		"listenAddr": old.ListenAddr != cur.ListenAddr,
		"logFile":    old.LogFile != cur.LogFile,
		"upstream":   !reflect.DeepEqual(old.Upstream, cur.Upstream),
		"breaker":    old.Breaker != cur.Breaker,
		"cache":      old.Cache != cur.Cache,
		"rateLimit":  old.RateLimit != cur.RateLimit,
		"cors":       !reflect.DeepEqual(old.CORS, cur.CORS),
		"tracing":    old.Tracing != cur.Tracing,
	}
	for key, changed := range restart {
		if changed {
			h.logger.Warn().
				Str("key", key).
				Str(log.FieldEvent, "config.restart_required").
				Msg("configuration change takes effect after restart")
		}
	}
}
