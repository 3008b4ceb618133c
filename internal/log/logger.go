// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	File    string    // optional rotated log file, written in addition to Output
	Service string    // optional service name attached to every log entry
	Version string    // optional build version attached to every log entry
}

var (
	mu   sync.RWMutex
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once.
// Later calls only adjust the level; use Reset in tests to start over.
func Configure(cfg Config) {
	configured := false
	once.Do(func() {
		configured = true
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = os.Stdout
		}
		if cfg.File != "" {
			writer = zerolog.MultiLevelWriter(writer, &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    50, // megabytes
				MaxBackups: 5,
				MaxAge:     14, // days
				Compress:   true,
			})
		}

		service := cfg.Service
		if service == "" {
			service = os.Getenv("LOG_SERVICE")
			if service == "" {
				service = "dramahub"
			}
		}
		version := cfg.Version
		if version == "" {
			version = os.Getenv("VERSION")
		}

		mu.Lock()
		base = zerolog.New(writer).With().
			Timestamp().
			Str("service", service).
			Str("version", version).
			Logger()
		mu.Unlock()
	})
	if configured || cfg.Level != "" {
		SetLevel(cfg.Level)
	}
}

// SetLevel changes the global level. Empty or invalid input falls back to
// LOG_LEVEL and then to info.
func SetLevel(level string) zerolog.Level {
	parsed := zerolog.InfoLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil && l != zerolog.NoLevel {
			parsed = l
		}
	}
	zerolog.SetGlobalLevel(parsed)
	return parsed
}

// Reset discards the configured logger so the next Configure call applies in full.
func Reset() {
	once = sync.Once{}
}

func logger() zerolog.Logger {
	Configure(Config{})
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// L returns a pointer to a copy of the base logger, for one-off log lines.
func L() *zerolog.Logger {
	l := logger()
	return &l
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}

// Derive attaches arbitrary fields to a child logger using the provided builder function.
func Derive(build func(*zerolog.Context)) zerolog.Logger {
	ctx := logger().With()
	if build != nil {
		build(&ctx)
	}
	return ctx.Logger()
}
