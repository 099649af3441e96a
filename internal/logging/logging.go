// Package logging provides the process-wide structured logger: JSON
// records via log/slog, rotated on disk by lumberjack. Components obtain
// sub-loggers through ForComponent.
package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names used across the repository.
const (
	CompSource = "source"
	CompSearch = "search"
	CompCLI    = "cli"
	CompTUI    = "tui"
)

// Config holds logging configuration.
type Config struct {
	// Dir is the directory for the rotated log file. Empty discards all
	// output, which is the default for a quiet CLI run.
	Dir string

	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string

	// MaxSizeMB is the rotation threshold (default 5).
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep (default 3).
	MaxBackups int
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	fileW  *lumberjack.Logger
)

// Init configures the global logger. Safe to call once per invocation;
// without a log dir everything is discarded.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.Dir == "" {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return
	}

	fileW = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "debug.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logger = slog.New(slog.NewJSONHandler(fileW, &slog.HandlerOptions{Level: level}))
}

// Logger returns the global logger. Safe to call before Init.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return logger
}

// ForComponent returns a sub-logger tagged with the component name. The
// handler resolves the global logger at log time, so package-level
// loggers created before Init still emit once Init runs.
func ForComponent(name string) *slog.Logger {
	return slog.New(&lateHandler{component: name})
}

// Shutdown closes the rotated log file, if any.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if fileW != nil {
		fileW.Close()
		fileW = nil
	}
	logger = nil
}

type lateHandler struct {
	component string
	attrs     []slog.Attr
	group     string
}

func (h *lateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *lateHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	if h.group != "" {
		handler = handler.WithGroup(h.group)
	}
	return handler.Handle(ctx, r)
}

func (h *lateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &lateHandler{component: h.component, attrs: merged, group: h.group}
}

func (h *lateHandler) WithGroup(name string) slog.Handler {
	return &lateHandler{component: h.component, attrs: h.attrs, group: name}
}
