// Package logging provides the process-wide slog logger and an adapter that
// satisfies the field-map Logger interface used by the client packages.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	once   sync.Once
	logger atomic.Pointer[slog.Logger]
)

// Config holds logger configuration.
type Config struct {
	Level     string // DEBUG, INFO, WARN, ERROR
	Format    string // json, text
	AddSource bool
	Output    io.Writer
}

// Init initializes the global logger. Only the first call has an effect.
func Init(cfg Config) {
	once.Do(func() {
		base := newSlog(cfg)
		logger.Store(base)
		slog.SetDefault(base)
	})
}

// Get returns the global logger. Before Init it returns slog's default logger.
func Get() *slog.Logger {
	base := logger.Load()
	if base == nil {
		return slog.Default()
	}

	return base
}

func newSlog(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Adapter forwards field-map log calls to a slog.Logger.
type Adapter struct {
	base *slog.Logger
}

// New wraps base. A nil base uses the global logger.
func New(base *slog.Logger) *Adapter {
	if base == nil {
		base = Get()
	}

	return &Adapter{base: base}
}

// NewWithConfig builds a standalone adapter without touching the global logger.
func NewWithConfig(cfg Config) *Adapter {
	return &Adapter{base: newSlog(cfg)}
}

func (a *Adapter) Debug(msg string, fields map[string]interface{}) {
	a.base.Debug(msg, attrs(fields)...)
}

func (a *Adapter) Info(msg string, fields map[string]interface{}) {
	a.base.Info(msg, attrs(fields)...)
}

func (a *Adapter) Warn(msg string, fields map[string]interface{}) {
	a.base.Warn(msg, attrs(fields)...)
}

func (a *Adapter) Error(msg string, fields map[string]interface{}) {
	a.base.Error(msg, attrs(fields)...)
}

func attrs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, key := range keys {
		out = append(out, slog.Any(key, fields[key]))
	}

	return out
}
