package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// slogAdapter exposes a slog.Logger through the client's Logger interface
type slogAdapter struct {
	l *slog.Logger
}

// newVerboseLogger builds a debug-level colored logger on stderr
func newVerboseLogger() *slogAdapter {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})
	return &slogAdapter{l: slog.New(handler)}
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.l.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.l.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.l.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.l.Error(msg, keysAndValues...)
}
