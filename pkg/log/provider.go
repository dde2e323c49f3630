// Package log provides the default slog-backed logger provider.
//
// This file wires the Logger interface to Go's standard log/slog package.
// Library components obtain named loggers through GetLoggerWithName, which
// delegates to a process-wide LoggerProvider. Tests can swap the provider
// with SetLoggerProvider to capture output through TestLoggerProvider.

package log

import (
	"context"
	"log/slog"
	"sync"
)

// slogLogger adapts a *slog.Logger to the Logger interface.
// A provider-owned level variable gates records before delegation so that
// SetLevel applies to every logger the provider has handed out.
type slogLogger struct {
	l     *slog.Logger
	level *slog.LevelVar
}

// Debug implements Logger.Debug.
func (s *slogLogger) Debug(msg string, fields ...any) {
	if s.level.Level() <= slog.LevelDebug {
		s.l.Debug(msg, fields...)
	}
}

// Info implements Logger.Info.
func (s *slogLogger) Info(msg string, fields ...any) {
	if s.level.Level() <= slog.LevelInfo {
		s.l.Info(msg, fields...)
	}
}

// Warn implements Logger.Warn.
func (s *slogLogger) Warn(msg string, fields ...any) {
	if s.level.Level() <= slog.LevelWarn {
		s.l.Warn(msg, fields...)
	}
}

// Error implements Logger.Error.
func (s *slogLogger) Error(msg string, fields ...any) {
	if s.level.Level() <= slog.LevelError {
		s.l.Error(msg, fields...)
	}
}

// With implements Logger.With.
func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...), level: s.level}
}

// Enabled implements Logger.Enabled.
func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	if Level(s.level.Level()) > level {
		return false
	}
	return s.l.Enabled(ctx, slog.Level(level))
}

// SlogProvider implements LoggerProvider on top of the process slog logger.
// All loggers produced by one provider share a single level variable, so
// SetLevel takes effect retroactively.
type SlogProvider struct {
	level *slog.LevelVar
}

// NewSlogProvider creates a provider whose loggers emit records at or above
// the given level.
func NewSlogProvider(level Level) *SlogProvider {
	lv := &slog.LevelVar{}
	lv.Set(slog.Level(level))
	return &SlogProvider{level: lv}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *SlogProvider) GetLogger() Logger {
	return &slogLogger{l: slog.Default(), level: p.level}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *SlogProvider) GetLoggerWithName(name string) Logger {
	return &slogLogger{l: slog.Default().With(ComponentKey, name), level: p.level}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *SlogProvider) SetLevel(level Level) {
	p.level.Set(slog.Level(level))
}

var (
	providerMu sync.RWMutex

	// Library logging defaults to warnings only so embedding applications
	// stay quiet unless they opt in via SetLoggerProvider or SetLevel.
	provider LoggerProvider = NewSlogProvider(LevelWarn)
)

// SetLoggerProvider replaces the process-wide logger provider.
// Tests typically install a TestLoggerProvider here and restore the
// previous provider when done.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// GetLogger returns the default logger from the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a named logger for a library component.
//
// Example:
//
//	logger := log.GetLoggerWithName("model_selection.grid_search")
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}
