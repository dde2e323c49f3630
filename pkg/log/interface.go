// Package log provides a structured logging interface for churngrid machine learning operations.
//
// The interface mirrors log/slog's shape so the default implementation can
// delegate to slog directly, while tests and embedding applications swap in
// their own backend through LoggerProvider. Records carry the attribute
// vocabulary defined in attributes.go, which keeps a fold, grid point, or
// variant traceable across packages.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("model_selection.grid_search").With(
//	    log.VariantKey, "polynomial",
//	    log.FoldCountKey, 5,
//	)
//	logger.Info("Grid search finished",
//	    log.GridSizeKey, 24,
//	    log.BestScoreKey, 0.87,
//	)
package log

import (
	"context"
)

// Logger is the structured logging contract used throughout the library.
//
// Fields are alternating key-value pairs as in slog. With derives a logger
// that stamps its fields on every later record, which is how per-fold and
// per-variant context is attached once instead of at every call site.
type Logger interface {
	// Debug logs detailed diagnostic information, such as per-fit solver
	// progress. Usually disabled outside development.
	//
	// Example:
	//   logger.Debug("Gradient descent finished",
	//       log.IterationKey, 150,
	//       "converged", true,
	//   )
	Debug(msg string, fields ...any)

	// Info logs general operational information such as search progress
	// and per-variant results.
	//
	// Example:
	//   logger.Info("Variant search finished",
	//       log.VariantKey, "scaled",
	//       log.BestScoreKey, 0.85,
	//   )
	Info(msg string, fields ...any)

	// Warn logs conditions that don't stop the search, such as a fold
	// dropped from scoring or a solver that hit its iteration cap.
	//
	// Example:
	//   logger.Warn("Fold excluded from scoring",
	//       log.FoldKey, 3,
	//       log.GridPointKey, "degree=2 interaction_only=true C=100",
	//   )
	Warn(msg string, fields ...any)

	// Error logs failures that need attention. An error value passed as a
	// field is rendered by its message, and implementations may lift its
	// stack trace into the record.
	//
	// Example:
	//   logger.Error("Experiment aborted",
	//       err,
	//       log.VariantKey, "polynomial",
	//   )
	Error(msg string, fields ...any)

	// With returns a Logger that includes fields on every record it emits.
	//
	// Example:
	//   foldLogger := logger.With(
	//       log.FoldKey, 2,
	//       log.FoldCountKey, 5,
	//   )
	//   foldLogger.Info("Fold scored")  // Automatically includes fold position
	With(fields ...any) Logger

	// Enabled reports whether a record at the given level would be
	// emitted. Use it to skip building expensive fields.
	//
	// Example:
	//   if logger.Enabled(ctx, LevelDebug) {
	//       logger.Debug("Full grid", "points", grid.describeAllPoints())
	//   }
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level whose values match slog.Level, so the two can
// be converted by plain integer cast.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider resolves loggers for the rest of the library. The
// package-level provider defaults to a slog-backed implementation;
// tests install a TestLoggerProvider to capture output.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger stamped with the component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers from this provider.
	SetLevel(level Level)
}
