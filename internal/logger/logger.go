// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels, backed by zap.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Zero formatting logic at call sites
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("starting batch run")
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

// current holds the active verbosity level. Only messages with
// level <= current are logged. Trace has no zap equivalent, so the
// gate lives here and Trace messages log at zap's debug level.
var current = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var trace = false

// sugar is the shared zap logger. Logs go to stderr so they stay
// separated from normal program output in CLI pipelines.
var sugar = newLogger()

func newLogger() *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		current,
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// SetVerbosity sets the global logging verbosity. Typically called
// once during application startup, after parsing CLI flags.
func SetVerbosity(v int) {
	trace = Level(v) >= Trace
	switch {
	case Level(v) <= Error:
		current.SetLevel(zapcore.ErrorLevel)
	case Level(v) == Info:
		current.SetLevel(zapcore.InfoLevel)
	default:
		current.SetLevel(zapcore.DebugLevel)
	}
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	sugar.Errorf(format, args...)
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	sugar.Infof(format, args...)
}

// Debugf logs debugging information.
// Use this for diagnostic output useful during development.
func Debugf(format string, args ...any) {
	sugar.Debugf(format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	if trace {
		sugar.Debugf(format, args...)
	}
}
