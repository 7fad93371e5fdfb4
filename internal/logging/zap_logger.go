package logging

import (
	"go.uber.org/zap"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// ZapLogger adapts a zap.SugaredLogger to the dbexec.Logger interface,
// for embedders and for the CLI's structured JSON mode.
// Safe for concurrent use; zap loggers are concurrency-safe.
type ZapLogger struct {
	sugar   *zap.SugaredLogger
	verbose bool
}

// NewZapLogger wraps an existing zap logger.
// Verbose messages map to zap's Debug level and are additionally gated on
// the verbose flag so the two filtering models agree.
func NewZapLogger(logger *zap.Logger, verbose bool) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar(), verbose: verbose}
}

// NewProductionZapLogger builds a JSON-encoding zap logger. The returned
// cleanup function flushes buffered entries and is safe to defer.
func NewProductionZapLogger(verbose bool) (*ZapLogger, func(), error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = logger.Sync() }
	return NewZapLogger(logger, verbose), cleanup, nil
}

// Verbose logs detailed diagnostic information at debug level.
func (l *ZapLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs informational messages about normal operations.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs error messages.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

var _ dbexec.Logger = (*ZapLogger)(nil)
