// Package log provides the process-wide zap logger used by the gocfar commands.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}

	baseLogger = zapLogger
	log = zapLogger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	return nil
}

// Logger returns the base zap logger, for handing to library code.
func Logger() *zap.Logger {
	if baseLogger == nil {
		// Fallback logger if not initialized
		baseLogger, _ = zap.NewProduction()
		log = baseLogger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	}
	return baseLogger
}

// Sync flushes any buffered log entries
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func sugar() *zap.SugaredLogger {
	if log == nil {
		Logger()
	}
	return log
}

func Debugw(msg string, keysAndValues ...any) {
	sugar().Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...any) {
	sugar().Infow(msg, keysAndValues...)
}

func Warnw(msg string, keysAndValues ...any) {
	sugar().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...any) {
	sugar().Errorw(msg, keysAndValues...)
}
