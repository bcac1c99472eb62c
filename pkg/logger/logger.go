package logger

import (
	"go.uber.org/zap"
)

// Log is the global logger instance. It defaults to a no-op logger so
// packages can log safely before Initialize runs (and in tests).
var Log = zap.NewNop()

// Initialize sets up the structured logger. Development mode uses the
// human-readable console encoder, anything else logs JSON.
func Initialize(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Log.Sync()
}
