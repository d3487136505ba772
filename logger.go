package btsonicare

import "go.uber.org/zap"

// Logger denotes a generic logging interface
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// NullLogger denotes a logger that discards all messages
type NullLogger struct{}

// Debugf logs a debug message (no-op)
func (l *NullLogger) Debugf(format string, args ...interface{}) {}

// Infof logs an info message (no-op)
func (l *NullLogger) Infof(format string, args ...interface{}) {}

// Warnf logs a warning message (no-op)
func (l *NullLogger) Warnf(format string, args ...interface{}) {}

// Errorf logs an error message (no-op)
func (l *NullLogger) Errorf(format string, args ...interface{}) {}

// Fatalf logs a fatal message (no-op)
func (l *NullLogger) Fatalf(format string, args ...interface{}) {}

// NewDefaultLogger instantiates a new zap-based logger, optionally with debug
// level enabled
func NewDefaultLogger(debug bool) Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return zap.Must(cfg.Build()).Sugar()
}
