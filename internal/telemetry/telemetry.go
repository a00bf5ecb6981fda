// Package telemetry is the structured-logging seam every other package
// logs through. Swapping the logging backend means touching this package
// only; nothing else under internal/ imports zap directly.
package telemetry

import "go.uber.org/zap"

// Logger is the structured logger handed to the reactor and both
// handlers at construction.
type Logger = zap.SugaredLogger

// New builds a production logger: JSON output, info level, stack traces
// on error.
func New() (*Logger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}

// NewDevelopment builds a human-readable, colorized console logger.
func NewDevelopment() (*Logger, error) {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return zl.Sugar(), nil
}

// NewNop builds a logger that discards everything, for tests that don't
// want log noise.
func NewNop() *Logger {
	return zap.NewNop().Sugar()
}
