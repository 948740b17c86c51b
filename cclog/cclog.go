// Package cclog provides the optional trace-level diagnostics used by
// package cc. It is the structured, zero-cost-when-disabled replacement
// for the thread-local debug toggle of the engine this package is
// modeled on: by default nothing is logged, and installing a logger never
// changes any operation's return value, error, or control flow.
package cclog

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger installs l as the logger used for trace-level diagnostics. A
// nil l restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Enabled reports whether the installed logger has debug level enabled; it
// is false for the no-op default and for loggers above debug level. Callers
// that build expensive structured fields can use this to skip the work
// entirely when nobody is listening.
func Enabled() bool {
	return logger.Core().Enabled(zap.DebugLevel)
}

// L returns the currently installed logger.
func L() *zap.Logger {
	return logger
}
