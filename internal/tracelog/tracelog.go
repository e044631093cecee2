// Package tracelog holds the process-wide logger for strategy-transition
// tracing. The default is a nop logger; the engine stays silent unless a
// caller installs one.
package tracelog

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Use installs the logger emitted to by all containers in this module.
// Passing nil restores the nop logger.
func Use(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	current.Store(logger)
}

// L returns the installed logger.
func L() *zap.Logger {
	return current.Load()
}
