package logger

import corelogger "github.com/kilianp07/gridfeed/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component. The output format is
// selected via the APP_ENV variable and the process-wide options set by
// Configure.
func New(component string) Logger {
	return NewZerologLogger(component)
}
