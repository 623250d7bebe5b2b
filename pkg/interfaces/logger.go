package interfaces

import "context"

// Logger is the leveled logger every credits package writes to. Arguments
// after the message are alternating key/value pairs. The method set matches
// go-logger so its loggers satisfy it directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by module name, e.g. "credits.renderer".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent fields.
// Callers should go through logging.WithFields rather than asserting it.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
