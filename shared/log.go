package shared

// Logger is the logging interface consumed by the streaming packages.
// Implementations are expected to be format-string based, so that zap's
// SugaredLogger, the standard library logger and test loggers all fit
// behind thin adapters.
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Panic(format string, args ...any)
}

// NoopLogger discards all log messages. It is the default logger of every
// component that accepts one.
type NoopLogger struct{}

func (NoopLogger) Info(string, ...any)    {}
func (NoopLogger) Debug(string, ...any)   {}
func (NoopLogger) Warning(string, ...any) {}
func (NoopLogger) Error(string, ...any)   {}
func (NoopLogger) Panic(string, ...any)   {}
