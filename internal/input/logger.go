package input

// Logger is the leveled logger the handler writes to. Messages are
// printf-style format strings.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a logger that adds key=value to every message.
	With(key string, value any) Logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)      {}
func (nopLogger) Info(string, ...any)       {}
func (nopLogger) Warn(string, ...any)       {}
func (nopLogger) Error(string, ...any)      {}
func (l nopLogger) With(string, any) Logger { return l }
