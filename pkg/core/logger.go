package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards all log output; handy in tests and benchmarks
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
