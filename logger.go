package breakerline

import "go.uber.org/zap"

// Field is a single structured logging attribute.
type Field struct {
	Key   string
	Value interface{}
}

// String builds a string Field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int64 builds an int64 Field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Logger is the structured, leveled logging seam a CircuitBreaker writes
// its state transitions through. The default is silent; wire in
// NewZapLogger (or any other implementation) to observe them.
type Logger interface {
	// Info logs a single structured line at info level.
	Info(msg string, fields ...Field)
}

// noopLogger discards everything. It is the zero-value default so the
// library stays silent unless a host wires up a real Logger, matching
// the teacher's opt-in posture for its NoopCollector.
type noopLogger struct{}

// NewNoopLogger returns a Logger that discards every line.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Info(msg string, fields ...Field) {}

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	sugared *zap.SugaredLogger
}

// NewZapLogger wraps the given zap logger so the breaker's state
// transition lines flow through a host's existing structured-logging
// pipeline.
func NewZapLogger(logger *zap.Logger) Logger {
	return &zapLogger{sugared: logger.Sugar()}
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	args := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	l.sugared.Infow(msg, args...)
}
