// Package logtrace is a thin structured-logging layer over zap. Every call takes
// a context so correlation ids and origins attached upstream end up on the line.
package logtrace

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	// CorrelationIDKey is the context key for the correlation id.
	CorrelationIDKey ctxKey = "correlation_id"
	originKey        ctxKey = "origin"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Setup initializes the process logger. The level is read from LOG_LEVEL
// (debug, info, warn, error) and defaults to info.
func Setup(serviceName string) {
	if lvl := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lvl != "" {
		SetLevel(lvl)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).With(zap.String("service", serviceName))

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetLevel changes the minimum level at runtime. Unknown values are ignored.
func SetLevel(lvl string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(lvl))); err == nil {
		level.SetLevel(l)
	}
}

// CtxWithCorrelationID stores a correlation id in the context.
func CtxWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, correlationID)
}

// CtxWithOrigin stores the origin (phase or caller) in the context.
func CtxWithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// CorrelationIDFromContext returns the correlation id or "unknown".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if v, ok := ctx.Value(CorrelationIDKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// OriginFromContext returns the origin or an empty string.
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(originKey).(string)
	return v
}

func Debug(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.DebugLevel, msg, fields)
}

func Info(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.InfoLevel, msg, fields)
}

func Warn(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.WarnLevel, msg, fields)
}

func Error(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.ErrorLevel, msg, fields)
}

// Fatal logs and exits the process.
func Fatal(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.FatalLevel, msg, fields)
}

func log(ctx context.Context, lvl zapcore.Level, msg string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ce := l.Check(lvl, msg)
	if ce == nil {
		return
	}

	zf := make([]zap.Field, 0, len(fields)+2)
	zf = append(zf, zap.String(FieldCorrelationID, CorrelationIDFromContext(ctx)))
	if origin := OriginFromContext(ctx); origin != "" {
		zf = append(zf, zap.String(FieldOrigin, origin))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	ce.Write(zf...)
}
