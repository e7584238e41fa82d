package logging

import (
	"context"

	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is what RequestLogger attaches to a request.
type scope struct {
	logger  *zap.Logger
	traceID string
}

func scopeFrom(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, s scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// LoggerFromContext returns the request logger, or the process logger outside a request.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return l
	}
	return Logger()
}

// TraceIDFromContext returns the Cloud Trace resource of the request, falling
// back to its request ID. Empty outside a request.
func TraceIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).traceID
}

// WithLogger replaces the request logger in ctx, keeping its trace ID.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = logger
	return withScope(ctx, s)
}

func LogInfo(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Info(msg, fields...)
}

func LogWarn(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Warn(msg, fields...)
}

// LogError logs at error level with err attached under "error" when non-nil.
func LogError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	LoggerFromContext(ctx).Error(msg, fields...)
}
