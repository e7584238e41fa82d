package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AuditEvent describes something a visitor did, e.g. a delivered contact
// submission. Details hold tags and identifiers only; free text stays out.
type AuditEvent struct {
	Action   string
	Resource string
	Result   string
	Details  map[string]any
}

// LogAudit writes e under the "audit" key, correlated with the request trace.
func LogAudit(ctx context.Context, e AuditEvent) {
	LoggerFromContext(ctx).Info("audit event", zap.Object("audit", e), zap.String("traceId", TraceIDFromContext(ctx)))
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e AuditEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("action", e.Action)
	enc.AddString("resource", e.Resource)
	enc.AddString("result", e.Result)
	if len(e.Details) > 0 {
		return enc.AddReflected("details", e.Details)
	}
	return nil
}
