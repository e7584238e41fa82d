package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger attaches a logger to each request carrying its request ID and,
// on Google Cloud, the trace from the traceparent header. Requests without a
// trace are correlated by request ID instead.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimiddleware.GetReqID(r.Context())

			var fields []zap.Field
			s := scope{traceID: reqID}
			if tc, ok := parseTraceparent(r.Header.Get(traceparentHeader), projectID()); ok {
				fields = tc.fields()
				s.traceID = tc.resource
			}
			if reqID != "" {
				fields = append(fields, zap.String("requestId", reqID))
			}
			s.logger = Logger().With(fields...)

			next.ServeHTTP(w, r.WithContext(withScope(r.Context(), s)))
		})
	}
}

// AccessLogger writes one line per request once the response is done. Server
// errors log at error level and client errors at warn.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			LoggerFromContext(r.Context()).Log(accessLevel(status), "request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("remoteIp", r.RemoteAddr),
				zap.String("userAgent", r.UserAgent()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
