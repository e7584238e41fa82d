// Package respond renders every non-success response with the same body,
// {"error": "<message>"}, whether it comes from a huma operation, a plain chi
// handler, the router's 404/405 handlers or a recovered panic.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
)

const (
	// MsgInternal is shown for any failure the caller cannot act on.
	MsgInternal         = "Something went wrong. Please try again later."
	msgNotFound         = "Not found."
	msgMethodNotAllowed = "Method not allowed."
)

// Error is a huma.StatusError whose JSON/CBOR encoding is {"error": Message}.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// GetStatus implements huma.StatusError.
func (e *Error) GetStatus() int {
	return e.Status
}

var _ huma.StatusError = (*Error)(nil)

var installOnce sync.Once

// Install makes huma build its own errors (request too large, invalid
// parameters, unhandled handler errors) as *Error.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return NewError(context.Background(), status, msg, errs...)
		}
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			ctx := context.Background()
			if hctx != nil {
				ctx = hctx.Context()
			}
			return NewError(ctx, status, msg, errs...)
		}
	})
}

// NewError builds an *Error and logs it at a severity matching the status:
// 5xx as errors, 4xx as warnings. Causes in errs are logged, never rendered.
func NewError(ctx context.Context, status int, msg string, errs ...error) *Error {
	if strings.TrimSpace(msg) == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	fields := []zap.Field{zap.Int("status", status)}
	cause := errors.Join(errs...)
	switch {
	case status >= http.StatusInternalServerError:
		applog.LogError(ctx, msg, cause, fields...)
	case status >= http.StatusBadRequest:
		if cause != nil {
			fields = append(fields, zap.Error(cause))
		}
		applog.LogWarn(ctx, msg, fields...)
	}
	return &Error{Status: status, Message: msg}
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteError logs and renders an error body.
func WriteError(w http.ResponseWriter, ctx context.Context, status int, msg string, errs ...error) error {
	e := NewError(ctx, status, msg, errs...)
	return WriteJSON(w, e.Status, e)
}

// NotFoundHandler renders 404 for unknown routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteError(w, r.Context(), http.StatusNotFound, msgNotFound); err != nil {
			applog.LogError(r.Context(), "failed to render not found", err)
		}
	}
}

// MethodNotAllowedHandler renders 405 and lists the route's methods in Allow.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		if err := WriteError(w, r.Context(), http.StatusMethodNotAllowed, msgMethodNotAllowed); err != nil {
			applog.LogError(r.Context(), "failed to render method not allowed", err)
		}
	}
}

type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Recoverer turns panics into a logged 500. http.ErrAbortHandler is re-panicked
// so net/http can abort the connection, and nothing is written once the
// handler has already started its response.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
				if rw.wroteHeader {
					applog.LogError(r.Context(), "panic after response started", err)
					return
				}
				if writeErr := WriteError(rw, r.Context(), http.StatusInternalServerError, MsgInternal, err); writeErr != nil {
					applog.LogError(r.Context(), "failed to render internal error", writeErr)
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.Path
	}
	if routePath == "" {
		routePath = "/"
	}
	var allowed []string
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
