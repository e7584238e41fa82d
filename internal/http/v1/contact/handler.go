// Package contact serves the contact form endpoint. It is a plain chi handler
// rather than a huma operation: the body is untrusted loosely-typed JSON that
// the normalizer validates itself, and an empty body must count as {}.
package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/contactform"
	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
	appmiddleware "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/middleware"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/respond"
	contactsvc "github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/contact"
)

// Path is where the contact form posts.
const Path = "/api/contact"

// User-facing messages.
const (
	MsgAck            = "Thanks for reaching out! We'll be in touch within one business day."
	MsgDeliveryFailed = "We couldn't send your message right now. Please try again soon."
	MsgInvalidJSON    = "Invalid JSON payload."
	MsgTooLarge       = "Request body is too large."
	msgNotAllowed     = "Method not allowed."
)

const allowHeader = "POST, OPTIONS"

// Config addresses outgoing emails.
type Config struct {
	To   string
	From string
}

// Handler runs the normalize, format and send pipeline for one request.
type Handler struct {
	normalizer *contactform.Normalizer
	svc        contactsvc.Service
	cfg        Config
	metrics    *metrics.Metrics
}

// NewHandler creates a Handler. m may be nil.
func NewHandler(normalizer *contactform.Normalizer, svc contactsvc.Service, cfg Config, m *metrics.Metrics) *Handler {
	if normalizer == nil {
		normalizer = contactform.NewNormalizer(nil)
	}
	return &Handler{normalizer: normalizer, svc: svc, cfg: cfg, metrics: m}
}

// Register mounts the handler on router behind the contact CORS policy and
// documents it on api.
func Register(router chi.Router, api huma.API, h *Handler, allowOrigin string) {
	router.With(appmiddleware.CORS(allowOrigin)).Handle(Path, h)
	if api != nil {
		document(api.OpenAPI())
	}
}

// ServeHTTP answers OPTIONS with 200, POST with the pipeline and anything else with 405.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", allowHeader)
		logWriteErr(r, respond.WriteError(w, r.Context(), http.StatusMethodNotAllowed, msgNotAllowed))
		return
	}

	ctx := r.Context()
	payload, err := readPayload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sub, err := h.normalizer.Normalize(payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	_, err = h.svc.Send(ctx, sub, contactsvc.Options{
		To:      h.cfg.To,
		From:    h.cfg.From,
		Subject: contactsvc.DefaultSubject(sub),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.metrics.ObserveSubmission("sent")
	applog.LogAudit(ctx, applog.AuditEvent{
		Action:   "contact.submit",
		Resource: "contact_submission",
		Result:   "sent",
		Details: map[string]any{
			"services": sub.Services,
			"timeline": sub.Timeline,
			"budget":   sub.Budget,
			"provider": h.svc.Provider(),
		},
	})
	logWriteErr(r, respond.WriteJSON(w, http.StatusOK, Ack{Message: MsgAck}))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var (
		verr     *contactform.ValidationError
		cerr     *contactform.ConfigError
		derr     *contactform.DeliveryError
		tooLarge *http.MaxBytesError
	)
	var writeErr error
	switch {
	case errors.As(err, &verr):
		h.metrics.ObserveSubmission("invalid")
		writeErr = respond.WriteError(w, ctx, verr.StatusCode(), verr.Message)
	case errors.As(err, &tooLarge):
		h.metrics.ObserveSubmission("invalid")
		writeErr = respond.WriteError(w, ctx, http.StatusRequestEntityTooLarge, MsgTooLarge, err)
	case errors.As(err, &cerr):
		h.metrics.ObserveSubmission("config")
		writeErr = respond.WriteError(w, ctx, cerr.StatusCode(), cerr.Message, err)
	case errors.As(err, &derr):
		h.metrics.ObserveSubmission("failed")
		applog.LogError(ctx, "contact email delivery failed", err,
			zap.String("provider", derr.Provider),
			zap.Int("upstream_status", derr.StatusCode()),
		)
		// Always 502 to the client, even when the provider answered 4xx; the
		// provider status is only logged above.
		writeErr = respond.WriteError(w, ctx, http.StatusBadGateway, MsgDeliveryFailed)
	default:
		h.metrics.ObserveSubmission("error")
		writeErr = respond.WriteError(w, ctx, http.StatusInternalServerError, respond.MsgInternal, err)
	}
	logWriteErr(r, writeErr)
}

func logWriteErr(r *http.Request, err error) {
	if err != nil {
		applog.LogError(r.Context(), "failed to write contact response", err)
	}
}

// readPayload decodes the body as a JSON object. An empty body is {} and any
// other JSON value is treated as an object with no fields.
func readPayload(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &contactform.ValidationError{Message: MsgInvalidJSON}
	}
	if obj, ok := decoded.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{}, nil
}
