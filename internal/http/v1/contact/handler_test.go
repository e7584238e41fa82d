package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/contactform"
	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	appmiddleware "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/middleware"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/respond"
	contactsvc "github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/contact"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/mail"
)

const validBody = `{
	"fullName": "Jane Doe",
	"email": "jane@example.com",
	"goals": "Need a new site",
	"services": ["webDesign"],
	"webDesignExisting": "no",
	"webDesignChallenges": "Looks outdated",
	"timeline": "asap",
	"budget": "under1k"
}`

var testConfig = Config{To: "hello@example.com", From: "Studio <studio@example.com>"}

type mockContactService struct {
	calls []contactsvc.Options
	subs  []*contactform.Submission
	err   error
}

func (m *mockContactService) Send(_ context.Context, sub *contactform.Submission, opts contactsvc.Options) (json.RawMessage, error) {
	m.calls = append(m.calls, opts)
	m.subs = append(m.subs, sub)
	return nil, m.err
}

func (m *mockContactService) Provider() string { return "mock" }

func setupRouter(svc contactsvc.Service, extra ...func(http.Handler) http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(appmiddleware.RequestID(), applog.RequestLogger(), respond.Recoverer())
	router.Use(extra...)
	normalizer := contactform.NewNormalizer(clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)))
	Register(router, nil, NewHandler(normalizer, svc, testConfig, nil), "*")
	return router
}

func doRequest(router http.Handler, method, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, Path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal error body %q: %v", resp.Body.String(), err)
	}
	return body.Error
}

func TestSubmitSuccess(t *testing.T) {
	svc := &mockContactService{}
	router := setupRouter(svc)

	resp := doRequest(router, http.MethodPost, validBody, map[string]string{"Origin": "https://lumenworks.studio"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var ack Ack
	if err := json.Unmarshal(resp.Body.Bytes(), &ack); err != nil {
		t.Fatalf("failed to unmarshal ack: %v", err)
	}
	if ack.Message != MsgAck {
		t.Fatalf("unexpected message %q", ack.Message)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", resp.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(strings.Join(resp.Header().Values("Vary"), ","), "Origin") {
		t.Errorf("expected Vary: Origin, got %v", resp.Header().Values("Vary"))
	}

	if len(svc.calls) != 1 {
		t.Fatalf("expected one send, got %d", len(svc.calls))
	}
	opts := svc.calls[0]
	if opts.To != testConfig.To || opts.From != testConfig.From {
		t.Errorf("unexpected addresses %+v", opts)
	}
	if opts.Subject != "New contact form submission from Jane Doe" {
		t.Errorf("unexpected subject %q", opts.Subject)
	}
	if svc.subs[0].WebDesign == nil || svc.subs[0].WebDesign.Existing != contactform.ExistingSiteNo {
		t.Errorf("unexpected submission %+v", svc.subs[0])
	}
}

func TestOptionsReturnsEmpty200(t *testing.T) {
	router := setupRouter(&mockContactService{})

	resp := doRequest(router, http.MethodOptions, "", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", resp.Body.String())
	}
}

func TestPreflight(t *testing.T) {
	svc := &mockContactService{}
	router := setupRouter(svc)

	resp := doRequest(router, http.MethodOptions, "", map[string]string{
		"Origin":                         "https://lumenworks.studio",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Content-Type",
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected allow origin, got %q", resp.Header().Get("Access-Control-Allow-Origin"))
	}
	if len(svc.calls) != 0 {
		t.Fatal("preflight must not send email")
	}
}

func TestOtherMethodsNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			resp := doRequest(setupRouter(&mockContactService{}), method, "", nil)
			if resp.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", resp.Code)
			}
			if got := resp.Header().Get("Allow"); got != allowHeader {
				t.Fatalf("unexpected Allow %q", got)
			}
			if errorMessage(t, resp) != msgNotAllowed {
				t.Fatalf("unexpected body %s", resp.Body.String())
			}
		})
	}
}

func TestCrossOriginNotAllowedIsReadable(t *testing.T) {
	resp := doRequest(setupRouter(&mockContactService{}), http.MethodGet, "", map[string]string{
		"Origin": "https://studio.example",
	})

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected allow origin on 405, got %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected allow methods %q", got)
	}
}

func TestSubmitWithoutOriginGetsCORSHeaders(t *testing.T) {
	resp := doRequest(setupRouter(&mockContactService{}), http.MethodPost, `{}`, nil)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected allow origin, got %q", got)
	}
}

func TestSubmitValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", contactform.MsgFullNameRequired},
		{"whitespace body", "  \n ", contactform.MsgFullNameRequired},
		{"invalid json", `{"fullName":`, MsgInvalidJSON},
		{"json array", `["Jane"]`, contactform.MsgFullNameRequired},
		{"missing services", strings.Replace(validBody, `"services": ["webDesign"],`, "", 1), contactform.MsgServicesRequired},
		{"bad email", strings.Replace(validBody, "jane@example.com", "jane", 1), contactform.MsgEmailRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockContactService{}
			resp := doRequest(setupRouter(svc), http.MethodPost, tt.body, nil)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if got := errorMessage(t, resp); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if len(svc.calls) != 0 {
				t.Fatal("invalid submissions must not be sent")
			}
		})
	}
}

func TestSubmitConfigError(t *testing.T) {
	dispatcher := contactsvc.NewDispatcher(mail.NewResendClient(nil, ""))
	resp := doRequest(setupRouter(dispatcher), http.MethodPost, validBody, nil)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := errorMessage(t, resp); got != contactsvc.MsgMissingAPIKey {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSubmitDeliveryFailureAlwaysAnswers502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"invalid from address"}`)
	}))
	defer upstream.Close()

	sender := mail.NewResendClient(upstream.Client(), "re_test", mail.WithResendBaseURL(upstream.URL))
	resp := doRequest(setupRouter(contactsvc.NewDispatcher(sender)), http.MethodPost, validBody, nil)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "invalid from address") {
		t.Fatalf("upstream message leaked: %s", resp.Body.String())
	}
	if got := errorMessage(t, resp); got != MsgDeliveryFailed {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSubmitUnexpectedError(t *testing.T) {
	svc := &mockContactService{err: errors.New("database exploded")}
	resp := doRequest(setupRouter(svc), http.MethodPost, validBody, nil)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := errorMessage(t, resp); got != respond.MsgInternal {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSubmitBodyTooLarge(t *testing.T) {
	svc := &mockContactService{}
	router := setupRouter(svc, chimiddleware.RequestSize(16))

	resp := doRequest(router, http.MethodPost, validBody, nil)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
	if len(svc.calls) != 0 {
		t.Fatal("oversized submissions must not be sent")
	}
}

func TestReadPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(`{"a":1}`))
	payload, err := readPayload(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["a"] != float64(1) {
		t.Fatalf("unexpected payload %v", payload)
	}

	req = httptest.NewRequest(http.MethodPost, Path, strings.NewReader(`"just a string"`))
	payload, err = readPayload(req)
	if err != nil || len(payload) != 0 {
		t.Fatalf("expected empty payload, got %v, %v", payload, err)
	}
}

func TestDocumentListsCatalogEnums(t *testing.T) {
	oapi := &huma.OpenAPI{Paths: map[string]*huma.PathItem{}}
	document(oapi)

	item := oapi.Paths[Path]
	if item == nil || item.Post == nil || item.Options == nil {
		t.Fatal("expected POST and OPTIONS documented")
	}
	schema := item.Post.RequestBody.Content["application/json"].Schema
	if got := schema.Properties["timeline"].Enum; len(got) != len(contactform.Timelines()) || got[0] != string(contactform.Timelines()[0]) {
		t.Fatalf("unexpected timeline enum %v", got)
	}
	if got := schema.Properties["budget"].Enum; len(got) != len(contactform.Budgets()) {
		t.Fatalf("unexpected budget enum %v", got)
	}
	services := schema.Properties["services"].Items.Enum
	if len(services) != len(contactform.Services()) {
		t.Fatalf("unexpected services enum %v", services)
	}
	for _, v := range services {
		if v == string(contactform.ServiceWebDesign) {
			return
		}
	}
	t.Fatalf("expected %q in services enum %v", contactform.ServiceWebDesign, services)
}
