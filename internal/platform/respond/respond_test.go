package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	appmiddleware "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/middleware"
)

type errorBody struct {
	Error string `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("failed to unmarshal error body %q: %v", body, err)
	}
	return eb
}

func TestNotFoundHandler(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json content type, got %q", ct)
	}
	if eb := decodeError(t, resp.Body.Bytes()); eb.Error != msgNotFound {
		t.Fatalf("unexpected message %q", eb.Error)
	}
}

func TestMethodNotAllowedHandlerListsAllow(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Post("/api/contact", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Options("/api/contact", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/contact", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	allow := resp.Header().Get("Allow")
	if !strings.Contains(allow, http.MethodPost) || !strings.Contains(allow, http.MethodOptions) {
		t.Fatalf("expected Allow to list POST and OPTIONS, got %q", allow)
	}
	if eb := decodeError(t, resp.Body.Bytes()); eb.Error != msgMethodNotAllowed {
		t.Fatalf("unexpected message %q", eb.Error)
	}
}

func TestRecovererRendersInternalError(t *testing.T) {
	router := chi.NewRouter()
	router.Use(appmiddleware.RequestID(), Recoverer())
	router.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	eb := decodeError(t, resp.Body.Bytes())
	if eb.Error != MsgInternal {
		t.Fatalf("unexpected message %q", eb.Error)
	}
	if strings.Contains(resp.Body.String(), "boom") {
		t.Fatal("panic value must not leak into the body")
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/abort", func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) })

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, http.ErrAbortHandler) {
			t.Fatalf("expected http.ErrAbortHandler, got %v", rec)
		}
	}()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Fatal("expected panic to propagate")
}

func TestRecovererKeepsStartedResponse(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "partial" {
		t.Fatalf("expected original response preserved, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestHumaErrorsUseErrorBody(t *testing.T) {
	Install()
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("RespondTest", "test"))
	huma.Get(api, "/teapot", func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, NewError(ctx, http.StatusTeapot, "short and stout")
	})
	huma.Get(api, "/unexpected", func(context.Context, *struct{}) (*struct{}, error) {
		return nil, errors.New("database exploded")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	if resp.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", resp.Code)
	}
	if eb := decodeError(t, resp.Body.Bytes()); eb.Error != "short and stout" {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/unexpected", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if eb := decodeError(t, resp.Body.Bytes()); eb.Error == "" || strings.Contains(eb.Error, "database exploded") {
		t.Fatalf("expected masked error body, got %s", resp.Body.String())
	}
}

func TestNewErrorDefaultsMessage(t *testing.T) {
	e := NewError(context.Background(), http.StatusBadGateway, "  ")
	if e.Message != "Bad Gateway" {
		t.Fatalf("expected status text, got %q", e.Message)
	}
	if e.GetStatus() != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", e.GetStatus())
	}
}
