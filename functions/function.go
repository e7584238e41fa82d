// Package functions exposes the site API as Cloud Functions. Each function
// serves one endpoint through the same router as the standalone server.
package functions

import (
	"context"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/app"
	contacthandler "github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/v1/contact"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/config"
	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/respond"
)

// WeatherPath is the route the Weather function serves.
const WeatherPath = "/api/weather"

var (
	routerOnce sync.Once
	router     http.Handler
	routerErr  error
)

func init() {
	functions.HTTP("Contact", Contact)
	functions.HTTP("Weather", Weather)
}

// Contact handles contact form submissions.
func Contact(w http.ResponseWriter, r *http.Request) {
	serveAt(w, r, contacthandler.Path)
}

// Weather handles current weather lookups.
func Weather(w http.ResponseWriter, r *http.Request) {
	serveAt(w, r, WeatherPath)
}

// serveAt rewrites the request path, since the platform mounts each
// function at its own URL, then dispatches through the shared router.
func serveAt(w http.ResponseWriter, r *http.Request, path string) {
	h, err := loadRouter()
	if err != nil {
		applog.LogError(r.Context(), "function init failed", err)
		if werr := respond.WriteError(w, r.Context(), http.StatusInternalServerError, respond.MsgInternal); werr != nil {
			applog.LogError(r.Context(), "failed to write response", werr)
		}
		return
	}
	r2 := r.Clone(r.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""
	h.ServeHTTP(w, r2)
}

func loadRouter() (http.Handler, error) {
	routerOnce.Do(func() {
		router, routerErr = buildRouter(context.Background())
	})
	return router, routerErr
}

func buildRouter(ctx context.Context) (http.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	deps, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r, _ := app.NewRouter(cfg, deps, "functions")
	return r, nil
}
