// Package app assembles the HTTP surface shared by the server binary and the
// serverless functions.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/contactform"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/health"
	contacthandler "github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/v1/contact"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/v1/routes"
	weatherhandler "github.com/mhanna50/Michaels-Portfolio-sub000/internal/http/v1/weather"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/config"
	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
	appmiddleware "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/middleware"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/respond"
	contactsvc "github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/contact"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/mail"
	weathersvc "github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/weather"
)

// Title is the OpenAPI document title.
const Title = "Lumenworks Site API"

// DocsPath serves the OpenAPI UI.
const DocsPath = "/api-docs"

const maxBodyBytes = 1 << 20 // 1 MB

// Deps are the collaborators behind the router. A nil Sender surfaces as a
// per-request ConfigError; a nil Weather uses the live OpenWeather client.
type Deps struct {
	Sender  mail.Sender
	Weather weathersvc.Service
	Metrics *metrics.Metrics
	Clock   clockwork.Clock
	Checks  map[string]health.Check

	closers []func() error
}

// Close releases connections opened by New.
func (d *Deps) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// New builds the production dependencies described by cfg.
func New(ctx context.Context, cfg *config.Config) (*Deps, error) {
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	deps := &Deps{Clock: clockwork.NewRealClock(), Checks: map[string]health.Check{}}
	if cfg.MetricsEnabled {
		deps.Metrics = metrics.New(nil)
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	sender, err := newSender(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}
	deps.Sender = sender

	var svc weathersvc.Service = weathersvc.NewClient(httpClient,
		weathersvc.WithClock(deps.Clock),
		weathersvc.WithMetrics(deps.Metrics),
	)
	if cfg.WeatherCacheURL != "" {
		rdb, err := weathersvc.NewRedisClient(cfg.WeatherCacheURL)
		if err != nil {
			return nil, err
		}
		svc = weathersvc.NewCachedService(svc, rdb, cfg.WeatherCacheTTL,
			weathersvc.WithCacheClock(deps.Clock),
			weathersvc.WithCacheMetrics(deps.Metrics),
		)
		deps.Checks["weatherCache"] = redisCheck(rdb)
		deps.closers = append(deps.closers, rdb.Close)
	}
	deps.Weather = svc

	return deps, nil
}

func newSender(ctx context.Context, cfg *config.Config, httpClient *http.Client) (mail.Sender, error) {
	switch cfg.EmailProvider {
	case config.ProviderSendGrid:
		return mail.NewSendGridClient(cfg.SendGridAPIKey), nil
	case config.ProviderSES:
		client, err := mail.NewSESClientFromEnv(ctx, cfg.AWSRegion)
		if err != nil {
			// Reported per request as a ConfigError.
			applog.LogError(ctx, "ses client init failed", err)
			return nil, nil
		}
		return client, nil
	case config.ProviderResend, "":
		return mail.NewResendClient(httpClient, cfg.ResendAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

func redisCheck(rdb redis.UniversalClient) health.Check {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// NewRouter builds the chi router and huma API serving every endpoint.
func NewRouter(cfg *config.Config, deps *Deps, version string) (chi.Router, huma.API) {
	respond.Install()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(DocsPath),
		appmiddleware.Vary("Accept"),
		appmiddleware.RequestID(),
		// Trusts X-Forwarded-For; only deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(maxBodyBytes),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	humaCfg := huma.DefaultConfig(Title, version)
	humaCfg.DocsPath = DocsPath
	humaCfg.CreateHooks = nil
	api := humachi.New(router, humaCfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, advertiseCBOR)

	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	dispatcher := contactsvc.NewDispatcher(deps.Sender,
		contactsvc.WithMetrics(deps.Metrics),
		contactsvc.WithClock(clock),
	)

	weather := deps.Weather
	if weather == nil {
		weather = weathersvc.NewClient(&http.Client{Timeout: cfg.UpstreamTimeout},
			weathersvc.WithClock(clock),
			weathersvc.WithMetrics(deps.Metrics),
		)
	}

	routes.Register(router, api, routes.Deps{
		Contact: contacthandler.NewHandler(
			contactform.NewNormalizer(clock),
			dispatcher,
			contacthandler.Config{To: cfg.ContactTo, From: cfg.ContactFrom},
			deps.Metrics,
		),
		ContactAllowOrigin: cfg.ContactAllowOrigin,
		Weather: weatherhandler.Dependencies{
			Service: weather,
			Config:  weatherhandler.Config{APIKey: cfg.WeatherAPIKey},
		},
		Metrics: deps.Metrics,
	})

	router.Get("/health", health.Handler(deps.Checks))
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler())
	}

	return router, api
}

// advertiseCBOR mirrors every JSON media type as application/cbor, except on
// operations served by plain handlers that only speak JSON.
func advertiseCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if jsonOnly, _ := op.Metadata[contacthandler.MetadataJSONOnly].(bool); jsonOnly {
		return
	}
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}
