package weather

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/respond"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/timeutil"
	weathersvc "github.com/mhanna50/Michaels-Portfolio-sub000/internal/service/weather"
)

// CacheControl lets shared caches keep a snapshot for 30 minutes and serve it
// stale for 5 more while revalidating.
const CacheControl = "public, s-maxage=1800, stale-while-revalidate=300"

// Config holds the upstream credentials.
type Config struct {
	APIKey string
}

// Register wires the weather route into the provided API router.
func Register(api huma.API, svc weathersvc.Service, cfg Config, m *metrics.Metrics) {
	huma.Register(api, huma.Operation{
		OperationID: "get-weather",
		Method:      http.MethodGet,
		Path:        "/api/weather",
		Summary:     "Get current weather for a city",
		Description: "Returns normalized current conditions from OpenWeather, including whether it is night at the city.",
		Tags:        []string{"Weather"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusBadGateway},
	}, func(ctx context.Context, input *WeatherGetInput) (*WeatherGetOutput, error) {
		city := input.CityName()
		if city == "" {
			m.ObserveWeatherLookup("missing_city")
			return nil, respond.NewError(ctx, http.StatusBadRequest, weathersvc.MsgMissingCity)
		}
		if cfg.APIKey == "" {
			m.ObserveWeatherLookup("not_configured")
			applog.LogError(ctx, "weather api key missing", errors.New("OPENWEATHER_KEY and WEATHER_API_KEY are unset"))
			return nil, respond.NewError(ctx, http.StatusInternalServerError, weathersvc.MsgNotConfigured)
		}

		snap, err := svc.Current(ctx, weathersvc.Query{City: city, Key: cfg.APIKey, Units: weathersvc.UnitsMetric})
		if err != nil {
			return nil, mapServiceError(ctx, m, err)
		}

		m.ObserveWeatherLookup("ok")
		return &WeatherGetOutput{CacheControl: CacheControl, Body: toHTTPWeather(snap)}, nil
	})
}

func mapServiceError(ctx context.Context, m *metrics.Metrics, err error) error {
	var cerr *weathersvc.ConfigError
	if errors.As(err, &cerr) {
		m.ObserveWeatherLookup("config")
		return respond.NewError(ctx, cerr.StatusCode(), cerr.Message, err)
	}
	var ferr *weathersvc.FetchError
	if errors.As(err, &ferr) {
		m.ObserveWeatherLookup("upstream_error")
		applog.LogWarn(ctx, "openweather lookup failed", zap.Int("status", ferr.StatusCode()), zap.Error(err))
		return respond.NewError(ctx, ferr.StatusCode(), ferr.Message, err)
	}
	m.ObserveWeatherLookup("error")
	return respond.NewError(ctx, http.StatusInternalServerError, respond.MsgInternal, err)
}

func toHTTPWeather(s *weathersvc.Snapshot) Weather {
	return Weather{
		City:        s.City,
		Condition:   s.Condition,
		Description: s.Description,
		TempC:       s.TempC,
		UpdatedAt:   timeutil.NewTime(s.UpdatedAt),
		IsNight:     s.IsNight,
		Sunrise:     timeutil.Ptr(s.Sunrise),
		Sunset:      timeutil.Ptr(s.Sunset),
		Source:      s.Source,
	}
}

// Dependencies bundles what Register needs.
type Dependencies struct {
	Service weathersvc.Service
	Config  Config
}
