package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
)

const (
	defaultBaseURL   = "https://api.openweathermap.org"
	userAgent        = "lumenworks-site-weather/1.0"
	maxResponseBytes = 1 << 20
)

// Client implements Service using the OpenWeather current weather API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithClock sets the clock used for updatedAt and night detection.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithMetrics records upstream latency on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new OpenWeather client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenWeather response (only the fields used). Sunrise, sunset and temp are
// left untyped so a non-numeric value degrades instead of failing the decode.
type owResponse struct {
	Name    string `json:"name"`
	Message any    `json:"message"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp any `json:"temp"`
	} `json:"main"`
	Sys struct {
		Sunrise any `json:"sunrise"`
		Sunset  any `json:"sunset"`
	} `json:"sys"`
}

// Current fetches the current weather for q.City. It makes a single attempt.
func (c *Client) Current(ctx context.Context, q Query) (*Snapshot, error) {
	city := strings.TrimSpace(q.City)
	if city == "" {
		return nil, errMissingCity()
	}
	if strings.TrimSpace(q.Key) == "" {
		return nil, errNotConfigured()
	}
	units := strings.TrimSpace(q.Units)
	if units == "" {
		units = UnitsMetric
	}

	values := url.Values{
		"q":     {city},
		"appid": {q.Key},
		"units": {units},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveWeatherUpstream(c.clock.Since(start))
	if err != nil {
		return nil, &FetchError{Status: http.StatusBadGateway, Message: MsgUnreachable, cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var data owResponse
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err == nil {
		err = json.Unmarshal(body, &data)
	}
	if err != nil {
		status := resp.StatusCode
		if status >= 200 && status < 300 {
			status = http.StatusBadGateway
		}
		return nil, &FetchError{Status: status, Message: MsgMalformed, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := MsgUpstream
		if m, ok := data.Message.(string); ok && strings.TrimSpace(m) != "" {
			message = m
		}
		return nil, &FetchError{Status: resp.StatusCode, Message: message}
	}

	return c.normalize(city, data), nil
}

func (c *Client) normalize(city string, data owResponse) *Snapshot {
	now := c.clock.Now()
	snap := &Snapshot{
		City:      city,
		Condition: "unknown",
		UpdatedAt: now.UTC(),
		Sunrise:   unixTime(data.Sys.Sunrise),
		Sunset:    unixTime(data.Sys.Sunset),
		Source:    SourceLive,
	}
	if name := strings.TrimSpace(data.Name); name != "" {
		snap.City = name
	}
	if len(data.Weather) > 0 {
		if main := strings.TrimSpace(data.Weather[0].Main); main != "" {
			snap.Condition = strings.ToLower(main)
		}
		snap.Description = data.Weather[0].Description
	}
	if temp, ok := data.Main.Temp.(float64); ok {
		snap.TempC = roundHalfUp(temp)
	}
	snap.IsNight = snap.nightAt(now)
	return snap
}

// unixTime converts a numeric epoch-seconds value; anything else yields nil.
func unixTime(v any) *time.Time {
	secs, ok := v.(float64)
	if !ok {
		return nil
	}
	whole, frac := math.Modf(secs)
	t := time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return &t
}

// roundHalfUp rounds to the nearest integer, ties toward +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

var _ Service = (*Client)(nil)
