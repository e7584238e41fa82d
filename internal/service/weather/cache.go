package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/metrics"
)

const cacheKeyPrefix = "weather:"

// CachedService wraps a Service with a Redis cache of successful lookups.
// Errors are never cached, and cache failures fall through to the wrapped Service.
type CachedService struct {
	next    Service
	rdb     redis.UniversalClient
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *metrics.Metrics
}

// CacheOption configures a CachedService.
type CacheOption func(*CachedService)

// WithCacheClock sets the clock used to refresh isNight on cache hits.
func WithCacheClock(clock clockwork.Clock) CacheOption {
	return func(s *CachedService) {
		s.clock = clock
	}
}

// WithCacheMetrics records hits, misses and errors on m.
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(s *CachedService) {
		s.metrics = m
	}
}

// NewCachedService caches results of next in rdb for ttl.
func NewCachedService(next Service, rdb redis.UniversalClient, ttl time.Duration, opts ...CacheOption) *CachedService {
	s := &CachedService{
		next:  next,
		rdb:   rdb,
		ttl:   ttl,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing weather cache url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func cacheKey(q Query) string {
	units := strings.TrimSpace(q.Units)
	if units == "" {
		units = UnitsMetric
	}
	return cacheKeyPrefix + units + ":" + strings.ToLower(strings.TrimSpace(q.City))
}

// Current returns a cached snapshot when one exists, else delegates and caches the result.
func (s *CachedService) Current(ctx context.Context, q Query) (*Snapshot, error) {
	if strings.TrimSpace(q.City) == "" || strings.TrimSpace(q.Key) == "" {
		return s.next.Current(ctx, q)
	}
	key := cacheKey(q)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap Snapshot
		jsonErr := json.Unmarshal(raw, &snap)
		if jsonErr == nil {
			s.metrics.ObserveWeatherCache("hit")
			snap.IsNight = snap.nightAt(s.clock.Now())
			return &snap, nil
		}
		s.metrics.ObserveWeatherCache("error")
		applog.LogWarn(ctx, "weather cache entry unreadable", zap.String("key", key), zap.Error(jsonErr))
	case errors.Is(err, redis.Nil):
		s.metrics.ObserveWeatherCache("miss")
	default:
		s.metrics.ObserveWeatherCache("error")
		applog.LogWarn(ctx, "weather cache read failed", zap.String("key", key), zap.Error(err))
	}

	snap, err := s.next.Current(ctx, q)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(snap); err == nil {
		if setErr := s.rdb.Set(ctx, key, payload, s.ttl).Err(); setErr != nil {
			applog.LogWarn(ctx, "weather cache write failed", zap.String("key", key), zap.Error(setErr))
		}
	}
	return snap, nil
}

var _ Service = (*CachedService)(nil)
