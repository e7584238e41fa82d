package weather

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	calls int
	snap  *Snapshot
	err   error
}

func (s *countingService) Current(_ context.Context, q Query) (*Snapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	snap := *s.snap
	snap.City = q.City
	return &snap, nil
}

func newCache(t *testing.T, next Service, opts ...CacheOption) (*CachedService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCachedService(next, rdb, 10*time.Minute, opts...), mr
}

func daySnapshot() *Snapshot {
	sunrise := testNow.Add(-time.Hour)
	sunset := testNow.Add(time.Hour)
	return &Snapshot{
		Condition: "clear",
		TempC:     20,
		UpdatedAt: testNow,
		Sunrise:   &sunrise,
		Sunset:    &sunset,
		Source:    SourceLive,
	}
}

func TestCachedServiceHit(t *testing.T) {
	next := &countingService{snap: daySnapshot()}
	cache, mr := newCache(t, next)
	ctx := context.Background()

	first, err := cache.Current(ctx, Query{City: "London", Key: "k"})
	require.NoError(t, err)
	second, err := cache.Current(ctx, Query{City: "LONDON", Key: "k"})
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.City, second.City)
	assert.Equal(t, SourceLive, second.Source)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
	assert.True(t, mr.Exists("weather:metric:london"))
	assert.Equal(t, 10*time.Minute, mr.TTL("weather:metric:london"))
}

func TestCachedServiceKeyIncludesUnits(t *testing.T) {
	next := &countingService{snap: daySnapshot()}
	cache, _ := newCache(t, next)
	ctx := context.Background()

	_, err := cache.Current(ctx, Query{City: "London", Key: "k", Units: "metric"})
	require.NoError(t, err)
	_, err = cache.Current(ctx, Query{City: "London", Key: "k", Units: "imperial"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedServiceExpires(t *testing.T) {
	next := &countingService{snap: daySnapshot()}
	cache, mr := newCache(t, next)
	ctx := context.Background()

	_, err := cache.Current(ctx, Query{City: "London", Key: "k"})
	require.NoError(t, err)
	mr.FastForward(11 * time.Minute)
	_, err = cache.Current(ctx, Query{City: "London", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedServiceDoesNotCacheErrors(t *testing.T) {
	next := &countingService{err: &FetchError{Status: http.StatusNotFound, Message: "city not found"}}
	cache, mr := newCache(t, next)
	ctx := context.Background()

	for range 2 {
		_, err := cache.Current(ctx, Query{City: "Atlantis", Key: "k"})
		var ferr *FetchError
		require.True(t, errors.As(err, &ferr))
	}
	assert.Equal(t, 2, next.calls)
	assert.False(t, mr.Exists("weather:metric:atlantis"))
}

func TestCachedServiceBypassesInvalidQueries(t *testing.T) {
	next := &countingService{err: errMissingCity()}
	cache, mr := newCache(t, next)

	_, err := cache.Current(context.Background(), Query{City: "", Key: "k"})
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 1, next.calls)
	assert.Empty(t, mr.Keys())
}

func TestCachedServiceFallsThroughWhenRedisDown(t *testing.T) {
	next := &countingService{snap: daySnapshot()}
	cache, mr := newCache(t, next)
	mr.Close()

	snap, err := cache.Current(context.Background(), Query{City: "London", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, "London", snap.City)
	assert.Equal(t, 1, next.calls)
}

func TestCachedServiceIgnoresCorruptEntries(t *testing.T) {
	next := &countingService{snap: daySnapshot()}
	cache, mr := newCache(t, next)
	require.NoError(t, mr.Set("weather:metric:london", "{not json"))

	_, err := cache.Current(context.Background(), Query{City: "London", Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestCachedServiceRefreshesNightOnHit(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	next := &countingService{snap: daySnapshot()}
	cache, _ := newCache(t, next, WithCacheClock(clock))
	ctx := context.Background()

	first, err := cache.Current(ctx, Query{City: "London", Key: "k"})
	require.NoError(t, err)
	assert.False(t, first.IsNight)

	clock.Advance(2 * time.Hour)
	second, err := cache.Current(ctx, Query{City: "London", Key: "k"})
	require.NoError(t, err)
	assert.True(t, second.IsNight)
	assert.Equal(t, 1, next.calls)
}

func TestNewRedisClient(t *testing.T) {
	rdb, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, rdb.Options().DB)
	_ = rdb.Close()

	_, err = NewRedisClient("http://nope")
	require.Error(t, err)
}
