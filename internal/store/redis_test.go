package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/scoring-api/internal/config"
	"github.com/magabrotheeeer/scoring-api/internal/metrics"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := New(config.RedisConnection{
		AddressRedis: mr.Addr(),
		DialTimeout:  100 * time.Millisecond,
		TimeoutRedis: 100 * time.Millisecond,
		RetryTimes:   3,
		RetryDelay:   time.Millisecond,
	}, newNoopLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestSetAndGet(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "i:1", `["cars","pets"]`, 0))

	val, found, err := s.Get(ctx, "i:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["cars","pets"]`, val)
	assert.Equal(t, time.Duration(0), mr.TTL("i:1"))
}

func TestGetNotFound(t *testing.T) {
	s, _ := setupTestStore(t)

	val, found, err := s.Get(context.Background(), "no_such_key")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)
}

func TestCacheSetAndGet(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	s.CacheSet(ctx, "uid:1", "3.5", time.Hour)
	assert.Equal(t, time.Hour, mr.TTL("uid:1"))

	val, found := s.CacheGet(ctx, "uid:1")
	assert.True(t, found)
	assert.Equal(t, "3.5", val)

	_, found = s.CacheGet(ctx, "uid:2")
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("key", "value"))
	s.Delete(ctx, "key")
	assert.False(t, mr.Exists("key"))
}

func TestGet_UnavailableAfterRetries(t *testing.T) {
	s, mr := setupTestStore(t)
	mr.Close()

	before := testutil.ToFloat64(metrics.StoreRetries.WithLabelValues("store.Get"))

	_, _, err := s.Get(context.Background(), "i:1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, before+3, testutil.ToFloat64(metrics.StoreRetries.WithLabelValues("store.Get")))
}

func TestSet_UnavailableAfterRetries(t *testing.T) {
	s, mr := setupTestStore(t)
	mr.Close()

	err := s.Set(context.Background(), "i:1", "[]", 0)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)
}

func TestCache_SwallowsUnavailable(t *testing.T) {
	s, mr := setupTestStore(t)
	mr.Close()
	ctx := context.Background()

	val, found := s.CacheGet(ctx, "uid:1")
	assert.False(t, found)
	assert.Empty(t, val)

	assert.NotPanics(t, func() {
		s.CacheSet(ctx, "uid:1", "1", time.Minute)
		s.Delete(ctx, "uid:1")
	})
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	s := NewWithClient(nil, RetryPolicy{Times: 3, Delay: time.Millisecond}, newNoopLogger())

	calls := 0
	err := s.retry(context.Background(), "test.op", Propagate, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("i/o timeout")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_PolicySwallow(t *testing.T) {
	s := NewWithClient(nil, RetryPolicy{Times: 2, Delay: time.Millisecond}, newNoopLogger())

	calls := 0
	err := s.retry(context.Background(), "test.op", Swallow, func(context.Context) error {
		calls++
		return errors.New("connection reset by peer")
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = s.retry(context.Background(), "test.op", Propagate, func(context.Context) error {
		calls++
		return errors.New("connection reset by peer")
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "test.op")
	assert.Equal(t, 2, calls)
}

func TestRetry_ConcurrentCallsDoNotBlockEachOther(t *testing.T) {
	s := NewWithClient(nil, RetryPolicy{Times: 2, Delay: 200 * time.Millisecond}, newNoopLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.retry(context.Background(), "slow", Propagate, func(context.Context) error {
			return errors.New("i/o timeout")
		})
	}()

	start := time.Now()
	err := s.retry(context.Background(), "fast", Propagate, func(context.Context) error { return nil })
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	wg.Wait()
}

func TestGet_ServerErrorIsNotRetried(t *testing.T) {
	s, mr := setupTestStore(t)
	mr.SetError("ERR injected")

	before := testutil.ToFloat64(metrics.StoreRetries.WithLabelValues("store.Get"))

	_, _, err := s.Get(context.Background(), "i:1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, before, testutil.ToFloat64(metrics.StoreRetries.WithLabelValues("store.Get")))
}

func TestGet_ContextCancelledDuringDelay(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	mr.Close()

	s := NewWithClient(New(config.RedisConnection{AddressRedis: mr.Addr()}, newNoopLogger()).db,
		RetryPolicy{Times: 3, Delay: time.Hour}, newNoopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err = s.Get(ctx, "i:1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestNewWithClient_MinimumOneAttempt(t *testing.T) {
	s := NewWithClient(nil, RetryPolicy{Times: 0}, newNoopLogger())
	assert.Equal(t, 1, s.policy.Times)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(errors.New("dial tcp: connection refused")))
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.False(t, isTransient(context.Canceled))
}
