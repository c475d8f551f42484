package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/scoring-api/internal/models"
	"github.com/magabrotheeeer/scoring-api/internal/store"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) CacheGet(ctx context.Context, key string) (string, bool) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1)
}

func (m *MockCache) CacheSet(ctx context.Context, key, value string, expire time.Duration) {
	m.Called(ctx, key, value, expire)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func ptr[T any](v T) *T { return &v }

func TestScore(t *testing.T) {
	birthday := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  models.OnlineScoreRequest
		want float64
	}{
		{name: "phone and email", req: models.OnlineScoreRequest{Phone: "79175002040", Email: "a@b"}, want: 3.0},
		{name: "names", req: models.OnlineScoreRequest{FirstName: "a", LastName: "b"}, want: 0.5},
		{name: "gender and birthday", req: models.OnlineScoreRequest{Gender: ptr(0), Birthday: &birthday}, want: 1.5},
		{name: "birthday without gender", req: models.OnlineScoreRequest{Birthday: &birthday, Phone: "79175002040"}, want: 1.5},
		{name: "everything", req: models.OnlineScoreRequest{
			Phone: "79175002040", Email: "a@b", FirstName: "a", LastName: "b", Gender: ptr(1), Birthday: &birthday,
		}, want: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(&tt.req))
		})
	}
}

func TestScoreKey(t *testing.T) {
	birthday := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &models.OnlineScoreRequest{FirstName: "a", LastName: "b", Phone: "79175002040", Birthday: &birthday}
	b := &models.OnlineScoreRequest{FirstName: "a", LastName: "b", Phone: "79175002040", Birthday: &birthday, Email: "x@y"}
	c := &models.OnlineScoreRequest{FirstName: "ab", Phone: "79175002040", Birthday: &birthday}

	assert.Equal(t, ScoreKey(a), ScoreKey(a))
	// email and gender are not part of the fingerprint
	assert.Equal(t, ScoreKey(a), ScoreKey(b))
	assert.NotEqual(t, ScoreKey(a), ScoreKey(c))
	assert.Regexp(t, `^uid:[0-9a-f]+$`, ScoreKey(a))
}

func TestGetScore(t *testing.T) {
	req := &models.OnlineScoreRequest{Phone: "79175002040", Email: "a@b"}
	key := ScoreKey(req)

	t.Run("cache hit", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("CacheGet", mock.Anything, key).Return("4.5", true).Once()

		svc := NewService(cache, new(MockStore), time.Hour, newNoopLogger())
		assert.Equal(t, 4.5, svc.GetScore(context.Background(), req))
		cache.AssertExpectations(t)
		cache.AssertNotCalled(t, "CacheSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss computes and writes through", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("CacheGet", mock.Anything, key).Return("", false).Once()
		cache.On("CacheSet", mock.Anything, key, "3", time.Hour).Once()

		svc := NewService(cache, new(MockStore), time.Hour, newNoopLogger())
		assert.Equal(t, 3.0, svc.GetScore(context.Background(), req))
		cache.AssertExpectations(t)
	})

	t.Run("garbage in cache is a miss", func(t *testing.T) {
		cache := new(MockCache)
		cache.On("CacheGet", mock.Anything, key).Return("not-a-number", true).Once()
		cache.On("CacheSet", mock.Anything, key, "3", time.Minute).Once()

		svc := NewService(cache, new(MockStore), time.Minute, newNoopLogger())
		assert.Equal(t, 3.0, svc.GetScore(context.Background(), req))
		cache.AssertExpectations(t)
	})
}

func TestGetInterests(t *testing.T) {
	t.Run("stored list", func(t *testing.T) {
		st := new(MockStore)
		st.On("Get", mock.Anything, "i:1").Return(`["cars","pets"]`, true, nil).Once()

		svc := NewService(new(MockCache), st, time.Hour, newNoopLogger())
		got, err := svc.GetInterests(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"cars", "pets"}, got)
	})

	t.Run("absent key gives empty list", func(t *testing.T) {
		st := new(MockStore)
		st.On("Get", mock.Anything, "i:2").Return("", false, nil).Once()

		svc := NewService(new(MockCache), st, time.Hour, newNoopLogger())
		got, err := svc.GetInterests(context.Background(), 2)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store unavailable propagates", func(t *testing.T) {
		st := new(MockStore)
		st.On("Get", mock.Anything, "i:3").Return("", false, store.ErrUnavailable).Once()

		svc := NewService(new(MockCache), st, time.Hour, newNoopLogger())
		_, err := svc.GetInterests(context.Background(), 3)
		assert.True(t, errors.Is(err, store.ErrUnavailable))
	})

	t.Run("corrupted record", func(t *testing.T) {
		st := new(MockStore)
		st.On("Get", mock.Anything, "i:4").Return("{oops", true, nil).Once()

		svc := NewService(new(MockCache), st, time.Hour, newNoopLogger())
		_, err := svc.GetInterests(context.Background(), 4)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, store.ErrUnavailable))
	})
}
