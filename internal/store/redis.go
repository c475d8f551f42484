// Package store реализует устойчивый клиент к удалённому key-value хранилищу (redis).
//
// Get и Set - строгий доступ: после исчерпания попыток возвращается ErrUnavailable.
// CacheGet, CacheSet и Delete - best-effort: сбой логируется, вызывающий получает промах.
// Все методы используют одну политику повторов из RetryPolicy.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/scoring-api/internal/config"
)

// ErrUnavailable возвращается строгими методами, когда хранилище недоступно после всех попыток.
var ErrUnavailable = errors.New("store unavailable")

// Store - клиент с пулом соединений, безопасен для конкурентного использования.
type Store struct {
	db     *redis.Client
	policy RetryPolicy
	log    *slog.Logger
}

// New создаёт Store без проверки соединения: хранилище может подняться позже.
func New(cfg config.RedisConnection, log *slog.Logger) *Store {
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		Username:     cfg.User,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   -1,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})
	return NewWithClient(db, RetryPolicy{Times: cfg.RetryTimes, Delay: cfg.RetryDelay}, log)
}

// NewWithClient оборачивает готовый клиент. Times меньше 1 считается одной попыткой.
func NewWithClient(db *redis.Client, policy RetryPolicy, log *slog.Logger) *Store {
	if policy.Times < 1 {
		policy.Times = 1
	}
	return &Store{db: db, policy: policy, log: log}
}

// Ping проверяет доступность хранилища с той же политикой повторов.
func (s *Store) Ping(ctx context.Context) error {
	return s.retry(ctx, "store.Ping", Propagate, func(ctx context.Context) error {
		return s.db.Ping(ctx).Err()
	})
}

// Get возвращает значение ключа; found=false, если ключа нет.
// После исчерпания попыток возвращает ошибку, обёрнутую в ErrUnavailable.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		val   string
		found bool
	)
	err := s.retry(ctx, "store.Get", Propagate, func(ctx context.Context) error {
		var err error
		val, found, err = s.get(ctx, key)
		return err
	})
	if err != nil {
		return "", false, err
	}
	return val, found, nil
}

// Set записывает значение строго. expire=0 - без срока жизни.
func (s *Store) Set(ctx context.Context, key, value string, expire time.Duration) error {
	return s.retry(ctx, "store.Set", Propagate, func(ctx context.Context) error {
		return s.db.Set(ctx, key, value, expire).Err()
	})
}

// CacheGet возвращает значение из кеша; любой сбой даёт промах.
func (s *Store) CacheGet(ctx context.Context, key string) (string, bool) {
	var (
		val   string
		found bool
	)
	_ = s.retry(ctx, "store.CacheGet", Swallow, func(ctx context.Context) error {
		var err error
		val, found, err = s.get(ctx, key)
		return err
	})
	return val, found
}

// CacheSet записывает значение в кеш; сбой только логируется.
func (s *Store) CacheSet(ctx context.Context, key, value string, expire time.Duration) {
	_ = s.retry(ctx, "store.CacheSet", Swallow, func(ctx context.Context) error {
		return s.db.Set(ctx, key, value, expire).Err()
	})
}

// Delete удаляет ключ; сбой только логируется.
func (s *Store) Delete(ctx context.Context, key string) {
	_ = s.retry(ctx, "store.Delete", Swallow, func(ctx context.Context) error {
		return s.db.Del(ctx, key).Err()
	})
}

// Close закрывает пул соединений.
func (s *Store) Close() error {
	const op = "store.Close"
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
