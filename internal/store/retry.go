package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/metrics"
)

// Policy определяет, что делать после исчерпания попыток.
type Policy int

const (
	// Propagate возвращает ошибку вызывающему (строгий доступ).
	Propagate Policy = iota
	// Swallow логирует ошибку и возвращает nil (кеш, best-effort).
	Swallow
)

// RetryPolicy - фиксированное число попыток и фиксированная пауза между ними.
type RetryPolicy struct {
	Times int
	Delay time.Duration
}

// retry выполняет fn до Times раз, пока ошибка транзиентная. Каждая попытка
// начинает операцию заново. Пауза блокирует только текущий вызов.
func (s *Store) retry(ctx context.Context, op string, policy Policy, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= s.policy.Times; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		metrics.StoreRetries.WithLabelValues(op).Inc()
		s.log.Warn("store operation failed",
			sl.Op(op),
			slog.Int("attempt", attempt),
			slog.Int("retry_times", s.policy.Times),
			sl.Err(err),
		)
		if attempt == s.policy.Times {
			lastErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
			break
		}
		if err := sleep(ctx, s.policy.Delay); err != nil {
			lastErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
			break
		}
	}

	if policy == Swallow {
		metrics.StoreSwallowed.WithLabelValues(op).Inc()
		s.log.Warn("store operation dropped", sl.Op(op), sl.Err(lastErr))
		return nil
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isTransient отличает сетевые сбои и таймауты от ответов сервера с ошибкой.
func isTransient(err error) bool {
	if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
		return false
	}
	var replyErr redis.Error
	return !errors.As(err, &replyErr)
}
