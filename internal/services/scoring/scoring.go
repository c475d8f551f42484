// Package scoring содержит расчёт скора клиента и получение его интересов.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/magabrotheeeer/scoring-api/internal/metrics"
	"github.com/magabrotheeeer/scoring-api/internal/models"
)

// Cache описывает best-effort кеш скора.
type Cache interface {
	CacheGet(ctx context.Context, key string) (string, bool)
	CacheSet(ctx context.Context, key, value string, expire time.Duration)
}

// Store описывает строгий доступ к таблице интересов.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Service считает скор с кешированием и читает интересы клиентов.
type Service struct {
	cache Cache
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

// NewService создает новый экземпляр Service. ttl - время жизни скора в кеше.
func NewService(cache Cache, store Store, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		cache: cache,
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

// GetScore возвращает скор из кеша, а при промахе считает и кеширует его.
// Недоступность кеша не является ошибкой.
func (s *Service) GetScore(ctx context.Context, req *models.OnlineScoreRequest) float64 {
	key := ScoreKey(req)

	if cached, ok := s.cache.CacheGet(ctx, key); ok {
		score, err := strconv.ParseFloat(cached, 64)
		if err == nil {
			metrics.ScoreCacheHits.Inc()
			s.log.Debug("fetching score from cache", slog.String("key", key))
			return score
		}
		s.log.Warn("cached score is not a number", slog.String("key", key), slog.String("value", cached))
	}
	metrics.ScoreCacheMisses.Inc()

	score := Score(req)
	s.cache.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), s.ttl)
	return score
}

// GetInterests возвращает интересы клиента cid. Отсутствующая запись даёт пустой список.
func (s *Service) GetInterests(ctx context.Context, cid int) ([]string, error) {
	const op = "scoring.GetInterests"
	raw, found, err := s.store.Get(ctx, InterestsKey(cid))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	interests := []string{}
	if !found {
		return interests, nil
	}
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, fmt.Errorf("%s: client %d: %w", op, cid, err)
	}
	return interests, nil
}

// Score считает скор без обращения к кешу.
func Score(req *models.OnlineScoreRequest) float64 {
	score := 0.0
	if req.Phone != "" {
		score += 1.5
	}
	if req.Email != "" {
		score += 1.5
	}
	if req.Birthday != nil && req.Gender != nil {
		score += 1.5
	}
	if req.FirstName != "" && req.LastName != "" {
		score += 0.5
	}
	return score
}

// ScoreKey - отпечаток нормализованных полей запроса, стабильный между перезапусками.
func ScoreKey(req *models.OnlineScoreRequest) string {
	birthday := ""
	if req.Birthday != nil {
		birthday = req.Birthday.Format("20060102")
	}
	sum := xxhash.Sum64String(req.FirstName + "\x00" + req.LastName + "\x00" + req.Phone + "\x00" + birthday)
	return "uid:" + strconv.FormatUint(sum, 16)
}

// InterestsKey - ключ записи интересов клиента.
func InterestsKey(cid int) string {
	return "i:" + strconv.Itoa(cid)
}
