// Package metrics содержит prometheus-метрики сервиса. Коллекторы регистрируются
// в глобальном реестре и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal - обработанные запросы по методу и коду ответа.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_api_requests_total",
			Help: "Total number of handled method requests",
		},
		[]string{"method", "code"},
	)

	// RequestDuration - время обработки запроса.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_api_request_duration_seconds",
			Help:    "Duration of method requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// StoreRetries - неудачные попытки обращения к хранилищу.
	StoreRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_api_store_failed_attempts_total",
			Help: "Total number of failed store attempts",
		},
		[]string{"op"},
	)

	// StoreSwallowed - best-effort операции, сбой которых был проглочен.
	StoreSwallowed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_api_store_swallowed_errors_total",
			Help: "Total number of best-effort store operations that failed",
		},
		[]string{"op"},
	)

	// ScoreCacheHits и ScoreCacheMisses - эффективность кеша скора.
	ScoreCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoring_api_score_cache_hits_total",
		Help: "Total number of score cache hits",
	})
	ScoreCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoring_api_score_cache_misses_total",
		Help: "Total number of score cache misses",
	})
)
