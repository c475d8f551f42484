// Package scoringapi предоставляет маршруты и сборку HTTP-приложения скоринга.
package scoringapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/scoring-api/internal/http/handlers/health"
	"github.com/magabrotheeeer/scoring-api/internal/http/handlers/method"
	"github.com/magabrotheeeer/scoring-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/scoring-api/internal/http/response"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, methodService method.Service, store health.Pinger, limiter *rate.Limiter) {
	// Глобальные middleware
	r.Use(
		middlewarectx.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
		r.Post("/method", method.New(logger, methodService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, store).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Render(w, r, http.StatusNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Render(w, r, http.StatusMethodNotAllowed, nil)
	})
}
