// Package health реализует проверку живости сервиса и доступности хранилища.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/scoring-api/internal/http/response"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log   *slog.Logger
	store Pinger
}

func New(log *slog.Logger, store Pinger) *Handler {
	return &Handler{
		log:   log,
		store: store,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("store is unavailable", sl.Op(op), sl.Err(err))
		response.Render(w, r, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	response.Render(w, r, http.StatusOK, map[string]any{"status": "ok"})
}
