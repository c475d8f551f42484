// Package method реализует HTTP-обработчик POST /method.
//
// Handler читает JSON-тело, передаёт разобранное значение в сервис обработки
// методов и возвращает ответ в формате {"response": ..., "code": ...} или {"error": ..., "code": ...}.
// Некорректный JSON сразу даёт 400.
package method

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/goccy/go-json"

	"github.com/magabrotheeeer/scoring-api/internal/http/response"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/metrics"
	"github.com/magabrotheeeer/scoring-api/internal/models"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// maxBodyBytes ограничивает размер тела запроса.
const maxBodyBytes = 1 << 20

// Handler управляет HTTP-запросами к методам API.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис обработки методов
}

// Service описывает обработку разобранного тела запроса.
type Service interface {
	Handle(ctx context.Context, body any) (any, int)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.method"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	start := time.Now()

	var body any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := decodeBody(dec, &body); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		h.finish(w, r, start, "", http.StatusBadRequest, nil)
		return
	}

	resp, code := h.service.Handle(r.Context(), body)
	log.Info("request handled", slog.Int("code", code))
	h.finish(w, r, start, methodLabel(body), code, resp)
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, start time.Time, method string, code int, resp any) {
	if method == "" {
		method = "unknown"
	}
	metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	response.Render(w, r, code, resp)
}

// decodeBody читает ровно одно JSON-значение; данные после него считаются ошибкой.
func decodeBody(dec *json.Decoder, v any) error {
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

// methodLabel возвращает имя метода для метрик, не допуская произвольных значений.
func methodLabel(body any) string {
	raw, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	switch m, _ := raw["method"].(string); m {
	case models.MethodOnlineScore, models.MethodClientsInterests:
		return m
	}
	return ""
}
