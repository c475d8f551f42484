// Package method реализует обработку запроса к API скоринга:
// разбор конверта, аутентификацию, проверку аргументов метода и вызов бизнес-логики.
//
// Каждый этап при ошибке сразу завершает обработку, код ответа выбирает StatusOf.
package method

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/scoring-api/internal/lib/auth"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/models"
	"github.com/magabrotheeeer/scoring-api/internal/store"
	"github.com/magabrotheeeer/scoring-api/internal/validation"
)

// AdminScore - скор, который всегда получает администратор.
const AdminScore = 42

// interestsConcurrency ограничивает число параллельных запросов интересов на один вызов.
const interestsConcurrency = 8

// ErrMalformedRequest возвращается, если тело запроса не является JSON-объектом.
var ErrMalformedRequest = errors.New("malformed request")

// Scorer описывает бизнес-логику скоринга.
type Scorer interface {
	GetScore(ctx context.Context, req *models.OnlineScoreRequest) float64
	GetInterests(ctx context.Context, cid int) ([]string, error)
}

// Authenticator проверяет токен запроса.
type Authenticator interface {
	Check(account, login, token string) error
	AdminLogin() string
}

// Service - обработчик запросов метода. Не хранит состояния между запросами.
type Service struct {
	scorer Scorer
	auth   Authenticator
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(scorer Scorer, authenticator Authenticator, log *slog.Logger) *Service {
	return &Service{
		scorer: scorer,
		auth:   authenticator,
		log:    log,
	}
}

// Handle обрабатывает разобранное тело запроса и возвращает тело ответа и код.
// При ошибке тело - сообщение для поля "error".
func (s *Service) Handle(ctx context.Context, body any) (resp any, code int) {
	const op = "method.Handle"
	log := s.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(ctx)),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected error", slog.Any("panic", r))
			resp, code = http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError
		}
	}()

	resp, err := s.Dispatch(ctx, body)
	if err != nil {
		code = StatusOf(err)
		if code == http.StatusInternalServerError {
			log.Error("request failed", sl.Err(err))
		} else {
			log.Info("request rejected", slog.Int("code", code), sl.Err(err))
		}
		return Message(err, code), code
	}
	return resp, http.StatusOK
}

// Dispatch выполняет этапы обработки по порядку и возвращает полезную нагрузку метода.
func (s *Service) Dispatch(ctx context.Context, body any) (any, error) {
	const op = "method.Dispatch"

	raw, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: body must be a JSON object", op, ErrMalformedRequest)
	}

	req, err := models.ParseMethodRequest(raw)
	if err != nil {
		return nil, err
	}

	if err := s.auth.Check(req.Account, req.Login, req.Token); err != nil {
		return nil, err
	}

	log := s.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("method", req.Method),
		slog.String("login", req.Login),
	)

	switch req.Method {
	case models.MethodOnlineScore:
		return s.onlineScore(ctx, log, req)
	case models.MethodClientsInterests:
		return s.clientsInterests(ctx, log, req)
	}
	return nil, validation.UnknownMethod(req.Method)
}

func (s *Service) onlineScore(ctx context.Context, log *slog.Logger, req *models.MethodRequest) (any, error) {
	args, err := models.ParseOnlineScoreRequest(req.Arguments)
	if err != nil {
		return nil, err
	}
	log.Info("online score requested", slog.Any("has", args.Has()))

	if req.IsAdmin(s.auth.AdminLogin()) {
		return map[string]any{"score": AdminScore}, nil
	}
	return map[string]any{"score": s.scorer.GetScore(ctx, args)}, nil
}

func (s *Service) clientsInterests(ctx context.Context, log *slog.Logger, req *models.MethodRequest) (any, error) {
	args, err := models.ParseClientsInterestsRequest(req.Arguments)
	if err != nil {
		return nil, err
	}
	log.Info("clients interests requested", slog.Int("nclients", len(args.ClientIDs)))

	results := make([][]string, len(args.ClientIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(interestsConcurrency)
	for i, cid := range args.ClientIDs {
		g.Go(func() error {
			interests, err := s.scorer.GetInterests(gctx, cid)
			if err != nil {
				return err
			}
			results[i] = interests
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(args.ClientIDs))
	for i, cid := range args.ClientIDs {
		out[strconv.Itoa(cid)] = results[i]
	}
	return out, nil
}

// StatusOf переводит ошибку обработки в HTTP-код ответа.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case validation.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Message возвращает текст ошибки для клиента. Для 422 это описание поля,
// для остальных кодов - стандартный текст статуса без внутренних деталей.
func Message(err error, code int) string {
	if code == http.StatusUnprocessableEntity {
		return err.Error()
	}
	return http.StatusText(code)
}
