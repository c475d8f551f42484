package scoringapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/scoring-api/internal/config"
	"github.com/magabrotheeeer/scoring-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/scoring-api/internal/lib/auth"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	methodservice "github.com/magabrotheeeer/scoring-api/internal/services/method"
	"github.com/magabrotheeeer/scoring-api/internal/services/scoring"
	"github.com/magabrotheeeer/scoring-api/internal/store"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	store  *store.Store
}

// New собирает зависимости приложения. Недоступность хранилища при старте не считается ошибкой:
// запросы к нему будут повторяться по политике повторов.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	st := store.New(cfg.RedisConnection, logger)
	if err := st.Ping(ctx); err != nil {
		logger.Warn("store is unavailable at startup", sl.Err(err))
	}

	scoringService := scoring.NewService(st, st, cfg.ScoreTTL, logger)
	checker := auth.New(cfg.Salt, cfg.AdminLogin, cfg.AdminSalt)
	methodService := methodservice.NewService(scoringService, checker, logger)

	router := chi.NewRouter()
	limiter := middlewarectx.NewLimiter(cfg.RPS, cfg.Burst)
	RegisterRoutes(router, logger, methodService, st, limiter)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  st,
	}, nil
}

// Handler возвращает корневой обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = a.store.Close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.store.Close(); cerr != nil {
			a.logger.Error("failed to close store", sl.Err(cerr))
		}
		return err
	}
}
