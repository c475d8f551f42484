// Package main запускает HTTP API скоринга.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	scoringapi "github.com/magabrotheeeer/scoring-api/internal/app/scoring-api"
	"github.com/magabrotheeeer/scoring-api/internal/config"
	"github.com/magabrotheeeer/scoring-api/internal/lib/logger"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run возвращает ошибку вместо выхода, чтобы отложенные закрытия ресурсов выполнились.
func run() error {
	cfg := config.MustLoad()

	log, closer, err := logger.New(cfg.Env, cfg.File)
	if err != nil {
		slog.Error("failed to init logger", sl.Err(err))
		return err
	}
	defer closer.Close()

	log.Info("starting scoring-api", slog.String("env", cfg.Env), slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := scoringapi.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		return err
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		return err
	}

	log.Info("scoring-api stopped gracefully")
	return nil
}
