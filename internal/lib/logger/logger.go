// Package logger собирает *slog.Logger в зависимости от окружения.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// New возвращает логгер для окружения env. Если file не пустой, логи пишутся в этот файл;
// вызывающий отвечает за закрытие возвращённого io.Closer.
func New(env, file string) (*slog.Logger, io.Closer, error) {
	const op = "logger.New"

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		out, closer = f, f
	}

	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("%s: unknown env %q", op, env)
	}
	return log, closer, nil
}

// Discard возвращает логгер, который ничего не пишет. Используется в тестах.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
