// Package main заполняет таблицу интересов клиентов (ключи i:<cid>) в хранилище.
//
// Интересы берутся из JSON-файла вида {"1": ["cars", "pets"]} (флаг -file)
// или генерируются случайно для клиентов 1..N (флаг -clients).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/magabrotheeeer/scoring-api/internal/config"
	"github.com/magabrotheeeer/scoring-api/internal/lib/logger"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/services/scoring"
	"github.com/magabrotheeeer/scoring-api/internal/store"
)

var catalog = []string{"cars", "pets", "travel", "hi-tech", "sport", "music", "books", "tv", "cinema", "geek", "otus"}

func main() {
	file := flag.String("file", "", "JSON file with interests per client id")
	clients := flag.Int("clients", 10, "number of clients to generate when -file is not set")
	flag.Parse()

	if err := run(*file, *clients); err != nil {
		os.Exit(1)
	}
}

// run возвращает ошибку вместо выхода, чтобы логгер и пул соединений закрылись.
func run(file string, clients int) error {
	cfg := config.MustLoad()
	log, closer, err := logger.New(cfg.Env, cfg.File)
	if err != nil {
		slog.Error("failed to init logger", sl.Err(err))
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := load(file, clients)
	if err != nil {
		log.Error("failed to load interests", sl.Err(err))
		return err
	}

	st := store.New(cfg.RedisConnection, log)
	defer st.Close()

	if err := seed(ctx, st, table); err != nil {
		log.Error("failed to seed interests", sl.Err(err))
		return err
	}
	log.Info("interests seeded", slog.Int("nclients", len(table)))
	return nil
}

type setter interface {
	Set(ctx context.Context, key, value string, expire time.Duration) error
}

func seed(ctx context.Context, st setter, table map[int][]string) error {
	for cid, interests := range table {
		data, err := json.Marshal(interests)
		if err != nil {
			return err
		}
		if err := st.Set(ctx, scoring.InterestsKey(cid), string(data), 0); err != nil {
			return fmt.Errorf("client %d: %w", cid, err)
		}
	}
	return nil
}

func load(path string, clients int) (map[int][]string, error) {
	if path == "" {
		return generate(clients), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	table := make(map[int][]string, len(raw))
	for k, v := range raw {
		cid, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("client id %q: %w", k, err)
		}
		if v == nil {
			v = []string{}
		}
		table[cid] = v
	}
	return table, nil
}

func generate(clients int) map[int][]string {
	table := make(map[int][]string, clients)
	for cid := 1; cid <= clients; cid++ {
		perm := rand.Perm(len(catalog))
		table[cid] = []string{catalog[perm[0]], catalog[perm[1]]}
	}
	return table
}
