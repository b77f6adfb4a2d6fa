package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pyjuan91/Limira/internal/cache"
	"github.com/pyjuan91/Limira/internal/config"
	"github.com/pyjuan91/Limira/internal/database"
	"github.com/pyjuan91/Limira/internal/disclosure"
	"github.com/pyjuan91/Limira/internal/llm"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/patentai"
	"github.com/pyjuan91/Limira/internal/queue"
	"github.com/pyjuan91/Limira/internal/queue/workers"
	"github.com/pyjuan91/Limira/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		slog.Error("DATABASE_URL is required for the worker")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	st := store.NewPostgres(pool)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	ai := patentai.NewService(llm.NewGateway(cfg.LLM))
	drafter := disclosure.NewDrafter(st, ai, cache.NewCache(rdb), notification.NewService(st))

	concurrency := cfg.Queue.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeDraftGenerate, asynq.HandlerFunc(workers.NewDraftingWorker(drafter).ProcessTask))

	slog.Info("starting worker", "concurrency", concurrency)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
