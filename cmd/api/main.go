package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pyjuan91/Limira/internal/api"
	"github.com/pyjuan91/Limira/internal/auth"
	"github.com/pyjuan91/Limira/internal/cache"
	"github.com/pyjuan91/Limira/internal/config"
	"github.com/pyjuan91/Limira/internal/database"
	"github.com/pyjuan91/Limira/internal/disclosure"
	"github.com/pyjuan91/Limira/internal/llm"
	"github.com/pyjuan91/Limira/internal/notification"
	"github.com/pyjuan91/Limira/internal/patentai"
	"github.com/pyjuan91/Limira/internal/queue"
	"github.com/pyjuan91/Limira/internal/storage"
	"github.com/pyjuan91/Limira/internal/store"
	"github.com/pyjuan91/Limira/internal/stt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.App.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres when configured, otherwise an in-process store for local runs.
	var st store.Store
	if cfg.Database.URL != "" {
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Error("database unavailable", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := database.RunMigrations(ctx, pool); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		st = store.NewPostgres(pool)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	// Redis is optional; without it drafting runs unlocked and previews are not cached.
	var locks *cache.Cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	} else {
		locks = cache.NewCache(rdb)
	}

	objects, err := storage.New(cfg.Storage)
	if err != nil {
		slog.Error("storage unavailable", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		slog.Error("token issuer", "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(cfg.LLM)
	ai := patentai.NewService(gateway)

	var sched disclosure.Scheduler
	var inline *disclosure.InlineScheduler
	switch cfg.Queue.Mode {
	case "asynq":
		qc := queue.NewClient(cfg.Redis)
		defer qc.Close()
		sched = qc
	default:
		inline = disclosure.NewInlineScheduler(disclosure.NewDrafter(st, ai, locks, notification.NewService(st)))
		sched = inline
	}

	var transcriber stt.Transcriber
	if cfg.Video.Enabled {
		transcriber, err = stt.New(cfg.Video)
		if err != nil {
			slog.Warn("transcription disabled", "service", cfg.Video.TranscriptionService, "error", err)
		}
	}

	handler := api.NewRouter(api.Deps{
		Config:      cfg,
		Store:       st,
		Cache:       locks,
		Objects:     objects,
		AI:          ai,
		Scheduler:   sched,
		Tokens:      tokens,
		Transcriber: transcriber,
		Models:      gateway,
	}).Setup(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "environment", cfg.App.Environment, "queue", cfg.Queue.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if inline != nil {
		inline.Wait()
	}
	slog.Info("server stopped")
}
