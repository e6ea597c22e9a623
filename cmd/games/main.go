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

	"games_catalog/internal/auth"
	"games_catalog/internal/config"
	"games_catalog/internal/routes"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/storage/mariadb"
	"games_catalog/internal/storage/postgres"
	"games_catalog/internal/storage/uploads"
	"games_catalog/internal/views"

	"github.com/redis/go-redis/v9"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting games catalog",
		slog.String("env", cfg.Env),
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("session_store", cfg.Session.Store))

	store, err := openStorage(cfg.Database, log)
	if err != nil {
		log.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := store.Migrate(); err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("database init")

	covers, err := uploads.NewCovers(cfg.CoversPath)
	if err != nil {
		log.Error("failed to create covers storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hasher, err := auth.NewHasher(cfg.Password)
	if err != nil {
		log.Error("failed to create password hasher", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessions, rdb, err := openSessions(cfg)
	if err != nil {
		log.Error("failed to create session store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	pages, err := views.New()
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := routes.SetupRouter(log, routes.Deps{
		Storage:  store,
		Covers:   covers,
		Sessions: sessions,
		Hasher:   hasher,
		Views:    pages,
	})

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
	}
	log.Info("server stopped")
}

func openStorage(cfg config.Database, log *slog.Logger) (*storage.Storage, error) {
	if cfg.Driver == config.DriverPostgres {
		return postgres.New(cfg, log)
	}
	return mariadb.New(cfg, log)
}

// openSessions returns the configured session store, and the redis client
// backing it when there is one.
func openSessions(cfg *config.Config) (session.Store, *redis.Client, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return session.NewCookieStore(cfg.AppSecret, cfg.Session), nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := session.NewRedisClient(ctx, cfg.Session.Redis)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(rdb, cfg.Session), rdb, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
