// Command catalogctl creates administrator accounts.
//
//	catalogctl -config config/local.yaml -login root -password secret
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"games_catalog/internal/auth"
	"games_catalog/internal/config"
	"games_catalog/internal/services"
	"games_catalog/internal/storage"
	"games_catalog/internal/storage/mariadb"
	"games_catalog/internal/storage/postgres"
)

func main() {
	login := flag.String("login", "", "admin login")
	password := flag.String("password", "", "admin password")

	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *login == "" || *password == "" {
		log.Error("both -login and -password are required")
		os.Exit(2)
	}

	if err := run(cfg, log, *login, *password); err != nil {
		log.Error("failed to create admin", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, login, password string) error {
	var (
		store *storage.Storage
		err   error
	)
	if cfg.Database.Driver == config.DriverPostgres {
		store, err = postgres.New(cfg.Database, log)
	} else {
		store, err = mariadb.New(cfg.Database, log)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return err
	}

	hasher, err := auth.NewHasher(cfg.Password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := services.NewAdminService(store, hasher, log).Create(ctx, login, password)
	if err != nil {
		return err
	}

	log.Info("admin created", slog.Int64("id", id), slog.String("login", login))
	return nil
}
