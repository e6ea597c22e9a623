package postgres

import (
	"fmt"
	"log/slog"

	"games_catalog/internal/config"
	"games_catalog/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func New(cfg config.Database, log *slog.Logger) (*storage.Storage, error) {
	const op = "storage.postgres.New"

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:                 storage.NewGormLogger(log),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := storage.ConfigurePool(db, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.Storage{DB: db}, nil
}
