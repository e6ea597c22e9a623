package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"games_catalog/internal/auth"
	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
)

type AdminService struct {
	storage *storage.Storage
	hasher  auth.Hasher
	log     *slog.Logger
}

func NewAdminService(s *storage.Storage, h auth.Hasher, log *slog.Logger) *AdminService {
	return &AdminService{storage: s, hasher: h, log: log}
}

func (s *AdminService) Authenticate(ctx context.Context, login, password string) (*models.Admin, error) {
	const op = "services.admins.Authenticate"

	var a models.Admin
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("login = ?", login).First(&a).Error
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(a.Password, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return &a, nil
}

func (s *AdminService) Create(ctx context.Context, login, password string) (int64, error) {
	const op = "services.admins.Create"

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	a := &models.Admin{Login: login, Password: hash}
	err = s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(a).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return a.ID, nil
}
