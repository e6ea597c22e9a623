package services

import (
	"context"
	"fmt"
	"log/slog"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
)

type DeveloperService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewDeveloperService(s *storage.Storage, log *slog.Logger) *DeveloperService {
	return &DeveloperService{storage: s, log: log}
}

func (s *DeveloperService) List(ctx context.Context) ([]models.Developer, error) {
	const op = "services.developers.List"

	var res []models.Developer
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Order("id_developer").Find(&res).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *DeveloperService) GetByID(ctx context.Context, id int64) (*models.Developer, error) {
	const op = "services.developers.GetByID"

	var d models.Developer
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.First(&d, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

func (s *DeveloperService) Create(ctx context.Context, d *models.Developer) (int64, error) {
	const op = "services.developers.Create"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(d).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return d.ID, nil
}

func (s *DeveloperService) Update(ctx context.Context, id int64, p models.DeveloperPatch) error {
	const op = "services.developers.Update"

	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return updateByID(db, &models.Developer{}, "id_developer", id, cols)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *DeveloperService) Delete(ctx context.Context, id int64) error {
	const op = "services.developers.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Delete(&models.Developer{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
