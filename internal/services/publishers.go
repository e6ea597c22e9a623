package services

import (
	"context"
	"fmt"
	"log/slog"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
)

type PublisherService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewPublisherService(s *storage.Storage, log *slog.Logger) *PublisherService {
	return &PublisherService{storage: s, log: log}
}

func (s *PublisherService) List(ctx context.Context) ([]models.Publisher, error) {
	const op = "services.publishers.List"

	var res []models.Publisher
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Order("id_publisher").Find(&res).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *PublisherService) GetByID(ctx context.Context, id int64) (*models.Publisher, error) {
	const op = "services.publishers.GetByID"

	var p models.Publisher
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.First(&p, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (s *PublisherService) Create(ctx context.Context, pub *models.Publisher) (int64, error) {
	const op = "services.publishers.Create"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(pub).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return pub.ID, nil
}

func (s *PublisherService) Update(ctx context.Context, id int64, patch models.PublisherPatch) error {
	const op = "services.publishers.Update"

	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return updateByID(db, &models.Publisher{}, "id_publisher", id, cols)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *PublisherService) Delete(ctx context.Context, id int64) error {
	const op = "services.publishers.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Delete(&models.Publisher{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
