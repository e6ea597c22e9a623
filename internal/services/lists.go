package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
)

// AssocFilter narrows list entries and comments by game and/or user.
type AssocFilter struct {
	GameID *int64
	UserID *int64
}

func (f AssocFilter) apply(db *gorm.DB, table string) *gorm.DB {
	if f.GameID != nil {
		db = db.Where(table+".id_game = ?", *f.GameID)
	}
	if f.UserID != nil {
		db = db.Where(table+".id_user = ?", *f.UserID)
	}
	return db
}

type ListService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewListService(s *storage.Storage, log *slog.Logger) *ListService {
	return &ListService{storage: s, log: log}
}

func (s *ListService) Entries(ctx context.Context, f AssocFilter) ([]models.ListEntryRow, error) {
	const op = "services.lists.Entries"

	var rows []models.ListEntryRow
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		q := db.Table("list").
			Select("list.id_game, list.id_user, list.list_type, list.rated, game.game_name, users.username").
			Joins("JOIN users ON list.id_user = users.id_user").
			Joins("JOIN game ON list.id_game = game.id_game")
		return f.apply(q, "list").Order("game.game_name").Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *ListService) Get(ctx context.Context, gameID, userID int64) (*models.ListEntry, error) {
	const op = "services.lists.Get"

	var e models.ListEntry
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("id_game = ? AND id_user = ?", gameID, userID).Take(&e).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &e, nil
}

// Save inserts the entry when the (game, user) pair has none and updates it
// otherwise. Two concurrent first saves can still collide on the primary
// key; the loser gets storage.ErrConstraint.
func (s *ListService) Save(ctx context.Context, e *models.ListEntry) error {
	const op = "services.lists.Save"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var existing models.ListEntry
			err := tx.Where("id_game = ? AND id_user = ?", e.GameID, e.UserID).Take(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(e).Error
			}
			if err != nil {
				return err
			}

			return tx.Model(&models.ListEntry{}).
				Where("id_game = ? AND id_user = ?", e.GameID, e.UserID).
				Updates(map[string]any{"list_type": e.ListType, "rated": e.Rated}).Error
		})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *ListService) Delete(ctx context.Context, gameID, userID int64) error {
	const op = "services.lists.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("id_game = ? AND id_user = ?", gameID, userID).Delete(&models.ListEntry{}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
