package services

import (
	"context"
	"fmt"
	"log/slog"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
)

type CommentService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewCommentService(s *storage.Storage, log *slog.Logger) *CommentService {
	return &CommentService{storage: s, log: log}
}

func (s *CommentService) Comments(ctx context.Context, f AssocFilter) ([]models.CommentRow, error) {
	const op = "services.comments.Comments"

	var rows []models.CommentRow
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		q := db.Table("comment").
			Select("comment.id_game, comment.id_user, comment.text, game.game_name, users.username").
			Joins("JOIN game ON comment.id_game = game.id_game").
			Joins("JOIN users ON comment.id_user = users.id_user")
		return f.apply(q, "comment").Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *CommentService) Get(ctx context.Context, gameID, userID int64) (*models.Comment, error) {
	const op = "services.comments.Get"

	var c models.Comment
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("id_game = ? AND id_user = ?", gameID, userID).Take(&c).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (s *CommentService) Add(ctx context.Context, gameID, userID int64, text string) error {
	const op = "services.comments.Add"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(&models.Comment{GameID: gameID, UserID: userID, Text: text}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *CommentService) Update(ctx context.Context, gameID, userID int64, text string) error {
	const op = "services.comments.Update"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Model(&models.Comment{}).
			Where("id_game = ? AND id_user = ?", gameID, userID).
			Update("text", text).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *CommentService) Delete(ctx context.Context, gameID, userID int64) error {
	const op = "services.comments.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("id_game = ? AND id_user = ?", gameID, userID).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
