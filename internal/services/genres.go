package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
)

type GenreService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewGenreService(s *storage.Storage, log *slog.Logger) *GenreService {
	return &GenreService{storage: s, log: log}
}

func (s *GenreService) List(ctx context.Context) ([]models.Genre, error) {
	const op = "services.genres.List"

	var res []models.Genre
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Order("genre_name").Find(&res).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *GenreService) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	const op = "services.genres.GetByID"

	var g models.Genre
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.First(&g, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &g, nil
}

func (s *GenreService) Create(ctx context.Context, g *models.Genre) (int64, error) {
	const op = "services.genres.Create"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(g).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return g.ID, nil
}

func (s *GenreService) Update(ctx context.Context, id int64, p models.GenrePatch) error {
	const op = "services.genres.Update"

	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return updateByID(db, &models.Genre{}, "id_genre", id, cols)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *GenreService) Delete(ctx context.Context, id int64) error {
	const op = "services.genres.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Delete(&models.Genre{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type GenreOfGameFilter struct {
	GameID  *int64
	GenreID *int64
}

func (s *GenreService) GenresOfGame(ctx context.Context, f GenreOfGameFilter) ([]models.GenreOfGameRow, error) {
	const op = "services.genres.GenresOfGame"

	var rows []models.GenreOfGameRow
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		q := db.Table("genre_of_game").
			Select("genre_of_game.id_game, genre_of_game.id_genre, game.game_name, genre.genre_name").
			Joins("JOIN genre ON genre_of_game.id_genre = genre.id_genre").
			Joins("JOIN game ON genre_of_game.id_game = game.id_game")
		if f.GameID != nil {
			q = q.Where("genre_of_game.id_game = ?", *f.GameID)
		}
		if f.GenreID != nil {
			q = q.Where("genre_of_game.id_genre = ?", *f.GenreID)
		}
		return q.Order("genre.genre_name").Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *GenreService) AddGenreOfGame(ctx context.Context, gameID, genreID int64) error {
	const op = "services.genres.AddGenreOfGame"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(&models.GenreOfGame{GameID: gameID, GenreID: genreID}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *GenreService) RemoveGenreOfGame(ctx context.Context, gameID, genreID int64) error {
	const op = "services.genres.RemoveGenreOfGame"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("id_game = ? AND id_genre = ?", gameID, genreID).Delete(&models.GenreOfGame{}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DiffGenres returns the ids only in wanted (to add) and the ids only in
// current (to remove), both sorted and without duplicates.
func DiffGenres(current, wanted []int64) (add, remove []int64) {
	have := make(map[int64]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[int64]struct{}, len(wanted))
	for _, id := range wanted {
		want[id] = struct{}{}
	}

	for id := range want {
		if _, ok := have[id]; !ok {
			add = append(add, id)
		}
	}
	for id := range have {
		if _, ok := want[id]; !ok {
			remove = append(remove, id)
		}
	}

	slices.Sort(add)
	slices.Sort(remove)
	return add, remove
}
