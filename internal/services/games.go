package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameOrder string

const (
	OrderByID          GameOrder = "id_game"
	OrderByRating      GameOrder = "rating"
	OrderByReleaseDate GameOrder = "release_date"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseGameOrder accepts the sortable game columns. An empty value selects
// the default; anything else is rejected.
func ParseGameOrder(s string) (GameOrder, error) {
	switch GameOrder(s) {
	case "":
		return OrderByID, nil
	case OrderByID, OrderByRating, OrderByReleaseDate:
		return GameOrder(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
}

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case "":
		return Asc, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// GameFilter holds the listing predicates. Nil fields are left out of the
// query.
type GameFilter struct {
	MinReleaseDate *time.Time
	MaxReleaseDate *time.Time
	MinRating      *float64
	MaxRating      *float64
	DeveloperID    *int64
	PublisherID    *int64
	SearchText     *string
}

const gameRowColumns = "game.id_game, game.game_name, game.description, game.release_date, game.rating, " +
	"game.id_developer, game.id_publisher, developer.studio_name, publisher.publisher_name"

type GameService struct {
	storage *storage.Storage
	log     *slog.Logger
}

func NewGameService(s *storage.Storage, log *slog.Logger) *GameService {
	return &GameService{
		storage: s,
		log:     log,
	}
}

func gameRows(db *gorm.DB) *gorm.DB {
	return db.Table("game").
		Select(gameRowColumns).
		Joins("LEFT JOIN developer ON game.id_developer = developer.id_developer").
		Joins("LEFT JOIN publisher ON game.id_publisher = publisher.id_publisher")
}

func (f GameFilter) apply(db *gorm.DB) *gorm.DB {
	if f.MinReleaseDate != nil {
		db = db.Where("game.release_date >= ?", *f.MinReleaseDate)
	}
	if f.MaxReleaseDate != nil {
		db = db.Where("game.release_date <= ?", *f.MaxReleaseDate)
	}
	if f.MinRating != nil {
		db = db.Where("game.rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		db = db.Where("game.rating <= ?", *f.MaxRating)
	}
	if f.DeveloperID != nil {
		db = db.Where("game.id_developer = ?", *f.DeveloperID)
	}
	if f.PublisherID != nil {
		db = db.Where("game.id_publisher = ?", *f.PublisherID)
	}
	if f.SearchText != nil {
		db = db.Where("game.game_name LIKE ?", "%"+*f.SearchText+"%")
	}
	return db
}

func (s *GameService) List(ctx context.Context, f GameFilter, order GameOrder, dir Direction) ([]models.GameRow, error) {
	const op = "services.games.List"

	if order == "" {
		order = OrderByID
	}
	if _, err := ParseGameOrder(string(order)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dir == "" {
		dir = Asc
	}
	if _, err := ParseDirection(string(dir)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var rows []models.GameRow
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return f.apply(gameRows(db)).
			Order(clause.OrderByColumn{
				Column: clause.Column{Table: "game", Name: string(order)},
				Desc:   dir == Desc,
			}).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *GameService) GetByID(ctx context.Context, id int64) (*models.GameRow, error) {
	const op = "services.games.GetByID"

	var row models.GameRow
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return gameRows(db).Where("game.id_game = ?", id).Take(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &row, nil
}

// checkRefs fails with storage.ErrConstraint when the developer or the
// publisher does not exist.
func checkRefs(db *gorm.DB, developerID *int64, publisherID *int64) error {
	if developerID != nil {
		var count int64
		if err := db.Model(&models.Developer{}).Where("id_developer = ?", *developerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: developer %d does not exist", storage.ErrConstraint, *developerID)
		}
	}
	if publisherID != nil {
		var count int64
		if err := db.Model(&models.Publisher{}).Where("id_publisher = ?", *publisherID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: publisher %d does not exist", storage.ErrConstraint, *publisherID)
		}
	}
	return nil
}

func (s *GameService) Create(ctx context.Context, g *models.Game) (int64, error) {
	const op = "services.games.Create"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		if err := checkRefs(db, &g.DeveloperID, g.PublisherID); err != nil {
			return err
		}
		return db.Create(g).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return g.ID, nil
}

func (s *GameService) Update(ctx context.Context, id int64, p models.GamePatch) error {
	const op = "services.games.Update"

	cols := p.Columns()
	if len(cols) == 0 {
		return nil
	}

	var developerID, publisherID *int64
	if v, ok := p.DeveloperID.Value(); ok {
		developerID = &v
	}
	if v, ok := p.PublisherID.Value(); ok {
		publisherID = &v
	}

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		if err := checkRefs(db, developerID, publisherID); err != nil {
			return err
		}
		return updateByID(db, &models.Game{}, "id_game", id, cols)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	const op = "services.games.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Delete(&models.Game{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// updateByID writes cols to the row whose key column equals id. MySQL counts
// changed rows only, so a zero count is confirmed with a lookup before the
// row is reported missing.
func updateByID(db *gorm.DB, model any, key string, id int64, cols map[string]any) error {
	res := db.Model(model).Where(key+" = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.Model(model).Where(key+" = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
