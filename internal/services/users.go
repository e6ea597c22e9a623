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

type UserService struct {
	storage *storage.Storage
	hasher  auth.Hasher
	log     *slog.Logger
}

func NewUserService(s *storage.Storage, h auth.Hasher, log *slog.Logger) *UserService {
	return &UserService{storage: s, hasher: h, log: log}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	const op = "services.users.List"

	var res []models.User
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Order("id_user").Find(&res).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "services.users.GetByID"

	var u models.User
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.First(&u, id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "services.users.GetByUsername"

	var u models.User
	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Where("username = ?", username).First(&u).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &u, nil
}

// Create stores a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, username, password, email string) (int64, error) {
	const op = "services.users.Create"

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	u := &models.User{Username: username, Password: hash, Email: email}
	err = s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Create(u).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return u.ID, nil
}

// Authenticate returns the user when the password matches.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	const op = "services.users.Authenticate"

	u, err := s.GetByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(u.Password, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return u, nil
}

// Update writes the supplied fields. A new password is only written when
// CurrentPassword matches the stored hash; the read and the write share one
// transaction.
func (s *UserService) Update(ctx context.Context, id int64, p models.UserPatch) error {
	const op = "services.users.Update"

	if p.Empty() {
		return nil
	}

	cols := p.Columns()
	newPassword, changePassword := p.Password.Value()
	if changePassword {
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		cols["password"] = hash
	}

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		if !changePassword {
			return updateByID(db, &models.User{}, "id_user", id, cols)
		}

		return db.Transaction(func(tx *gorm.DB) error {
			var u models.User
			if err := tx.First(&u, id).Error; err != nil {
				return err
			}
			if !s.hasher.Verify(u.Password, p.CurrentPassword) {
				return ErrPasswordMismatch
			}
			return updateByID(tx, &models.User{}, "id_user", id, cols)
		})
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	const op = "services.users.Delete"

	err := s.storage.Scoped(ctx, func(db *gorm.DB) error {
		return db.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
