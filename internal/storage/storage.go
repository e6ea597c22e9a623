package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"games_catalog/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConstraint = errors.New("constraint violation")
	ErrConnection = errors.New("connection failure")

	// ErrDuplicate marks a unique key violation. It always comes wrapped
	// together with ErrConstraint.
	ErrDuplicate = errors.New("duplicate key")
)

// MySQL/MariaDB error numbers that mean the store refused a write.
var mysqlConstraintErrors = map[uint16]struct{}{
	1048: {}, // column cannot be null
	1062: {}, // duplicate entry
	1216: {}, // no referenced row (old)
	1217: {}, // row is referenced (old)
	1451: {}, // row is referenced
	1452: {}, // no referenced row
	3819: {}, // check constraint
}

type Storage struct {
	DB *gorm.DB
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Storage) Migrate() error {
	const op = "storage.Migrate"

	err := s.DB.AutoMigrate(
		&models.Developer{},
		&models.Publisher{},
		&models.Genre{},
		&models.Game{},
		&models.GenreOfGame{},
		&models.User{},
		&models.Admin{},
		&models.ListEntry{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Scoped runs fn on one dedicated connection. The connection goes back to
// the pool when fn returns, whatever the outcome. The returned error is
// classified with Classify.
func (s *Storage) Scoped(ctx context.Context, fn func(db *gorm.DB) error) error {
	err := s.DB.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(conn.Session(&gorm.Session{}))
	})
	return Classify(err)
}

// Classify maps driver and gorm errors onto ErrNotFound, ErrConstraint and
// ErrConnection. Unique key violations also match ErrDuplicate. Errors
// already classified and unknown errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraint) || errors.Is(err, ErrConnection) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate(err)
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number == 1062 {
			return duplicate(err)
		}
		if _, ok := mysqlConstraintErrors[myErr.Number]; ok {
			return fmt.Errorf("%w: %v", ErrConstraint, err)
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		if pgErr.Code == "23505" {
			return duplicate(err)
		}
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return err
}

func duplicate(err error) error {
	return fmt.Errorf("%w: %w: %v", ErrConstraint, ErrDuplicate, err)
}
