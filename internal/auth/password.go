package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"games_catalog/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is the one-way password hash used for users and admins.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

func NewHasher(cfg config.Password) (Hasher, error) {
	switch cfg.Algorithm {
	case config.PasswordSHA256, "":
		return SHA256Hasher{}, nil
	case config.PasswordBcrypt:
		cost := cfg.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
		}
		return BcryptHasher{Cost: cost}, nil
	default:
		return nil, fmt.Errorf("unknown password algorithm %q", cfg.Algorithm)
	}
}

// SHA256Hasher stores the uppercase hex SHA-256 digest, the format of the
// existing users and admin tables.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

func (h SHA256Hasher) Verify(hash, password string) bool {
	want, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToUpper(hash)), []byte(want)) == 1
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
