package uploads

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrInvalidImage  = errors.New("invalid image data")
	ErrFileNotExists = errors.New("file does not exist")
	ErrTooLarge      = errors.New("image too large")
)

const MaxCoverSize = 5 << 20

var coverTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/gif":  {},
	"image/webp": {},
}

// ICovers stores one cover image per game.
type ICovers interface {
	Save(gameID int64, image []byte) error
	Path(gameID int64) (string, error)
	Delete(gameID int64) error
}

type Covers struct {
	folderPath string
	mu         sync.RWMutex
}

func NewCovers(folderPath string) (*Covers, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	c := &Covers{folderPath: filepath.Clean(folderPath)}
	if err := os.MkdirAll(c.folderPath, 0o755); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Covers) fileName(gameID int64) string {
	return filepath.Join(c.folderPath, "game-"+strconv.FormatInt(gameID, 10))
}

// Save writes or replaces the cover of gameID. The image goes to a temp
// file first and is renamed into place.
func (c *Covers) Save(gameID int64, image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) > MaxCoverSize {
		return ErrTooLarge
	}
	if _, ok := coverTypes[http.DetectContentType(image)]; !ok {
		return ErrInvalidImage
	}

	target := c.fileName(gameID)
	tempPath := filepath.Join(c.folderPath, "."+uuid.NewString()+".tmp")

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(tempPath, image, 0o644); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (c *Covers) Path(gameID int64) (string, error) {
	p := c.fileName(gameID)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return "", ErrFileNotExists
	} else if err != nil {
		return "", err
	}

	return p, nil
}

// Delete removes the cover; a game without one is not an error.
func (c *Covers) Delete(gameID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.fileName(gameID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}
