package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"games_catalog/internal/models"
)

const (
	noneValue = "none"
	minRated  = 1
	maxRated  = 10
)

var ratedChoices = func() []int {
	r := make([]int, 0, maxRated-minRated+1)
	for i := minRated; i <= maxRated; i++ {
		r = append(r, i)
	}
	return r
}()

func isNone(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == noneValue
}

func optionalID(v string) (*int64, error) {
	if isNone(v) {
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad id %q", ErrValidation, v)
	}
	return &id, nil
}

func requiredID(v string) (int64, error) {
	id, err := optionalID(v)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, fmt.Errorf("%w: id is required", ErrValidation)
	}
	return *id, nil
}

// optionalText trims v and maps an empty string to nil.
func optionalText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func requiredText(v, field string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return v, nil
}

func optionalFloat(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad number %q", ErrValidation, v)
	}
	return &f, nil
}

func optionalDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrValidation, v)
	}
	return &t, nil
}

// parseRated maps "none" to nil and accepts whole numbers in 1..10.
func parseRated(v string) (*int, error) {
	if isNone(v) {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < minRated || n > maxRated {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, minRated, maxRated)
	}
	return &n, nil
}

func parseGameRating(v string) (float64, error) {
	f, err := optionalFloat(v)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, nil
	}
	if *f < 0 || *f > 10 {
		return 0, fmt.Errorf("%w: rating must be between 0 and 10", ErrValidation)
	}
	return *f, nil
}

// parseIDs reads a multi-value id list. "none" placeholders are skipped.
func parseIDs(vals []string) ([]int64, error) {
	ids := make([]int64, 0, len(vals))
	for _, v := range vals {
		id, err := optionalID(v)
		if err != nil {
			return nil, err
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids, nil
}

// posted reports whether the form carried field at all.
func posted(r *http.Request, field string) bool {
	_, ok := r.PostForm[field]
	return ok
}

// gameForm is a parsed game create/update form. Absent fields stay unset.
type gameForm struct {
	patch    models.GamePatch
	genres   []int64
	withGens bool
}

func parseGameForm(r *http.Request) (gameForm, error) {
	var f gameForm

	if posted(r, "game_name") {
		name, err := requiredText(r.PostForm.Get("game_name"), "name")
		if err != nil {
			return f, err
		}
		f.patch.Name = models.Set(name)
	}
	if posted(r, "description") {
		f.patch.Description = models.SetPtr(optionalText(r.PostForm.Get("description")))
	}
	if posted(r, "release_date") {
		d, err := optionalDate(r.PostForm.Get("release_date"))
		if err != nil {
			return f, err
		}
		if d == nil {
			return f, fmt.Errorf("%w: release date is required", ErrValidation)
		}
		f.patch.ReleaseDate = models.Set(*d)
	}
	if posted(r, "rating") {
		rating, err := parseGameRating(r.PostForm.Get("rating"))
		if err != nil {
			return f, err
		}
		f.patch.Rating = models.Set(rating)
	}
	if posted(r, "id_developer") {
		id, err := requiredID(r.PostForm.Get("id_developer"))
		if err != nil {
			return f, err
		}
		f.patch.DeveloperID = models.Set(id)
	}
	if posted(r, "id_publisher") {
		id, err := optionalID(r.PostForm.Get("id_publisher"))
		if err != nil {
			return f, err
		}
		f.patch.PublisherID = models.SetPtr(id)
	}
	if posted(r, "genres") {
		ids, err := parseIDs(r.PostForm["genres"])
		if err != nil {
			return f, err
		}
		f.genres = ids
		f.withGens = true
	}

	return f, nil
}

// game builds a new game from the form; name, release date and developer
// are required.
func (f gameForm) game() (*models.Game, error) {
	name, ok := f.patch.Name.Value()
	if !ok {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	released, ok := f.patch.ReleaseDate.Value()
	if !ok {
		return nil, fmt.Errorf("%w: release date is required", ErrValidation)
	}
	developerID, ok := f.patch.DeveloperID.Value()
	if !ok {
		return nil, fmt.Errorf("%w: developer is required", ErrValidation)
	}

	g := &models.Game{
		Name:        name,
		ReleaseDate: released,
		DeveloperID: developerID,
	}
	g.Rating, _ = f.patch.Rating.Value()
	if v, ok := f.patch.Description.Value(); ok {
		g.Description = &v
	}
	if v, ok := f.patch.PublisherID.Value(); ok {
		g.PublisherID = &v
	}

	return g, nil
}
