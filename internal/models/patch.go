package models

import "time"

// Opt is a single column update. The zero value leaves the column untouched;
// a set Opt with a nil value writes NULL.
type Opt[T any] struct {
	set bool
	v   *T
}

func Set[T any](v T) Opt[T] { return Opt[T]{set: true, v: &v} }

// SetPtr writes NULL when v is nil.
func SetPtr[T any](v *T) Opt[T] { return Opt[T]{set: true, v: v} }

func (o Opt[T]) IsSet() bool { return o.set }

// Value returns the new value and whether it is non-null.
func (o Opt[T]) Value() (T, bool) {
	var zero T
	if !o.set || o.v == nil {
		return zero, false
	}
	return *o.v, true
}

func (o Opt[T]) put(cols map[string]any, column string) {
	if !o.set {
		return
	}
	if o.v == nil {
		cols[column] = nil
		return
	}
	cols[column] = *o.v
}

type GamePatch struct {
	Name        Opt[string]
	Description Opt[string]
	ReleaseDate Opt[time.Time]
	Rating      Opt[float64]
	DeveloperID Opt[int64]
	PublisherID Opt[int64]
}

func (p GamePatch) Columns() map[string]any {
	cols := map[string]any{}
	p.Name.put(cols, "game_name")
	p.Description.put(cols, "description")
	p.ReleaseDate.put(cols, "release_date")
	p.Rating.put(cols, "rating")
	p.DeveloperID.put(cols, "id_developer")
	p.PublisherID.put(cols, "id_publisher")
	return cols
}

type DeveloperPatch struct {
	StudioName Opt[string]
	Country    Opt[string]
}

func (p DeveloperPatch) Columns() map[string]any {
	cols := map[string]any{}
	p.StudioName.put(cols, "studio_name")
	p.Country.put(cols, "country")
	return cols
}

type PublisherPatch struct {
	PublisherName Opt[string]
	Country       Opt[string]
}

func (p PublisherPatch) Columns() map[string]any {
	cols := map[string]any{}
	p.PublisherName.put(cols, "publisher_name")
	p.Country.put(cols, "country")
	return cols
}

type GenrePatch struct {
	Name Opt[string]
}

func (p GenrePatch) Columns() map[string]any {
	cols := map[string]any{}
	p.Name.put(cols, "genre_name")
	return cols
}

// UserPatch carries plain text passwords; the user service hashes Password
// and checks CurrentPassword before anything is written.
type UserPatch struct {
	Username        Opt[string]
	Email           Opt[string]
	Password        Opt[string]
	CurrentPassword string
}

// Columns returns everything except the password, which needs hashing.
func (p UserPatch) Columns() map[string]any {
	cols := map[string]any{}
	p.Username.put(cols, "username")
	p.Email.put(cols, "email")
	return cols
}

func (p UserPatch) Empty() bool {
	return !p.Username.IsSet() && !p.Email.IsSet() && !p.Password.IsSet()
}
