package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/views"

	"github.com/go-chi/chi/v5"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrBadPair    = errors.New("bad game/user pair")
)

const (
	msgFailed      = "Something went wrong, please try again."
	msgAdminOnly   = "Only administrators can do that."
	msgLoginFirst  = "Please log in first."
	msgNotYours    = "You can only change your own records."
	msgAdminNoList = "Administrators do not keep game lists."
	msgAdminNoComm = "Administrators cannot comment."
)

type GameServicer interface {
	List(ctx context.Context, f services.GameFilter, order services.GameOrder, dir services.Direction) ([]models.GameRow, error)
	GetByID(ctx context.Context, id int64) (*models.GameRow, error)
	Create(ctx context.Context, g *models.Game) (int64, error)
	Update(ctx context.Context, id int64, p models.GamePatch) error
	Delete(ctx context.Context, id int64) error
}

type DeveloperServicer interface {
	List(ctx context.Context) ([]models.Developer, error)
	GetByID(ctx context.Context, id int64) (*models.Developer, error)
	Create(ctx context.Context, d *models.Developer) (int64, error)
	Update(ctx context.Context, id int64, p models.DeveloperPatch) error
	Delete(ctx context.Context, id int64) error
}

type PublisherServicer interface {
	List(ctx context.Context) ([]models.Publisher, error)
	GetByID(ctx context.Context, id int64) (*models.Publisher, error)
	Create(ctx context.Context, p *models.Publisher) (int64, error)
	Update(ctx context.Context, id int64, p models.PublisherPatch) error
	Delete(ctx context.Context, id int64) error
}

type GenreServicer interface {
	List(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id int64) (*models.Genre, error)
	Create(ctx context.Context, g *models.Genre) (int64, error)
	Update(ctx context.Context, id int64, p models.GenrePatch) error
	Delete(ctx context.Context, id int64) error
	GenresOfGame(ctx context.Context, f services.GenreOfGameFilter) ([]models.GenreOfGameRow, error)
	AddGenreOfGame(ctx context.Context, gameID, genreID int64) error
	RemoveGenreOfGame(ctx context.Context, gameID, genreID int64) error
}

type UserServicer interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, username, password, email string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Update(ctx context.Context, id int64, p models.UserPatch) error
	Delete(ctx context.Context, id int64) error
}

type AdminAuthenticator interface {
	Authenticate(ctx context.Context, login, password string) (*models.Admin, error)
}

type ListServicer interface {
	Entries(ctx context.Context, f services.AssocFilter) ([]models.ListEntryRow, error)
	Get(ctx context.Context, gameID, userID int64) (*models.ListEntry, error)
	Save(ctx context.Context, e *models.ListEntry) error
	Delete(ctx context.Context, gameID, userID int64) error
}

type CommentServicer interface {
	Comments(ctx context.Context, f services.AssocFilter) ([]models.CommentRow, error)
	Get(ctx context.Context, gameID, userID int64) (*models.Comment, error)
	Add(ctx context.Context, gameID, userID int64, text string) error
	Update(ctx context.Context, gameID, userID int64, text string) error
	Delete(ctx context.Context, gameID, userID int64) error
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, p views.Page) error
}

// base carries what every controller needs to answer a request.
type base struct {
	views Renderer
	log   *slog.Logger
}

func (b *base) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	b.renderStatus(w, r, http.StatusOK, name, title, data)
}

func (b *base) renderStatus(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	sess := session.FromContext(r.Context())
	p := views.Page{
		Title:    title,
		Identity: sess.Identity(),
		Notices:  sess.Notices(),
		Data:     data,
	}

	if err := b.views.Render(w, status, name, p); err != nil {
		b.log.Error("failed to render page",
			slog.String("page", name),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (b *base) notFound(w http.ResponseWriter, r *http.Request) {
	b.renderStatus(w, r, http.StatusNotFound, "not_found", "Not found", nil)
}

func (b *base) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// notice flashes one message and redirects.
func (b *base) notice(w http.ResponseWriter, r *http.Request, c session.Category, msg, to string) {
	session.FromContext(r.Context()).Flash(c, msg)
	b.redirect(w, r, to)
}

// fail logs err and answers with the generic failure notice.
func (b *base) fail(w http.ResponseWriter, r *http.Request, op string, err error, to string) {
	b.log.Error(msgFailed,
		slog.String("operation", op),
		slog.String("error", err.Error()))
	b.notice(w, r, session.Error, msgFailed, to)
}

// loadFailed answers a failed read or update of one row: 404 for a missing
// id, the generic failure notice otherwise.
func (b *base) loadFailed(w http.ResponseWriter, r *http.Request, op string, err error, to string) {
	if errors.Is(err, storage.ErrNotFound) {
		b.notFound(w, r)
		return
	}
	b.fail(w, r, op, err, to)
}

// requireAdmin answers non-admins with a notice and reports whether the
// handler may go on.
func (b *base) requireAdmin(w http.ResponseWriter, r *http.Request, to string) bool {
	if session.FromContext(r.Context()).Identity().IsAdmin() {
		return true
	}
	b.notice(w, r, session.Error, msgAdminOnly, to)
	return false
}

func identity(r *http.Request) session.Identity {
	return session.FromContext(r.Context()).Identity()
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// parsePair reads a "{gameID}_{userID}" path segment.
func parsePair(s string) (gameID, userID int64, err error) {
	g, u, ok := strings.Cut(s, "_")
	if !ok {
		return 0, 0, ErrBadPair
	}
	if gameID, err = strconv.ParseInt(g, 10, 64); err != nil || gameID <= 0 {
		return 0, 0, ErrBadPair
	}
	if userID, err = strconv.ParseInt(u, 10, 64); err != nil || userID <= 0 {
		return 0, 0, ErrBadPair
	}
	return gameID, userID, nil
}

func gamePath(id int64) string { return "/games/" + strconv.FormatInt(id, 10) }

func userPath(id int64) string { return "/users/" + strconv.FormatInt(id, 10) }

// NewNotFound answers unknown routes with the not found page.
func NewNotFound(v Renderer, log *slog.Logger) http.HandlerFunc {
	b := &base{views: v, log: log}
	return b.notFound
}
