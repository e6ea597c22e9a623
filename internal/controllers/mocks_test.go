package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/views"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) List(ctx context.Context, f services.GameFilter, order services.GameOrder, dir services.Direction) ([]models.GameRow, error) {
	args := m.Called(ctx, f, order, dir)
	return args.Get(0).([]models.GameRow), args.Error(1)
}

func (m *MockGameService) GetByID(ctx context.Context, id int64) (*models.GameRow, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*models.GameRow)
	return g, args.Error(1)
}

func (m *MockGameService) Create(ctx context.Context, g *models.Game) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGameService) Update(ctx context.Context, id int64, p models.GamePatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockGameService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDeveloperService struct {
	mock.Mock
}

func (m *MockDeveloperService) List(ctx context.Context) ([]models.Developer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Developer), args.Error(1)
}

func (m *MockDeveloperService) GetByID(ctx context.Context, id int64) (*models.Developer, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Developer)
	return d, args.Error(1)
}

func (m *MockDeveloperService) Create(ctx context.Context, d *models.Developer) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeveloperService) Update(ctx context.Context, id int64, p models.DeveloperPatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockDeveloperService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisherService struct {
	mock.Mock
}

func (m *MockPublisherService) List(ctx context.Context) ([]models.Publisher, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Publisher), args.Error(1)
}

func (m *MockPublisherService) GetByID(ctx context.Context, id int64) (*models.Publisher, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Publisher)
	return p, args.Error(1)
}

func (m *MockPublisherService) Create(ctx context.Context, p *models.Publisher) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPublisherService) Update(ctx context.Context, id int64, p models.PublisherPatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockPublisherService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreService) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*models.Genre)
	return g, args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, g *models.Genre) (int64, error) {
	args := m.Called(ctx, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGenreService) Update(ctx context.Context, id int64, p models.GenrePatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockGenreService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGenreService) GenresOfGame(ctx context.Context, f services.GenreOfGameFilter) ([]models.GenreOfGameRow, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.GenreOfGameRow), args.Error(1)
}

func (m *MockGenreService) AddGenreOfGame(ctx context.Context, gameID, genreID int64) error {
	args := m.Called(ctx, gameID, genreID)
	return args.Error(0)
}

func (m *MockGenreService) RemoveGenreOfGame(ctx context.Context, gameID, genreID int64) error {
	args := m.Called(ctx, gameID, genreID)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, username, password, email string) (int64, error) {
	args := m.Called(ctx, username, password, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int64, p models.UserPatch) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Authenticate(ctx context.Context, login, password string) (*models.Admin, error) {
	args := m.Called(ctx, login, password)
	a, _ := args.Get(0).(*models.Admin)
	return a, args.Error(1)
}

type MockListService struct {
	mock.Mock
}

func (m *MockListService) Entries(ctx context.Context, f services.AssocFilter) ([]models.ListEntryRow, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.ListEntryRow), args.Error(1)
}

func (m *MockListService) Get(ctx context.Context, gameID, userID int64) (*models.ListEntry, error) {
	args := m.Called(ctx, gameID, userID)
	e, _ := args.Get(0).(*models.ListEntry)
	return e, args.Error(1)
}

func (m *MockListService) Save(ctx context.Context, e *models.ListEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockListService) Delete(ctx context.Context, gameID, userID int64) error {
	args := m.Called(ctx, gameID, userID)
	return args.Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Comments(ctx context.Context, f services.AssocFilter) ([]models.CommentRow, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.CommentRow), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, gameID, userID int64) (*models.Comment, error) {
	args := m.Called(ctx, gameID, userID)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *MockCommentService) Add(ctx context.Context, gameID, userID int64, text string) error {
	args := m.Called(ctx, gameID, userID, text)
	return args.Error(0)
}

func (m *MockCommentService) Update(ctx context.Context, gameID, userID int64, text string) error {
	args := m.Called(ctx, gameID, userID, text)
	return args.Error(0)
}

func (m *MockCommentService) Delete(ctx context.Context, gameID, userID int64) error {
	args := m.Called(ctx, gameID, userID)
	return args.Error(0)
}

type MockCovers struct {
	mock.Mock
}

func (m *MockCovers) Save(gameID int64, image []byte) error {
	args := m.Called(gameID, image)
	return args.Error(0)
}

func (m *MockCovers) Path(gameID int64) (string, error) {
	args := m.Called(gameID)
	return args.String(0), args.Error(1)
}

func (m *MockCovers) Delete(gameID int64) error {
	args := m.Called(gameID)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testViews(t *testing.T) *views.Renderer {
	t.Helper()
	v, err := views.New()
	require.NoError(t, err)
	return v
}

// request builds a request acting as id, with chi url params given as
// name, value pairs.
func request(method, target string, body io.Reader, id session.Identity, params ...string) (*http.Request, *session.Session) {
	r := httptest.NewRequest(method, target, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}

	sess := session.Detached(id)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = session.NewContext(ctx, sess)
	return r.WithContext(ctx), sess
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

// onlyNotice asserts that exactly one notice is pending and returns it.
func onlyNotice(t *testing.T, s *session.Session) session.Notice {
	t.Helper()
	n := s.Pending()
	require.Len(t, n, 1)
	return n[0]
}
