package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeveloperDetail(t *testing.T) {
	devs, games := new(MockDeveloperService), new(MockGameService)
	c := NewDeveloperController(devs, games, testViews(t), testLogger())

	country := "USA"
	id := int64(1)
	devs.On("GetByID", mock.Anything, id).
		Return(&models.Developer{ID: 1, StudioName: "id Software", Country: &country}, nil)
	games.On("List", mock.Anything, services.GameFilter{DeveloperID: &id}, services.OrderByID, services.Asc).
		Return([]models.GameRow{*doom}, nil)

	r, _ := request(http.MethodGet, "/developers/1", nil, session.Anonymous(), "id", "1")
	w := httptest.NewRecorder()

	c.Detail(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, "id Software", doc.Find("#name").Text())
	assert.Equal(t, "USA", doc.Find("#country").Text())
	assert.Equal(t, 1, doc.Find("#games li.game").Length())
	assert.Zero(t, doc.Find("#delete").Length())
}

func TestDeveloperCreate(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		devs := new(MockDeveloperService)
		c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

		devs.On("Create", mock.Anything, &models.Developer{StudioName: "Valve"}).Return(int64(9), nil)

		body := form(url.Values{"studio_name": {"  Valve "}, "country": {""}})
		r, sess := request(http.MethodPost, "/developers/create", body, admin)
		w := httptest.NewRecorder()

		c.Create(w, r)

		assert.Equal(t, "/developers/9", w.Header().Get("Location"))
		assert.Equal(t, session.Success, onlyNotice(t, sess).Category)
		devs.AssertExpectations(t)
	})

	t.Run("user", func(t *testing.T) {
		devs := new(MockDeveloperService)
		c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

		body := form(url.Values{"studio_name": {"Valve"}})
		r, sess := request(http.MethodPost, "/developers/create", body, session.User(7, "alice"))
		w := httptest.NewRecorder()

		c.Create(w, r)

		assert.Equal(t, msgAdminOnly, onlyNotice(t, sess).Message)
		devs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("blank name", func(t *testing.T) {
		devs := new(MockDeveloperService)
		c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

		body := form(url.Values{"studio_name": {"   "}})
		r, sess := request(http.MethodPost, "/developers/create", body, admin)
		w := httptest.NewRecorder()

		c.Create(w, r)

		assert.Equal(t, "/developers/create", w.Header().Get("Location"))
		assert.Equal(t, session.Error, onlyNotice(t, sess).Category)
		devs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDeveloperUpdate(t *testing.T) {
	devs := new(MockDeveloperService)
	c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

	devs.On("Update", mock.Anything, int64(1), models.DeveloperPatch{Country: models.SetPtr[string](nil)}).Return(nil)

	body := form(url.Values{"country": {""}})
	r, sess := request(http.MethodPost, "/developers/1/update", body, admin, "id", "1")
	w := httptest.NewRecorder()

	c.Update(w, r)

	assert.Equal(t, "/developers/1", w.Header().Get("Location"))
	assert.Equal(t, session.Success, onlyNotice(t, sess).Category)
	devs.AssertExpectations(t)
}

func TestDeveloperDelete(t *testing.T) {
	t.Run("still referenced", func(t *testing.T) {
		devs := new(MockDeveloperService)
		c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

		devs.On("Delete", mock.Anything, int64(1)).Return(storage.ErrConstraint)

		r, sess := request(http.MethodGet, "/developers/1/delete", nil, admin, "id", "1")
		w := httptest.NewRecorder()

		c.Delete(w, r)

		assert.Equal(t, "/developers/1", w.Header().Get("Location"))
		assert.Equal(t, msgInUse, onlyNotice(t, sess).Message)
	})

	t.Run("deleted", func(t *testing.T) {
		devs := new(MockDeveloperService)
		c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

		devs.On("Delete", mock.Anything, int64(1)).Return(nil)

		r, sess := request(http.MethodGet, "/developers/1/delete", nil, admin, "id", "1")
		w := httptest.NewRecorder()

		c.Delete(w, r)

		assert.Equal(t, "/developers", w.Header().Get("Location"))
		assert.Equal(t, session.Success, onlyNotice(t, sess).Category)
	})
}

func TestPublisherList(t *testing.T) {
	pubs := new(MockPublisherService)
	c := NewPublisherController(pubs, new(MockGameService), testViews(t), testLogger())

	pubs.On("List", mock.Anything).Return([]models.Publisher{
		{ID: 1, PublisherName: "GT Interactive"},
		{ID: 2, PublisherName: "Activision"},
	}, nil)

	r, _ := request(http.MethodGet, "/publishers", nil, session.Anonymous())
	w := httptest.NewRecorder()

	c.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "GT Interactive"))
	assert.True(t, strings.Contains(body, "Activision"))
}

func TestDeveloperUpdateMissing(t *testing.T) {
	devs := new(MockDeveloperService)
	c := NewDeveloperController(devs, new(MockGameService), testViews(t), testLogger())

	devs.On("Update", mock.Anything, int64(9), mock.Anything).Return(storage.ErrNotFound)

	body := form(url.Values{"studio_name": {"Gone"}})
	r, sess := request(http.MethodPost, "/developers/9/update", body, admin, "id", "9")
	w := httptest.NewRecorder()

	c.Update(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, sess.Pending())
	devs.AssertExpectations(t)
}

func TestPublisherDetailNotFound(t *testing.T) {
	pubs := new(MockPublisherService)
	c := NewPublisherController(pubs, new(MockGameService), testViews(t), testLogger())

	pubs.On("GetByID", mock.Anything, int64(3)).Return(nil, storage.ErrNotFound)

	r, _ := request(http.MethodGet, "/publishers/3", nil, session.Anonymous(), "id", "3")
	w := httptest.NewRecorder()

	c.Detail(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublisherDelete(t *testing.T) {
	pubs := new(MockPublisherService)
	c := NewPublisherController(pubs, new(MockGameService), testViews(t), testLogger())

	pubs.On("Delete", mock.Anything, int64(2)).Return(nil)

	r, sess := request(http.MethodGet, "/publishers/2/delete", nil, admin, "id", "2")
	w := httptest.NewRecorder()

	c.Delete(w, r)

	assert.Equal(t, "/publishers", w.Header().Get("Location"))
	assert.Equal(t, session.Success, onlyNotice(t, sess).Category)
	pubs.AssertExpectations(t)
}

func TestGenreDetail(t *testing.T) {
	genres := new(MockGenreService)
	c := NewGenreController(genres, testViews(t), testLogger())

	id := int64(2)
	genres.On("GetByID", mock.Anything, id).Return(&models.Genre{ID: 2, Name: "Shooter"}, nil)
	genres.On("GenresOfGame", mock.Anything, services.GenreOfGameFilter{GenreID: &id}).
		Return([]models.GenreOfGameRow{{GameID: 5, GenreID: 2, GameName: "Doom"}}, nil)

	r, _ := request(http.MethodGet, "/genres/2", nil, admin, "id", "2")
	w := httptest.NewRecorder()

	c.Detail(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, "Shooter", doc.Find("#name").Text())
	assert.Equal(t, "Doom", doc.Find("#games li.game a").Text())
	assert.Equal(t, "/genres/2/delete", doc.Find("#delete").AttrOr("href", ""))
}

func TestGenreCreateAndUpdate(t *testing.T) {
	genres := new(MockGenreService)
	c := NewGenreController(genres, testViews(t), testLogger())

	genres.On("Create", mock.Anything, &models.Genre{Name: "Horror"}).Return(int64(4), nil)
	genres.On("Update", mock.Anything, int64(4), models.GenrePatch{Name: models.Set("Survival horror")}).Return(nil)

	r, sess := request(http.MethodPost, "/genres/create", form(url.Values{"genre_name": {"Horror"}}), admin)
	w := httptest.NewRecorder()
	c.Create(w, r)
	assert.Equal(t, "/genres/4", w.Header().Get("Location"))
	onlyNotice(t, sess)

	r, sess = request(http.MethodPost, "/genres/4/update", form(url.Values{"genre_name": {"Survival horror"}}), admin, "id", "4")
	w = httptest.NewRecorder()
	c.Update(w, r)
	assert.Equal(t, "/genres/4", w.Header().Get("Location"))
	assert.Equal(t, session.Success, onlyNotice(t, sess).Category)

	genres.AssertExpectations(t)
}

func TestGenreUpdateMissing(t *testing.T) {
	genres := new(MockGenreService)
	c := NewGenreController(genres, testViews(t), testLogger())

	genres.On("Update", mock.Anything, int64(8), models.GenrePatch{Name: models.Set("Horror")}).Return(storage.ErrNotFound)

	r, _ := request(http.MethodPost, "/genres/8/update", form(url.Values{"genre_name": {"Horror"}}), admin, "id", "8")
	w := httptest.NewRecorder()
	c.Update(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	genres.AssertExpectations(t)
}
