package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthController(t *testing.T) (*AuthController, *MockUserService, *MockAdminService) {
	users, admins := new(MockUserService), new(MockAdminService)
	return NewAuthController(users, admins, testViews(t), testLogger()), users, admins
}

func TestLoginPage(t *testing.T) {
	c, _, _ := newAuthController(t)

	r, _ := request(http.MethodGet, "/login", nil, session.Anonymous())
	w := httptest.NewRecorder()

	c.Login(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)
	assert.Equal(t, "/login", doc.Find("#login-form").AttrOr("action", ""))
	assert.Equal(t, 1, doc.Find(`#login-form input[name="username"]`).Length())
	assert.Equal(t, "anonymous", doc.Find("#identity").AttrOr("data-role", ""))
}

func TestRegisterThenLogin(t *testing.T) {
	c, users, _ := newAuthController(t)

	users.On("Create", mock.Anything, "alice", "pw1", "alice@example.com").Return(int64(7), nil)
	users.On("Authenticate", mock.Anything, "alice", "pw1").
		Return(&models.User{ID: 7, Username: "alice"}, nil)
	users.On("Authenticate", mock.Anything, "alice", "wrong").
		Return(nil, services.ErrInvalidCredentials)

	body := form(url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"pw1"},
		"confirm_password": {"pw1"},
	})
	r, sess := request(http.MethodPost, "/register", body, session.Anonymous())
	w := httptest.NewRecorder()

	c.Register(w, r)

	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, session.Success, onlyNotice(t, sess).Category)
	assert.False(t, sess.Identity().IsAuthenticated())

	r, sess = request(http.MethodPost, "/login", form(url.Values{"username": {"alice"}, "password": {"pw1"}}), session.Anonymous())
	w = httptest.NewRecorder()

	c.Login(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/games", w.Header().Get("Location"))
	assert.Equal(t, session.User(7, "alice"), sess.Identity())
	assert.Equal(t, session.RoleUser, sess.Identity().Role)
	assert.Equal(t, session.Success, onlyNotice(t, sess).Category)

	r, sess = request(http.MethodPost, "/login", form(url.Values{"username": {"alice"}, "password": {"wrong"}}), session.Anonymous())
	w = httptest.NewRecorder()

	c.Login(w, r)

	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, session.RoleAnonymous, sess.Identity().Role)
	assert.Equal(t, session.Error, onlyNotice(t, sess).Category)

	users.AssertExpectations(t)
}

func TestRegisterRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		form url.Values
	}{
		{"missing email", url.Values{"username": {"alice"}, "password": {"pw1"}, "confirm_password": {"pw1"}}},
		{"blank username", url.Values{"username": {"  "}, "email": {"a@b.c"}, "password": {"pw1"}, "confirm_password": {"pw1"}}},
		{"confirmation mismatch", url.Values{"username": {"alice"}, "email": {"a@b.c"}, "password": {"pw1"}, "confirm_password": {"pw2"}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, users, _ := newAuthController(t)

			r, sess := request(http.MethodPost, "/register", form(tc.form), session.Anonymous())
			w := httptest.NewRecorder()

			c.Register(w, r)

			assert.Equal(t, "/register", w.Header().Get("Location"))
			assert.Equal(t, session.Error, onlyNotice(t, sess).Category)
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("taken username", func(t *testing.T) {
		c, users, _ := newAuthController(t)
		users.On("Create", mock.Anything, "alice", "pw1", "a@b.c").Return(int64(0), storage.ErrConstraint)

		body := form(url.Values{"username": {"alice"}, "email": {"a@b.c"}, "password": {"pw1"}, "confirm_password": {"pw1"}})
		r, sess := request(http.MethodPost, "/register", body, session.Anonymous())
		w := httptest.NewRecorder()

		c.Register(w, r)

		assert.Equal(t, "This username is already taken.", onlyNotice(t, sess).Message)
	})
}

func TestAdminLogin(t *testing.T) {
	c, users, admins := newAuthController(t)

	admins.On("Authenticate", mock.Anything, "root", "secret").Return(&models.Admin{ID: 1, Login: "root"}, nil)

	r, sess := request(http.MethodPost, "/admin", form(url.Values{"login": {"root"}, "password": {"secret"}}), session.Anonymous())
	w := httptest.NewRecorder()

	c.AdminLogin(w, r)

	assert.Equal(t, "/games", w.Header().Get("Location"))
	assert.True(t, sess.Identity().IsAdmin())
	assert.Equal(t, "root", sess.Identity().Name)
	users.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAlreadyLoggedIn(t *testing.T) {
	c, users, _ := newAuthController(t)

	r, sess := request(http.MethodPost, "/login", form(url.Values{"username": {"bob"}, "password": {"pw"}}), alice)
	w := httptest.NewRecorder()

	c.Login(w, r)

	assert.Equal(t, "/games", w.Header().Get("Location"))
	assert.Equal(t, session.Info, onlyNotice(t, sess).Category)
	assert.Equal(t, alice, sess.Identity())
	users.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	c, _, _ := newAuthController(t)

	r, sess := request(http.MethodGet, "/logout", nil, alice)
	w := httptest.NewRecorder()

	c.Logout(w, r)

	assert.Equal(t, "/games", w.Header().Get("Location"))
	assert.Equal(t, session.Anonymous(), sess.Identity())
	assert.Equal(t, session.Info, onlyNotice(t, sess).Category)
}
