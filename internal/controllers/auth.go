package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/views"
)

type AuthController struct {
	base
	users  UserServicer
	admins AdminAuthenticator
}

func NewAuthController(u UserServicer, a AdminAuthenticator, v Renderer, log *slog.Logger) *AuthController {
	return &AuthController{base: base{views: v, log: log}, users: u, admins: a}
}

// alreadyIn keeps signed in visitors away from the login and register pages.
func (c *AuthController) alreadyIn(w http.ResponseWriter, r *http.Request) bool {
	if !identity(r).IsAuthenticated() {
		return false
	}
	c.notice(w, r, session.Info, "You are already logged in.", "/games")
	return true
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Login"

	if c.alreadyIn(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		c.render(w, r, "login", "Log in", views.LoginPage{Action: "/login"})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/login")
		return
	}

	u, err := c.users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.notice(w, r, session.Error, "Wrong username or password.", "/login")
		return
	case err != nil:
		c.fail(w, r, op, err, "/login")
		return
	}

	sess := session.FromContext(r.Context())
	sess.SignIn(session.User(u.ID, u.Username))
	c.log.Info("user logged in", slog.Int64("id", u.ID))

	c.notice(w, r, session.Success, "Welcome back, "+u.Username+"!", "/games")
}

func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.AdminLogin"

	if c.alreadyIn(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		c.render(w, r, "login", "Admin login", views.LoginPage{Action: "/admin", Admin: true})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/admin")
		return
	}

	a, err := c.admins.Authenticate(r.Context(), r.PostForm.Get("login"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.notice(w, r, session.Error, "Wrong login or password.", "/admin")
		return
	case err != nil:
		c.fail(w, r, op, err, "/admin")
		return
	}

	session.FromContext(r.Context()).SignIn(session.Admin(a.ID, a.Login))
	c.log.Info("admin logged in", slog.Int64("id", a.ID))

	c.notice(w, r, session.Success, "Logged in as administrator.", "/games")
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).SignOut()
	c.notice(w, r, session.Info, "You have been logged out.", "/games")
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.auth.Register"

	if c.alreadyIn(w, r) {
		return
	}
	if r.Method == http.MethodGet {
		c.render(w, r, "register", "Register", nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/register")
		return
	}

	username, errName := requiredText(r.PostForm.Get("username"), "username")
	email, errEmail := requiredText(r.PostForm.Get("email"), "email")
	password := r.PostForm.Get("password")
	if errName != nil || errEmail != nil || password == "" {
		c.notice(w, r, session.Error, "Username, email and password are required.", "/register")
		return
	}
	if password != r.PostForm.Get("confirm_password") {
		c.notice(w, r, session.Error, "Passwords do not match.", "/register")
		return
	}

	id, err := c.users.Create(r.Context(), username, password, email)
	switch {
	case errors.Is(err, storage.ErrConstraint):
		c.notice(w, r, session.Error, "This username is already taken.", "/register")
		return
	case err != nil:
		c.fail(w, r, op, err, "/register")
		return
	}

	c.log.Info("user registered", slog.Int64("id", id))
	c.notice(w, r, session.Success, "Registration complete, you can log in now.", "/login")
}
