package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/views"
)

type UserController struct {
	base
	users    UserServicer
	lists    ListServicer
	comments CommentServicer
}

func NewUserController(u UserServicer, l ListServicer, c CommentServicer, v Renderer, log *slog.Logger) *UserController {
	return &UserController{
		base:     base{views: v, log: log},
		users:    u,
		lists:    l,
		comments: c,
	}
}

// canAccess sends anonymous visitors to the login page and other users
// back to the catalog.
func (c *UserController) canAccess(w http.ResponseWriter, r *http.Request, userID int64) bool {
	me := identity(r)
	switch {
	case me.CanAccessUser(userID):
		return true
	case !me.IsAuthenticated():
		c.notice(w, r, session.Error, msgLoginFirst, "/login")
	default:
		c.notice(w, r, session.Error, "You cannot access this account.", "/games")
	}
	return false
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.List"

	me := identity(r)
	if !me.IsAdmin() {
		if !me.IsAuthenticated() {
			c.notice(w, r, session.Error, msgLoginFirst, "/login")
			return
		}
		c.notice(w, r, session.Error, msgAdminOnly, "/games")
		return
	}

	users, err := c.users.List(r.Context())
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}

	c.render(w, r, "users", "Users", views.UsersPage{Users: users})
}

func (c *UserController) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.Detail"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if !c.canAccess(w, r, id) {
		return
	}

	ctx := r.Context()
	u, err := c.users.GetByID(ctx, id)
	if err != nil {
		c.loadFailed(w, r, op, err, "/games")
		return
	}
	entries, err := c.lists.Entries(ctx, services.AssocFilter{UserID: &id})
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}
	comments, err := c.comments.Comments(ctx, services.AssocFilter{UserID: &id})
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}

	c.render(w, r, "user", u.Username, views.UserPage{
		User:      *u,
		Buckets:   models.GroupByListType(entries),
		Comments:  comments,
		CanEdit:   true,
		ListTypes: models.ListTypes,
		Ratings:   ratedChoices,
	})
}

func parseUserForm(r *http.Request) (models.UserPatch, error) {
	var p models.UserPatch

	if posted(r, "username") {
		name, err := requiredText(r.PostForm.Get("username"), "username")
		if err != nil {
			return p, err
		}
		p.Username = models.Set(name)
	}
	if posted(r, "email") {
		email, err := requiredText(r.PostForm.Get("email"), "email")
		if err != nil {
			return p, err
		}
		p.Email = models.Set(email)
	}

	newPassword := r.PostForm.Get("new_password")
	if newPassword != "" {
		if newPassword != r.PostForm.Get("confirm_password") {
			return p, errPasswordConfirm
		}
		p.Password = models.Set(newPassword)
		p.CurrentPassword = r.PostForm.Get("current_password")
	}

	return p, nil
}

var errPasswordConfirm = errors.Join(ErrValidation, errors.New("passwords do not match"))

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.Update"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if !c.canAccess(w, r, id) {
		return
	}
	back := userPath(id)
	ctx := r.Context()

	if r.Method == http.MethodGet {
		u, err := c.users.GetByID(ctx, id)
		if err != nil {
			c.loadFailed(w, r, op, err, "/games")
			return
		}
		c.render(w, r, "user_form", "Edit "+u.Username, views.UserForm{User: *u})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back+"/update")
		return
	}
	p, err := parseUserForm(r)
	switch {
	case errors.Is(err, errPasswordConfirm):
		c.notice(w, r, session.Error, "New passwords do not match.", back+"/update")
		return
	case err != nil:
		c.notice(w, r, session.Error, "Username and email cannot be empty.", back+"/update")
		return
	}

	err = c.users.Update(ctx, id, p)
	switch {
	case errors.Is(err, services.ErrPasswordMismatch):
		c.notice(w, r, session.Error, "Current password is wrong.", back+"/update")
		return
	case errors.Is(err, storage.ErrConstraint):
		c.notice(w, r, session.Error, "This username is already taken.", back+"/update")
		return
	case errors.Is(err, storage.ErrNotFound):
		c.notFound(w, r)
		return
	case err != nil:
		c.fail(w, r, op, err, back)
		return
	}

	sess := session.FromContext(ctx)
	if me := sess.Identity(); me.IsUser() && me.ID == id {
		if name, ok := p.Username.Value(); ok && name != me.Name {
			sess.SignIn(session.User(id, name))
		}
	}

	c.notice(w, r, session.Success, "Profile was updated.", back)
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.users.Delete"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if !c.canAccess(w, r, id) {
		return
	}

	if err := c.users.Delete(r.Context(), id); err != nil {
		c.fail(w, r, op, err, userPath(id))
		return
	}

	sess := session.FromContext(r.Context())
	if sess.Identity().IsUser() {
		sess.SignOut()
		c.notice(w, r, session.Success, "Your account was deleted.", "/games")
		return
	}

	c.notice(w, r, session.Success, "User was deleted.", "/users")
}
