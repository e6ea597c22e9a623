package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"games_catalog/internal/session"
	"games_catalog/internal/storage"

	"github.com/go-chi/chi/v5"
)

const maxCommentLength = 2000

type CommentController struct {
	base
	comments CommentServicer
}

func NewCommentController(cs CommentServicer, v Renderer, log *slog.Logger) *CommentController {
	return &CommentController{base: base{views: v, log: log}, comments: cs}
}

// author reads the pair and checks that the caller wrote, or may write, the
// comment it names.
func (c *CommentController) author(w http.ResponseWriter, r *http.Request) (gameID, userID int64, ok bool) {
	gameID, userID, err := parsePair(chi.URLParam(r, "pair"))
	if err != nil {
		c.notFound(w, r)
		return 0, 0, false
	}

	me := identity(r)
	switch {
	case me.IsAdmin():
		c.notice(w, r, session.Error, msgAdminNoComm, gamePath(gameID))
		return 0, 0, false
	case !me.IsUser():
		c.notice(w, r, session.Error, msgLoginFirst, "/login")
		return 0, 0, false
	case me.ID != userID:
		c.notice(w, r, session.Error, msgNotYours, gamePath(gameID))
		return 0, 0, false
	}

	return gameID, userID, true
}

func commentText(r *http.Request) (string, bool) {
	text, err := requiredText(r.PostForm.Get("text"), "text")
	if err != nil || len(text) > maxCommentLength {
		return "", false
	}
	return text, true
}

func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.comments.Create"

	gameID, userID, ok := c.author(w, r)
	if !ok {
		return
	}
	back := gamePath(gameID)

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}
	text, ok := commentText(r)
	if !ok {
		c.notice(w, r, session.Error, "A comment needs some text.", back)
		return
	}

	ctx := r.Context()
	_, err := c.comments.Get(ctx, gameID, userID)
	switch {
	case err == nil:
		c.notice(w, r, session.Info, "You have already commented on this game.", back)
		return
	case !errors.Is(err, storage.ErrNotFound):
		c.fail(w, r, op, err, back)
		return
	}

	err = c.comments.Add(ctx, gameID, userID, text)
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		c.notice(w, r, session.Info, "You have already commented on this game.", back)
		return
	case err != nil:
		c.fail(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Comment was added.", back)
}

func (c *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.comments.Update"

	gameID, userID, ok := c.author(w, r)
	if !ok {
		return
	}
	back := gamePath(gameID)

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}
	text, ok := commentText(r)
	if !ok {
		c.notice(w, r, session.Error, "A comment needs some text.", back)
		return
	}

	if err := c.comments.Update(r.Context(), gameID, userID, text); err != nil {
		c.fail(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Comment was updated.", back)
}

// Delete is open to the author and to admins.
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.comments.Delete"

	gameID, userID, err := parsePair(chi.URLParam(r, "pair"))
	if err != nil {
		c.notFound(w, r)
		return
	}
	back := gamePath(gameID)

	me := identity(r)
	if !me.IsAdmin() && !(me.IsUser() && me.ID == userID) {
		if !me.IsAuthenticated() {
			c.notice(w, r, session.Error, msgLoginFirst, "/login")
			return
		}
		c.notice(w, r, session.Error, msgNotYours, back)
		return
	}

	if err := c.comments.Delete(r.Context(), gameID, userID); err != nil {
		c.fail(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Comment was deleted.", back)
}
