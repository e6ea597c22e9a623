package controllers

import (
	"log/slog"
	"net/http"

	"games_catalog/internal/session"

	"github.com/go-chi/chi/v5"
)

// ListController edits entries from the owner's profile page. Routes carry
// the entry key as "{gameID}_{userID}".
type ListController struct {
	base
	lists ListServicer
}

func NewListController(l ListServicer, v Renderer, log *slog.Logger) *ListController {
	return &ListController{base: base{views: v, log: log}, lists: l}
}

// owner reads the pair and checks that the caller is the user it names.
func (c *ListController) owner(w http.ResponseWriter, r *http.Request) (gameID, userID int64, ok bool) {
	gameID, userID, err := parsePair(chi.URLParam(r, "pair"))
	if err != nil {
		c.notFound(w, r)
		return 0, 0, false
	}

	me := identity(r)
	switch {
	case me.IsAdmin():
		c.notice(w, r, session.Error, msgAdminNoList, gamePath(gameID))
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

func (c *ListController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.lists.Update"

	gameID, userID, ok := c.owner(w, r)
	if !ok {
		return
	}
	back := userPath(userID)

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}

	saveListEntry(&c.base, w, r, c.lists, op, gameID, userID, back)
}

func (c *ListController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.lists.Delete"

	gameID, userID, ok := c.owner(w, r)
	if !ok {
		return
	}
	back := userPath(userID)

	if err := c.lists.Delete(r.Context(), gameID, userID); err != nil {
		c.fail(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Removed from your lists.", back)
}
