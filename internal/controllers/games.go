package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/storage/uploads"
	"games_catalog/internal/views"
)

const maxFormMemory = uploads.MaxCoverSize + 1<<20

type GameController struct {
	base
	games      GameServicer
	developers DeveloperServicer
	publishers PublisherServicer
	genres     GenreServicer
	lists      ListServicer
	comments   CommentServicer
	covers     uploads.ICovers
}

type GameDeps struct {
	Games      GameServicer
	Developers DeveloperServicer
	Publishers PublisherServicer
	Genres     GenreServicer
	Lists      ListServicer
	Comments   CommentServicer
	Covers     uploads.ICovers
}

func NewGameController(d GameDeps, v Renderer, log *slog.Logger) *GameController {
	return &GameController{
		base:       base{views: v, log: log},
		games:      d.Games,
		developers: d.Developers,
		publishers: d.Publishers,
		genres:     d.Genres,
		lists:      d.Lists,
		comments:   d.Comments,
		covers:     d.Covers,
	}
}

// parseGameQuery reads the listing filters. "none" and empty values are
// left out.
func parseGameQuery(r *http.Request) (services.GameFilter, services.GameOrder, services.Direction, views.GamesQuery, error) {
	q := r.URL.Query()
	raw := views.GamesQuery{
		DeveloperID:    q.Get("id_developer"),
		PublisherID:    q.Get("id_publisher"),
		SearchText:     q.Get("search_text"),
		MinRating:      q.Get("min_rating"),
		MaxRating:      q.Get("max_rating"),
		MinReleaseDate: q.Get("min_release_date"),
		MaxReleaseDate: q.Get("max_release_date"),
		OrderBy:        q.Get("order_by"),
		OrderDirection: strings.ToLower(q.Get("order_direction")),
	}

	var (
		f   services.GameFilter
		err error
	)
	if f.DeveloperID, err = optionalID(raw.DeveloperID); err != nil {
		return f, "", "", raw, err
	}
	if f.PublisherID, err = optionalID(raw.PublisherID); err != nil {
		return f, "", "", raw, err
	}
	f.SearchText = optionalText(raw.SearchText)
	if f.MinRating, err = optionalFloat(raw.MinRating); err != nil {
		return f, "", "", raw, err
	}
	if f.MaxRating, err = optionalFloat(raw.MaxRating); err != nil {
		return f, "", "", raw, err
	}
	if f.MinReleaseDate, err = optionalDate(raw.MinReleaseDate); err != nil {
		return f, "", "", raw, err
	}
	if f.MaxReleaseDate, err = optionalDate(raw.MaxReleaseDate); err != nil {
		return f, "", "", raw, err
	}

	order, err := services.ParseGameOrder(raw.OrderBy)
	if err != nil {
		return f, "", "", raw, err
	}
	dir, err := services.ParseDirection(raw.OrderDirection)
	if err != nil {
		return f, "", "", raw, err
	}

	return f, order, dir, raw, nil
}

func (c *GameController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.List"

	f, order, dir, raw, err := parseGameQuery(r)
	if err != nil {
		c.log.Debug("bad game query", slog.String("operation", op), slog.String("error", err.Error()))
		c.notice(w, r, session.Error, "Invalid filter or sort parameters.", "/")
		return
	}

	games, err := c.games.List(r.Context(), f, order, dir)
	if err != nil {
		c.listFailed(w, r, op, err)
		return
	}
	devs, err := c.developers.List(r.Context())
	if err != nil {
		c.listFailed(w, r, op, err)
		return
	}
	pubs, err := c.publishers.List(r.Context())
	if err != nil {
		c.listFailed(w, r, op, err)
		return
	}

	c.render(w, r, "games", "Games", views.GamesPage{
		Games:      games,
		Developers: devs,
		Publishers: pubs,
		Query:      raw,
	})
}

// listFailed cannot redirect to the listing itself, so it renders the empty
// listing with the failure notice.
func (c *GameController) listFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	c.log.Error(msgFailed, slog.String("operation", op), slog.String("error", err.Error()))
	session.FromContext(r.Context()).Flash(session.Error, msgFailed)
	c.renderStatus(w, r, http.StatusInternalServerError, "games", "Games", views.GamesPage{})
}

func (c *GameController) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Detail"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}

	ctx := r.Context()
	game, err := c.games.GetByID(ctx, id)
	if err != nil {
		c.loadFailed(w, r, op, err, "/games")
		return
	}

	genres, err := c.genres.GenresOfGame(ctx, services.GenreOfGameFilter{GameID: &id})
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}
	comments, err := c.comments.Comments(ctx, services.AssocFilter{GameID: &id})
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}

	page := views.GamePage{
		Game:      *game,
		Genres:    genres,
		Comments:  comments,
		ListTypes: models.ListTypes,
		Ratings:   ratedChoices,
	}

	if me := identity(r); me.IsUser() {
		entry, err := c.lists.Get(ctx, id, me.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			c.fail(w, r, op, err, "/games")
			return
		}
		page.Entry = entry

		mine, err := c.comments.Get(ctx, id, me.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			c.fail(w, r, op, err, "/games")
			return
		}
		page.MyComment = mine
	}

	if c.covers != nil {
		_, err := c.covers.Path(id)
		page.HasCover = err == nil
	}

	c.render(w, r, "game", game.Name, page)
}

// SaveListEntry puts the game on one of the user's lists, or takes it off
// with the "delete" list type.
func (c *GameController) SaveListEntry(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.SaveListEntry"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	back := gamePath(id)

	me := identity(r)
	switch {
	case me.IsAdmin():
		c.notice(w, r, session.Error, msgAdminNoList, back)
		return
	case !me.IsUser():
		c.notice(w, r, session.Error, msgLoginFirst, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}

	saveListEntry(&c.base, w, r, c.lists, op, id, me.ID, back)
}

// saveListEntry is shared by the game page form and the user page form.
func saveListEntry(b *base, w http.ResponseWriter, r *http.Request, lists ListServicer, op string, gameID, userID int64, back string) {
	listType := strings.TrimSpace(r.PostForm.Get("list_type"))
	if listType == "delete" {
		if err := lists.Delete(r.Context(), gameID, userID); err != nil {
			b.fail(w, r, op, err, back)
			return
		}
		b.notice(w, r, session.Success, "Removed from your lists.", back)
		return
	}

	t, err := models.ParseListType(listType)
	if err != nil {
		b.notice(w, r, session.Error, "Unknown list.", back)
		return
	}
	rated, err := parseRated(r.PostForm.Get("rated"))
	if err != nil {
		b.notice(w, r, session.Error, fmt.Sprintf("Rating must be between %d and %d.", minRated, maxRated), back)
		return
	}

	entry := &models.ListEntry{GameID: gameID, UserID: userID, ListType: t, Rated: rated}
	if err := lists.Save(r.Context(), entry); err != nil {
		b.fail(w, r, op, err, back)
		return
	}

	b.notice(w, r, session.Success, "Your list was updated.", back)
}

func (c *GameController) formPage(w http.ResponseWriter, r *http.Request, op string, form views.GameForm, back string) {
	ctx := r.Context()

	devs, err := c.developers.List(ctx)
	if err != nil {
		c.fail(w, r, op, err, back)
		return
	}
	pubs, err := c.publishers.List(ctx)
	if err != nil {
		c.fail(w, r, op, err, back)
		return
	}
	genres, err := c.genres.List(ctx)
	if err != nil {
		c.fail(w, r, op, err, back)
		return
	}

	form.Developers = devs
	form.Publishers = pubs
	form.Genres = genres
	if form.Selected == nil {
		form.Selected = map[int64]bool{}
	}

	title := "New game"
	if form.IsEdit {
		title = "Edit " + form.Name
	}
	c.render(w, r, "game_form", title, form)
}

func parseMultipart(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// readCover returns the uploaded cover, or nil when none was sent.
func readCover(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("cover")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxCoverSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// saveCover stores an uploaded cover. A failure is logged and reported in
// the notice but does not undo the game change.
func (c *GameController) saveCover(op string, id int64, cover []byte) bool {
	if cover == nil || c.covers == nil {
		return true
	}

	if err := c.covers.Save(id, cover); err != nil {
		c.log.Warn("failed to save cover",
			slog.String("operation", op),
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	if !c.requireAdmin(w, r, "/games") {
		return
	}

	if r.Method == http.MethodGet {
		c.formPage(w, r, op, views.GameForm{Action: "/games/create"}, "/games")
		return
	}

	if err := parseMultipart(r); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/games/create")
		return
	}
	form, err := parseGameForm(r)
	if err != nil {
		c.notice(w, r, session.Error, "Please check the game fields.", "/games/create")
		return
	}
	game, err := form.game()
	if err != nil {
		c.notice(w, r, session.Error, "Name, release date and developer are required.", "/games/create")
		return
	}
	cover, err := readCover(r)
	if err != nil {
		c.notice(w, r, session.Error, "The cover image could not be read.", "/games/create")
		return
	}

	ctx := r.Context()
	id, err := c.games.Create(ctx, game)
	if err != nil {
		c.fail(w, r, op, err, "/games/create")
		return
	}

	add, _ := services.DiffGenres(nil, form.genres)
	for _, genreID := range add {
		if err := c.genres.AddGenreOfGame(ctx, id, genreID); err != nil {
			c.fail(w, r, op, err, gamePath(id))
			return
		}
	}

	if !c.saveCover(op, id, cover) {
		c.notice(w, r, session.Info, "Game was added, but the cover image could not be saved.", gamePath(id))
		return
	}
	c.notice(w, r, session.Success, fmt.Sprintf("Game %q was added.", game.Name), gamePath(id))
}

func (c *GameController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Update"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	back := gamePath(id)

	if !c.requireAdmin(w, r, back) {
		return
	}

	ctx := r.Context()
	if r.Method == http.MethodGet {
		game, err := c.games.GetByID(ctx, id)
		if err != nil {
			c.loadFailed(w, r, op, err, "/games")
			return
		}
		current, err := c.genres.GenresOfGame(ctx, services.GenreOfGameFilter{GameID: &id})
		if err != nil {
			c.fail(w, r, op, err, back)
			return
		}

		form := views.GameForm{
			Action:      back + "/update",
			IsEdit:      true,
			ID:          game.ID,
			Name:        game.Name,
			Description: deref(game.Description),
			ReleaseDate: game.ReleaseDate.Format(time.DateOnly),
			Rating:      strconv.FormatFloat(game.Rating, 'f', -1, 64),
			DeveloperID: game.DeveloperID,
			PublisherID: game.PublisherID,
			Selected:    make(map[int64]bool, len(current)),
		}
		for _, g := range current {
			form.Selected[g.GenreID] = true
		}
		if c.covers != nil {
			_, err := c.covers.Path(id)
			form.HasCover = err == nil
		}

		c.formPage(w, r, op, form, back)
		return
	}

	if err := parseMultipart(r); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back+"/update")
		return
	}
	form, err := parseGameForm(r)
	if err != nil {
		c.notice(w, r, session.Error, "Please check the game fields.", back+"/update")
		return
	}
	cover, err := readCover(r)
	if err != nil {
		c.notice(w, r, session.Error, "The cover image could not be read.", back+"/update")
		return
	}

	if err := c.games.Update(ctx, id, form.patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.notFound(w, r)
			return
		}
		c.fail(w, r, op, err, back)
		return
	}

	if form.withGens {
		if err := c.syncGenres(r, id, form.genres); err != nil {
			c.fail(w, r, op, err, back)
			return
		}
	}

	if !c.saveCover(op, id, cover) {
		c.notice(w, r, session.Info, "Game was updated, but the cover image could not be saved.", back)
		return
	}
	c.notice(w, r, session.Success, "Game was updated.", back)
}

// syncGenres makes the game's genres equal to wanted, one call per changed
// association.
func (c *GameController) syncGenres(r *http.Request, gameID int64, wanted []int64) error {
	ctx := r.Context()

	rows, err := c.genres.GenresOfGame(ctx, services.GenreOfGameFilter{GameID: &gameID})
	if err != nil {
		return err
	}
	current := make([]int64, 0, len(rows))
	for _, row := range rows {
		current = append(current, row.GenreID)
	}

	add, remove := services.DiffGenres(current, wanted)
	for _, genreID := range add {
		if err := c.genres.AddGenreOfGame(ctx, gameID, genreID); err != nil {
			return err
		}
	}
	for _, genreID := range remove {
		if err := c.genres.RemoveGenreOfGame(ctx, gameID, genreID); err != nil {
			return err
		}
	}

	return nil
}

func (c *GameController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Delete"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}

	if !c.requireAdmin(w, r, gamePath(id)) {
		return
	}

	if err := c.games.Delete(r.Context(), id); err != nil {
		c.fail(w, r, op, err, gamePath(id))
		return
	}

	if c.covers != nil {
		if err := c.covers.Delete(id); err != nil {
			c.log.Warn("failed to delete cover",
				slog.String("operation", op),
				slog.Int64("id", id),
				slog.String("error", err.Error()))
		}
	}

	c.notice(w, r, session.Success, "Game was deleted.", "/games")
}

func (c *GameController) Cover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok || c.covers == nil {
		http.NotFound(w, r)
		return
	}

	p, err := c.covers.Path(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, p)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
