package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"games_catalog/internal/models"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/views"
)

const msgInUse = "It is still referenced by other records and cannot be deleted."

// deleteFailed tells a blocked delete apart from a store failure.
func (b *base) deleteFailed(w http.ResponseWriter, r *http.Request, op string, err error, back string) {
	if errors.Is(err, storage.ErrConstraint) {
		b.notice(w, r, session.Error, msgInUse, back)
		return
	}
	b.fail(w, r, op, err, back)
}

type DeveloperController struct {
	base
	developers DeveloperServicer
	games      GameServicer
}

func NewDeveloperController(d DeveloperServicer, g GameServicer, v Renderer, log *slog.Logger) *DeveloperController {
	return &DeveloperController{base: base{views: v, log: log}, developers: d, games: g}
}

func developerPath(id int64) string { return "/developers/" + strconv.FormatInt(id, 10) }

func (c *DeveloperController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.developers.List"

	devs, err := c.developers.List(r.Context())
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}

	c.render(w, r, "developers", "Developers", views.DevelopersPage{Developers: devs})
}

func (c *DeveloperController) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.developers.Detail"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}

	d, err := c.developers.GetByID(r.Context(), id)
	if err != nil {
		c.loadFailed(w, r, op, err, "/developers")
		return
	}
	games, err := c.games.List(r.Context(), services.GameFilter{DeveloperID: &id}, services.OrderByID, services.Asc)
	if err != nil {
		c.fail(w, r, op, err, "/developers")
		return
	}

	c.render(w, r, "developer", d.StudioName, views.DeveloperPage{Developer: *d, Games: games})
}

func parseDeveloperForm(r *http.Request) (models.DeveloperPatch, error) {
	var p models.DeveloperPatch
	if posted(r, "studio_name") {
		name, err := requiredText(r.PostForm.Get("studio_name"), "studio name")
		if err != nil {
			return p, err
		}
		p.StudioName = models.Set(name)
	}
	if posted(r, "country") {
		p.Country = models.SetPtr(optionalText(r.PostForm.Get("country")))
	}
	return p, nil
}

func (c *DeveloperController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.developers.Create"

	if !c.requireAdmin(w, r, "/developers") {
		return
	}
	if r.Method == http.MethodGet {
		c.render(w, r, "developer_form", "New developer", views.DeveloperForm{Action: "/developers/create"})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/developers/create")
		return
	}
	p, err := parseDeveloperForm(r)
	name, ok := p.StudioName.Value()
	if err != nil || !ok {
		c.notice(w, r, session.Error, "Studio name is required.", "/developers/create")
		return
	}

	d := &models.Developer{StudioName: name}
	if v, ok := p.Country.Value(); ok {
		d.Country = &v
	}
	id, err := c.developers.Create(r.Context(), d)
	if err != nil {
		c.fail(w, r, op, err, "/developers")
		return
	}

	c.notice(w, r, session.Success, "Developer was added.", developerPath(id))
}

func (c *DeveloperController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.developers.Update"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	back := developerPath(id)

	if !c.requireAdmin(w, r, back) {
		return
	}
	if r.Method == http.MethodGet {
		d, err := c.developers.GetByID(r.Context(), id)
		if err != nil {
			c.loadFailed(w, r, op, err, "/developers")
			return
		}
		c.render(w, r, "developer_form", "Edit "+d.StudioName, views.DeveloperForm{Action: back + "/update", Developer: *d})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}
	p, err := parseDeveloperForm(r)
	if err != nil {
		c.notice(w, r, session.Error, "Studio name is required.", back+"/update")
		return
	}
	if err := c.developers.Update(r.Context(), id, p); err != nil {
		c.loadFailed(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Developer was updated.", back)
}

func (c *DeveloperController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.developers.Delete"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if !c.requireAdmin(w, r, developerPath(id)) {
		return
	}

	if err := c.developers.Delete(r.Context(), id); err != nil {
		c.deleteFailed(w, r, op, err, developerPath(id))
		return
	}

	c.notice(w, r, session.Success, "Developer was deleted.", "/developers")
}

type PublisherController struct {
	base
	publishers PublisherServicer
	games      GameServicer
}

func NewPublisherController(p PublisherServicer, g GameServicer, v Renderer, log *slog.Logger) *PublisherController {
	return &PublisherController{base: base{views: v, log: log}, publishers: p, games: g}
}

func publisherPath(id int64) string { return "/publishers/" + strconv.FormatInt(id, 10) }

func (c *PublisherController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.publishers.List"

	pubs, err := c.publishers.List(r.Context())
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}

	c.render(w, r, "publishers", "Publishers", views.PublishersPage{Publishers: pubs})
}

func (c *PublisherController) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.publishers.Detail"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}

	p, err := c.publishers.GetByID(r.Context(), id)
	if err != nil {
		c.loadFailed(w, r, op, err, "/publishers")
		return
	}
	games, err := c.games.List(r.Context(), services.GameFilter{PublisherID: &id}, services.OrderByID, services.Asc)
	if err != nil {
		c.fail(w, r, op, err, "/publishers")
		return
	}

	c.render(w, r, "publisher", p.PublisherName, views.PublisherPage{Publisher: *p, Games: games})
}

func parsePublisherForm(r *http.Request) (models.PublisherPatch, error) {
	var p models.PublisherPatch
	if posted(r, "publisher_name") {
		name, err := requiredText(r.PostForm.Get("publisher_name"), "publisher name")
		if err != nil {
			return p, err
		}
		p.PublisherName = models.Set(name)
	}
	if posted(r, "country") {
		p.Country = models.SetPtr(optionalText(r.PostForm.Get("country")))
	}
	return p, nil
}

func (c *PublisherController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.publishers.Create"

	if !c.requireAdmin(w, r, "/publishers") {
		return
	}
	if r.Method == http.MethodGet {
		c.render(w, r, "publisher_form", "New publisher", views.PublisherForm{Action: "/publishers/create"})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/publishers/create")
		return
	}
	patch, err := parsePublisherForm(r)
	name, ok := patch.PublisherName.Value()
	if err != nil || !ok {
		c.notice(w, r, session.Error, "Publisher name is required.", "/publishers/create")
		return
	}

	pub := &models.Publisher{PublisherName: name}
	if v, ok := patch.Country.Value(); ok {
		pub.Country = &v
	}
	id, err := c.publishers.Create(r.Context(), pub)
	if err != nil {
		c.fail(w, r, op, err, "/publishers")
		return
	}

	c.notice(w, r, session.Success, "Publisher was added.", publisherPath(id))
}

func (c *PublisherController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.publishers.Update"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	back := publisherPath(id)

	if !c.requireAdmin(w, r, back) {
		return
	}
	if r.Method == http.MethodGet {
		p, err := c.publishers.GetByID(r.Context(), id)
		if err != nil {
			c.loadFailed(w, r, op, err, "/publishers")
			return
		}
		c.render(w, r, "publisher_form", "Edit "+p.PublisherName, views.PublisherForm{Action: back + "/update", Publisher: *p})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}
	patch, err := parsePublisherForm(r)
	if err != nil {
		c.notice(w, r, session.Error, "Publisher name is required.", back+"/update")
		return
	}
	if err := c.publishers.Update(r.Context(), id, patch); err != nil {
		c.loadFailed(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Publisher was updated.", back)
}

// Delete removes the publisher; its games keep existing without one.
func (c *PublisherController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.publishers.Delete"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if !c.requireAdmin(w, r, publisherPath(id)) {
		return
	}

	if err := c.publishers.Delete(r.Context(), id); err != nil {
		c.deleteFailed(w, r, op, err, publisherPath(id))
		return
	}

	c.notice(w, r, session.Success, "Publisher was deleted.", "/publishers")
}

type GenreController struct {
	base
	genres GenreServicer
}

func NewGenreController(g GenreServicer, v Renderer, log *slog.Logger) *GenreController {
	return &GenreController{base: base{views: v, log: log}, genres: g}
}

func genrePath(id int64) string { return "/genres/" + strconv.FormatInt(id, 10) }

func (c *GenreController) List(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.genres.List"

	genres, err := c.genres.List(r.Context())
	if err != nil {
		c.fail(w, r, op, err, "/games")
		return
	}

	c.render(w, r, "genres", "Genres", views.GenresPage{Genres: genres})
}

func (c *GenreController) Detail(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.genres.Detail"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}

	g, err := c.genres.GetByID(r.Context(), id)
	if err != nil {
		c.loadFailed(w, r, op, err, "/genres")
		return
	}
	games, err := c.genres.GenresOfGame(r.Context(), services.GenreOfGameFilter{GenreID: &id})
	if err != nil {
		c.fail(w, r, op, err, "/genres")
		return
	}

	c.render(w, r, "genre", g.Name, views.GenrePage{Genre: *g, Games: games})
}

func (c *GenreController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.genres.Create"

	if !c.requireAdmin(w, r, "/genres") {
		return
	}
	if r.Method == http.MethodGet {
		c.render(w, r, "genre_form", "New genre", views.GenreForm{Action: "/genres/create"})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", "/genres/create")
		return
	}
	name, err := requiredText(r.PostForm.Get("genre_name"), "genre name")
	if err != nil {
		c.notice(w, r, session.Error, "Genre name is required.", "/genres/create")
		return
	}

	id, err := c.genres.Create(r.Context(), &models.Genre{Name: name})
	if err != nil {
		c.fail(w, r, op, err, "/genres")
		return
	}

	c.notice(w, r, session.Success, "Genre was added.", genrePath(id))
}

func (c *GenreController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.genres.Update"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	back := genrePath(id)

	if !c.requireAdmin(w, r, back) {
		return
	}
	if r.Method == http.MethodGet {
		g, err := c.genres.GetByID(r.Context(), id)
		if err != nil {
			c.loadFailed(w, r, op, err, "/genres")
			return
		}
		c.render(w, r, "genre_form", "Edit "+g.Name, views.GenreForm{Action: back + "/update", Genre: *g})
		return
	}

	if err := r.ParseForm(); err != nil {
		c.notice(w, r, session.Error, "Invalid form.", back)
		return
	}
	var p models.GenrePatch
	if posted(r, "genre_name") {
		name, err := requiredText(r.PostForm.Get("genre_name"), "genre name")
		if err != nil {
			c.notice(w, r, session.Error, "Genre name is required.", back+"/update")
			return
		}
		p.Name = models.Set(name)
	}
	if err := c.genres.Update(r.Context(), id, p); err != nil {
		c.loadFailed(w, r, op, err, back)
		return
	}

	c.notice(w, r, session.Success, "Genre was updated.", back)
}

func (c *GenreController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.genres.Delete"

	id, ok := pathID(r, "id")
	if !ok {
		c.notFound(w, r)
		return
	}
	if !c.requireAdmin(w, r, genrePath(id)) {
		return
	}

	if err := c.genres.Delete(r.Context(), id); err != nil {
		c.deleteFailed(w, r, op, err, genrePath(id))
		return
	}

	c.notice(w, r, session.Success, "Genre was deleted.", "/genres")
}
