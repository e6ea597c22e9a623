package routes

import (
	"log/slog"
	"net/http"

	"games_catalog/internal/auth"
	"games_catalog/internal/controllers"
	mw "games_catalog/internal/middleware"
	"games_catalog/internal/services"
	"games_catalog/internal/session"
	"games_catalog/internal/storage"
	"games_catalog/internal/storage/uploads"
	"games_catalog/internal/views"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Storage  *storage.Storage
	Covers   uploads.ICovers
	Sessions session.Store
	Hasher   auth.Hasher
	Views    *views.Renderer
}

func SetupRouter(log *slog.Logger, d Deps) *chi.Mux {
	r := chi.NewRouter()

	sessions := mw.NewSessionMiddleware(d.Sessions, log)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(sessions.LoadSession)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	gameService := services.NewGameService(d.Storage, log)
	developerService := services.NewDeveloperService(d.Storage, log)
	publisherService := services.NewPublisherService(d.Storage, log)
	genreService := services.NewGenreService(d.Storage, log)
	userService := services.NewUserService(d.Storage, d.Hasher, log)
	adminService := services.NewAdminService(d.Storage, d.Hasher, log)
	listService := services.NewListService(d.Storage, log)
	commentService := services.NewCommentService(d.Storage, log)

	gameController := controllers.NewGameController(controllers.GameDeps{
		Games:      gameService,
		Developers: developerService,
		Publishers: publisherService,
		Genres:     genreService,
		Lists:      listService,
		Comments:   commentService,
		Covers:     d.Covers,
	}, d.Views, log)
	developerController := controllers.NewDeveloperController(developerService, gameService, d.Views, log)
	publisherController := controllers.NewPublisherController(publisherService, gameService, d.Views, log)
	genreController := controllers.NewGenreController(genreService, d.Views, log)
	userController := controllers.NewUserController(userService, listService, commentService, d.Views, log)
	listController := controllers.NewListController(listService, d.Views, log)
	commentController := controllers.NewCommentController(commentService, d.Views, log)
	authController := controllers.NewAuthController(userService, adminService, d.Views, log)

	r.Get("/", gameController.List)

	r.Route("/games", func(r chi.Router) {
		r.Get("/", gameController.List)
		r.Get("/create", gameController.Create)
		r.Post("/create", gameController.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", gameController.Detail)
			r.Post("/", gameController.SaveListEntry)
			r.Get("/update", gameController.Update)
			r.Post("/update", gameController.Update)
			r.Get("/delete", gameController.Delete)
			r.Get("/cover", gameController.Cover)
		})
	})

	r.Route("/developers", func(r chi.Router) {
		r.Get("/", developerController.List)
		r.Get("/create", developerController.Create)
		r.Post("/create", developerController.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", developerController.Detail)
			r.Get("/update", developerController.Update)
			r.Post("/update", developerController.Update)
			r.Get("/delete", developerController.Delete)
		})
	})

	r.Route("/publishers", func(r chi.Router) {
		r.Get("/", publisherController.List)
		r.Get("/create", publisherController.Create)
		r.Post("/create", publisherController.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", publisherController.Detail)
			r.Get("/update", publisherController.Update)
			r.Post("/update", publisherController.Update)
			r.Get("/delete", publisherController.Delete)
		})
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", genreController.List)
		r.Get("/create", genreController.Create)
		r.Post("/create", genreController.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", genreController.Detail)
			r.Get("/update", genreController.Update)
			r.Post("/update", genreController.Update)
			r.Get("/delete", genreController.Delete)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userController.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", userController.Detail)
			r.Get("/update", userController.Update)
			r.Post("/update", userController.Update)
			r.Get("/delete", userController.Delete)
		})
	})

	r.Route("/lists/{pair}", func(r chi.Router) {
		r.Post("/update", listController.Update)
		r.Get("/delete", listController.Delete)
	})

	r.Route("/comments/{pair}", func(r chi.Router) {
		r.Post("/create", commentController.Create)
		r.Post("/update", commentController.Update)
		r.Get("/delete", commentController.Delete)
	})

	r.Get("/login", authController.Login)
	r.Post("/login", authController.Login)
	r.Get("/admin", authController.AdminLogin)
	r.Post("/admin", authController.AdminLogin)
	r.Get("/register", authController.Register)
	r.Post("/register", authController.Register)
	r.Get("/logout", authController.Logout)

	notFound := controllers.NewNotFound(d.Views, log)
	r.NotFound(notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
