package views

import "games_catalog/internal/models"

type GamesQuery struct {
	DeveloperID    string
	PublisherID    string
	SearchText     string
	MinRating      string
	MaxRating      string
	MinReleaseDate string
	MaxReleaseDate string
	OrderBy        string
	OrderDirection string
}

type GamesPage struct {
	Games      []models.GameRow
	Developers []models.Developer
	Publishers []models.Publisher
	Query      GamesQuery
}

type GamePage struct {
	Game      models.GameRow
	Genres    []models.GenreOfGameRow
	Comments  []models.CommentRow
	Entry     *models.ListEntry
	MyComment *models.Comment
	HasCover  bool
	ListTypes []models.ListType
	Ratings   []int
}

type GameForm struct {
	Action      string
	IsEdit      bool
	ID          int64
	Name        string
	Description string
	ReleaseDate string
	Rating      string
	DeveloperID int64
	PublisherID *int64
	Selected    map[int64]bool
	Developers  []models.Developer
	Publishers  []models.Publisher
	Genres      []models.Genre
	HasCover    bool
}

type DevelopersPage struct {
	Developers []models.Developer
}

type DeveloperPage struct {
	Developer models.Developer
	Games     []models.GameRow
}

type DeveloperForm struct {
	Action    string
	Developer models.Developer
}

type PublishersPage struct {
	Publishers []models.Publisher
}

type PublisherPage struct {
	Publisher models.Publisher
	Games     []models.GameRow
}

type PublisherForm struct {
	Action    string
	Publisher models.Publisher
}

type GenresPage struct {
	Genres []models.Genre
}

type GenrePage struct {
	Genre models.Genre
	Games []models.GenreOfGameRow
}

type GenreForm struct {
	Action string
	Genre  models.Genre
}

type UsersPage struct {
	Users []models.User
}

type UserPage struct {
	User      models.User
	Buckets   []models.ListBucket
	Comments  []models.CommentRow
	CanEdit   bool
	ListTypes []models.ListType
	Ratings   []int
}

type UserForm struct {
	User models.User
}

type LoginPage struct {
	Action string
	Admin  bool
}
