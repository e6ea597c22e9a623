package models

import "time"

type Game struct {
	ID          int64      `json:"id_game" gorm:"column:id_game;primaryKey"`
	Name        string     `json:"game_name" gorm:"column:game_name;size:255;not null"`
	Description *string    `json:"description" gorm:"column:description;type:text"`
	ReleaseDate time.Time  `json:"release_date" gorm:"column:release_date;type:date;not null"`
	Rating      float64    `json:"rating" gorm:"column:rating;type:numeric(4,2);not null;default:0"`
	DeveloperID int64      `json:"id_developer" gorm:"column:id_developer;not null;index"`
	PublisherID *int64     `json:"id_publisher" gorm:"column:id_publisher;index"`
	Developer   *Developer `json:"-" gorm:"foreignKey:DeveloperID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Publisher   *Publisher `json:"-" gorm:"foreignKey:PublisherID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Game) TableName() string { return "game" }

// GameRow is a game joined with its developer and publisher names.
type GameRow struct {
	ID            int64     `json:"id_game" gorm:"column:id_game"`
	Name          string    `json:"game_name" gorm:"column:game_name"`
	Description   *string   `json:"description" gorm:"column:description"`
	ReleaseDate   time.Time `json:"release_date" gorm:"column:release_date"`
	Rating        float64   `json:"rating" gorm:"column:rating"`
	DeveloperID   int64     `json:"id_developer" gorm:"column:id_developer"`
	PublisherID   *int64    `json:"id_publisher" gorm:"column:id_publisher"`
	DeveloperName string    `json:"developer" gorm:"column:studio_name"`
	PublisherName *string   `json:"publisher" gorm:"column:publisher_name"`
}

type Developer struct {
	ID         int64   `json:"id_developer" gorm:"column:id_developer;primaryKey"`
	StudioName string  `json:"studio_name" gorm:"column:studio_name;size:255;not null"`
	Country    *string `json:"country" gorm:"column:country;size:100"`
}

func (Developer) TableName() string { return "developer" }

type Publisher struct {
	ID            int64   `json:"id_publisher" gorm:"column:id_publisher;primaryKey"`
	PublisherName string  `json:"publisher_name" gorm:"column:publisher_name;size:255;not null"`
	Country       *string `json:"country" gorm:"column:country;size:100"`
}

func (Publisher) TableName() string { return "publisher" }

type Genre struct {
	ID   int64  `json:"id_genre" gorm:"column:id_genre;primaryKey"`
	Name string `json:"genre_name" gorm:"column:genre_name;size:100;not null"`
}

func (Genre) TableName() string { return "genre" }

type GenreOfGame struct {
	GameID  int64  `json:"id_game" gorm:"column:id_game;primaryKey;autoIncrement:false"`
	GenreID int64  `json:"id_genre" gorm:"column:id_genre;primaryKey;autoIncrement:false"`
	Game    *Game  `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	Genre   *Genre `json:"-" gorm:"foreignKey:GenreID;references:ID;constraint:OnDelete:CASCADE"`
}

func (GenreOfGame) TableName() string { return "genre_of_game" }

// GenreOfGameRow is an association joined with the game and genre names.
type GenreOfGameRow struct {
	GameID    int64  `json:"id_game" gorm:"column:id_game"`
	GenreID   int64  `json:"id_genre" gorm:"column:id_genre"`
	GameName  string `json:"game_name" gorm:"column:game_name"`
	GenreName string `json:"genre_name" gorm:"column:genre_name"`
}
