package models

import "errors"

var ErrInvalidListType = errors.New("invalid list type")

type ListType string

const (
	ListPlanned   ListType = "planned"
	ListPlaying   ListType = "playing"
	ListPostponed ListType = "postponed"
	ListCompleted ListType = "completed"
)

// ListTypes is the display order of the personal list buckets.
var ListTypes = []ListType{ListPlanned, ListPlaying, ListPostponed, ListCompleted}

func ParseListType(s string) (ListType, error) {
	for _, t := range ListTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrInvalidListType
}

type ListEntry struct {
	GameID   int64    `json:"id_game" gorm:"column:id_game;primaryKey;autoIncrement:false"`
	UserID   int64    `json:"id_user" gorm:"column:id_user;primaryKey;autoIncrement:false"`
	ListType ListType `json:"list_type" gorm:"column:list_type;type:varchar(20);not null"`
	Rated    *int     `json:"rated" gorm:"column:rated"`
	Game     *Game    `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	User     *User    `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ListEntry) TableName() string { return "list" }

type ListEntryRow struct {
	GameID   int64    `json:"id_game" gorm:"column:id_game"`
	UserID   int64    `json:"id_user" gorm:"column:id_user"`
	ListType ListType `json:"list_type" gorm:"column:list_type"`
	Rated    *int     `json:"rated" gorm:"column:rated"`
	GameName string   `json:"game_name" gorm:"column:game_name"`
	Username string   `json:"username" gorm:"column:username"`
}

// ListBucket holds the entries of one list type.
type ListBucket struct {
	Type    ListType
	Entries []ListEntryRow
}

// GroupByListType buckets entries by list type, keeping ListTypes order.
// Entries with an unknown type are dropped.
func GroupByListType(entries []ListEntryRow) []ListBucket {
	buckets := make([]ListBucket, len(ListTypes))
	index := make(map[ListType]int, len(ListTypes))
	for i, t := range ListTypes {
		buckets[i].Type = t
		index[t] = i
	}
	for _, e := range entries {
		i, ok := index[e.ListType]
		if !ok {
			continue
		}
		buckets[i].Entries = append(buckets[i].Entries, e)
	}
	return buckets
}

type Comment struct {
	GameID int64  `json:"id_game" gorm:"column:id_game;primaryKey;autoIncrement:false"`
	UserID int64  `json:"id_user" gorm:"column:id_user;primaryKey;autoIncrement:false"`
	Text   string `json:"text" gorm:"column:text;type:text;not null"`
	Game   *Game  `json:"-" gorm:"foreignKey:GameID;references:ID;constraint:OnDelete:CASCADE"`
	User   *User  `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comment" }

type CommentRow struct {
	GameID   int64  `json:"id_game" gorm:"column:id_game"`
	UserID   int64  `json:"id_user" gorm:"column:id_user"`
	Text     string `json:"text" gorm:"column:text"`
	GameName string `json:"game_name" gorm:"column:game_name"`
	Username string `json:"username" gorm:"column:username"`
}
