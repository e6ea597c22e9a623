package models

type User struct {
	ID       int64  `json:"id_user" gorm:"column:id_user;primaryKey"`
	Username string `json:"username" gorm:"column:username;size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"column:password;size:255;not null"`
	Email    string `json:"email" gorm:"column:email;size:255;not null"`
}

func (User) TableName() string { return "users" }

// Admin accounts live in their own table and are never users.
type Admin struct {
	ID       int64  `json:"id" gorm:"column:id;primaryKey"`
	Login    string `json:"login" gorm:"column:login;size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"column:password;size:255;not null"`
}

func (Admin) TableName() string { return "admin" }
