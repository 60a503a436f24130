package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name  string `json:"name"`
	Email string `json:"email"`
	Posts []Post `json:"posts"`
}

type Post struct {
	gorm.Model
	Title  string `json:"title"`
	UserID uint   `json:"user_id"`
}

func (User) TableName() string {
	return "users"
}
