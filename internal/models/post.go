package models

import "time"

type Post struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	User              User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title             string    `gorm:"size:300;not null" json:"title"`
	Text              string    `gorm:"type:text;not null" json:"text"`
	ContainsProfanity bool      `gorm:"default:false" json:"contains_profanity"`
	IsClosed          bool      `gorm:"default:false" json:"is_closed"`
	CreatedOn         time.Time `gorm:"autoCreateTime;index" json:"created_on"`
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required,max=300"`
	Text  string `json:"text" binding:"required"`
}
