package models

import "time"

// Comment is a reply on a post. ParentID is nil for root comments.
type Comment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PostID            uint      `gorm:"not null;index" json:"post_id"`
	Post              Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	User              User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID          *uint     `gorm:"index" json:"parent_id"`
	Text              string    `gorm:"type:text;not null" json:"text"`
	ContainsProfanity bool      `gorm:"default:false" json:"contains_profanity"`
	CreatedOn         time.Time `gorm:"autoCreateTime" json:"created_on"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
