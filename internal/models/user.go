package models

import "time"

type User struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	FirstName       string `gorm:"size:128;not null" json:"fname"`
	LastName        string `gorm:"size:128;not null" json:"lname"`
	Email           string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Handle          string `gorm:"size:64;uniqueIndex;not null" json:"handle"`
	Password        string `gorm:"size:128;not null" json:"-"`
	ProfanityFilter bool   `gorm:"default:false" json:"profanity_filter"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `gorm:"autoUpdateTime" json:"modified_at"`
}

type RegisterRequest struct {
	FirstName       string `json:"fname" binding:"required"`
	LastName        string `json:"lname" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=64"`
	Password        string `json:"password" binding:"required,min=6"`
	ProfanityFilter bool   `json:"profanity_filter"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	FirstName       *string `json:"fname" binding:"omitempty,min=1,max=128"`
	LastName        *string `json:"lname" binding:"omitempty,min=1,max=128"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Username        *string `json:"username" binding:"omitempty,min=3,max=64"`
	ProfanityFilter *bool   `json:"profanity_filter"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// FindUsersRequest matches users on every non-empty field.
type FindUsersRequest struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Username  string `json:"username"`
}
