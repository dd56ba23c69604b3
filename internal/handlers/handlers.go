package handlers

import (
	"github.com/keshan-spec/Discussion-Board-API/internal/auth"
	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
)

// Paging bounds the listing page size.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc *forum.Service, authSvc *auth.Service, paging Paging) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(authSvc),
		Post:    NewPostHandler(svc, paging),
		Comment: NewCommentHandler(svc),
		User:    NewUserHandler(svc, authSvc),
	}
}
