package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

type CommentHandler struct {
	svc *forum.Service
}

func NewCommentHandler(svc *forum.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// AddComment adds a root comment; :id is the post (PROTECTED)
func (h *CommentHandler) AddComment(c *gin.Context) {
	h.create(c, h.svc.AddComment)
}

// AddReply answers an existing comment; :id is the parent comment (PROTECTED)
func (h *CommentHandler) AddReply(c *gin.Context) {
	h.create(c, h.svc.AddReply)
}

type addFunc func(ctx context.Context, targetID, authorID uint, text string) (models.Comment, error)

func (h *CommentHandler) create(c *gin.Context, add addFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := add(c.Request.Context(), id, userID, input.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment and its replies (PROTECTED, owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// GetReplies lists the direct replies to a comment
func (h *CommentHandler) GetReplies(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	replies, err := h.svc.Replies(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}

func (h *CommentHandler) ToggleUpvote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.ToggleCommentUpvote(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upvotes": n})
}

func (h *CommentHandler) UpvoteStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	st, err := h.svc.CommentUpvoteStatus(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
