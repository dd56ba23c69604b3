package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

type PostHandler struct {
	svc    *forum.Service
	paging Paging
}

func NewPostHandler(svc *forum.Service, paging Paging) *PostHandler {
	return &PostHandler{svc: svc, paging: paging}
}

// GetPosts returns one page of post summaries, ?start=<page>&limit=<size>.
func (h *PostHandler) GetPosts(c *gin.Context) {
	page, ok := queryInt(c, "start", 1)
	if !ok {
		return
	}
	size, ok := queryInt(c, "limit", h.paging.DefaultSize)
	if !ok {
		return
	}
	if h.paging.MaxSize > 0 && size > h.paging.MaxSize {
		size = h.paging.MaxSize
	}

	res, err := h.svc.GetPostsPage(c.Request.Context(), page, size, c.Request.URL.Path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": key + " must be a number"})
		return 0, false
	}
	return v, true
}

// GetPost returns a single post with its comment tree
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.svc.GetPostVerbose(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetMyPosts lists the caller's own posts (PROTECTED)
func (h *PostHandler) GetMyPosts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	posts, err := h.svc.PostsByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), userID, input.Title, input.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	summary, err := h.svc.GetPostSummary(c.Request.Context(), post.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// ClosePost stops new comments on a post (PROTECTED, owner only)
func (h *PostHandler) ClosePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.ClosePost(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post closed"})
}

// DeletePost deletes a post (PROTECTED, owner only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ToggleUpvote adds or removes the caller's upvote and returns the new total
func (h *PostHandler) ToggleUpvote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.ToggleUpvote(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upvotes": n})
}

func (h *PostHandler) UpvoteStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	st, err := h.svc.PostUpvoteStatus(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
