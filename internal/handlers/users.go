package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keshan-spec/Discussion-Board-API/internal/auth"
	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/middleware"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

type UserHandler struct {
	svc      *forum.Service
	accounts *auth.Service
}

func NewUserHandler(svc *forum.Service, accounts *auth.Service) *UserHandler {
	return &UserHandler{svc: svc, accounts: accounts}
}

// GetUserProfile returns a user's public profile and posts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.accounts.Profile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	posts, err := h.svc.PostsByUser(c.Request.Context(), profile.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile, "posts": posts})
}

// GetUsers lists every account's public profile (PROTECTED)
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.accounts.Users(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// FindUsers matches profiles on the given fields (PROTECTED)
func (h *UserHandler) FindUsers(c *gin.Context) {
	var input models.FindUsersRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	users, err := h.accounts.FindUsers(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser changes the caller's profile (PROTECTED)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input models.UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": userBody(user)})
}

// UpdatePassword changes the caller's password after checking the old one (PROTECTED)
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.accounts.UpdatePassword(c.Request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// DeleteUser removes the caller's own account and everything they wrote (PROTECTED, owner only)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), userID, id, middleware.Token(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your account has been deleted"})
}
