package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keshan-spec/Discussion-Board-API/internal/auth"
	"github.com/keshan-spec/Discussion-Board-API/internal/middleware"
	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func userBody(u models.User) gin.H {
	return gin.H{
		"id":               u.ID,
		"handle":           u.Handle,
		"fname":            u.FirstName,
		"lname":            u.LastName,
		"email":            u.Email,
		"profanity_filter": u.ProfanityFilter,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    userBody(user),
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userBody(user),
	})
}

// Logout revokes the token the request was made with
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Verify confirms the token is still usable
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token is valid", "id": userID})
}
