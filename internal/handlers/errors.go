package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/keshan-spec/Discussion-Board-API/internal/auth"
	"github.com/keshan-spec/Discussion-Board-API/internal/forum"
	"github.com/keshan-spec/Discussion-Board-API/internal/middleware"
)

// writeError maps domain errors to a status and a {"message": ...} body.
// Anything unrecognised is a 500 and is attached to the context for the request log.
func writeError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "Something went wrong"

	switch {
	case errors.Is(err, forum.ErrPostNotFound):
		status, msg = http.StatusNotFound, "Post not found"
	case errors.Is(err, forum.ErrCommentNotFound):
		status, msg = http.StatusNotFound, "Comment not found"
	case errors.Is(err, forum.ErrUserNotFound):
		status, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, forum.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, forum.ErrPostClosed):
		status, msg = http.StatusBadRequest, "Post is closed"
	case errors.Is(err, forum.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Unauthorized action"
	case errors.Is(err, forum.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, forum.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, auth.ErrBadCredentials):
		status, msg = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, auth.ErrWrongPassword):
		status, msg = http.StatusForbidden, "Password is incorrect"
	case errors.Is(err, auth.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "Token is invalid"
	default:
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the caller set by the auth middleware.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
	}
	return id, ok
}
