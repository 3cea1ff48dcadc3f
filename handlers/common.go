package handlers

import (
	"errors"
	"net/http"

	"playbox/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds to transport status codes. Anything
// unclassified is reported as an opaque internal error.
func respondError(c *gin.Context, err error) {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		c.JSON(statusFor(appErr.Kind), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindConflict:
		return http.StatusConflict
	case services.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requesterID(c *gin.Context) string {
	return c.GetString("user_id")
}

func requesterRole(c *gin.Context) string {
	return c.GetString("user_role")
}
