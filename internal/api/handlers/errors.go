package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blsantos/InfiniteVideoWall/internal/services"
)

// getStatusCodeForError maps a service error type to an HTTP status.
func getStatusCodeForError(err *services.ServiceError) int {
	switch err.Type {
	case services.ErrTypeValidation:
		return http.StatusBadRequest
	case services.ErrTypeAuth:
		return http.StatusUnauthorized
	case services.ErrTypeForbidden:
		return http.StatusForbidden
	case services.ErrTypeNotFound:
		return http.StatusNotFound
	case services.ErrTypeExternalHost:
		return http.StatusBadGateway
	case services.ErrTypeDatabase, services.ErrTypeStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a structured error response. Service errors carry
// their code and auth hint; anything else becomes a bare 500.
func respondError(c *gin.Context, err error) {
	var serviceErr *services.ServiceError
	if errors.As(err, &serviceErr) {
		body := gin.H{
			"message": serviceErr.Message,
			"code":    serviceErr.Code,
		}
		if serviceErr.NeedsAuth {
			body["needsAuth"] = true
		}
		c.JSON(getStatusCodeForError(serviceErr), body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
