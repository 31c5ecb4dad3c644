package handler

import (
	"errors"
	"net/http"

	"titlehub/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service sentinels onto HTTP statuses; anything unmapped is a
// server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrCredentialsInUse),
		errors.Is(err, service.ErrSlugInUse),
		errors.Is(err, service.ErrReviewExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// don't leak internals
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
