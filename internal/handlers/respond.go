package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks/glcore/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondWithError maps service errors onto HTTP status codes with a
// consistent body shape. Validation failures carry the full violation list
// so callers can fix everything in one round trip.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Warn("Validation failed", slog.Any("violations", validationErr.Violations))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "validation failed",
			"violations": validationErr.Violations,
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
