package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docportal/docportal/pkg/domain"
)

// respondError maps domain errors to HTTP statuses. Client-fault causes
// carry their message; everything else becomes a generic 500 so internal
// details never reach the client.
func respondError(c *gin.Context, logger *slog.Logger, operation string, err error) {
	logger.Error("request failed", "operation", operation, "error", err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEncryptedDocument),
		errors.Is(err, domain.ErrInvalidChunking):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIndexNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": operation + " failed"})
	}
}
