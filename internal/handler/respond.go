package handler

import (
	"errors"
	"net/http"

	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps coded application errors onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var app *apperrors.AppError
	if !errors.As(err, &app) {
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	status := http.StatusInternalServerError
	switch app.Code {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeAccessDenied:
		status = http.StatusForbidden
	case apperrors.CodeInvalidActor, apperrors.CodeValidationError, apperrors.CodeAlreadyExists:
		status = http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"message": app.Message, "code": app.Code})
}
