package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventhub/internal/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details []string `json:"details,omitempty"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// StatusFor maps an error from the service layer to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes err using its taxonomy status. Internal errors are
// logged and replaced by fallback so storage details never reach the client.
func RespondWithAppError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(fallback, "error", err, "path", c.Request.URL.Path)
		_ = c.Error(err)
		RespondWithError(c, status, fallback)
		return
	}
	RespondWithError(c, status, err.Error())
}
