package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/apperrors"
	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/farellandr/eventhub/internal/service"
)

type Handlers struct {
	services *service.Services
	cfg      *config.Config
	uploads  helpers.UploadConfig
}

func NewHandlers(services *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		services: services,
		cfg:      cfg,
		uploads:  helpers.ImageUploadConfig(cfg.UploadDir, cfg.UploadMaxBytes),
	}
}

func (h *Handlers) currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return nil, false
	}
	return user, true
}

// respondUnprocessable reports validation failures as 422 for endpoints
// whose clients expect that code, and falls back to the usual mapping.
func respondUnprocessable(c *gin.Context, err error, fallback string) {
	if errors.Is(err, apperrors.ErrValidation) {
		helpers.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	helpers.RespondWithAppError(c, err, fallback)
}
