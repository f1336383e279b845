package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/apperrors"
	"github.com/farellandr/eventhub/internal/auth"
	"github.com/farellandr/eventhub/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Events  *EventService
	Tickets *TicketService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, tokens *auth.TokenManager) *Services {
	return &Services{
		Auth:    NewAuthService(repos.Users, tokens),
		Events:  NewEventService(repos.Events, cfg.EventDeletePolicy, cfg.UploadDir),
		Tickets: NewTicketService(repos.Tickets),
	}
}

// parseID treats a malformed id the same as an unknown one.
func parseID(id, what string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s not found: %w", what, apperrors.ErrNotFound)
	}
	return parsed, nil
}
