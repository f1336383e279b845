package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/farellandr/eventhub/internal/apperrors"
)

type Repositories struct {
	Users   *UserRepository
	Events  *EventRepository
	Tickets *TicketRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(db),
		Events:  NewEventRepository(db),
		Tickets: NewTicketRepository(db),
	}
}

// translate folds gorm errors into the apperrors taxonomy.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, apperrors.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
