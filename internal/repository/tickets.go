package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/eventhub/internal/models"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	return translate(r.db.WithContext(ctx).Create(ticket).Error, "create ticket")
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, translate(err, "ticket")
	}
	return &ticket, nil
}

// List returns all tickets, or only those held by userID when non-empty.
func (r *TicketRepository) List(ctx context.Context, userID string) ([]models.Ticket, error) {
	query := r.db.WithContext(ctx).Model(&models.Ticket{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	tickets := []models.Ticket{}
	if err := query.Order("created_at ASC").Find(&tickets).Error; err != nil {
		return nil, translate(err, "list tickets")
	}
	return tickets, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ticket{})
	if result.Error != nil {
		return translate(result.Error, "delete ticket")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "ticket")
	}
	return nil
}
