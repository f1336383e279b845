package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/eventhub/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return translate(r.db.WithContext(ctx).Create(event).Error, "create event")
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, translate(err, "event")
	}
	return &event, nil
}

// List returns events in creation order, filtered by status when non-empty.
func (r *EventRepository) List(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	events := []models.Event{}
	if err := query.Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, translate(err, "list events")
	}
	return events, nil
}

// IncrementLikes adds one like with a single UPDATE so concurrent likes
// are never lost.
func (r *EventRepository) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return translate(result.Error, "like event")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "event")
	}
	return nil
}

// UpdateStatus writes status and reason only if the event is still in from.
// It returns false when another writer moved the event first.
func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.EventStatus, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"rejection_reason": reason,
		})
	if result.Error != nil {
		return false, translate(result.Error, "update event status")
	}
	return result.RowsAffected > 0, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return translate(result.Error, "delete event")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "event")
	}
	return nil
}
