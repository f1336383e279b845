package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/apperrors"
	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/farellandr/eventhub/internal/monitoring"
	"github.com/farellandr/eventhub/internal/repository"
)

type EventService struct {
	events       *repository.EventRepository
	deletePolicy config.DeletePolicy
	uploadDir    string
}

func NewEventService(events *repository.EventRepository, deletePolicy config.DeletePolicy, uploadDir string) *EventService {
	return &EventService{
		events:       events,
		deletePolicy: deletePolicy,
		uploadDir:    uploadDir,
	}
}

type CreateEventInput struct {
	Title       string
	Description string
	OrganizedBy string
	EventDate   *time.Time
	EventTime   string
	Location    string
	TicketPrice decimal.Decimal
	Image       string
}

// Create stores a new event as Pending with no likes. owner may be nil.
func (s *EventService) Create(ctx context.Context, owner *models.User, in CreateEventInput) (*models.Event, error) {
	if in.TicketPrice.IsNegative() {
		return nil, fmt.Errorf("ticket price must not be negative: %w", apperrors.ErrValidation)
	}

	event := &models.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		OrganizedBy: in.OrganizedBy,
		EventDate:   in.EventDate,
		EventTime:   in.EventTime,
		Location:    in.Location,
		TicketPrice: in.TicketPrice,
		Image:       in.Image,
		Likes:       0,
		Status:      models.StatusPending,
	}
	if owner != nil {
		event.OwnerID = &owner.ID
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	monitoring.TrackEventCreated()
	slog.Info("Event submitted", "event_id", event.ID, "title", event.Title)
	return event, nil
}

// List returns all events, or those with exactly the given status.
func (s *EventService) List(ctx context.Context, status string) ([]models.Event, error) {
	var filter models.EventStatus
	if status != "" {
		parsed, err := models.ParseEventStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		filter = parsed
	}
	return s.events.List(ctx, filter)
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	eventID, err := parseID(id, "event")
	if err != nil {
		return nil, err
	}
	return s.events.GetByID(ctx, eventID)
}

func (s *EventService) Like(ctx context.Context, id string) (*models.Event, error) {
	eventID, err := parseID(id, "event")
	if err != nil {
		return nil, err
	}
	if err := s.events.IncrementLikes(ctx, eventID); err != nil {
		return nil, err
	}
	monitoring.TrackLike()
	return s.events.GetByID(ctx, eventID)
}

func (s *EventService) Approve(ctx context.Context, id string) (*models.Event, error) {
	return s.moderate(ctx, id, models.StatusApproved, "")
}

func (s *EventService) Reject(ctx context.Context, id, reason string) (*models.Event, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", apperrors.ErrValidation)
	}
	return s.moderate(ctx, id, models.StatusRejected, reason)
}

func (s *EventService) moderate(ctx context.Context, id string, to models.EventStatus, reason string) (*models.Event, error) {
	eventID, err := parseID(id, "event")
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	from := event.Status
	if !from.CanTransition(to) {
		return nil, fmt.Errorf("event is %s and cannot become %s: %w", from, to, apperrors.ErrInvalidTransition)
	}

	updated, err := s.events.UpdateStatus(ctx, eventID, from, to, reason)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("event changed status concurrently: %w", apperrors.ErrInvalidTransition)
	}

	monitoring.TrackModeration(string(to))
	slog.Info("Event moderated", "event_id", eventID, "from", from, "to", to)
	return s.events.GetByID(ctx, eventID)
}

// Delete removes an event if the configured policy lets actor do so.
func (s *EventService) Delete(ctx context.Context, actor *models.User, id string) error {
	eventID, err := parseID(id, "event")
	if err != nil {
		return err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if !s.canDelete(actor, event) {
		return fmt.Errorf("not allowed to delete this event: %w", apperrors.ErrForbidden)
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}

	if event.Image != "" {
		if err := helpers.DeleteFile(s.uploadDir, event.Image); err != nil {
			slog.Warn("Failed to remove event image", "event_id", eventID, "image", event.Image, "error", err)
		}
	}
	return nil
}

func (s *EventService) canDelete(actor *models.User, event *models.Event) bool {
	if actor == nil {
		return false
	}
	switch s.deletePolicy {
	case config.DeleteAdmin:
		return actor.IsAdmin()
	case config.DeleteOwner:
		return event.OwnedBy(actor.ID)
	default:
		return actor.IsAdmin() || event.OwnedBy(actor.ID)
	}
}
