package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farellandr/eventhub/internal/apperrors"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/farellandr/eventhub/internal/monitoring"
	"github.com/farellandr/eventhub/internal/qr"
	"github.com/farellandr/eventhub/internal/repository"
)

type TicketService struct {
	tickets *repository.TicketRepository
}

func NewTicketService(tickets *repository.TicketRepository) *TicketService {
	return &TicketService{tickets: tickets}
}

type TicketDetailsInput struct {
	Name        string
	Email       string
	EventName   string
	EventDate   *time.Time
	EventTime   string
	TicketPrice decimal.Decimal
	QR          string
}

type CreateTicketInput struct {
	EventID string
	Details *TicketDetailsInput
	Count   *int
}

// Create issues a ticket snapshot for holder. When no QR payload is supplied
// one is encoded from the event and holder names.
func (s *TicketService) Create(ctx context.Context, holder *models.User, in CreateTicketInput) (*models.Ticket, error) {
	eventID := strings.TrimSpace(in.EventID)
	if eventID == "" || in.Details == nil {
		return nil, fmt.Errorf("missing required fields: %w", apperrors.ErrValidation)
	}

	d := in.Details
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(d.EventName) == "" {
		missing = append(missing, "eventname")
	}
	if d.EventDate == nil {
		missing = append(missing, "eventdate")
	}
	if strings.TrimSpace(d.EventTime) == "" {
		missing = append(missing, "eventtime")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing ticket details: %s: %w", strings.Join(missing, ", "), apperrors.ErrValidation)
	}
	if d.TicketPrice.IsNegative() {
		return nil, fmt.Errorf("ticket price must not be negative: %w", apperrors.ErrValidation)
	}

	count := 0
	if in.Count != nil {
		if *in.Count < 0 {
			return nil, fmt.Errorf("count must not be negative: %w", apperrors.ErrValidation)
		}
		count = *in.Count
	}

	code := d.QR
	if code != "" {
		if err := qr.Validate(code); err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
	} else {
		encoded, err := qr.EncodeDataURL(qr.TicketPayload(d.EventName, d.Name))
		if err != nil {
			return nil, err
		}
		code = encoded
	}

	ticket := &models.Ticket{
		UserID:  holder.ID.String(),
		EventID: eventID,
		TicketDetails: models.TicketDetails{
			Name:        d.Name,
			Email:       d.Email,
			EventName:   d.EventName,
			EventDate:   *d.EventDate,
			EventTime:   d.EventTime,
			TicketPrice: d.TicketPrice,
			QR:          code,
		},
		Count: count,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	monitoring.TrackTicketIssued()
	slog.Info("Ticket issued", "ticket_id", ticket.ID, "event_id", ticket.EventID, "user_id", ticket.UserID)
	return ticket, nil
}

// List returns every ticket for admins and the caller's own tickets otherwise.
func (s *TicketService) List(ctx context.Context, actor *models.User) ([]models.Ticket, error) {
	if actor.IsAdmin() {
		return s.tickets.List(ctx, "")
	}
	return s.tickets.List(ctx, actor.ID.String())
}

func (s *TicketService) ListByUser(ctx context.Context, actor *models.User, userID string) ([]models.Ticket, error) {
	if !actor.IsAdmin() && actor.ID.String() != userID {
		return nil, fmt.Errorf("cannot list another user's tickets: %w", apperrors.ErrForbidden)
	}
	return s.tickets.List(ctx, userID)
}

func (s *TicketService) Get(ctx context.Context, actor *models.User, id string) (*models.Ticket, error) {
	ticketID, err := parseID(id, "ticket")
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canAccessTicket(actor, ticket) {
		return nil, fmt.Errorf("ticket belongs to another user: %w", apperrors.ErrForbidden)
	}
	return ticket, nil
}

// QRImage returns the ticket's QR code as PNG bytes. Tickets stored with a
// plain-text payload are encoded on the fly.
func (s *TicketService) QRImage(ctx context.Context, actor *models.User, id string) ([]byte, error) {
	ticket, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	png, err := qr.DecodeDataURL(ticket.TicketDetails.QR)
	if errors.Is(err, qr.ErrNotDataURL) {
		return qr.EncodePNG(ticket.TicketDetails.QR)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding stored qr code: %w", err)
	}
	return png, nil
}

func (s *TicketService) Delete(ctx context.Context, actor *models.User, id string) error {
	ticket, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.tickets.Delete(ctx, ticket.ID)
}

func canAccessTicket(actor *models.User, ticket *models.Ticket) bool {
	return actor.IsAdmin() || ticket.UserID == actor.ID.String()
}
