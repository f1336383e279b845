package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Event struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID         *uuid.UUID      `gorm:"type:uuid;index" json:"owner,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	OrganizedBy     string          `json:"organizedBy"`
	EventDate       *time.Time      `json:"eventDate,omitempty"`
	EventTime       string          `json:"eventTime"`
	Location        string          `json:"location"`
	TicketPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"ticketPrice"`
	Image           string          `json:"image"`
	Likes           int             `gorm:"not null;default:0" json:"likes"`
	Status          EventStatus     `gorm:"type:varchar(16);not null;default:'Pending';index" json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = StatusPending
	}
	return
}

func (event *Event) OwnedBy(userID uuid.UUID) bool {
	return event.OwnerID != nil && *event.OwnerID == userID
}
