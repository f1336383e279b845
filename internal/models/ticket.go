package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketDetails is the event and holder snapshot taken at purchase time.
type TicketDetails struct {
	Name        string          `gorm:"not null" json:"name"`
	Email       string          `gorm:"not null" json:"email"`
	EventName   string          `gorm:"not null" json:"eventname"`
	EventDate   time.Time       `gorm:"not null" json:"eventdate"`
	EventTime   string          `gorm:"not null" json:"eventtime"`
	TicketPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"ticketprice"`
	QR          string          `gorm:"type:text;not null" json:"qr"`
}

type Ticket struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string        `gorm:"index" json:"userid"`
	EventID       string        `gorm:"index" json:"eventid"`
	TicketDetails TicketDetails `gorm:"embedded;embeddedPrefix:detail_" json:"ticketDetails"`
	Count         int           `gorm:"not null;default:0" json:"count"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
