package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/service"
)

type TicketDetailsRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	EventName   string          `json:"eventname" binding:"required"`
	EventDate   string          `json:"eventdate" binding:"required"`
	EventTime   string          `json:"eventtime" binding:"required"`
	TicketPrice decimal.Decimal `json:"ticketprice"`
	QR          string          `json:"qr"`
}

type TicketRequest struct {
	EventID       string                `json:"eventid" binding:"required"`
	TicketDetails *TicketDetailsRequest `json:"ticketDetails" binding:"required"`
	Count         *int                  `json:"count" binding:"omitempty,min=0"`
}

func (h *Handlers) CreateTicket(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithBindError(c, err, http.StatusBadRequest)
		return
	}

	in := service.CreateTicketInput{
		EventID: req.EventID,
		Count:   req.Count,
	}
	if d := req.TicketDetails; d != nil {
		eventDate, err := helpers.ParseDate(d.EventDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format.")
			return
		}
		in.Details = &service.TicketDetailsInput{
			Name:        d.Name,
			Email:       d.Email,
			EventName:   d.EventName,
			EventDate:   eventDate,
			EventTime:   d.EventTime,
			TicketPrice: d.TicketPrice,
			QR:          d.QR,
		}
	}

	ticket, err := h.services.Tickets.Create(c.Request.Context(), user, in)
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to create ticket.")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *Handlers) ListTickets(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	tickets, err := h.services.Tickets.List(c.Request.Context(), user)
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to fetch tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *Handlers) ListUserTickets(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	tickets, err := h.services.Tickets.ListByUser(c.Request.Context(), user, c.Param("userId"))
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to fetch user tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *Handlers) GetTicketQR(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	png, err := h.services.Tickets.QRImage(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handlers) DeleteTicket(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.services.Tickets.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		helpers.RespondWithAppError(c, err, "Failed to delete ticket.")
		return
	}

	c.Status(http.StatusNoContent)
}
