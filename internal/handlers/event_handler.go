package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/service"
)

type EventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	OrganizedBy string          `json:"organizedBy"`
	EventDate   string          `json:"eventDate"`
	EventTime   string          `json:"eventTime"`
	Location    string          `json:"location"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejectionReason" binding:"required"`
}

// CreateEvent accepts a multipart form with an optional image, or JSON.
func (h *Handlers) CreateEvent(c *gin.Context) {
	var (
		req       EventRequest
		imagePath string
	)

	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.RespondWithBindError(c, err, http.StatusBadRequest)
			return
		}
	} else {
		price, err := helpers.ParsePrice(c.PostForm("ticketPrice"))
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		req = EventRequest{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			OrganizedBy: c.PostForm("organizedBy"),
			EventDate:   c.PostForm("eventDate"),
			EventTime:   c.PostForm("eventTime"),
			Location:    c.PostForm("location"),
			TicketPrice: price,
		}
	}

	eventDate, err := helpers.ParseDate(req.EventDate)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event date format.")
		return
	}

	if imageFile, err := c.FormFile("image"); err == nil {
		imagePath, err = helpers.UploadFile(c, imageFile, "events", h.uploads)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	owner, _ := middleware.CurrentUser(c)
	event, err := h.services.Events.Create(c.Request.Context(), owner, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		OrganizedBy: req.OrganizedBy,
		EventDate:   eventDate,
		EventTime:   req.EventTime,
		Location:    req.Location,
		TicketPrice: req.TicketPrice,
		Image:       imagePath,
	})
	if err != nil {
		if imagePath != "" {
			_ = helpers.DeleteFile(h.uploads.UploadBasePath, imagePath)
		}
		helpers.RespondWithAppError(c, err, "Failed to save the event.")
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *Handlers) ListEvents(c *gin.Context) {
	events, err := h.services.Events.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to fetch events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to fetch event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handlers) LikeEvent(c *gin.Context) {
	event, err := h.services.Events.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to like the event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handlers) ApproveEvent(c *gin.Context) {
	event, err := h.services.Events.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		helpers.RespondWithAppError(c, err, "Failed to approve event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handlers) RejectEvent(c *gin.Context) {
	var req RejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.RespondWithBindError(c, err, http.StatusUnprocessableEntity)
			return
		}
	}

	event, err := h.services.Events.Reject(c.Request.Context(), c.Param("id"), req.RejectionReason)
	if err != nil {
		respondUnprocessable(c, err, "Failed to reject event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handlers) DeleteEvent(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		helpers.RespondWithAppError(c, err, "Failed to delete event.")
		return
	}

	c.Status(http.StatusNoContent)
}
