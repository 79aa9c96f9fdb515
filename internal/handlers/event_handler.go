package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/helpers"
	"github.com/farellandr/certportal/internal/state"
)

type EventRequest struct {
	Name string `json:"name" binding:"required"`
	Date string `json:"date" binding:"required"`
}

func (r EventRequest) toEvent() (domain.Event, bool) {
	date, err := helpers.ParseDate(r.Date)
	name := strings.TrimSpace(r.Name)
	if err != nil || name == "" {
		return domain.Event{}, false
	}
	return domain.Event{Name: name, Date: domain.DateOnly(date)}, true
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}
	event, valid := req.toEvent()
	if !valid {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid name or date format (use YYYY-MM-DD).")
		return
	}

	p, ok := getPortal(c)
	if !ok {
		return
	}

	event, err := p.Repo.CreateEvent(c.Request.Context(), event)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to create event.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.EventSaved{Event: event})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully.",
		"event":   event,
	})
}

func GetEvent(c *gin.Context) {
	id, ok := idParam(c, "event")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	event, err := p.Repo.GetEvent(c.Request.Context(), id)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	page, ok := pagination(c)
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	events, total, err := p.Repo.ListEvents(c.Request.Context(), page.Bounds())
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Error retrieving events.")
		return
	}

	resp := page.Response(total)
	resp["events"] = events
	c.JSON(http.StatusOK, resp)
}

func UpdateEvent(c *gin.Context) {
	id, ok := idParam(c, "event")
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}
	event, valid := req.toEvent()
	if !valid {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid name or date format (use YYYY-MM-DD).")
		return
	}
	event.ID = id

	p, ok := getPortal(c)
	if !ok {
		return
	}

	event, err := p.Repo.UpdateEvent(c.Request.Context(), event)
	if err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to update event.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.EventSaved{Event: event})

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

// DeleteEvent also deletes the event's participants.
func DeleteEvent(c *gin.Context) {
	id, ok := idParam(c, "event")
	if !ok {
		return
	}
	p, ok := getPortal(c)
	if !ok {
		return
	}

	if err := p.Repo.DeleteEvent(c.Request.Context(), id); err != nil {
		helpers.RespondWithDomainError(c, err, "Failed to delete event.")
		return
	}
	p.Store.Dispatch(c.Request.Context(), state.EventDeleted{ID: id})

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
