package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/metaember/habitsv2/internal/apierror"
	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/service"
)

type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents handles GET /api/v1/habits/:id/events?from=&to=
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var fieldErrors []apierror.FieldError
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field: "from", Message: "must be a valid RFC3339 timestamp", Code: "invalid_format",
			})
		} else {
			from = &parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fieldErrors = append(fieldErrors, apierror.FieldError{
				Field: "to", Message: "must be a valid RFC3339 timestamp", Code: "invalid_format",
			})
		} else {
			to = &parsed
		}
	}
	if len(fieldErrors) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrors))
		return
	}

	events, err := h.eventService.List(c.Request.Context(), userID, habitID, from, to)
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CreateEvent handles POST /api/v1/habits/:id/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	event, created, err := h.eventService.Log(c.Request.Context(), userID, habitID, &req)
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}

	// 201 for new events, 200 when an idempotent retry returned the original
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, event)
}

// VoidEvent handles POST /api/v1/events/:id/void
func (h *EventHandler) VoidEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.VoidEventRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			requestID := apierror.GetRequestID(c)
			apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
			return
		}
	}

	void, err := h.eventService.Void(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		writeServiceError(c, err, "event")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"voidEventId": void.ID, "event": void})
}
