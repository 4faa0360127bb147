package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sivaogeti/school-management/internal/dto"
	"github.com/sivaogeti/school-management/internal/service"
	"github.com/sivaogeti/school-management/pkg/response"
)

// EventHandler serves the dated exam/PTM event endpoints.
type EventHandler struct {
	eventSvc  service.EventService
	exportSvc service.ExportService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc service.EventService, exportSvc service.ExportService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, exportSvc: exportSvc}
}

// ListEvents returns events for a class-section (plus school-wide ones),
// partitioned into upcoming and past around the as-of date.
// GET /api/v1/events?class=&section=&type=&as_of=
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	req.ClassName, req.Section = resolveClassSection(c, req.ClassName, req.Section)

	list, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, list)
}

// GetEvent returns one event by id.
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "event id must not be empty")
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent creates a dated event.
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent patches an event; the expected version must match.
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "event id must not be empty")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent removes an event permanently.
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "event id must not be empty")
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// ExportEvents streams the matched events as an iCalendar feed.
// GET /api/v1/events/export.ics?class=&section=
func (h *EventHandler) ExportEvents(c *gin.Context) {
	var req dto.ScheduleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	className, section := resolveClassSection(c, req.ClassName, req.Section)

	buf, filename, err := h.exportSvc.ExportEventsICS(c.Request.Context(), className, section)
	if err != nil {
		if errors.Is(err, service.ErrExportNoData) {
			response.NotFound(c, 21003, "no events to export for this class-section")
			return
		}
		h.handleEventError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// handleEventError maps event business errors to HTTP responses.
func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	if validationFailed(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 21001, "schedule event does not exist")
	case errors.Is(err, service.ErrEventConflict):
		response.Conflict(c, 21002, "schedule event was changed by another editor, reload and retry")
	default:
		response.InternalError(c)
	}
}
