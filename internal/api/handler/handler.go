package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sivaogeti/school-management/internal/api/middleware"
	"github.com/sivaogeti/school-management/internal/service"
	"github.com/sivaogeti/school-management/pkg/response"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Timetable *TimetableHandler
	Event     *EventHandler
}

// NewHandler wires the handler layer.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Timetable: NewTimetableHandler(svc.Timetable, svc.Export),
		Event:     NewEventHandler(svc.Event, svc.Export),
	}
}

// resolveClassSection fills class/section from the caller's profile identity
// when the query string omits them, so student and teacher callers get their
// own schedule without repeating what their profile already carries.
func resolveClassSection(c *gin.Context, className, section string) (string, string) {
	if className == "" {
		className = c.GetString(middleware.ClassNameKey)
	}
	if section == "" {
		section = c.GetString(middleware.SectionKey)
	}
	return className, section
}

// bindFailed reports a request binding failure in the uniform envelope.
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, 400, 10001, "invalid request parameters", err.Error())
}

// validationFailed reports a service-level field rejection, if err is one.
func validationFailed(c *gin.Context, err error) bool {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, 400, 10001, "validation failed", ve.Error())
		return true
	}
	return false
}
