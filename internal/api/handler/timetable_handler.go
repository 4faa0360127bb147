package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sivaogeti/school-management/internal/dto"
	"github.com/sivaogeti/school-management/internal/service"
	"github.com/sivaogeti/school-management/pkg/response"
)

// TimetableHandler serves the weekly grid endpoints.
type TimetableHandler struct {
	timetableSvc service.TimetableService
	exportSvc    service.ExportService
}

// NewTimetableHandler creates a TimetableHandler.
func NewTimetableHandler(timetableSvc service.TimetableService, exportSvc service.ExportService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc, exportSvc: exportSvc}
}

// GetWeek returns the Monday..Saturday grid plus captions.
// GET /api/v1/schedule/week?class=&section=
func (h *TimetableHandler) GetWeek(c *gin.Context) {
	var req dto.ScheduleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	className, section := resolveClassSection(c, req.ClassName, req.Section)

	week, err := h.timetableSvc.WeekView(c.Request.Context(), className, section)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, week)
}

// GetToday returns the teaching slots for one date's weekday.
// GET /api/v1/schedule/today?class=&section=&date=
func (h *TimetableHandler) GetToday(c *gin.Context) {
	var req dto.TodayViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	className, section := resolveClassSection(c, req.ClassName, req.Section)

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.BadRequest(c, 10001, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	today, err := h.timetableSvc.TodayView(c.Request.Context(), className, section, date)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, today)
}

// DefineSlots replaces a class-section's slot definition and fans it out
// across the week.
// PUT /api/v1/schedule/slots
func (h *TimetableHandler) DefineSlots(c *gin.Context) {
	var req dto.DefineSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	plan, err := h.timetableSvc.DefineSlots(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, plan)
}

// AssignSubject sets or clears the subject of one grid cell.
// PUT /api/v1/schedule/grid-cell
func (h *TimetableHandler) AssignSubject(c *gin.Context) {
	var req dto.AssignSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	if err := h.timetableSvc.AssignSubject(c.Request.Context(), &req); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListClassSections lists stored class-section keys for spelling
// reconciliation.
// GET /api/v1/schedule/class-sections
func (h *TimetableHandler) ListClassSections(c *gin.Context) {
	list, err := h.timetableSvc.ClassSections(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// ExportWeek streams the week grid as an Excel workbook.
// GET /api/v1/schedule/week/export?class=&section=
func (h *TimetableHandler) ExportWeek(c *gin.Context) {
	var req dto.ScheduleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	className, section := resolveClassSection(c, req.ClassName, req.Section)

	buf, filename, err := h.exportSvc.ExportWeekXLSX(c.Request.Context(), className, section)
	if err != nil {
		if errors.Is(err, service.ErrExportNoData) {
			response.NotFound(c, 20005, "nothing to export for this class-section")
			return
		}
		h.handleTimetableError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleTimetableError maps timetable business errors to HTTP responses.
func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	if validationFailed(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSlotPlanNotFound):
		response.NotFound(c, 20001, "no slot definition exists for this class-section")
	case errors.Is(err, service.ErrCellNotFound):
		response.NotFound(c, 20002, "no slot exists for this period")
	case errors.Is(err, service.ErrInvalidSlotType):
		response.UnprocessableEntity(c, 20003, "subject can only be assigned to a teaching period")
	case errors.Is(err, service.ErrScheduleConflict):
		response.Conflict(c, 20004, "slot definition was changed by another editor, reload and retry")
	default:
		response.InternalError(c)
	}
}
