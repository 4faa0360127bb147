package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sivaogeti/school-management/internal/dto"
)

// ── export module errors ──

var (
	ErrExportNoData       = errors.New("nothing to export for this class-section")
	ErrExportGenerateFail = errors.New("failed to generate export file")
)

// ExportService renders download formats on top of the schedule reads:
// the week grid as an Excel workbook for the school office, and the event
// list as an iCalendar feed parents can subscribe to. It reuses the service
// views rather than raw storage so the grid invariants stay enforced in one
// place.
type ExportService interface {
	// ExportWeekXLSX returns the workbook bytes and a suggested filename.
	ExportWeekXLSX(ctx context.Context, className, section string) (*bytes.Buffer, string, error)
	// ExportEventsICS returns the calendar bytes and a suggested filename.
	ExportEventsICS(ctx context.Context, className, section string) (*bytes.Buffer, string, error)
}

type exportService struct {
	timetable TimetableService
	events    EventService
	logger    *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(timetable TimetableService, events EventService, logger *zap.Logger) ExportService {
	return &exportService{timetable: timetable, events: events, logger: logger}
}

// ────────────────────── ExportWeekXLSX ──────────────────────
//
// Layout: title row, then a header of period columns, one row per weekday
// Monday..Saturday, and the break/lunch captions appended underneath.

func (s *exportService) ExportWeekXLSX(ctx context.Context, className, section string) (*bytes.Buffer, string, error) {
	week, err := s.timetable.WeekView(ctx, className, section)
	if err != nil {
		return nil, "", err
	}
	if len(week.Columns) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Timetable"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	title := fmt.Sprintf("Class %s-%s — Weekly Timetable", week.ClassName, week.Section)
	f.SetCellValue(sheet, "A1", title)
	f.MergeCell(sheet, "A1", cellRef(1+len(week.Columns), 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// header
	row := 2
	f.SetCellValue(sheet, cellRef(1, row), "Day")
	for i, col := range week.Columns {
		text := col.Label
		if col.StartTime != "" && col.EndTime != "" {
			text = fmt.Sprintf("%s (%s-%s)", col.Label, col.StartTime, col.EndTime)
		}
		f.SetCellValue(sheet, cellRef(2+i, row), text)
	}

	// weekday rows
	row = 3
	for _, day := range week.Rows {
		f.SetCellValue(sheet, cellRef(1, row), day.DayName)
		for i, subject := range day.Subjects {
			if subject == "" {
				subject = "-"
			}
			f.SetCellValue(sheet, cellRef(2+i, row), subject)
		}
		row++
	}

	// captions
	row++
	for _, caption := range week.Captions {
		text := caption.Label
		if caption.StartTime != "" && caption.EndTime != "" {
			text = fmt.Sprintf("%s (%s-%s)", caption.Label, caption.StartTime, caption.EndTime)
		}
		f.SetCellValue(sheet, cellRef(1, row), text)
		row++
	}

	f.SetColWidth(sheet, "A", "A", 12)
	last, _ := excelize.ColumnNumberToName(1 + len(week.Columns))
	f.SetColWidth(sheet, "B", last, 18)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s_%s.xlsx", sanitizeFilePart(week.ClassName), sanitizeFilePart(week.Section))
	return buf, filename, nil
}

// ────────────────────── ExportEventsICS ──────────────────────

func (s *exportService) ExportEventsICS(ctx context.Context, className, section string) (*bytes.Buffer, string, error) {
	list, err := s.events.List(ctx, &dto.ListEventsRequest{ClassName: className, Section: section})
	if err != nil {
		return nil, "", err
	}

	all := make([]dto.EventResponse, 0, len(list.Upcoming)+len(list.Past))
	all = append(all, list.Past...)
	all = append(all, list.Upcoming...)
	if len(all) == 0 {
		return nil, "", ErrExportNoData
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//school-management//schedule//EN")

	for _, e := range all {
		evt := cal.AddEvent(e.ID + "@school-management")
		evt.SetSummary(eventSummary(&e))
		if e.Venue != "" {
			evt.SetLocation(e.Venue)
		}
		if e.Agenda != "" {
			evt.SetDescription(e.Agenda)
		}

		start, end, allDay := eventInterval(&e)
		if allDay {
			evt.SetAllDayStartAt(start)
			evt.SetAllDayEndAt(end)
		} else {
			evt.SetStartAt(start)
			evt.SetEndAt(end)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("events_%s_%s.ics", sanitizeFilePart(className), sanitizeFilePart(section))
	return buf, filename, nil
}

func eventSummary(e *dto.EventResponse) string {
	target := e.ClassName + "-" + e.Section
	if e.Global {
		target = "All classes"
	}
	return fmt.Sprintf("%s (%s)", e.EventType, target)
}

// eventInterval resolves the concrete start/end instants; events without
// clock times become all-day entries.
func eventInterval(e *dto.EventResponse) (start, end time.Time, allDay bool) {
	day, _ := time.Parse("2006-01-02", e.Date)
	st, errS := time.Parse("15:04", e.StartTime)
	et, errE := time.Parse("15:04", e.EndTime)
	if e.StartTime == "" || errS != nil {
		return day, day.AddDate(0, 0, 1), true
	}
	start = day.Add(time.Duration(st.Hour())*time.Hour + time.Duration(st.Minute())*time.Minute)
	if e.EndTime == "" || errE != nil {
		return start, start.Add(time.Hour), false
	}
	end = day.Add(time.Duration(et.Hour())*time.Hour + time.Duration(et.Minute())*time.Minute)
	return start, end, false
}

// ── helpers ──

func cellRef(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func sanitizeFilePart(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, " ", "_")
	if v == "" {
		return "all"
	}
	return v
}
