package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sivaogeti/school-management/internal/classkey"
	"github.com/sivaogeti/school-management/internal/dto"
	"github.com/sivaogeti/school-management/internal/model"
	"github.com/sivaogeti/school-management/internal/repository"
	pkgerrors "github.com/sivaogeti/school-management/pkg/errors"
)

// ── timetable module errors ──

var (
	ErrSlotPlanNotFound  = errors.New("no slot definition exists for this class-section")
	ErrCellNotFound      = errors.New("no slot exists for this period")
	ErrInvalidSlotType   = errors.New("subject can only be assigned to a teaching period")
	ErrScheduleConflict  = errors.New("slot definition was changed by another editor")
	ErrScheduleWriteFail = errors.New("schedule write failed")
)

// ValidationError rejects a single bad input field before anything is
// written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// TimetableService owns the weekly grid: slot definitions with their
// Monday..Saturday fan-out, per-cell subject assignment, and the read views
// shared by the admin and student/teacher surfaces. All class-name inputs are
// resolved through classkey candidates, so callers may use any spelling
// variant the data was stored under.
type TimetableService interface {
	DefineSlots(ctx context.Context, req *dto.DefineSlotsRequest) (*dto.SlotPlanResponse, error)
	AssignSubject(ctx context.Context, req *dto.AssignSubjectRequest) error
	WeekView(ctx context.Context, className, section string) (*dto.WeekViewResponse, error)
	TodayView(ctx context.Context, className, section string, date time.Time) (*dto.TodayViewResponse, error)
	ClassSections(ctx context.Context) (*dto.ClassSectionListResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService creates a TimetableService instance.
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── DefineSlots ──────────────────────

func (s *timetableService) DefineSlots(ctx context.Context, req *dto.DefineSlotsRequest) (*dto.SlotPlanResponse, error) {
	if err := validateSlotSpecs(req); err != nil {
		return nil, err
	}

	candidates := classkey.CandidateKeys(req.ClassName)
	if len(candidates) == 0 {
		return nil, &ValidationError{Field: "class_name", Reason: "must not be blank"}
	}
	section := classkey.NormalizeSection(req.Section)

	// Resolve the stored spelling first: a definition typed as "1" must
	// update a plan stored under "I" rather than fork a second grid.
	existing, err := s.repo.Timetable.GetPlanByCandidates(ctx, candidates, section)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("resolve slot plan failed", zap.Error(err))
		return nil, err
	}

	var (
		storedClass   = candidates[0]
		storedSection = section
		planID        string
		expected      = req.ExpectedVersion
	)
	if existing != nil {
		if req.ExpectedVersion != existing.Version {
			return nil, ErrScheduleConflict
		}
		storedClass = existing.ClassName
		storedSection = existing.Section
		planID = existing.PlanID
	} else if req.ExpectedVersion != 0 {
		// Caller thinks it is editing a plan that no longer exists.
		return nil, ErrScheduleConflict
	}

	// Existing subjects survive redefinition as long as their period stays a
	// teaching slot.
	prevSubjects, err := s.teachingSubjects(ctx, candidates, section)
	if err != nil {
		s.logger.Error("load existing cells failed", zap.Error(err))
		return nil, err
	}

	cells := make([]model.TimetableCell, 0, len(model.TeachingWeekdays)*req.TotalSlots)
	for _, day := range model.TeachingWeekdays {
		for p := 1; p <= req.TotalSlots; p++ {
			spec := req.Slots[p-1]
			cell := model.TimetableCell{
				ClassName: storedClass,
				Section:   storedSection,
				DayOfWeek: day,
				PeriodNo:  p,
				StartTime: spec.StartTime,
				EndTime:   spec.EndTime,
				SlotType:  spec.SlotType,
				Label:     spec.Label,
			}
			if spec.SlotType == model.SlotTeaching {
				if subject, ok := prevSubjects[cellKey{day, p}]; ok {
					cell.Subject = subject
				}
			}
			cells = append(cells, cell)
		}
	}

	plan := &model.SlotPlan{
		PlanID:     planID,
		ClassName:  storedClass,
		Section:    storedSection,
		TotalSlots: req.TotalSlots,
	}

	if err := s.repo.Timetable.ReplacePlan(ctx, plan, expected, cells); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrScheduleConflict
		}
		s.logger.Error("replace slot plan failed",
			zap.String("class_name", storedClass),
			zap.String("section", storedSection),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrScheduleWriteFail, err)
	}

	resp := &dto.SlotPlanResponse{
		ClassName:  plan.ClassName,
		Section:    plan.Section,
		TotalSlots: plan.TotalSlots,
		Version:    plan.Version,
		Slots:      make([]dto.SlotSpecResponse, 0, len(req.Slots)),
	}
	for i, spec := range req.Slots {
		resp.Slots = append(resp.Slots, dto.SlotSpecResponse{
			PeriodNo:  i + 1,
			SlotType:  spec.SlotType,
			Label:     spec.Label,
			StartTime: spec.StartTime,
			EndTime:   spec.EndTime,
		})
	}
	return resp, nil
}

type cellKey struct {
	day    int
	period int
}

// teachingSubjects indexes the currently assigned subjects of teaching cells
// by (day, period).
func (s *timetableService) teachingSubjects(ctx context.Context, candidates []string, section string) (map[cellKey]*string, error) {
	cells, err := s.repo.Timetable.ListCells(ctx, candidates, section)
	if err != nil {
		return nil, err
	}
	subjects := make(map[cellKey]*string)
	for i := range cells {
		c := &cells[i]
		if c.SlotType == model.SlotTeaching && c.Subject != nil && *c.Subject != "" {
			subjects[cellKey{c.DayOfWeek, c.PeriodNo}] = c.Subject
		}
	}
	return subjects, nil
}

func validateSlotSpecs(req *dto.DefineSlotsRequest) error {
	if req.TotalSlots < 1 || req.TotalSlots > model.MaxSlotsPerDay {
		return &ValidationError{Field: "total_slots", Reason: fmt.Sprintf("must be between 1 and %d", model.MaxSlotsPerDay)}
	}
	if len(req.Slots) != req.TotalSlots {
		return &ValidationError{Field: "slots", Reason: fmt.Sprintf("expected %d slot specs, got %d", req.TotalSlots, len(req.Slots))}
	}
	for i, spec := range req.Slots {
		field := fmt.Sprintf("slots[%d]", i)
		if !model.ValidSlotType(spec.SlotType) {
			return &ValidationError{Field: field + ".slot_type", Reason: fmt.Sprintf("unknown slot type %q", spec.SlotType)}
		}
		start, err := parseClock(spec.StartTime)
		if err != nil {
			return &ValidationError{Field: field + ".start_time", Reason: "must be HH:MM"}
		}
		end, err := parseClock(spec.EndTime)
		if err != nil {
			return &ValidationError{Field: field + ".end_time", Reason: "must be HH:MM"}
		}
		if !start.IsZero() && !end.IsZero() && !end.After(start) {
			return &ValidationError{Field: field + ".end_time", Reason: "must be after start_time"}
		}
	}
	return nil
}

// parseClock parses "HH:MM"; empty input yields the zero time.
func parseClock(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse("15:04", v)
}

// ────────────────────── AssignSubject ──────────────────────

func (s *timetableService) AssignSubject(ctx context.Context, req *dto.AssignSubjectRequest) error {
	candidates := classkey.CandidateKeys(req.ClassName)
	if len(candidates) == 0 {
		return &ValidationError{Field: "class_name", Reason: "must not be blank"}
	}
	section := classkey.NormalizeSection(req.Section)

	plan, err := s.repo.Timetable.GetPlanByCandidates(ctx, candidates, section)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotPlanNotFound
		}
		s.logger.Error("resolve slot plan failed", zap.Error(err))
		return err
	}

	cell, err := s.repo.Timetable.GetCell(ctx, plan.ClassName, plan.Section, req.DayOfWeek, req.PeriodNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCellNotFound
		}
		s.logger.Error("load cell failed", zap.Error(err))
		return err
	}
	if cell.SlotType != model.SlotTeaching {
		return ErrInvalidSlotType
	}

	var subject *string
	if trimmed := strings.TrimSpace(req.Subject); trimmed != "" {
		subject = &trimmed
	}

	if err := s.repo.Timetable.UpdateSubject(ctx, plan.ClassName, plan.Section, req.DayOfWeek, req.PeriodNo, subject); err != nil {
		s.logger.Error("update subject failed",
			zap.String("class_name", plan.ClassName),
			zap.String("section", plan.Section),
			zap.Int("day_of_week", req.DayOfWeek),
			zap.Int("period_no", req.PeriodNo),
			zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── WeekView ──────────────────────

func (s *timetableService) WeekView(ctx context.Context, className, section string) (*dto.WeekViewResponse, error) {
	candidates := classkey.CandidateKeys(className)
	normSection := classkey.NormalizeSection(section)

	resp := &dto.WeekViewResponse{
		ClassName: strings.TrimSpace(className),
		Section:   normSection,
		Columns:   []dto.PeriodColumn{},
		Rows:      []dto.WeekDayRow{},
		Captions:  []dto.NonTeachingCaption{},
	}

	cells, err := s.repo.Timetable.ListCells(ctx, candidates, normSection)
	if err != nil {
		s.logger.Error("list cells failed", zap.Error(err))
		return nil, err
	}
	if len(cells) == 0 {
		// unknown spelling or no definition yet: empty grid, not an error
		return resp, nil
	}
	resp.ClassName = cells[0].ClassName
	resp.Section = cells[0].Section

	// Slot metadata is defined once per period and replicated across days, so
	// the first cell seen for a period carries the authoritative
	// type/label/times.
	meta := make(map[int]*model.TimetableCell)
	subjects := make(map[cellKey]string)
	for i := range cells {
		c := &cells[i]
		if _, ok := meta[c.PeriodNo]; !ok {
			meta[c.PeriodNo] = c
		}
		if c.SlotType == model.SlotTeaching && c.Subject != nil {
			subjects[cellKey{c.DayOfWeek, c.PeriodNo}] = *c.Subject
		}
	}

	periods := make([]int, 0, len(meta))
	for p := range meta {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	for _, p := range periods {
		m := meta[p]
		if m.SlotType == model.SlotTeaching {
			resp.Columns = append(resp.Columns, dto.PeriodColumn{
				PeriodNo:  p,
				Label:     m.Label,
				StartTime: m.StartTime,
				EndTime:   m.EndTime,
			})
		} else {
			resp.Captions = append(resp.Captions, dto.NonTeachingCaption{
				PeriodNo:  p,
				SlotType:  m.SlotType,
				Label:     m.Label,
				StartTime: m.StartTime,
				EndTime:   m.EndTime,
			})
		}
	}

	for _, day := range model.TeachingWeekdays {
		row := dto.WeekDayRow{
			DayOfWeek: day,
			DayName:   model.WeekdayName(day),
			Subjects:  make([]string, len(resp.Columns)),
		}
		for i, col := range resp.Columns {
			row.Subjects[i] = subjects[cellKey{day, col.PeriodNo}]
		}
		resp.Rows = append(resp.Rows, row)
	}

	return resp, nil
}

// ────────────────────── TodayView ──────────────────────

func (s *timetableService) TodayView(ctx context.Context, className, section string, date time.Time) (*dto.TodayViewResponse, error) {
	day := int(date.Weekday())
	if day == 0 {
		day = model.Sunday
	}

	resp := &dto.TodayViewResponse{
		ClassName: strings.TrimSpace(className),
		Section:   classkey.NormalizeSection(section),
		Date:      date.Format("2006-01-02"),
		DayOfWeek: day,
		Periods:   []dto.TodayPeriod{},
	}
	if day == model.Sunday {
		// Sunday never carries teaching slots
		return resp, nil
	}

	candidates := classkey.CandidateKeys(className)
	cells, err := s.repo.Timetable.ListCells(ctx, candidates, resp.Section)
	if err != nil {
		s.logger.Error("list cells failed", zap.Error(err))
		return nil, err
	}

	for i := range cells {
		c := &cells[i]
		if c.DayOfWeek != day || c.SlotType != model.SlotTeaching {
			continue
		}
		subject := ""
		if c.Subject != nil {
			subject = *c.Subject
		}
		resp.Periods = append(resp.Periods, dto.TodayPeriod{
			PeriodNo:  c.PeriodNo,
			Label:     c.Label,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Subject:   subject,
		})
	}
	sort.Slice(resp.Periods, func(i, j int) bool {
		return resp.Periods[i].PeriodNo < resp.Periods[j].PeriodNo
	})

	return resp, nil
}

// ────────────────────── ClassSections ──────────────────────

func (s *timetableService) ClassSections(ctx context.Context) (*dto.ClassSectionListResponse, error) {
	infos, err := s.repo.Timetable.ListClassSections(ctx)
	if err != nil {
		s.logger.Error("list class sections failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.ClassSectionListResponse{ClassSections: make([]dto.ClassSectionItem, 0, len(infos))}
	for _, info := range infos {
		resp.ClassSections = append(resp.ClassSections, dto.ClassSectionItem{
			ClassName: info.ClassName,
			Section:   info.Section,
			CellCount: info.CellCount,
		})
	}
	return resp, nil
}
