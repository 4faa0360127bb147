package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/sivaogeti/school-management/internal/model"
	pkgerrors "github.com/sivaogeti/school-management/pkg/errors"
)

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	plans  map[string]*model.SlotPlan // keyed by plan id
	cells  []model.TimetableCell
	nextID int
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{plans: make(map[string]*model.SlotPlan)}
}

func (m *mockTimetableRepo) matchesCandidates(className, section string, candidates []string, wantSection string) bool {
	upperClass := strings.ToUpper(className)
	if strings.ToUpper(section) != wantSection {
		return false
	}
	for _, c := range candidates {
		if upperClass == c {
			return true
		}
	}
	return false
}

func (m *mockTimetableRepo) GetPlanByCandidates(_ context.Context, candidates []string, section string) (*model.SlotPlan, error) {
	for _, p := range m.plans {
		if m.matchesCandidates(p.ClassName, p.Section, candidates, section) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) ReplacePlan(_ context.Context, plan *model.SlotPlan, expectedVersion int, cells []model.TimetableCell) error {
	if expectedVersion == 0 {
		m.nextID++
		plan.PlanID = fmt.Sprintf("plan-%d", m.nextID)
		plan.Version = 1
		stored := *plan
		m.plans[plan.PlanID] = &stored
	} else {
		stored, ok := m.plans[plan.PlanID]
		if !ok || stored.Version != expectedVersion {
			return pkgerrors.ErrOptimisticLock
		}
		stored.TotalSlots = plan.TotalSlots
		stored.Version = expectedVersion + 1
		plan.Version = stored.Version
	}

	kept := m.cells[:0]
	for _, c := range m.cells {
		if c.ClassName == plan.ClassName && c.Section == plan.Section {
			continue
		}
		kept = append(kept, c)
	}
	m.cells = kept

	for _, c := range cells {
		m.nextID++
		c.CellID = fmt.Sprintf("cell-%d", m.nextID)
		m.cells = append(m.cells, c)
	}
	return nil
}

func (m *mockTimetableRepo) ListCells(_ context.Context, candidates []string, section string) ([]model.TimetableCell, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var result []model.TimetableCell
	for _, c := range m.cells {
		if m.matchesCandidates(c.ClassName, c.Section, candidates, section) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].PeriodNo < result[j].PeriodNo
	})
	return result, nil
}

func (m *mockTimetableRepo) GetCell(_ context.Context, className, section string, day, period int) (*model.TimetableCell, error) {
	for i := range m.cells {
		c := &m.cells[i]
		if c.ClassName == className && c.Section == section && c.DayOfWeek == day && c.PeriodNo == period {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) UpdateSubject(_ context.Context, className, section string, day, period int, subject *string) error {
	for i := range m.cells {
		c := &m.cells[i]
		if c.ClassName == className && c.Section == section && c.DayOfWeek == day && c.PeriodNo == period {
			c.Subject = subject
			return nil
		}
	}
	return nil
}

func (m *mockTimetableRepo) ListClassSections(_ context.Context) ([]model.ClassSectionInfo, error) {
	counts := make(map[string]*model.ClassSectionInfo)
	for _, c := range m.cells {
		key := c.ClassName + "|" + c.Section
		if info, ok := counts[key]; ok {
			info.CellCount++
			continue
		}
		counts[key] = &model.ClassSectionInfo{ClassName: c.ClassName, Section: c.Section, CellCount: 1}
	}
	var result []model.ClassSectionInfo
	for _, info := range counts {
		result = append(result, *info)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ClassName != result[j].ClassName {
			return result[i].ClassName < result[j].ClassName
		}
		return result[i].Section < result[j].Section
	})
	return result, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.ScheduleEvent
	nextID int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.ScheduleEvent)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.ScheduleEvent) error {
	m.nextID++
	event.EventID = fmt.Sprintf("event-%d", m.nextID)
	stored := *event
	m.events[event.EventID] = &stored
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.ScheduleEvent, error) {
	if e, ok := m.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) Update(_ context.Context, event *model.ScheduleEvent, expectedVersion int) error {
	stored, ok := m.events[event.EventID]
	if !ok || stored.Version != expectedVersion {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = expectedVersion + 1
	copied := *event
	m.events[event.EventID] = &copied
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, candidates []string, section string, eventType string) ([]model.ScheduleEvent, error) {
	var result []model.ScheduleEvent
	for _, e := range m.events {
		if len(candidates) > 0 {
			classMatch := false
			upperClass := strings.ToUpper(e.ClassName)
			upperSection := strings.ToUpper(e.Section)
			for _, c := range candidates {
				if upperClass == c && upperSection == section {
					classMatch = true
					break
				}
			}
			global := upperClass == model.GlobalTarget && upperSection == model.GlobalTarget
			if !classMatch && !global {
				continue
			}
		}
		if eventType != "" && strings.ToUpper(e.EventType) != eventType {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].EventDate.Equal(result[j].EventDate) {
			return result[i].EventDate.Before(result[j].EventDate)
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}
