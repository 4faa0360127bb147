package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/sivaogeti/school-management/internal/dto"
	"github.com/sivaogeti/school-management/internal/model"
	"github.com/sivaogeti/school-management/internal/repository"
)

// ── test helpers ──

func setupTestEventService() (EventService, *mockEventRepo) {
	eventRepo := newMockEventRepo()
	repo := &repository.Repository{
		Timetable: newMockTimetableRepo(),
		Event:     eventRepo,
	}
	return NewEventService(repo, zap.NewNop()), eventRepo
}

func createEvent(t *testing.T, svc EventService, className, section, eventType, date string) *dto.EventResponse {
	t.Helper()
	result, err := svc.Create(context.Background(), &dto.CreateEventRequest{
		ClassName: className,
		Section:   section,
		EventType: eventType,
		Date:      date,
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	return result
}

// ── Create tests ──

func TestEventService_Create_Success(t *testing.T) {
	svc, _ := setupTestEventService()

	result, err := svc.Create(context.Background(), &dto.CreateEventRequest{
		ClassName: " class 10 ",
		Section:   " a ",
		EventType: "exam",
		Date:      "2026-09-15",
		StartTime: "09:00",
		EndTime:   "11:00",
		Venue:     "Main Hall",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if result.ClassName != "CLASS 10" {
		t.Errorf("class name should be upper-trimmed, got %q", result.ClassName)
	}
	if result.Section != "A" {
		t.Errorf("section should be normalized, got %q", result.Section)
	}
	if result.EventType != model.EventExam {
		t.Errorf("event type should be uppercased, got %q", result.EventType)
	}
	if result.Version != 1 {
		t.Errorf("new event should start at version 1, got %d", result.Version)
	}
	if result.Global {
		t.Error("class-scoped event must not be marked global")
	}
}

func TestEventService_Create_GlobalSentinel(t *testing.T) {
	svc, _ := setupTestEventService()

	result := createEvent(t, svc, "all", "all", "PTM", "2026-10-01")
	if !result.Global {
		t.Error("ALL/ALL event should be marked global")
	}
}

func TestEventService_Create_Validation(t *testing.T) {
	svc, _ := setupTestEventService()
	ctx := context.Background()
	var ve *ValidationError

	// unknown event type
	_, err := svc.Create(ctx, &dto.CreateEventRequest{
		ClassName: "10", Section: "A", EventType: "PICNIC", Date: "2026-09-15",
	})
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for unknown event type, got: %v", err)
	}

	// malformed date
	_, err = svc.Create(ctx, &dto.CreateEventRequest{
		ClassName: "10", Section: "A", EventType: "EXAM", Date: "15-09-2026",
	})
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for malformed date, got: %v", err)
	}

	// end before start
	_, err = svc.Create(ctx, &dto.CreateEventRequest{
		ClassName: "10", Section: "A", EventType: "EXAM", Date: "2026-09-15",
		StartTime: "11:00", EndTime: "09:00",
	})
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for inverted times, got: %v", err)
	}
}

// ── Update tests ──

func TestEventService_Update_Success(t *testing.T) {
	svc, _ := setupTestEventService()
	created := createEvent(t, svc, "10", "A", "EXAM", "2026-09-15")

	venue := "Science Lab"
	result, err := svc.Update(context.Background(), created.ID, &dto.UpdateEventRequest{
		Venue:           &venue,
		ExpectedVersion: 1,
	})
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if result.Venue != "Science Lab" {
		t.Errorf("expected patched venue, got %q", result.Venue)
	}
	if result.Version != 2 {
		t.Errorf("expected version 2 after update, got %d", result.Version)
	}
	// untouched fields survive the patch
	if result.Date != "2026-09-15" || result.EventType != model.EventExam {
		t.Errorf("unpatched fields must be preserved, got %+v", result)
	}
}

func TestEventService_Update_StaleVersion(t *testing.T) {
	svc, _ := setupTestEventService()
	created := createEvent(t, svc, "10", "A", "EXAM", "2026-09-15")

	venue := "Main Hall"
	if _, err := svc.Update(context.Background(), created.ID, &dto.UpdateEventRequest{
		Venue: &venue, ExpectedVersion: 1,
	}); err != nil {
		t.Fatalf("first update should succeed: %v", err)
	}

	// second editor still holds version 1
	_, err := svc.Update(context.Background(), created.ID, &dto.UpdateEventRequest{
		Venue: &venue, ExpectedVersion: 1,
	})
	if !errors.Is(err, ErrEventConflict) {
		t.Errorf("expected ErrEventConflict for stale version, got: %v", err)
	}
}

func TestEventService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestEventService()

	venue := "Main Hall"
	_, err := svc.Update(context.Background(), "no-such-event", &dto.UpdateEventRequest{
		Venue: &venue, ExpectedVersion: 1,
	})
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got: %v", err)
	}
}

// ── Delete tests ──

func TestEventService_Delete(t *testing.T) {
	svc, eventRepo := setupTestEventService()
	created := createEvent(t, svc, "10", "A", "EXAM", "2026-09-15")

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if len(eventRepo.events) != 0 {
		t.Errorf("event should be gone, %d remain", len(eventRepo.events))
	}

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound on double delete, got: %v", err)
	}
}

// ── List tests ──

func TestEventService_List_GlobalVisibility(t *testing.T) {
	svc, _ := setupTestEventService()

	createEvent(t, svc, "10", "A", "EXAM", "2026-09-15")
	createEvent(t, svc, "9", "B", "EXAM", "2026-09-16")
	createEvent(t, svc, "ALL", "ALL", "PTM", "2026-09-20")

	list, err := svc.List(context.Background(), &dto.ListEventsRequest{
		ClassName: "10", Section: "A", AsOf: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}

	// own class event plus the school-wide PTM; 9-B's exam stays hidden
	if len(list.Upcoming) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(list.Upcoming))
	}
	for _, e := range list.Upcoming {
		if e.ClassName == "9" {
			t.Errorf("another class's event leaked into the listing: %+v", e)
		}
	}
}

func TestEventService_List_SpellingVariant(t *testing.T) {
	svc, _ := setupTestEventService()

	createEvent(t, svc, "X", "A", "EXAM", "2026-09-15")

	list, err := svc.List(context.Background(), &dto.ListEventsRequest{
		ClassName: "10", Section: "a", AsOf: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if len(list.Upcoming) != 1 {
		t.Errorf("digit spelling should see the roman-keyed event, got %d", len(list.Upcoming))
	}
}

func TestEventService_List_PartitionAndOrdering(t *testing.T) {
	svc, _ := setupTestEventService()

	createEvent(t, svc, "10", "A", "EXAM", "2026-08-20")
	createEvent(t, svc, "10", "A", "EXAM", "2026-08-28")
	createEvent(t, svc, "10", "A", "PTM", "2026-09-01") // same day as as_of: upcoming
	createEvent(t, svc, "10", "A", "EXAM", "2026-09-10")

	list, err := svc.List(context.Background(), &dto.ListEventsRequest{
		ClassName: "10", Section: "A", AsOf: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}

	if len(list.Upcoming) != 2 || len(list.Past) != 2 {
		t.Fatalf("expected 2 upcoming / 2 past, got %d / %d", len(list.Upcoming), len(list.Past))
	}
	// upcoming ascending: today's PTM before the later exam
	if list.Upcoming[0].Date != "2026-09-01" || list.Upcoming[1].Date != "2026-09-10" {
		t.Errorf("upcoming should ascend from the as-of date: %s, %s",
			list.Upcoming[0].Date, list.Upcoming[1].Date)
	}
	// past descending: most recent first
	if list.Past[0].Date != "2026-08-28" || list.Past[1].Date != "2026-08-20" {
		t.Errorf("past should descend: %s, %s", list.Past[0].Date, list.Past[1].Date)
	}
}

func TestEventService_List_TypeFilter(t *testing.T) {
	svc, _ := setupTestEventService()

	createEvent(t, svc, "10", "A", "EXAM", "2026-09-15")
	createEvent(t, svc, "10", "A", "PTM", "2026-09-20")

	list, err := svc.List(context.Background(), &dto.ListEventsRequest{
		ClassName: "10", Section: "A", EventType: "ptm", AsOf: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if len(list.Upcoming) != 1 || list.Upcoming[0].EventType != model.EventPTM {
		t.Errorf("expected only the PTM, got %+v", list.Upcoming)
	}
}

func TestEventService_List_AdminSeesAll(t *testing.T) {
	svc, _ := setupTestEventService()

	createEvent(t, svc, "10", "A", "EXAM", "2026-09-15")
	createEvent(t, svc, "9", "B", "EXAM", "2026-09-16")

	// no class filter: the admin calendar lists everything
	list, err := svc.List(context.Background(), &dto.ListEventsRequest{AsOf: "2026-09-01"})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if got := len(list.Upcoming) + len(list.Past); got != 2 {
		t.Errorf("expected all 2 events in the admin view, got %d", got)
	}
}
