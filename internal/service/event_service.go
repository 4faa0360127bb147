package service

import (
	"context"
	"errors"
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

// ── event module errors ──

var (
	ErrEventNotFound = errors.New("schedule event does not exist")
	ErrEventConflict = errors.New("schedule event was changed by another editor")
)

const dateLayout = "2006-01-02"

// EventService manages single-dated exam/PTM records. Events target one
// class-section or the whole school through the ALL/ALL sentinel; listings
// resolve the caller's class spelling through classkey, exactly as the
// timetable reads do.
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req *dto.ListEventsRequest) (*dto.ListEventsResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService creates an EventService instance.
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	eventType := strings.ToUpper(strings.TrimSpace(req.EventType))
	if !model.ValidEventType(eventType) {
		return nil, &ValidationError{Field: "event_type", Reason: "unknown event type"}
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if err := validateEventTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	event := &model.ScheduleEvent{
		ClassName: strings.ToUpper(strings.TrimSpace(req.ClassName)),
		Section:   classkey.NormalizeSection(req.Section),
		EventType: eventType,
		EventDate: date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     strings.TrimSpace(req.Venue),
		Agenda:    strings.TrimSpace(req.Agenda),
		Notes:     strings.TrimSpace(req.Notes),
		Version:   1,
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}

	return toEventResponse(event), nil
}

func validateEventTimes(start, end string) error {
	st, err := parseClock(start)
	if err != nil {
		return &ValidationError{Field: "start_time", Reason: "must be HH:MM"}
	}
	et, err := parseClock(end)
	if err != nil {
		return &ValidationError{Field: "end_time", Reason: "must be HH:MM"}
	}
	if !st.IsZero() && !et.IsZero() && !et.After(st) {
		return &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("load event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEventResponse(event), nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("load event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.ClassName != nil {
		event.ClassName = strings.ToUpper(strings.TrimSpace(*req.ClassName))
	}
	if req.Section != nil {
		event.Section = classkey.NormalizeSection(*req.Section)
	}
	if req.EventType != nil {
		eventType := strings.ToUpper(strings.TrimSpace(*req.EventType))
		if !model.ValidEventType(eventType) {
			return nil, &ValidationError{Field: "event_type", Reason: "unknown event type"}
		}
		event.EventType = eventType
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
		event.EventDate = date
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if err := validateEventTimes(event.StartTime, event.EndTime); err != nil {
		return nil, err
	}
	if req.Venue != nil {
		event.Venue = strings.TrimSpace(*req.Venue)
	}
	if req.Agenda != nil {
		event.Agenda = strings.TrimSpace(*req.Agenda)
	}
	if req.Notes != nil {
		event.Notes = strings.TrimSpace(*req.Notes)
	}

	if err := s.repo.Event.Update(ctx, event, req.ExpectedVersion); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEventConflict
		}
		s.logger.Error("update event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toEventResponse(event), nil
}

// ────────────────────── Delete ──────────────────────

// Delete removes the event permanently. There is no tombstone or audit
// trail; whether one is needed is an open product question.
func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Event.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("load event failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Event.Delete(ctx, id); err != nil {
		s.logger.Error("delete event failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, req *dto.ListEventsRequest) (*dto.ListEventsResponse, error) {
	asOf := time.Now()
	if req.AsOf != "" {
		parsed, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			return nil, &ValidationError{Field: "as_of", Reason: "must be YYYY-MM-DD"}
		}
		asOf = parsed
	}
	asOfDay := asOf.Format(dateLayout)

	candidates := classkey.CandidateKeys(req.ClassName)
	section := classkey.NormalizeSection(req.Section)
	eventType := strings.ToUpper(strings.TrimSpace(req.EventType))

	events, err := s.repo.Event.List(ctx, candidates, section, eventType)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.ListEventsResponse{
		AsOf:     asOfDay,
		Upcoming: []dto.EventResponse{},
		Past:     []dto.EventResponse{},
	}

	// events arrive date-ascending; the partition keeps upcoming ascending
	// and flips past to descending. Comparison is on the calendar day so an
	// event dated today counts as upcoming.
	for i := range events {
		e := &events[i]
		if e.EventDate.Format(dateLayout) >= asOfDay {
			resp.Upcoming = append(resp.Upcoming, *toEventResponse(e))
		} else {
			resp.Past = append(resp.Past, *toEventResponse(e))
		}
	}
	for i, j := 0, len(resp.Past)-1; i < j; i, j = i+1, j-1 {
		resp.Past[i], resp.Past[j] = resp.Past[j], resp.Past[i]
	}

	return resp, nil
}

// ── helpers ──

func toEventResponse(e *model.ScheduleEvent) *dto.EventResponse {
	return &dto.EventResponse{
		ID:        e.EventID,
		ClassName: e.ClassName,
		Section:   e.Section,
		EventType: e.EventType,
		Date:      e.EventDate.Format(dateLayout),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Venue:     e.Venue,
		Agenda:    e.Agenda,
		Notes:     e.Notes,
		Global:    e.IsGlobal(),
		Version:   e.Version,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
