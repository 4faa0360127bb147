package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sivaogeti/school-management/internal/model"
	pkgerrors "github.com/sivaogeti/school-management/pkg/errors"
)

// EventRepository is the data-access interface for dated exam/PTM events.
type EventRepository interface {
	Create(ctx context.Context, event *model.ScheduleEvent) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEvent, error)
	// Update is version-guarded: the stored version must equal expectedVersion
	// or ErrOptimisticLock is returned.
	Update(ctx context.Context, event *model.ScheduleEvent, expectedVersion int) error
	Delete(ctx context.Context, id string) error
	// List returns events matching any candidate class key OR the global
	// ALL/ALL sentinel, optionally filtered by type, ordered by date
	// ascending. Empty candidates lists every event (admin view).
	List(ctx context.Context, candidates []string, section string, eventType string) ([]model.ScheduleEvent, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository backed by gorm.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.ScheduleEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEvent, error) {
	var event model.ScheduleEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.ScheduleEvent, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEvent{}).
		Where("event_id = ? AND version = ?", event.EventID, expectedVersion).
		Updates(map[string]interface{}{
			"class_name": event.ClassName,
			"section":    event.Section,
			"event_type": event.EventType,
			"event_date": event.EventDate,
			"start_time": event.StartTime,
			"end_time":   event.EndTime,
			"venue":      event.Venue,
			"agenda":     event.Agenda,
			"notes":      event.Notes,
			"version":    expectedVersion + 1,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = expectedVersion + 1
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.ScheduleEvent{}).Error
}

func (r *eventRepo) List(ctx context.Context, candidates []string, section string, eventType string) ([]model.ScheduleEvent, error) {
	db := r.db.WithContext(ctx).Model(&model.ScheduleEvent{})

	if len(candidates) > 0 {
		// Class-scoped rows under any spelling variant, OR'ed with the
		// school-wide sentinel. Both sides are required: a grid query that
		// missed global events would hide exams announced for every class.
		db = db.Where(
			"(upper(class_name) IN ? AND upper(section) = ?) OR (upper(class_name) = ? AND upper(section) = ?)",
			candidates, section, model.GlobalTarget, model.GlobalTarget,
		)
	}
	if eventType != "" {
		db = db.Where("upper(event_type) = ?", eventType)
	}

	var events []model.ScheduleEvent
	err := db.Order("event_date ASC, start_time ASC").Find(&events).Error
	return events, err
}
