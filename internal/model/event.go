package model

import "time"

// Event types carried by schedule_events.
const (
	EventExam     = "EXAM"
	EventPT       = "PT"
	EventTerm     = "TERM"
	EventOlympiad = "OLYMPIAD"
	EventPTM      = "PTM"
)

// GlobalTarget is the sentinel class_name/section value marking a
// school-wide event visible to every class-section.
const GlobalTarget = "ALL"

// ValidEventType reports whether t is a known event type.
func ValidEventType(t string) bool {
	switch t {
	case EventExam, EventPT, EventTerm, EventOlympiad, EventPTM:
		return true
	}
	return false
}

// ScheduleEvent is a single dated exam/PTM record — maps to schedule_events.
// Not recurring; identified by surrogate id. Version guards concurrent
// updates the same way SlotPlan does.
type ScheduleEvent struct {
	EventID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	ClassName string    `gorm:"type:varchar(20);not null"                      json:"class_name"`
	Section   string    `gorm:"type:varchar(10);not null"                      json:"section"`
	EventType string    `gorm:"type:varchar(20);not null;default:'EXAM'"       json:"event_type"`
	EventDate time.Time `gorm:"type:date;not null"                             json:"event_date"`
	StartTime string    `gorm:"type:time"                                      json:"start_time"`
	EndTime   string    `gorm:"type:time"                                      json:"end_time"`
	Venue     string    `gorm:"type:varchar(100)"                              json:"venue"`
	Agenda    string    `gorm:"type:text"                                      json:"agenda"`
	Notes     string    `gorm:"type:text"                                      json:"notes"`
	Version   int       `gorm:"not null;default:1"                             json:"version"`
	BaseModel
}

// TableName sets the table name.
func (ScheduleEvent) TableName() string { return "schedule_events" }

// IsGlobal reports whether the event targets every class-section.
func (e *ScheduleEvent) IsGlobal() bool {
	return e.ClassName == GlobalTarget && e.Section == GlobalTarget
}
