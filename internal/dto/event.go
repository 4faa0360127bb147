package dto

// ── schedule events (exams / PTMs) ──

// CreateEventRequest creates a single dated event. class_name/section may be
// the sentinel pair ALL/ALL for a school-wide event.
type CreateEventRequest struct {
	ClassName string `json:"class_name" binding:"required,max=20"`
	Section   string `json:"section"    binding:"required,max=10"`
	EventType string `json:"event_type" binding:"required"`
	Date      string `json:"date"       binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"omitempty"`
	EndTime   string `json:"end_time"   binding:"omitempty"`
	Venue     string `json:"venue"      binding:"omitempty,max=100"`
	Agenda    string `json:"agenda"     binding:"omitempty,max=2000"`
	Notes     string `json:"notes"      binding:"omitempty,max=2000"`
}

// UpdateEventRequest patches an event. ExpectedVersion must match the stored
// row or the update is rejected as a conflict.
type UpdateEventRequest struct {
	ClassName       *string `json:"class_name" binding:"omitempty,max=20"`
	Section         *string `json:"section"    binding:"omitempty,max=10"`
	EventType       *string `json:"event_type"`
	Date            *string `json:"date"       binding:"omitempty,datetime=2006-01-02"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Venue           *string `json:"venue"      binding:"omitempty,max=100"`
	Agenda          *string `json:"agenda"     binding:"omitempty,max=2000"`
	Notes           *string `json:"notes"      binding:"omitempty,max=2000"`
	ExpectedVersion int     `json:"expected_version" binding:"required,min=1"`
}

// ListEventsRequest filters events for one class-section. Global ALL/ALL
// events are always included. AsOf defaults to today.
type ListEventsRequest struct {
	ClassName string `form:"class"   binding:"omitempty,max=20"`
	Section   string `form:"section" binding:"omitempty,max=10"`
	EventType string `form:"type"    binding:"omitempty"`
	AsOf      string `form:"as_of"   binding:"omitempty,datetime=2006-01-02"`
}

// EventResponse is one stored event.
type EventResponse struct {
	ID        string `json:"id"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	EventType string `json:"event_type"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Venue     string `json:"venue"`
	Agenda    string `json:"agenda"`
	Notes     string `json:"notes"`
	Global    bool   `json:"global"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
}

// ListEventsResponse partitions matched events around the as-of date:
// upcoming ascending, past descending, disjoint and jointly exhaustive.
type ListEventsResponse struct {
	AsOf     string          `json:"as_of"`
	Upcoming []EventResponse `json:"upcoming"`
	Past     []EventResponse `json:"past"`
}
