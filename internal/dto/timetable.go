package dto

// ── slot definition ──

// SlotSpec is one time block in a DefineSlots request, ordered by position.
type SlotSpec struct {
	StartTime string `json:"start_time" binding:"omitempty"`             // "08:10"
	EndTime   string `json:"end_time"   binding:"omitempty"`             // "08:50"
	SlotType  string `json:"slot_type"  binding:"required"`              // TEACHING | BREAK | LUNCH
	Label     string `json:"label"      binding:"omitempty,max=50"`      // "Period 1", "Lunch"
}

// DefineSlotsRequest replaces the full slot definition of a class-section
// and fans it out across Monday..Saturday. ExpectedVersion must match the
// stored plan version (0 when no plan exists yet).
type DefineSlotsRequest struct {
	ClassName       string     `json:"class_name"       binding:"required,max=20"`
	Section         string     `json:"section"          binding:"required,max=10"`
	TotalSlots      int        `json:"total_slots"      binding:"required,min=1,max=12"`
	ExpectedVersion int        `json:"expected_version" binding:"min=0"`
	Slots           []SlotSpec `json:"slots"            binding:"required,dive"`
}

// SlotPlanResponse describes the stored slot definition after a write.
type SlotPlanResponse struct {
	ClassName  string             `json:"class_name"`
	Section    string             `json:"section"`
	TotalSlots int                `json:"total_slots"`
	Version    int                `json:"version"`
	Slots      []SlotSpecResponse `json:"slots"`
}

// SlotSpecResponse is one defined time block with its period number.
type SlotSpecResponse struct {
	PeriodNo  int    `json:"period_no"`
	SlotType  string `json:"slot_type"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ── subject assignment ──

// AssignSubjectRequest sets or clears the subject of one grid cell. An empty
// (or all-blank) subject clears the assignment.
type AssignSubjectRequest struct {
	ClassName string `json:"class_name"  binding:"required,max=20"`
	Section   string `json:"section"     binding:"required,max=10"`
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=6"`
	PeriodNo  int    `json:"period_no"   binding:"required,min=1,max=12"`
	Subject   string `json:"subject"     binding:"max=100"`
}

// ── read side ──

// ScheduleQueryRequest identifies the class-section a read applies to.
// Values may come from the query string or, for student/teacher callers,
// from the identity headers.
type ScheduleQueryRequest struct {
	ClassName string `form:"class"   binding:"omitempty,max=20"`
	Section   string `form:"section" binding:"omitempty,max=10"`
}

// TodayViewRequest adds the date to resolve the weekday.
type TodayViewRequest struct {
	ScheduleQueryRequest
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// PeriodColumn is one teaching column of the week grid.
type PeriodColumn struct {
	PeriodNo  int    `json:"period_no"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeekDayRow is one weekday row; Subjects aligns index-for-index with the
// response's Columns.
type WeekDayRow struct {
	DayOfWeek int      `json:"day_of_week"`
	DayName   string   `json:"day_name"`
	Subjects  []string `json:"subjects"`
}

// NonTeachingCaption is a BREAK/LUNCH slot displayed beside the grid rather
// than inside it.
type NonTeachingCaption struct {
	PeriodNo  int    `json:"period_no"`
	SlotType  string `json:"slot_type"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeekViewResponse is the full Monday..Saturday grid plus captions.
type WeekViewResponse struct {
	ClassName string               `json:"class_name"`
	Section   string               `json:"section"`
	Columns   []PeriodColumn       `json:"columns"`
	Rows      []WeekDayRow         `json:"rows"`
	Captions  []NonTeachingCaption `json:"captions"`
}

// TodayPeriod is one teaching slot of a single-day view.
type TodayPeriod struct {
	PeriodNo  int    `json:"period_no"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Subject   string `json:"subject"`
}

// TodayViewResponse lists the teaching slots for one date's weekday.
// Empty on Sundays and for class-sections without slot definitions.
type TodayViewResponse struct {
	ClassName string        `json:"class_name"`
	Section   string        `json:"section"`
	Date      string        `json:"date"`
	DayOfWeek int           `json:"day_of_week"`
	Periods   []TodayPeriod `json:"periods"`
}

// ClassSectionListResponse is the admin diagnostic of stored keys.
type ClassSectionListResponse struct {
	ClassSections []ClassSectionItem `json:"class_sections"`
}

// ClassSectionItem is one stored class-section key with its cell count.
type ClassSectionItem struct {
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	CellCount int    `json:"cell_count"`
}
