package model

// Slot types. Subjects are assignable only to TEACHING slots; BREAK and
// LUNCH rows exist so the day's time blocks stay contiguous and render as
// captions next to the grid.
const (
	SlotTeaching = "TEACHING"
	SlotBreak    = "BREAK"
	SlotLunch    = "LUNCH"
)

// MaxSlotsPerDay bounds total_slots in a slot definition.
const MaxSlotsPerDay = 12

// ValidSlotType reports whether t is a known slot type.
func ValidSlotType(t string) bool {
	switch t {
	case SlotTeaching, SlotBreak, SlotLunch:
		return true
	}
	return false
}

// SlotPlan is the per-class-section slot definition header — maps to
// slot_plans. Version implements optimistic locking on DefineSlots: a write
// whose expected version does not match the stored row is rejected instead
// of silently overwriting a concurrent edit.
type SlotPlan struct {
	PlanID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	ClassName  string `gorm:"type:varchar(20);not null"                      json:"class_name"`
	Section    string `gorm:"type:varchar(10);not null"                      json:"section"`
	TotalSlots int    `gorm:"type:smallint;not null"                         json:"total_slots"`
	Version    int    `gorm:"not null;default:1"                             json:"version"`
	BaseModel
}

// TableName sets the table name.
func (SlotPlan) TableName() string { return "slot_plans" }

// TimetableCell is one grid cell — maps to timetable_cells. Slot metadata
// (type, label, times) is defined once per period and replicated across all
// six teaching weekdays; Subject is set per (day, period) and only on
// TEACHING slots.
type TimetableCell struct {
	CellID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cell_id"`
	ClassName string  `gorm:"type:varchar(20);not null"                      json:"class_name"`
	Section   string  `gorm:"type:varchar(10);not null"                      json:"section"`
	DayOfWeek int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=Mon .. 6=Sat
	PeriodNo  int     `gorm:"type:smallint;not null"                         json:"period_no"`   // 1..12
	StartTime string  `gorm:"type:time"                                      json:"start_time"`
	EndTime   string  `gorm:"type:time"                                      json:"end_time"`
	SlotType  string  `gorm:"type:varchar(10);not null;default:'TEACHING'"   json:"slot_type"`
	Label     string  `gorm:"type:varchar(50)"                               json:"label"`
	Subject   *string `gorm:"type:varchar(100)"                              json:"subject,omitempty"`
	BaseModel
}

// TableName sets the table name.
func (TimetableCell) TableName() string { return "timetable_cells" }

// ClassSectionInfo is a diagnostic row: a stored class-section key and how
// many grid cells it holds. Used by administrators to reconcile spelling
// variants that match no profile.
type ClassSectionInfo struct {
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	CellCount int    `json:"cell_count"`
}
