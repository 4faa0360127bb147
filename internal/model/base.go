package model

import "time"

// BaseModel carries the audit timestamps embedded by every table.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Weekday numbering used across the schedule tables: 1=Monday .. 7=Sunday.
// Only 1..6 ever appear in timetable_cells; Sunday is permanently
// non-teaching.
const (
	Monday    = 1
	Tuesday   = 2
	Wednesday = 3
	Thursday  = 4
	Friday    = 5
	Saturday  = 6
	Sunday    = 7
)

// TeachingWeekdays is the fixed Monday..Saturday fan-out range.
var TeachingWeekdays = []int{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayName returns the display name for a 1..7 weekday number.
func WeekdayName(day int) string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if day < 1 || day > 7 {
		return ""
	}
	return names[day-1]
}
