package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	Timetable TimetableRepository
	Event     EventRepository
}

// NewRepository wires the gorm-backed repositories.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Timetable: NewTimetableRepo(db),
		Event:     NewEventRepo(db),
	}
}
