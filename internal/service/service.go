package service

import (
	"go.uber.org/zap"

	"github.com/sivaogeti/school-management/internal/repository"
)

// Service aggregates all business-layer entry points.
type Service struct {
	Timetable TimetableService
	Event     EventService
	Export    ExportService
}

// NewService wires the service layer.
func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	timetable := NewTimetableService(repo, logger)
	event := NewEventService(repo, logger)
	return &Service{
		Timetable: timetable,
		Event:     event,
		Export:    NewExportService(timetable, event, logger),
	}
}
