package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sivaogeti/school-management/internal/model"
	pkgerrors "github.com/sivaogeti/school-management/pkg/errors"
)

// TimetableRepository is the data-access interface for slot plans and grid
// cells. Candidate-key parameters are uppercased class-name variants; stored
// values are matched case-insensitively against all of them.
type TimetableRepository interface {
	// GetPlanByCandidates resolves the slot plan stored under any spelling
	// variant of a class name.
	GetPlanByCandidates(ctx context.Context, candidates []string, section string) (*model.SlotPlan, error)
	// ReplacePlan atomically writes a plan header and its full cell set.
	// expectedVersion 0 creates a new plan; otherwise the stored version must
	// match or ErrOptimisticLock is returned and nothing changes.
	ReplacePlan(ctx context.Context, plan *model.SlotPlan, expectedVersion int, cells []model.TimetableCell) error
	// ListCells returns all cells reachable from the candidate keys, ordered
	// by day then period.
	ListCells(ctx context.Context, candidates []string, section string) ([]model.TimetableCell, error)
	// GetCell fetches one cell by its exact stored key.
	GetCell(ctx context.Context, className, section string, day, period int) (*model.TimetableCell, error)
	// UpdateSubject sets or clears the subject of one cell by exact key.
	UpdateSubject(ctx context.Context, className, section string, day, period int, subject *string) error
	// ListClassSections lists every stored class-section key with its cell
	// count, for spelling reconciliation.
	ListClassSections(ctx context.Context) ([]model.ClassSectionInfo, error)
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo creates a TimetableRepository backed by gorm.
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) GetPlanByCandidates(ctx context.Context, candidates []string, section string) (*model.SlotPlan, error) {
	var plan model.SlotPlan
	err := r.db.WithContext(ctx).
		Where("upper(class_name) IN ? AND upper(section) = ?", candidates, section).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *timetableRepo) ReplacePlan(ctx context.Context, plan *model.SlotPlan, expectedVersion int, cells []model.TimetableCell) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if expectedVersion == 0 {
			plan.Version = 1
			if err := tx.Create(plan).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&model.SlotPlan{}).
				Where("plan_id = ? AND version = ?", plan.PlanID, expectedVersion).
				Updates(map[string]interface{}{
					"total_slots": plan.TotalSlots,
					"version":     expectedVersion + 1,
					"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return pkgerrors.ErrOptimisticLock
			}
			plan.Version = expectedVersion + 1
		}

		// Replace the full cell set under this plan's exact key. The delete
		// covers the shrink case: periods beyond the new total_slots vanish
		// for every weekday.
		if err := tx.
			Where("class_name = ? AND section = ?", plan.ClassName, plan.Section).
			Delete(&model.TimetableCell{}).Error; err != nil {
			return err
		}
		if len(cells) == 0 {
			return nil
		}
		return tx.Create(&cells).Error
	})
}

func (r *timetableRepo) ListCells(ctx context.Context, candidates []string, section string) ([]model.TimetableCell, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var cells []model.TimetableCell
	err := r.db.WithContext(ctx).
		Where("upper(class_name) IN ? AND upper(section) = ?", candidates, section).
		Order("day_of_week ASC, period_no ASC").
		Find(&cells).Error
	return cells, err
}

func (r *timetableRepo) GetCell(ctx context.Context, className, section string, day, period int) (*model.TimetableCell, error) {
	var cell model.TimetableCell
	err := r.db.WithContext(ctx).
		Where("class_name = ? AND section = ? AND day_of_week = ? AND period_no = ?",
			className, section, day, period).
		First(&cell).Error
	if err != nil {
		return nil, err
	}
	return &cell, nil
}

func (r *timetableRepo) UpdateSubject(ctx context.Context, className, section string, day, period int, subject *string) error {
	return r.db.WithContext(ctx).
		Model(&model.TimetableCell{}).
		Where("class_name = ? AND section = ? AND day_of_week = ? AND period_no = ?",
			className, section, day, period).
		Updates(map[string]interface{}{
			"subject":    subject,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *timetableRepo) ListClassSections(ctx context.Context) ([]model.ClassSectionInfo, error) {
	var infos []model.ClassSectionInfo
	err := r.db.WithContext(ctx).
		Model(&model.TimetableCell{}).
		Select("class_name, section, COUNT(*) AS cell_count").
		Group("class_name, section").
		Order("class_name ASC, section ASC").
		Find(&infos).Error
	return infos, err
}
