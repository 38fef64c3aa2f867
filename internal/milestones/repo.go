package milestones

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

// Repository encapsulates milestone and task persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a milestone repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByProject returns the project's milestones with their tasks, ordered by
// start date then creation.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Milestone, error) {
	var rows []models.Milestone
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("project_id = ?", projectID).
		Order("start_date ASC").
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads one milestone with its tasks.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Milestone, error) {
	var row models.Milestone
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "id = ?", id).
		Error
	return row, err
}

// Create inserts a milestone, minting its id when unset.
func (r *Repository) Create(ctx context.Context, row *models.Milestone) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Tasks").Create(row).Error
}

// Update persists the mutable columns of a milestone.
func (r *Repository) Update(ctx context.Context, row *models.Milestone) error {
	return r.db.WithContext(ctx).
		Model(&models.Milestone{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"start_date":  row.StartDate,
			"end_date":    row.EndDate,
			"status":      row.Status,
			"progress":    row.Progress,
			"updated_at":  time.Now().UTC(),
		}).
		Error
}

// Delete removes a milestone and its checklist.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MilestoneTask{}, "milestone_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Milestone{}, "id = ?", id).Error
	})
}

// FindTaskByID loads one checklist entry.
func (r *Repository) FindTaskByID(ctx context.Context, id uuid.UUID) (models.MilestoneTask, error) {
	var row models.MilestoneTask
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, err
}

// CreateTask inserts a checklist entry, minting its id when unset.
func (r *Repository) CreateTask(ctx context.Context, row *models.MilestoneTask) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateTask persists the mutable columns of a checklist entry.
func (r *Repository) UpdateTask(ctx context.Context, row *models.MilestoneTask) error {
	return r.db.WithContext(ctx).
		Model(&models.MilestoneTask{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":       row.Name,
			"completed":  row.Completed,
			"updated_at": time.Now().UTC(),
		}).
		Error
}

// DeleteTask removes a checklist entry.
func (r *Repository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MilestoneTask{}, "id = ?", id).Error
}
