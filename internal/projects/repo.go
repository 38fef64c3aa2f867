package projects

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

// Repository encapsulates project persistence. Deletion is soft: rows get a
// deleted_at stamp and drop out of the live queries until restored.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a project repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's live projects, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	var rows []models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindOwned loads a live project scoped to its owner.
func (r *Repository) FindOwned(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error) {
	var row models.Project
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ? AND deleted_at IS NULL", projectID, userID).
		Error
	return row, err
}

// Create inserts a project, minting its id when unset.
func (r *Repository) Create(ctx context.Context, row *models.Project) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists the editable columns of a project.
func (r *Repository) Update(ctx context.Context, row *models.Project) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":             row.Name,
			"client":           row.Client,
			"project_type":     row.ProjectType,
			"status":           row.Status,
			"start_date":       row.StartDate,
			"end_date":         row.EndDate,
			"discount_percent": row.DiscountPercent,
			"updated_at":       time.Now().UTC(),
		}).
		Error
}

// SoftDelete stamps the project as deleted so it shows up in the trash.
func (r *Repository) SoftDelete(ctx context.Context, userID, projectID uuid.UUID) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", projectID, userID).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListDeletedByUser returns the user's trashed projects, newest deletion
// first.
func (r *Repository) ListDeletedByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	var rows []models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Order("deleted_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Restore clears the deletion stamp of a trashed project.
func (r *Repository) Restore(ctx context.Context, userID, projectID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", projectID, userID).
		Updates(map[string]any{"deleted_at": nil, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PermanentDelete removes a trashed project and everything hanging off it.
// Only trashed rows qualify; a live project must go through the trash first.
func (r *Repository) PermanentDelete(ctx context.Context, userID, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Project
		if err := tx.First(&row, "id = ? AND user_id = ? AND deleted_at IS NOT NULL", projectID, userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.LineItem{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BudgetCategory{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM milestone_tasks WHERE milestone_id IN (SELECT id FROM milestones WHERE project_id = ?)`, projectID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Milestone{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", projectID).Error
	})
}

// CountDeletedByUser counts the user's trashed projects.
func (r *Repository) CountDeletedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Count(&count).
		Error
	return count, err
}
