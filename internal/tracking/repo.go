package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

// Repository encapsulates budget category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a budget category repository bound to the provided
// gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByProject returns the project's buckets in insertion order.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.BudgetCategory, error) {
	var rows []models.BudgetCategory
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a single bucket.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.BudgetCategory, error) {
	var row models.BudgetCategory
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, err
}

// Create inserts one bucket, minting its id when unset.
func (r *Repository) Create(ctx context.Context, row *models.BudgetCategory) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists the mutable columns of a bucket.
func (r *Repository) Update(ctx context.Context, row *models.BudgetCategory) error {
	return r.db.WithContext(ctx).
		Model(&models.BudgetCategory{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":             row.Name,
			"allocated_amount": row.AllocatedAmount,
			"spent_amount":     row.SpentAmount,
			"color":            row.Color,
			"updated_at":       time.Now().UTC(),
		}).
		Error
}

// Delete removes one bucket.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.BudgetCategory{}, "id = ?", id).Error
}
