package lineitems

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

const createBatchSize = 100

// Repository encapsulates line item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a line item repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByProject returns the project's line items in insertion order.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.LineItem, error) {
	var rows []models.LineItem
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a single line item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.LineItem, error) {
	var row models.LineItem
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return row, err
}

// Create inserts one line item, minting its id when unset.
func (r *Repository) Create(ctx context.Context, row *models.LineItem) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// Update persists the mutable columns of an existing row.
func (r *Repository) Update(ctx context.Context, row *models.LineItem) error {
	return r.db.WithContext(ctx).
		Model(&models.LineItem{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":       row.Name,
			"category":   row.Category,
			"quantity":   row.Quantity,
			"unit_cost":  row.UnitCost,
			"markup":     row.Markup,
			"labor_cost": row.LaborCost,
			"updated_at": time.Now().UTC(),
		}).
		Error
}

// Delete removes one line item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LineItem{}, "id = ?", id).Error
}

// DeleteByProject removes every line item of a project.
func (r *Repository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LineItem{}, "project_id = ?", projectID).Error
}

// ReplaceForProject atomically swaps a project's line items for the given
// rows and stamps the budget snapshot onto the project. Either everything
// lands or the previous budget survives untouched.
func (r *Repository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, rows []models.LineItem, snapshot BudgetSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.LineItem{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ProjectID = projectID
			if rows[i].ID == uuid.Nil {
				rows[i].ID = uuid.New()
			}
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, createBatchSize).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Updates(map[string]any{
				"subtotal":         snapshot.Subtotal,
				"discount_percent": snapshot.DiscountPercent,
				"total":            snapshot.Total,
				"updated_at":       time.Now().UTC(),
			}).
			Error
	})
}
