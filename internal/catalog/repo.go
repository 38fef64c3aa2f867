package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

// Repository encapsulates catalog persistence for products and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns the user's live products, optionally filtered by
// category or a case-insensitive name search.
func (r *Repository) ListProducts(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND deleted_at IS NULL", userID)
	if opts.CategoryID != nil {
		query = query.Where("category_id = ?", *opts.CategoryID)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var rows []models.Product
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListActiveByUser returns every live product of the user. The budget reload
// path uses it to rebuild its image index.
func (r *Repository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	return r.ListProducts(ctx, userID, ListOptions{})
}

// FindProductOwned loads one live product scoped to its owner.
func (r *Repository) FindProductOwned(ctx context.Context, userID, productID uuid.UUID) (models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&row, "id = ? AND user_id = ? AND deleted_at IS NULL", productID, userID).
		Error
	return row, err
}

// CreateProduct inserts a product, minting its id when unset.
func (r *Repository) CreateProduct(ctx context.Context, row *models.Product) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateProduct persists the editable columns of a product.
func (r *Repository) UpdateProduct(ctx context.Context, row *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"category_id": row.CategoryID,
			"name":        row.Name,
			"code":        row.Code,
			"image":       row.Image,
			"alt":         row.Alt,
			"has_pdf":     row.HasPDF,
			"final_price": row.FinalPrice,
			"cost":        row.Cost,
			"labor":       row.Labor,
			"profit":      row.Profit,
			"updated_at":  time.Now().UTC(),
		}).
		Error
}

// SoftDeleteProduct stamps a product as deleted, recording who did it.
func (r *Repository) SoftDeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", productID, userID).
		Updates(map[string]any{"deleted_at": now, "deleted_by": userID, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListDeletedProducts returns the user's trashed products, newest deletion
// first.
func (r *Repository) ListDeletedProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Order("deleted_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// RestoreProduct clears the deletion stamp of a trashed product.
func (r *Repository) RestoreProduct(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", productID, userID).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PermanentDeleteProduct removes a trashed product for good.
func (r *Repository) PermanentDeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", productID, userID).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountDeletedProducts counts the user's trashed products.
func (r *Repository) CountDeletedProducts(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Count(&count).
		Error
	return count, err
}

// ListCategories returns the user's live categories sorted by name.
func (r *Repository) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindCategoryOwned loads one live category scoped to its owner.
func (r *Repository) FindCategoryOwned(ctx context.Context, userID, categoryID uuid.UUID) (models.Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ? AND deleted_at IS NULL", categoryID, userID).
		Error
	return row, err
}

// CreateCategory inserts a category, minting its id when unset.
func (r *Repository) CreateCategory(ctx context.Context, row *models.Category) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateCategory persists the editable columns of a category.
func (r *Repository) UpdateCategory(ctx context.Context, row *models.Category) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":       row.Name,
			"icon":       row.Icon,
			"updated_at": time.Now().UTC(),
		}).
		Error
}

// SoftDeleteCategory trashes a category and detaches its live products so
// they do not point at a dead group.
func (r *Repository) SoftDeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Category{}).
			Where("id = ? AND user_id = ? AND deleted_at IS NULL", categoryID, userID).
			Updates(map[string]any{"deleted_at": now, "deleted_by": userID, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Product{}).
			Where("category_id = ? AND user_id = ?", categoryID, userID).
			Updates(map[string]any{"category_id": nil, "updated_at": now}).
			Error
	})
}

// ListDeletedCategories returns the user's trashed categories.
func (r *Repository) ListDeletedCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Order("deleted_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// RestoreCategory clears the deletion stamp of a trashed category.
func (r *Repository) RestoreCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", categoryID, userID).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PermanentDeleteCategory removes a trashed category for good.
func (r *Repository) PermanentDeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", categoryID, userID).
		Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountDeletedCategories counts the user's trashed categories.
func (r *Repository) CountDeletedCategories(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Count(&count).
		Error
	return count, err
}
