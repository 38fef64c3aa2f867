package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  icon TEXT,
  deleted_at DATETIME,
  deleted_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category_id TEXT,
  name TEXT NOT NULL,
  code TEXT,
  image TEXT,
  alt TEXT,
  has_pdf INTEGER NOT NULL DEFAULT 0,
  final_price REAL NOT NULL DEFAULT 0,
  cost REAL NOT NULL DEFAULT 0,
  labor REAL NOT NULL DEFAULT 0,
  profit REAL NOT NULL DEFAULT 0,
  deleted_at DATETIME,
  deleted_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func TestProductSoftDeleteLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	product := models.Product{UserID: userID, Name: "Camara PTZ", FinalPrice: 1200, Cost: 800, Profit: 400}
	require.NoError(t, repo.CreateProduct(ctx, &product))

	live, err := repo.ListProducts(ctx, userID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, live, 1)

	require.NoError(t, repo.SoftDeleteProduct(ctx, userID, product.ID))

	live, err = repo.ListProducts(ctx, userID, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, live)

	trashed, err := repo.ListDeletedProducts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	require.NotNil(t, trashed[0].DeletedBy)
	assert.Equal(t, userID, *trashed[0].DeletedBy)

	_, err = repo.FindProductOwned(ctx, userID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.RestoreProduct(ctx, userID, product.ID))
	live, err = repo.ListProducts(ctx, userID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Nil(t, live[0].DeletedAt)
}

func TestPermanentDeleteRequiresTrashedRow(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	product := models.Product{UserID: userID, Name: "Fuente 12V"}
	require.NoError(t, repo.CreateProduct(ctx, &product))

	// Live rows must pass through the trash first.
	err := repo.PermanentDeleteProduct(ctx, userID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.SoftDeleteProduct(ctx, userID, product.ID))
	require.NoError(t, repo.PermanentDeleteProduct(ctx, userID, product.ID))

	trashed, err := repo.ListDeletedProducts(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, trashed)
}

func TestSoftDeleteCategoryDetachesProducts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	category := models.Category{UserID: userID, Name: "Seguridad"}
	require.NoError(t, repo.CreateCategory(ctx, &category))

	product := models.Product{UserID: userID, CategoryID: &category.ID, Name: "Sensor magnetico"}
	require.NoError(t, repo.CreateProduct(ctx, &product))

	require.NoError(t, repo.SoftDeleteCategory(ctx, userID, category.ID))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
	assert.Nil(t, reloaded.DeletedAt)

	cats, err := repo.ListCategories(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	category := models.Category{UserID: userID, Name: "Redes"}
	require.NoError(t, repo.CreateCategory(ctx, &category))

	inCategory := models.Product{UserID: userID, CategoryID: &category.ID, Name: "Switch 24 puertos"}
	loose := models.Product{UserID: userID, Name: "Camara domo"}
	require.NoError(t, repo.CreateProduct(ctx, &inCategory))
	require.NoError(t, repo.CreateProduct(ctx, &loose))

	byCategory, err := repo.ListProducts(ctx, userID, ListOptions{CategoryID: &category.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Switch 24 puertos", byCategory[0].Name)

	bySearch, err := repo.ListProducts(ctx, userID, ListOptions{Search: "CAMARA"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Camara domo", bySearch[0].Name)

	// Another user sees nothing.
	other, err := repo.ListProducts(ctx, uuid.New(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, other)
}
