package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/money"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListProducts(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Product, error)
	FindProductOwned(ctx context.Context, userID, productID uuid.UUID) (models.Product, error)
	CreateProduct(ctx context.Context, row *models.Product) error
	UpdateProduct(ctx context.Context, row *models.Product) error
	SoftDeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	FindCategoryOwned(ctx context.Context, userID, categoryID uuid.UUID) (models.Category, error)
	CreateCategory(ctx context.Context, row *models.Category) error
	UpdateCategory(ctx context.Context, row *models.Category) error
	SoftDeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo   Store
	Events realtime.Publisher
}

// Service exposes catalog management for products and their categories.
type Service interface {
	ListProducts(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]ProductDTO, error)
	GetProduct(ctx context.Context, userID, productID uuid.UUID) (ProductDTO, error)
	CreateProduct(ctx context.Context, userID uuid.UUID, input ProductInput) (ProductDTO, error)
	UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input ProductInput) (ProductDTO, error)
	DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	ListCategories(ctx context.Context, userID uuid.UUID) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, userID uuid.UUID, input CategoryInput) (CategoryDTO, error)
	UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, input CategoryInput) (CategoryDTO, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

type service struct {
	repo   Store
	events realtime.Publisher
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	events := params.Events
	if events == nil {
		events = realtime.NoopPublisher{}
	}
	return &service{repo: params.Repo, events: events}, nil
}

// ListProducts returns the user's live products.
func (s *service) ListProducts(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]ProductDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListProducts(ctx, userID, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProductDTO(row))
	}
	return out, nil
}

// GetProduct loads one live product.
func (s *service) GetProduct(ctx context.Context, userID, productID uuid.UUID) (ProductDTO, error) {
	row, err := s.findProduct(ctx, userID, productID)
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(row), nil
}

// CreateProduct adds a catalog entry. Profit is derived from price and cost;
// the client never sets it directly.
func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, input ProductInput) (ProductDTO, error) {
	if userID == uuid.Nil {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	row, err := s.productFromInput(ctx, userID, input)
	if err != nil {
		return ProductDTO{}, err
	}
	if err := s.repo.CreateProduct(ctx, &row); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create product")
	}
	dto := toProductDTO(row)
	s.events.PublishChange(ctx, realtime.TableProducts, enums.ChangeEventInsert, "", dto, nil)
	return dto, nil
}

// UpdateProduct rewrites a catalog entry.
func (s *service) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input ProductInput) (ProductDTO, error) {
	existing, err := s.findProduct(ctx, userID, productID)
	if err != nil {
		return ProductDTO{}, err
	}
	row, err := s.productFromInput(ctx, userID, input)
	if err != nil {
		return ProductDTO{}, err
	}
	row.ID = existing.ID
	if err := s.repo.UpdateProduct(ctx, &row); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	dto := toProductDTO(row)
	s.events.PublishChange(ctx, realtime.TableProducts, enums.ChangeEventUpdate, "", dto, toProductDTO(existing))
	return dto, nil
}

// DeleteProduct sends a product to the trash.
func (s *service) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	existing, err := s.findProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDeleteProduct(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	s.events.PublishChange(ctx, realtime.TableProducts, enums.ChangeEventDelete, "", nil, toProductDTO(existing))
	return nil
}

// ListCategories returns the user's live categories.
func (s *service) ListCategories(ctx context.Context, userID uuid.UUID) ([]CategoryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

// CreateCategory adds a product group.
func (s *service) CreateCategory(ctx context.Context, userID uuid.UUID, input CategoryInput) (CategoryDTO, error) {
	if userID == uuid.Nil {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	row := models.Category{UserID: userID, Name: name, Icon: input.Icon}
	if err := s.repo.CreateCategory(ctx, &row); err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create category")
	}
	dto := toCategoryDTO(row)
	s.events.PublishChange(ctx, realtime.TableCategories, enums.ChangeEventInsert, "", dto, nil)
	return dto, nil
}

// UpdateCategory renames a product group.
func (s *service) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, input CategoryInput) (CategoryDTO, error) {
	existing, err := s.findCategory(ctx, userID, categoryID)
	if err != nil {
		return CategoryDTO{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	row := existing
	row.Name = name
	row.Icon = input.Icon
	if err := s.repo.UpdateCategory(ctx, &row); err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	dto := toCategoryDTO(row)
	s.events.PublishChange(ctx, realtime.TableCategories, enums.ChangeEventUpdate, "", dto, toCategoryDTO(existing))
	return dto, nil
}

// DeleteCategory sends a category to the trash; its live products are
// detached, not deleted.
func (s *service) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	existing, err := s.findCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDeleteCategory(ctx, userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	s.events.PublishChange(ctx, realtime.TableCategories, enums.ChangeEventDelete, "", nil, toCategoryDTO(existing))
	return nil
}

func (s *service) productFromInput(ctx context.Context, userID uuid.UUID, input ProductInput) (models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CategoryID != nil {
		if _, err := s.findCategory(ctx, userID, *input.CategoryID); err != nil {
			return models.Product{}, err
		}
	}

	price := money.ClampMin(input.FinalPrice, 0)
	cost := money.ClampMin(input.Cost, 0)
	return models.Product{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Name:       name,
		Code:       input.Code,
		Image:      input.Image,
		Alt:        input.Alt,
		HasPDF:     input.HasPDF,
		FinalPrice: price,
		Cost:       cost,
		Labor:      money.ClampMin(input.Labor, 0),
		Profit:     price - cost,
	}, nil
}

func (s *service) findProduct(ctx context.Context, userID, productID uuid.UUID) (models.Product, error) {
	if userID == uuid.Nil {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindProductOwned(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return models.Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return row, nil
}

func (s *service) findCategory(ctx context.Context, userID, categoryID uuid.UUID) (models.Category, error) {
	if categoryID == uuid.Nil {
		return models.Category{}, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	row, err := s.repo.FindCategoryOwned(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return models.Category{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return row, nil
}
