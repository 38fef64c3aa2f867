// Package trash is the recovery surface for soft-deleted rows. Products,
// categories and projects land here on delete and stay recoverable until
// purged; purging is the only hard delete in the system.
package trash

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
)

// Kind names the table a trashed row came from.
type Kind string

const (
	KindProduct  Kind = "product"
	KindCategory Kind = "category"
	KindProject  Kind = "project"
)

// IsValid reports whether the value is a known Kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindProduct, KindCategory, KindProject:
		return true
	}
	return false
}

// ItemDTO is one entry in the trash view.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deleted_at"`
}

// StatsDTO counts the trash contents per kind.
type StatsDTO struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Projects   int64 `json:"projects"`
	Total      int64 `json:"total"`
}

// CatalogStore is the catalog trash surface.
type CatalogStore interface {
	ListDeletedProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	RestoreProduct(ctx context.Context, userID, productID uuid.UUID) error
	PermanentDeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	CountDeletedProducts(ctx context.Context, userID uuid.UUID) (int64, error)
	ListDeletedCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	RestoreCategory(ctx context.Context, userID, categoryID uuid.UUID) error
	PermanentDeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
	CountDeletedCategories(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ProjectStore is the project trash surface.
type ProjectStore interface {
	ListDeletedByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	Restore(ctx context.Context, userID, projectID uuid.UUID) error
	PermanentDelete(ctx context.Context, userID, projectID uuid.UUID) error
	CountDeletedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the trash service.
type ServiceParams struct {
	Catalog  CatalogStore
	Projects ProjectStore
	Events   realtime.Publisher
}

// Service exposes the trash operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	Stats(ctx context.Context, userID uuid.UUID) (StatsDTO, error)
	Restore(ctx context.Context, userID uuid.UUID, kind Kind, id uuid.UUID) error
	Purge(ctx context.Context, userID uuid.UUID, kind Kind, id uuid.UUID) error
	Empty(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	catalog  CatalogStore
	projects ProjectStore
	events   realtime.Publisher
}

// NewService builds a trash service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog store is required")
	}
	if params.Projects == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project store is required")
	}
	events := params.Events
	if events == nil {
		events = realtime.NoopPublisher{}
	}
	return &service{catalog: params.Catalog, projects: params.Projects, events: events}, nil
}

// List returns everything in the user's trash, newest deletion first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	products, err := s.catalog.ListDeletedProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list trashed products")
	}
	categories, err := s.catalog.ListDeletedCategories(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list trashed categories")
	}
	projects, err := s.projects.ListDeletedByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list trashed projects")
	}

	items := make([]ItemDTO, 0, len(products)+len(categories)+len(projects))
	for _, p := range products {
		items = append(items, ItemDTO{ID: p.ID, Kind: KindProduct, Name: p.Name, DeletedAt: deref(p.DeletedAt)})
	}
	for _, c := range categories {
		items = append(items, ItemDTO{ID: c.ID, Kind: KindCategory, Name: c.Name, DeletedAt: deref(c.DeletedAt)})
	}
	for _, p := range projects {
		items = append(items, ItemDTO{ID: p.ID, Kind: KindProject, Name: p.Name, DeletedAt: deref(p.DeletedAt)})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].DeletedAt.After(items[j].DeletedAt)
	})
	return items, nil
}

// Stats counts the trash contents.
func (s *service) Stats(ctx context.Context, userID uuid.UUID) (StatsDTO, error) {
	if userID == uuid.Nil {
		return StatsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	products, err := s.catalog.CountDeletedProducts(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count trashed products")
	}
	categories, err := s.catalog.CountDeletedCategories(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count trashed categories")
	}
	projects, err := s.projects.CountDeletedByUser(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count trashed projects")
	}
	return StatsDTO{
		Products:   products,
		Categories: categories,
		Projects:   projects,
		Total:      products + categories + projects,
	}, nil
}

// Restore brings one trashed row back to life.
func (s *service) Restore(ctx context.Context, userID uuid.UUID, kind Kind, id uuid.UUID) error {
	if err := validateTarget(userID, kind, id); err != nil {
		return err
	}

	var err error
	switch kind {
	case KindProduct:
		err = s.catalog.RestoreProduct(ctx, userID, id)
	case KindCategory:
		err = s.catalog.RestoreCategory(ctx, userID, id)
	case KindProject:
		err = s.projects.Restore(ctx, userID, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "trashed item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore trashed item")
	}
	s.events.PublishChange(ctx, tableFor(kind), enums.ChangeEventInsert, projectScope(kind, id), map[string]any{"id": id, "restored": true}, nil)
	return nil
}

// Purge removes one trashed row for good.
func (s *service) Purge(ctx context.Context, userID uuid.UUID, kind Kind, id uuid.UUID) error {
	if err := validateTarget(userID, kind, id); err != nil {
		return err
	}

	var err error
	switch kind {
	case KindProduct:
		err = s.catalog.PermanentDeleteProduct(ctx, userID, id)
	case KindCategory:
		err = s.catalog.PermanentDeleteCategory(ctx, userID, id)
	case KindProject:
		err = s.projects.PermanentDelete(ctx, userID, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "trashed item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: purge trashed item")
	}
	s.events.PublishChange(ctx, tableFor(kind), enums.ChangeEventDelete, projectScope(kind, id), nil, map[string]any{"id": id, "purged": true})
	return nil
}

// Empty purges the whole trash. Failures on individual rows do not stop the
// sweep; they are collected and reported together.
func (s *service) Empty(ctx context.Context, userID uuid.UUID) error {
	items, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	var errs error
	for _, item := range items {
		if err := s.Purge(ctx, userID, item.Kind, item.ID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "emptying trash")
	}
	return nil
}

func validateTarget(userID uuid.UUID, kind Kind, id uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown trash kind")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return nil
}

func tableFor(kind Kind) string {
	switch kind {
	case KindProduct:
		return realtime.TableProducts
	case KindCategory:
		return realtime.TableCategories
	default:
		return realtime.TableProjects
	}
}

func projectScope(kind Kind, id uuid.UUID) string {
	if kind == KindProject {
		return id.String()
	}
	return ""
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
