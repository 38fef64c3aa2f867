package lineitems

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/internal/budget"
	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/metrics"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/money"
)

// saveLockTTL bounds how long a crashed save can keep a project locked.
const saveLockTTL = 15 * time.Second

// Store is the persistence surface the service needs.
type Store interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.LineItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.LineItem, error)
	Create(ctx context.Context, row *models.LineItem) error
	Update(ctx context.Context, row *models.LineItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, rows []models.LineItem, snapshot BudgetSnapshot) error
}

// ProjectSource resolves a project scoped to its owner.
type ProjectSource interface {
	FindOwned(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error)
}

// ProductSource lists a user's live catalog, used to recover images for
// reloaded budget items by exact name match.
type ProductSource interface {
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

// SaveLocker is the single-flight guard around budget saves.
type SaveLocker interface {
	AcquireSaveLock(ctx context.Context, projectID string, ttl time.Duration) (bool, error)
	ReleaseSaveLock(ctx context.Context, projectID string) error
}

// ServiceParams groups dependencies for the line item service.
type ServiceParams struct {
	Repo     Store
	Projects ProjectSource
	Products ProductSource
	Locks    SaveLocker
	Events   realtime.Publisher
	Metrics  *metrics.BudgetMetrics
	Logger   *logger.Logger
	Locale   money.Locale
}

// Service exposes the budget persistence operations: the replace-all save,
// the builder reload, the pure quote, and the per-row editor.
type Service interface {
	LoadForProject(ctx context.Context, userID, projectID uuid.UUID) (BudgetDTO, error)
	ReplaceForProject(ctx context.Context, userID, projectID uuid.UUID, items []budget.CartItem, discountPercent float64) (budget.Totals, error)
	Quote(ctx context.Context, items []budget.CartItem, discountPercent float64) budget.Totals
	ListRows(ctx context.Context, userID, projectID uuid.UUID) ([]RowDTO, error)
	CreateRow(ctx context.Context, userID, projectID uuid.UUID, input RowInput) (RowDTO, error)
	UpdateRow(ctx context.Context, userID, projectID, rowID uuid.UUID, input RowInput) (RowDTO, error)
	DeleteRow(ctx context.Context, userID, projectID, rowID uuid.UUID) error
}

type service struct {
	repo     Store
	projects ProjectSource
	products ProductSource
	locks    SaveLocker
	events   realtime.Publisher
	metrics  *metrics.BudgetMetrics
	logg     *logger.Logger
	locale   money.Locale
}

// NewService builds a line item service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item repo is required")
	}
	if params.Projects == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project source is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product source is required")
	}
	if params.Locks == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "save locker is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	events := params.Events
	if events == nil {
		events = realtime.NoopPublisher{}
	}
	return &service{
		repo:     params.Repo,
		projects: params.Projects,
		products: params.Products,
		locks:    params.Locks,
		events:   events,
		metrics:  params.Metrics,
		logg:     params.Logger,
		locale:   params.Locale,
	}, nil
}

// LoadForProject rebuilds the builder cart from the persisted line items.
// Prices are derived from cost and markup, product references are gone, and
// images come back only through an exact-name catalog match.
func (s *service) LoadForProject(ctx context.Context, userID, projectID uuid.UUID) (BudgetDTO, error) {
	project, err := s.findProject(ctx, userID, projectID)
	if err != nil {
		return BudgetDTO{}, err
	}

	rows, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return BudgetDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list line items")
	}

	lookup := budget.ImageLookup(budget.NoLookup{})
	if len(rows) > 0 {
		idx, err := s.imageIndex(ctx, userID)
		if err != nil {
			return BudgetDTO{}, err
		}
		lookup = idx
	}

	items := make([]budget.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, budget.ToCartItem(row, lookup))
	}

	totals := budget.Aggregate(items, project.DiscountPercent)
	return BudgetDTO{
		Items:             items,
		Totals:            totals,
		FormattedSubtotal: money.FormatCurrency(totals.Subtotal, s.locale),
		FormattedDiscount: money.FormatCurrency(totals.DiscountAmount, s.locale),
		FormattedTotal:    money.FormatCurrency(totals.GrandTotal, s.locale),
	}, nil
}

// ReplaceForProject swaps the project's entire budget for the given cart in a
// single transaction, guarded by a per-project lock so overlapping saves
// cannot interleave their deletes and inserts.
func (s *service) ReplaceForProject(ctx context.Context, userID, projectID uuid.UUID, items []budget.CartItem, discountPercent float64) (budget.Totals, error) {
	if _, err := s.findProject(ctx, userID, projectID); err != nil {
		return budget.Totals{}, err
	}

	acquired, err := s.locks.AcquireSaveLock(ctx, projectID.String(), saveLockTTL)
	if err != nil {
		return budget.Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: acquire save lock")
	}
	if !acquired {
		s.metrics.IncLockRejection()
		return budget.Totals{}, pkgerrors.New(pkgerrors.CodeSaveInProgress, "budget save already running for project")
	}
	defer func() {
		if err := s.locks.ReleaseSaveLock(ctx, projectID.String()); err != nil {
			s.logg.Error(ctx, "releasing budget save lock", err)
		}
	}()

	discount := money.ClampRange(discountPercent, 0, 100)
	totals := budget.Aggregate(items, discount)

	rows := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, budget.ToLineItem(projectID, item))
	}

	started := time.Now()
	err = s.repo.ReplaceForProject(ctx, projectID, rows, BudgetSnapshot{
		Subtotal:        totals.Subtotal,
		DiscountPercent: discount,
		Total:           totals.GrandTotal,
	})
	if err != nil {
		s.metrics.ObserveSave("error", time.Since(started))
		return budget.Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace line items")
	}
	s.metrics.ObserveSave("ok", time.Since(started))

	s.events.PublishChange(ctx, realtime.TableLineItems, enums.ChangeEventUpdate, projectID.String(), totals, nil)
	s.events.PublishChange(ctx, realtime.TableProjects, enums.ChangeEventUpdate, projectID.String(), map[string]any{
		"id":               projectID,
		"subtotal":         totals.Subtotal,
		"discount_percent": discount,
		"total":            totals.GrandTotal,
	}, nil)

	return totals, nil
}

// Quote aggregates a cart without touching storage.
func (s *service) Quote(_ context.Context, items []budget.CartItem, discountPercent float64) budget.Totals {
	return budget.Aggregate(items, money.ClampRange(discountPercent, 0, 100))
}

// ListRows returns the editor view of the project's line items.
func (s *service) ListRows(ctx context.Context, userID, projectID uuid.UUID) ([]RowDTO, error) {
	if _, err := s.findProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list line items")
	}
	out := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRowDTO(row))
	}
	return out, nil
}

// CreateRow appends one editor row to the project.
func (s *service) CreateRow(ctx context.Context, userID, projectID uuid.UUID, input RowInput) (RowDTO, error) {
	if _, err := s.findProject(ctx, userID, projectID); err != nil {
		return RowDTO{}, err
	}
	row := rowFromInput(projectID, input)
	if err := s.repo.Create(ctx, &row); err != nil {
		return RowDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create line item")
	}
	dto := toRowDTO(row)
	s.events.PublishChange(ctx, realtime.TableLineItems, enums.ChangeEventInsert, projectID.String(), dto, nil)
	return dto, nil
}

// UpdateRow rewrites one editor row.
func (s *service) UpdateRow(ctx context.Context, userID, projectID, rowID uuid.UUID, input RowInput) (RowDTO, error) {
	if _, err := s.findProject(ctx, userID, projectID); err != nil {
		return RowDTO{}, err
	}
	existing, err := s.findRow(ctx, projectID, rowID)
	if err != nil {
		return RowDTO{}, err
	}

	row := rowFromInput(projectID, input)
	row.ID = existing.ID
	if err := s.repo.Update(ctx, &row); err != nil {
		return RowDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update line item")
	}
	dto := toRowDTO(row)
	s.events.PublishChange(ctx, realtime.TableLineItems, enums.ChangeEventUpdate, projectID.String(), dto, toRowDTO(existing))
	return dto, nil
}

// DeleteRow removes one editor row.
func (s *service) DeleteRow(ctx context.Context, userID, projectID, rowID uuid.UUID) error {
	if _, err := s.findProject(ctx, userID, projectID); err != nil {
		return err
	}
	existing, err := s.findRow(ctx, projectID, rowID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rowID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete line item")
	}
	s.events.PublishChange(ctx, realtime.TableLineItems, enums.ChangeEventDelete, projectID.String(), nil, toRowDTO(existing))
	return nil
}

func (s *service) findProject(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error) {
	if userID == uuid.Nil {
		return models.Project{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if projectID == uuid.Nil {
		return models.Project{}, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	project, err := s.projects.FindOwned(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return models.Project{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load project")
	}
	return project, nil
}

func (s *service) findRow(ctx context.Context, projectID, rowID uuid.UUID) (models.LineItem, error) {
	if rowID == uuid.Nil {
		return models.LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
	}
	row, err := s.repo.FindByID(ctx, rowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "line item not found")
		}
		return models.LineItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load line item")
	}
	if row.ProjectID != projectID {
		return models.LineItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}
	return row, nil
}

func (s *service) imageIndex(ctx context.Context, userID uuid.UUID) (imageIndex, error) {
	catalog, err := s.products.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	idx := make(imageIndex, len(catalog))
	for _, product := range catalog {
		if product.Image == nil || *product.Image == "" {
			continue
		}
		if _, exists := idx[product.Name]; !exists {
			idx[product.Name] = *product.Image
		}
	}
	return idx, nil
}

// imageIndex maps product names to images for the reload path.
type imageIndex map[string]string

func (i imageIndex) ImageByName(name string) (string, bool) {
	image, ok := i[name]
	return image, ok
}

func rowFromInput(projectID uuid.UUID, input RowInput) models.LineItem {
	name := input.Name
	if name == "" {
		name = budget.DefaultItemName
	}
	category := input.Category
	if category == "" {
		category = budget.DefaultCategory
	}
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return models.LineItem{
		ProjectID: projectID,
		Name:      name,
		Category:  category,
		Quantity:  quantity,
		UnitCost:  money.ClampMin(input.UnitCost, 0),
		Markup:    money.ClampRange(input.Markup, 0, budget.MaxMarkupPercent),
		LaborCost: money.ClampMin(input.LaborCost, 0),
	}
}
