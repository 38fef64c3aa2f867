package tracking

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
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.BudgetCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.BudgetCategory, error)
	Create(ctx context.Context, row *models.BudgetCategory) error
	Update(ctx context.Context, row *models.BudgetCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectSource resolves a project scoped to its owner.
type ProjectSource interface {
	FindOwned(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error)
}

// CategoryInput is the create/update payload for one bucket.
type CategoryInput struct {
	Name            string  `json:"name" validate:"required,max=120"`
	AllocatedAmount float64 `json:"allocated_amount" validate:"gte=0"`
	SpentAmount     float64 `json:"spent_amount" validate:"gte=0"`
	Color           *string `json:"color"`
}

// ServiceParams groups dependencies for the tracking service.
type ServiceParams struct {
	Repo     Store
	Projects ProjectSource
	Events   realtime.Publisher
	Locale   money.Locale
}

// Service exposes the budget-vs-actual tracker.
type Service interface {
	Rollup(ctx context.Context, userID, projectID uuid.UUID) (Summary, error)
	Create(ctx context.Context, userID, projectID uuid.UUID, input CategoryInput) (CategoryDTO, error)
	Update(ctx context.Context, userID, projectID, categoryID uuid.UUID, input CategoryInput) (CategoryDTO, error)
	Delete(ctx context.Context, userID, projectID, categoryID uuid.UUID) error
}

type service struct {
	repo     Store
	projects ProjectSource
	events   realtime.Publisher
	locale   money.Locale
}

// NewService builds a tracking service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "budget category repo is required")
	}
	if params.Projects == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project source is required")
	}
	events := params.Events
	if events == nil {
		events = realtime.NoopPublisher{}
	}
	return &service{
		repo:     params.Repo,
		projects: params.Projects,
		events:   events,
		locale:   params.Locale,
	}, nil
}

// Rollup returns the graded tracker view for a project.
func (s *service) Rollup(ctx context.Context, userID, projectID uuid.UUID) (Summary, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return Summary{}, err
	}
	rows, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list budget categories")
	}
	return Rollup(rows, s.locale), nil
}

// Create adds one allocation bucket.
func (s *service) Create(ctx context.Context, userID, projectID uuid.UUID, input CategoryInput) (CategoryDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return CategoryDTO{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	row := models.BudgetCategory{
		ProjectID:       projectID,
		Name:            name,
		AllocatedAmount: money.ClampMin(input.AllocatedAmount, 0),
		SpentAmount:     money.ClampMin(input.SpentAmount, 0),
		Color:           input.Color,
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create budget category")
	}

	dto := toCategoryDTO(row, s.locale)
	s.events.PublishChange(ctx, realtime.TableBudgetCategories, enums.ChangeEventInsert, projectID.String(), dto, nil)
	return dto, nil
}

// Update rewrites one bucket.
func (s *service) Update(ctx context.Context, userID, projectID, categoryID uuid.UUID, input CategoryInput) (CategoryDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return CategoryDTO{}, err
	}
	existing, err := s.findCategory(ctx, projectID, categoryID)
	if err != nil {
		return CategoryDTO{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	row := existing
	row.Name = name
	row.AllocatedAmount = money.ClampMin(input.AllocatedAmount, 0)
	row.SpentAmount = money.ClampMin(input.SpentAmount, 0)
	row.Color = input.Color
	if err := s.repo.Update(ctx, &row); err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update budget category")
	}

	dto := toCategoryDTO(row, s.locale)
	s.events.PublishChange(ctx, realtime.TableBudgetCategories, enums.ChangeEventUpdate, projectID.String(), dto, toCategoryDTO(existing, s.locale))
	return dto, nil
}

// Delete removes one bucket.
func (s *service) Delete(ctx context.Context, userID, projectID, categoryID uuid.UUID) error {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return err
	}
	existing, err := s.findCategory(ctx, projectID, categoryID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete budget category")
	}
	s.events.PublishChange(ctx, realtime.TableBudgetCategories, enums.ChangeEventDelete, projectID.String(), nil, toCategoryDTO(existing, s.locale))
	return nil
}

func (s *service) ensureProject(ctx context.Context, userID, projectID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if projectID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	if _, err := s.projects.FindOwned(ctx, userID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load project")
	}
	return nil
}

func (s *service) findCategory(ctx context.Context, projectID, categoryID uuid.UUID) (models.BudgetCategory, error) {
	if categoryID == uuid.Nil {
		return models.BudgetCategory{}, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	row, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.BudgetCategory{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "budget category not found")
		}
		return models.BudgetCategory{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load budget category")
	}
	if row.ProjectID != projectID {
		return models.BudgetCategory{}, pkgerrors.New(pkgerrors.CodeNotFound, "budget category not found")
	}
	return row, nil
}
