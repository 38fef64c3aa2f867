package tracking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/money"
)

type stubStore struct {
	rows    []models.BudgetCategory
	created *models.BudgetCategory
	updated *models.BudgetCategory
	deleted []uuid.UUID
}

func (s *stubStore) ListByProject(context.Context, uuid.UUID) ([]models.BudgetCategory, error) {
	return s.rows, nil
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (models.BudgetCategory, error) {
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return models.BudgetCategory{}, gorm.ErrRecordNotFound
}

func (s *stubStore) Create(_ context.Context, row *models.BudgetCategory) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.created = row
	return nil
}

func (s *stubStore) Update(_ context.Context, row *models.BudgetCategory) error {
	s.updated = row
	return nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubProjects struct {
	project models.Project
	err     error
}

func (s *stubProjects) FindOwned(context.Context, uuid.UUID, uuid.UUID) (models.Project, error) {
	return s.project, s.err
}

func newTestService(t *testing.T, store *stubStore, projects *stubProjects) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     store,
		Projects: projects,
		Locale:   money.NewLocale("EUR", "es-ES"),
	})
	require.NoError(t, err)
	return svc
}

func TestCreateClampsNegativeAmounts(t *testing.T) {
	store := &stubStore{}
	projects := &stubProjects{project: models.Project{ID: uuid.New()}}
	svc := newTestService(t, store, projects)

	dto, err := svc.Create(context.Background(), uuid.New(), projects.project.ID, CategoryInput{
		Name:            "Materiales",
		AllocatedAmount: -100,
		SpentAmount:     -5,
	})
	require.NoError(t, err)
	assert.Zero(t, dto.AllocatedAmount)
	assert.Zero(t, dto.SpentAmount)
	assert.Zero(t, dto.SpentPercent)
}

func TestCreateRequiresName(t *testing.T) {
	projects := &stubProjects{project: models.Project{ID: uuid.New()}}
	svc := newTestService(t, &stubStore{}, projects)

	_, err := svc.Create(context.Background(), uuid.New(), projects.project.ID, CategoryInput{Name: " "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRollupUnknownProject(t *testing.T) {
	svc := newTestService(t, &stubStore{}, &stubProjects{err: gorm.ErrRecordNotFound})

	_, err := svc.Rollup(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateRejectsForeignCategory(t *testing.T) {
	projectID := uuid.New()
	foreign := models.BudgetCategory{ID: uuid.New(), ProjectID: uuid.New(), Name: "Ajena"}
	store := &stubStore{rows: []models.BudgetCategory{foreign}}
	svc := newTestService(t, store, &stubProjects{project: models.Project{ID: projectID}})

	_, err := svc.Update(context.Background(), uuid.New(), projectID, foreign.ID, CategoryInput{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Nil(t, store.updated)
}

func TestDeleteRemovesBucket(t *testing.T) {
	projectID := uuid.New()
	bucket := models.BudgetCategory{ID: uuid.New(), ProjectID: projectID, Name: "Equipos"}
	store := &stubStore{rows: []models.BudgetCategory{bucket}}
	svc := newTestService(t, store, &stubProjects{project: models.Project{ID: projectID}})

	require.NoError(t, svc.Delete(context.Background(), uuid.New(), projectID, bucket.ID))
	require.Len(t, store.deleted, 1)
	assert.Equal(t, bucket.ID, store.deleted[0])
}
