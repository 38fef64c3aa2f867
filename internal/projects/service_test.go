package projects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
)

type stubStore struct {
	rows      []models.Project
	created   *models.Project
	updated   *models.Project
	deleted   []uuid.UUID
	deleteErr error
}

func (s *stubStore) ListByUser(context.Context, uuid.UUID) ([]models.Project, error) {
	return s.rows, nil
}

func (s *stubStore) FindOwned(_ context.Context, userID, projectID uuid.UUID) (models.Project, error) {
	for _, row := range s.rows {
		if row.ID == projectID && row.UserID == userID {
			return row, nil
		}
	}
	return models.Project{}, gorm.ErrRecordNotFound
}

func (s *stubStore) Create(_ context.Context, row *models.Project) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.created = row
	return nil
}

func (s *stubStore) Update(_ context.Context, row *models.Project) error {
	s.updated = row
	return nil
}

func (s *stubStore) SoftDelete(_ context.Context, _, projectID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, projectID)
	return nil
}

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: store})
	require.NoError(t, err)
	return svc
}

func TestCreateDefaultsToActiveStatus(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "  Cableado planta baja  "})
	require.NoError(t, err)

	assert.Equal(t, "Cableado planta baja", dto.Name)
	assert.Equal(t, enums.ProjectStatusActive, dto.Status)
	assert.Zero(t, dto.Subtotal)
	assert.Zero(t, dto.Total)
	require.NotNil(t, store.created)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Obra", Status: "paused"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateClampsDiscount(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Obra", DiscountPercent: 180})
	require.NoError(t, err)
	assert.InDelta(t, 100, dto.DiscountPercent, 0.001)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	userID := uuid.New()
	client := "ACME SRL"
	existing := models.Project{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Obra",
		Client: &client,
		Status: enums.ProjectStatusActive,
	}
	store := &stubStore{rows: []models.Project{existing}}
	svc := newTestService(t, store)

	status := "completed"
	dto, err := svc.Update(context.Background(), userID, existing.ID, UpdateInput{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, enums.ProjectStatusCompleted, dto.Status)
	require.NotNil(t, dto.Client)
	assert.Equal(t, client, *dto.Client)
	require.NotNil(t, store.updated)
}

func TestUpdateUnknownProject(t *testing.T) {
	svc := newTestService(t, &stubStore{})

	name := "Otra"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateInput{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteSendsProjectToTrash(t *testing.T) {
	userID := uuid.New()
	existing := models.Project{ID: uuid.New(), UserID: userID, Name: "Obra", Status: enums.ProjectStatusActive}
	store := &stubStore{rows: []models.Project{existing}}
	svc := newTestService(t, store)

	require.NoError(t, svc.Delete(context.Background(), userID, existing.ID))
	require.Len(t, store.deleted, 1)
	assert.Equal(t, existing.ID, store.deleted[0])
}

func TestDeleteScopedToOwner(t *testing.T) {
	existing := models.Project{ID: uuid.New(), UserID: uuid.New(), Name: "Ajena", Status: enums.ProjectStatusActive}
	store := &stubStore{rows: []models.Project{existing}}
	svc := newTestService(t, store)

	err := svc.Delete(context.Background(), uuid.New(), existing.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	assert.Empty(t, store.deleted)
}
