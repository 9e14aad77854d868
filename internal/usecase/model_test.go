package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"neutone-sdk/internal/domain"
	"neutone-sdk/internal/testutil"
)

func TestModelUseCase_Create(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	versions := new(testutil.MockModelVersionRepo)
	uc := NewModelUseCase(repo, versions)

	modelID := uuid.New()
	returnedModel := &domain.Model{
		ID:               modelID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
		Name:             "TALBox",
		Slug:             "talbox",
		Authors:          []string{"Andrew Fyfe"},
		ShortDescription: "Vocoder effect",
		State:            domain.ModelStateLive,
	}

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)
	repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(returnedModel, nil)

	model, err := uc.Create(context.Background(), "TALBox", []string{"Andrew Fyfe"}, "Vocoder effect", "", nil, false)
	assert.NoError(t, err)
	assert.Equal(t, "TALBox", model.Name)
	repo.AssertExpectations(t)
}

func TestModelUseCase_Create_EmptyName(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	_, err := uc.Create(context.Background(), "", nil, "desc", "", nil, false)
	assert.ErrorIs(t, err, domain.ErrInvalidModelName)
}

func TestModelUseCase_Create_NameConflict(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(domain.ErrModelNameConflict)

	_, err := uc.Create(context.Background(), "dup", nil, "desc", "", nil, false)
	assert.ErrorIs(t, err, domain.ErrModelNameConflict)
}

func TestModelUseCase_Get_NotFound(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrModelNotFound)

	_, err := uc.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestModelUseCase_List(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	filter := domain.ListFilter{Limit: 10}
	models := []*domain.Model{{ID: uuid.New(), Name: "m1"}}

	repo.On("List", mock.Anything, filter).Return(models, 1, nil)

	result, total, err := uc.List(context.Background(), filter)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, result, 1)
}

func TestModelUseCase_List_DefaultLimit(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	filter := domain.ListFilter{Limit: 0}
	expectedFilter := filter
	expectedFilter.Limit = 20

	repo.On("List", mock.Anything, expectedFilter).Return([]*domain.Model{}, 0, nil)

	_, _, err := uc.List(context.Background(), filter)
	assert.NoError(t, err)
}

func TestModelUseCase_Update(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	id := uuid.New()
	existing := &domain.Model{ID: id, Name: "old", State: domain.ModelStateLive}

	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)

	updated, err := uc.Update(context.Background(), id, map[string]interface{}{"name": "new"})
	assert.NoError(t, err)
	assert.Equal(t, "new", updated.Name)
}

func TestModelUseCase_Delete_NotArchived(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	uc := NewModelUseCase(repo, new(testutil.MockModelVersionRepo))

	id := uuid.New()
	existing := &domain.Model{ID: id, State: domain.ModelStateLive}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	err := uc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrCannotDeleteModel)
}

func TestModelUseCase_Delete_HasReadyVersions(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	versions := new(testutil.MockModelVersionRepo)
	uc := NewModelUseCase(repo, versions)

	id := uuid.New()
	existing := &domain.Model{ID: id, State: domain.ModelStateArchived}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	versions.On("List", mock.Anything, mock.AnythingOfType("domain.VersionListFilter")).Return([]*domain.ModelVersion{{}}, 1, nil)

	err := uc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrCannotDeleteModel)
}

func TestModelUseCase_Delete_Success(t *testing.T) {
	repo := new(testutil.MockModelRepo)
	versions := new(testutil.MockModelVersionRepo)
	uc := NewModelUseCase(repo, versions)

	id := uuid.New()
	existing := &domain.Model{ID: id, State: domain.ModelStateArchived}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	versions.On("List", mock.Anything, mock.AnythingOfType("domain.VersionListFilter")).Return([]*domain.ModelVersion{}, 0, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)

	err := uc.Delete(context.Background(), id)
	assert.NoError(t, err)
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "tal-box-2", generateSlug("TAL Box 2"))
	assert.Equal(t, "clipper", generateSlug("clipper!"))
}
