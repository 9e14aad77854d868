package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neutone-sdk/internal/domain"
	"neutone-sdk/internal/storage"
	"neutone-sdk/internal/testutil"
	"neutone-sdk/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupModelRouter(t *testing.T) (*testutil.MockModelRepo, *testutil.MockModelVersionRepo, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	modelRepo := new(testutil.MockModelRepo)
	versionRepo := new(testutil.MockModelVersionRepo)

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	modelUC := usecase.NewModelUseCase(modelRepo, versionRepo)
	versionUC := usecase.NewModelVersionUseCase(versionRepo, modelRepo)
	artifactUC := usecase.NewModelArtifactUseCase(versionRepo, store)

	h := New(modelUC, versionUC, artifactUC)
	r := gin.New()
	api := r.Group("/api/v1/registry")
	h.RegisterRoutes(api)

	return modelRepo, versionRepo, r
}

func liveModel(id uuid.UUID) *domain.Model {
	return &domain.Model{
		ID: id, Name: "m1", Slug: "m1",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
		Authors: []string{}, Tags: []string{},
		State: domain.ModelStateLive,
	}
}

func TestListModels(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	models := []*domain.Model{liveModel(uuid.New())}
	modelRepo.On("List", mock.Anything, mock.AnythingOfType("domain.ListFilter")).Return(models, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models?limit=10&offset=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}

func TestGetModel(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	id := uuid.New()
	modelRepo.On("GetByID", mock.Anything, id).Return(liveModel(id), nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetModel_NotFound(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	id := uuid.New()
	modelRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrModelNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetModel_InvalidID(t *testing.T) {
	_, _, r := setupModelRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetModelByParams(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	id := uuid.New()
	modelRepo.On("GetByParams", mock.Anything, "m1", "").Return(liveModel(id), nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/model?name=m1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateModel(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	returnedModel := liveModel(uuid.New())
	returnedModel.Name = "new-model"

	modelRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)
	modelRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(returnedModel, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":    "new-model",
		"authors": []string{"Andrew Fyfe"},
	})

	req, _ := http.NewRequest("POST", "/api/v1/registry/models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateModel_MissingName(t *testing.T) {
	_, _, r := setupModelRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"authors": []string{"Andrew Fyfe"},
	})

	req, _ := http.NewRequest("POST", "/api/v1/registry/models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateModel_NameConflict(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	modelRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(domain.ErrModelNameConflict)

	body, _ := json.Marshal(map[string]interface{}{"name": "dup"})
	req, _ := http.NewRequest("POST", "/api/v1/registry/models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateModel(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	id := uuid.New()
	modelRepo.On("GetByID", mock.Anything, id).Return(liveModel(id), nil)
	modelRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{"name": "updated"})
	req, _ := http.NewRequest("PATCH", "/api/v1/registry/models/"+id.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteModel(t *testing.T) {
	modelRepo, versionRepo, r := setupModelRouter(t)

	id := uuid.New()
	archived := liveModel(id)
	archived.State = domain.ModelStateArchived
	modelRepo.On("GetByID", mock.Anything, id).Return(archived, nil)
	versionRepo.On("List", mock.Anything, mock.AnythingOfType("domain.VersionListFilter")).Return([]*domain.ModelVersion{}, 0, nil)
	modelRepo.On("Delete", mock.Anything, id).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/registry/models/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteModel_NotArchived(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	id := uuid.New()
	modelRepo.On("GetByID", mock.Anything, id).Return(liveModel(id), nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/registry/models/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
