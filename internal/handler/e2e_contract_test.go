package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neutone-sdk/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper: assert JSON field exists and has expected type
// ---------------------------------------------------------------------------

func assertFieldString(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isStr := val.(string)
		assert.True(t, isStr, "field %q should be string, got %T", key, val)
	}
}

func assertFieldNumber(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isNum := val.(float64)
		assert.True(t, isNum, "field %q should be number, got %T", key, val)
	}
}

func assertFieldBool(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isBool := val.(bool)
		assert.True(t, isBool, "field %q should be bool, got %T", key, val)
	}
}

func assertFieldArray(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isArr := val.([]interface{})
		assert.True(t, isArr, "field %q should be array, got %T", key, val)
	}
}

// assertModelResponseFields checks all fields the submission client expects.
func assertModelResponseFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "name")
	assertFieldString(t, resp, "slug")
	assertFieldString(t, resp, "state")
	assertFieldString(t, resp, "short_description")
	assertFieldString(t, resp, "long_description")
	assertFieldArray(t, resp, "authors")
	assertFieldArray(t, resp, "tags")
	assertFieldBool(t, resp, "is_experimental")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
	assertFieldNumber(t, resp, "version_count")
}

// assertVersionResponseFields checks all fields the submission client expects.
func assertVersionResponseFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "model_id")
	assertFieldString(t, resp, "version")
	assertFieldString(t, resp, "sdk_version")
	assertFieldString(t, resp, "status")
	assertFieldBool(t, resp, "is_default")
	assertFieldBool(t, resp, "is_input_mono")
	assertFieldBool(t, resp, "is_output_mono")
	assertFieldArray(t, resp, "native_sample_rates")
	assertFieldArray(t, resp, "native_buffer_sizes")
	assertFieldNumber(t, resp, "min_delay_samples")
	assertFieldArray(t, resp, "parameters")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
}

// assertListResponseFields checks pagination envelope fields.
func assertListResponseFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldArray(t, resp, "items")
	assertFieldNumber(t, resp, "total")
	assertFieldNumber(t, resp, "page_size")
	assertFieldNumber(t, resp, "next_offset")
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

func fixtureModel() *domain.Model {
	return &domain.Model{
		ID:               uuid.New(),
		Name:             "clipper",
		Slug:             "clipper",
		Authors:          []string{"Andrew Fyfe"},
		ShortDescription: "Audio soft clipper",
		LongDescription:  "A simple waveshaping distortion",
		Tags:             []string{"clipper", "distortion"},
		IsExperimental:   false,
		State:            domain.ModelStateLive,
		VersionCount:     0,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

func fixtureVersion(modelID uuid.UUID) *domain.ModelVersion {
	return &domain.ModelVersion{
		ID:                uuid.New(),
		ModelID:           modelID,
		Version:           "1.0.0",
		SDKVersion:        "1.4.1",
		Status:            domain.VersionStatusPending,
		IsDefault:         false,
		IsInputMono:       false,
		IsOutputMono:      false,
		NativeSampleRates: []int{48000},
		NativeBufferSizes: []int{2048},
		MinDelaySamples:   512,
		Parameters: []domain.ParamSpec{
			{Name: "drive", Description: "Clipping amount", Default: 0.5, Used: true},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// ===========================================================================
// Model contract tests
// ===========================================================================

func TestContract_CreateModel(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	returned := fixtureModel()

	modelRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)
	modelRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":              "clipper",
		"authors":           []string{"Andrew Fyfe"},
		"short_description": "Audio soft clipper",
		"tags":              []string{"clipper", "distortion"},
	})

	req, _ := http.NewRequest("POST", "/api/v1/registry/models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertModelResponseFields(t, resp)

	assert.Equal(t, "clipper", resp["name"])
	assert.Equal(t, "LIVE", resp["state"])
}

func TestContract_ListModels(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	models := []*domain.Model{fixtureModel()}
	modelRepo.On("List", mock.Anything, mock.AnythingOfType("domain.ListFilter")).Return(models, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models?limit=10&offset=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertListResponseFields(t, resp)

	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	assertModelResponseFields(t, items[0].(map[string]interface{}))
	assert.Equal(t, float64(1), resp["total"])
	assert.Equal(t, float64(10), resp["page_size"])
	assert.Equal(t, float64(1), resp["next_offset"])
}

func TestContract_ModelEmbedsVersions(t *testing.T) {
	modelRepo, _, r := setupModelRouter(t)

	model := fixtureModel()
	model.VersionCount = 1
	model.LatestVersion = fixtureVersion(model.ID)
	model.DefaultVersion = model.LatestVersion

	modelRepo.On("GetByID", mock.Anything, model.ID).Return(model, nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models/"+model.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertModelResponseFields(t, resp)

	latest, ok := resp["latest_version"].(map[string]interface{})
	require.True(t, ok, "latest_version should be embedded")
	assertVersionResponseFields(t, latest)
}

// ===========================================================================
// ModelVersion contract tests
// ===========================================================================

func TestContract_CreateVersion(t *testing.T) {
	modelRepo, versionRepo, r := setupModelRouter(t)

	modelID := uuid.New()
	returned := fixtureVersion(modelID)

	modelRepo.On("GetByID", mock.Anything, modelID).Return(liveModel(modelID), nil)
	versionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).Return(nil)
	versionRepo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"version":             "1.0.0",
		"sdk_version":         "1.4.1",
		"native_sample_rates": []int{48000},
		"native_buffer_sizes": []int{2048},
		"min_delay_samples":   512,
		"parameters": []map[string]interface{}{
			{"name": "drive", "description": "Clipping amount", "default": 0.5, "used": true},
		},
	})

	req, _ := http.NewRequest("POST", "/api/v1/registry/models/"+modelID.String()+"/versions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertVersionResponseFields(t, resp)

	assert.Equal(t, modelID.String(), resp["model_id"])
	assert.Equal(t, "PENDING", resp["status"])
}

func TestContract_ListVersions(t *testing.T) {
	_, versionRepo, r := setupModelRouter(t)

	modelID := uuid.New()
	versions := []*domain.ModelVersion{fixtureVersion(modelID)}

	versionRepo.On("List", mock.Anything, mock.AnythingOfType("domain.VersionListFilter")).Return(versions, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models/"+modelID.String()+"/versions?limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertListResponseFields(t, resp)

	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	assertVersionResponseFields(t, items[0].(map[string]interface{}))
}

func TestContract_VersionParameters(t *testing.T) {
	_, versionRepo, r := setupModelRouter(t)

	modelID := uuid.New()
	version := fixtureVersion(modelID)

	versionRepo.On("GetByModelAndVersion", mock.Anything, modelID, "1.0.0").Return(version, nil)

	req, _ := http.NewRequest("GET", "/api/v1/registry/models/"+modelID.String()+"/versions/1.0.0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	params := resp["parameters"].([]interface{})
	require.Len(t, params, 1)
	p := params[0].(map[string]interface{})
	assertFieldString(t, p, "name")
	assertFieldString(t, p, "description")
	assertFieldNumber(t, p, "default")
	assertFieldBool(t, p, "used")
}
