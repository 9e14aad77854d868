package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"neutone-sdk/internal/domain"
	"neutone-sdk/internal/storage"
	"neutone-sdk/internal/testutil"
)

func TestModelArtifactUseCase_Attach(t *testing.T) {
	repo := new(testutil.MockModelVersionRepo)
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	uc := NewModelArtifactUseCase(repo, store)

	id := uuid.New()
	existing := &domain.ModelVersion{ID: id, Status: domain.VersionStatusPending}

	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).Return(nil)

	payload := "serialized model bytes"
	v, err := uc.Attach(context.Background(), id, strings.NewReader(payload))
	require.NoError(t, err)

	wantSum := sha256.Sum256([]byte(payload))
	assert.Equal(t, hex.EncodeToString(wantSum[:]), v.Checksum)
	assert.Equal(t, int64(len(payload)), v.FileSize)
	assert.Equal(t, domain.VersionStatusReady, v.Status)
	assert.NotEmpty(t, v.FileURI)
}

func TestModelArtifactUseCase_Open(t *testing.T) {
	repo := new(testutil.MockModelVersionRepo)
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	uc := NewModelArtifactUseCase(repo, store)

	uri, _, _, err := store.Save(strings.NewReader("model payload"))
	require.NoError(t, err)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.ModelVersion{ID: id, FileURI: uri}, nil)

	_, rc, err := uc.Open(context.Background(), id)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "model payload", string(data))
}

func TestModelArtifactUseCase_Open_NoArtifact(t *testing.T) {
	repo := new(testutil.MockModelVersionRepo)
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	uc := NewModelArtifactUseCase(repo, store)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.ModelVersion{ID: id}, nil)

	_, _, err = uc.Open(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestFileStore_SaveIsContentAddressed(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	uri1, sum1, _, err := store.Save(strings.NewReader("same bytes"))
	require.NoError(t, err)
	uri2, sum2, _, err := store.Save(strings.NewReader("same bytes"))
	require.NoError(t, err)

	assert.Equal(t, uri1, uri2)
	assert.Equal(t, sum1, sum2)
}
