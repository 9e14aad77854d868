package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"

	"neutone-sdk/internal/domain"
	"neutone-sdk/internal/storage"
)

type ModelArtifactUseCase struct {
	versionRepo domain.ModelVersionRepository
	store       *storage.FileStore
}

func NewModelArtifactUseCase(versionRepo domain.ModelVersionRepository, store *storage.FileStore) *ModelArtifactUseCase {
	return &ModelArtifactUseCase{versionRepo: versionRepo, store: store}
}

// Attach stores an uploaded model file against a version and marks the
// version READY. Re-attaching replaces the previous artifact reference.
func (uc *ModelArtifactUseCase) Attach(ctx context.Context, versionID uuid.UUID, r io.Reader) (*domain.ModelVersion, error) {
	version, err := uc.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}

	uri, checksum, size, err := uc.store.Save(r)
	if err != nil {
		return nil, err
	}

	version.FileURI = uri
	version.Checksum = checksum
	version.FileSize = size
	version.Status = domain.VersionStatusReady

	if err := uc.versionRepo.Update(ctx, version); err != nil {
		return nil, err
	}

	return uc.versionRepo.GetByID(ctx, versionID)
}

// Open returns a reader over a version's stored artifact.
func (uc *ModelArtifactUseCase) Open(ctx context.Context, versionID uuid.UUID) (*domain.ModelVersion, io.ReadCloser, error) {
	version, err := uc.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, nil, err
	}
	if version.FileURI == "" {
		return nil, nil, domain.ErrArtifactNotFound
	}

	rc, _, err := uc.store.Open(version.FileURI)
	if err != nil {
		return nil, nil, err
	}
	return version, rc, nil
}
