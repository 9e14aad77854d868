package usecase

import (
	"context"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"neutone-sdk/internal/domain"
)

type ModelVersionUseCase struct {
	repo      domain.ModelVersionRepository
	modelRepo domain.ModelRepository
}

func NewModelVersionUseCase(repo domain.ModelVersionRepository, modelRepo domain.ModelRepository) *ModelVersionUseCase {
	return &ModelVersionUseCase{repo: repo, modelRepo: modelRepo}
}

func (uc *ModelVersionUseCase) Create(ctx context.Context, modelID uuid.UUID, version, sdkVersion string, isDefault bool, profile domain.ModelVersion) (*domain.ModelVersion, error) {
	// Verify the parent model exists before writing anything.
	if _, err := uc.modelRepo.GetByID(ctx, modelID); err != nil {
		return nil, err
	}

	if _, err := semver.NewVersion(version); err != nil {
		return nil, domain.ErrInvalidVersion
	}
	if sdkVersion != "" {
		if _, err := semver.NewVersion(sdkVersion); err != nil {
			return nil, domain.ErrInvalidVersion
		}
	}

	if isDefault {
		if err := uc.repo.ClearDefault(ctx, modelID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	v := &domain.ModelVersion{
		ID:                uuid.New(),
		CreatedAt:         now,
		UpdatedAt:         now,
		ModelID:           modelID,
		Version:           version,
		SDKVersion:        sdkVersion,
		Status:            domain.VersionStatusPending,
		IsDefault:         isDefault,
		IsInputMono:       profile.IsInputMono,
		IsOutputMono:      profile.IsOutputMono,
		NativeSampleRates: profile.NativeSampleRates,
		NativeBufferSizes: profile.NativeBufferSizes,
		MinDelaySamples:   profile.MinDelaySamples,
		Parameters:        profile.Parameters,
	}

	if v.Parameters == nil {
		v.Parameters = []domain.ParamSpec{}
	}

	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, v.ID)
}

func (uc *ModelVersionUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *ModelVersionUseCase) GetByModelAndVersion(ctx context.Context, modelID uuid.UUID, version string) (*domain.ModelVersion, error) {
	return uc.repo.GetByModelAndVersion(ctx, modelID, version)
}

func (uc *ModelVersionUseCase) List(ctx context.Context, filter domain.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return uc.repo.List(ctx, filter)
}

func (uc *ModelVersionUseCase) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*domain.ModelVersion, error) {
	version, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["status"]; ok && v != nil {
		version.Status = domain.VersionStatus(v.(string))
	}
	if v, ok := updates["is_default"]; ok && v != nil {
		version.IsDefault = v.(bool)
		if version.IsDefault {
			if err := uc.repo.ClearDefault(ctx, version.ModelID); err != nil {
				return nil, err
			}
		}
	}
	if v, ok := updates["sdk_version"]; ok && v != nil {
		sdk := v.(string)
		if _, err := semver.NewVersion(sdk); err != nil {
			return nil, domain.ErrInvalidVersion
		}
		version.SDKVersion = sdk
	}
	if v, ok := updates["min_delay_samples"]; ok && v != nil {
		version.MinDelaySamples = v.(int)
	}
	if v, ok := updates["parameters"]; ok && v != nil {
		version.Parameters = v.([]domain.ParamSpec)
	}

	if err := uc.repo.Update(ctx, version); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, id)
}

// SetDefault marks one version as the model's default, clearing any
// previous default first.
func (uc *ModelVersionUseCase) SetDefault(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	version, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ClearDefault(ctx, version.ModelID); err != nil {
		return nil, err
	}

	version.IsDefault = true
	if err := uc.repo.Update(ctx, version); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, id)
}

func (uc *ModelVersionUseCase) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VersionStatus) (*domain.ModelVersion, error) {
	return uc.Update(ctx, id, map[string]interface{}{"status": string(status)})
}
