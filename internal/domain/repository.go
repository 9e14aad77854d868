package domain

import (
	"context"

	"github.com/google/uuid"
)

type ListFilter struct {
	State  string
	Tag    string
	Search string
	SortBy string
	Order  string
	Limit  int
	Offset int
}

type VersionListFilter struct {
	ModelID uuid.UUID
	Status  string
	SortBy  string
	Order   string
	Limit   int
	Offset  int
}

type ModelRepository interface {
	Create(ctx context.Context, model *Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*Model, error)
	GetByParams(ctx context.Context, name string, slug string) (*Model, error)
	Update(ctx context.Context, model *Model) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]*Model, int, error)
}

type ModelVersionRepository interface {
	Create(ctx context.Context, version *ModelVersion) error
	GetByID(ctx context.Context, id uuid.UUID) (*ModelVersion, error)
	GetByModelAndVersion(ctx context.Context, modelID uuid.UUID, version string) (*ModelVersion, error)
	Update(ctx context.Context, version *ModelVersion) error
	List(ctx context.Context, filter VersionListFilter) ([]*ModelVersion, int, error)
	ClearDefault(ctx context.Context, modelID uuid.UUID) error
}
