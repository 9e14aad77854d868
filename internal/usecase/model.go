package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"neutone-sdk/internal/domain"
)

type ModelUseCase struct {
	repo        domain.ModelRepository
	versionRepo domain.ModelVersionRepository
}

func NewModelUseCase(repo domain.ModelRepository, versionRepo domain.ModelVersionRepository) *ModelUseCase {
	return &ModelUseCase{repo: repo, versionRepo: versionRepo}
}

func (uc *ModelUseCase) Create(ctx context.Context, name string, authors []string, shortDescription, longDescription string, tags []string, isExperimental bool) (*domain.Model, error) {
	if name == "" {
		return nil, domain.ErrInvalidModelName
	}

	now := time.Now()
	model := &domain.Model{
		ID:               uuid.New(),
		CreatedAt:        now,
		UpdatedAt:        now,
		Name:             name,
		Slug:             generateSlug(name),
		Authors:          authors,
		ShortDescription: shortDescription,
		LongDescription:  longDescription,
		Tags:             tags,
		IsExperimental:   isExperimental,
		State:            domain.ModelStateLive,
	}

	if model.Authors == nil {
		model.Authors = []string{}
	}
	if model.Tags == nil {
		model.Tags = []string{}
	}

	if err := uc.repo.Create(ctx, model); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, model.ID)
}

func (uc *ModelUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *ModelUseCase) GetByParams(ctx context.Context, name, slug string) (*domain.Model, error) {
	return uc.repo.GetByParams(ctx, name, slug)
}

func (uc *ModelUseCase) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Model, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return uc.repo.List(ctx, filter)
}

func (uc *ModelUseCase) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*domain.Model, error) {
	model, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["name"]; ok && v != nil {
		model.Name = v.(string)
	}
	if v, ok := updates["authors"]; ok && v != nil {
		model.Authors = v.([]string)
	}
	if v, ok := updates["short_description"]; ok && v != nil {
		model.ShortDescription = v.(string)
	}
	if v, ok := updates["long_description"]; ok && v != nil {
		model.LongDescription = v.(string)
	}
	if v, ok := updates["tags"]; ok && v != nil {
		model.Tags = v.([]string)
	}
	if v, ok := updates["is_experimental"]; ok && v != nil {
		model.IsExperimental = v.(bool)
	}
	if v, ok := updates["state"]; ok && v != nil {
		model.State = domain.ModelState(v.(string))
	}

	if err := uc.repo.Update(ctx, model); err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, id)
}

// Delete removes a model. Only archived models with no READY versions can
// be deleted.
func (uc *ModelUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	model, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if model.State != domain.ModelStateArchived {
		return domain.ErrCannotDeleteModel
	}

	_, ready, err := uc.versionRepo.List(ctx, domain.VersionListFilter{
		ModelID: id,
		Status:  string(domain.VersionStatusReady),
		Limit:   1,
	})
	if err != nil {
		return err
	}
	if ready > 0 {
		return domain.ErrCannotDeleteModel
	}

	return uc.repo.Delete(ctx, id)
}

func generateSlug(name string) string {
	slug := ""
	for _, ch := range name {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' {
			slug += string(ch)
		} else if ch >= 'A' && ch <= 'Z' {
			slug += string(ch + 32)
		} else if ch == ' ' || ch == '_' {
			slug += "-"
		}
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
