package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutone-sdk/internal/domain"
)

const modelColumns = `
	m.id, m.created_at, m.updated_at, m.name, m.slug, m.authors,
	m.short_description, m.long_description, m.tags, m.is_experimental, m.state,
	(SELECT COUNT(*) FROM neutone_model_version mv WHERE mv.model_id = m.id) AS version_count`

type modelRepo struct {
	pool *pgxpool.Pool
}

func NewModelRepository(pool *pgxpool.Pool) domain.ModelRepository {
	return &modelRepo{pool: pool}
}

func (r *modelRepo) Create(ctx context.Context, model *domain.Model) error {
	authorsJSON, err := json.Marshal(model.Authors)
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	tagsJSON, err := json.Marshal(model.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		INSERT INTO neutone_model
			(id, created_at, updated_at, name, slug, authors,
			 short_description, long_description, tags, is_experimental, state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`

	_, err = r.pool.Exec(ctx, query,
		model.ID, model.CreatedAt, model.UpdatedAt,
		model.Name, model.Slug, authorsJSON,
		model.ShortDescription, model.LongDescription, tagsJSON,
		model.IsExperimental, string(model.State),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("create model: %w", err)
	}
	return nil
}

func (r *modelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model m
		WHERE m.id = $1
	`, modelColumns)

	model, err := scanModel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by id: %w", err)
	}

	if err := r.loadVersionMeta(ctx, model); err != nil {
		return nil, err
	}

	return model, nil
}

func (r *modelRepo) GetByParams(ctx context.Context, name string, slug string) (*domain.Model, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if name != "" {
		conditions = append(conditions, fmt.Sprintf("m.name = $%d", argPos))
		args = append(args, name)
		argPos++
	}
	if slug != "" {
		conditions = append(conditions, fmt.Sprintf("m.slug = $%d", argPos))
		args = append(args, slug)
		argPos++
	}

	if len(conditions) == 0 {
		return nil, domain.ErrModelNotFound
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model m
		WHERE %s
		LIMIT 1
	`, modelColumns, strings.Join(conditions, " AND "))

	model, err := scanModel(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by params: %w", err)
	}

	if err := r.loadVersionMeta(ctx, model); err != nil {
		return nil, err
	}

	return model, nil
}

func (r *modelRepo) Update(ctx context.Context, model *domain.Model) error {
	authorsJSON, err := json.Marshal(model.Authors)
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	tagsJSON, err := json.Marshal(model.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `
		UPDATE neutone_model
		SET name=$1, authors=$2, short_description=$3, long_description=$4,
			tags=$5, is_experimental=$6, state=$7, updated_at=NOW()
		WHERE id=$8
	`
	result, err := r.pool.Exec(ctx, query,
		model.Name, authorsJSON, model.ShortDescription, model.LongDescription,
		tagsJSON, model.IsExperimental, string(model.State), model.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("update model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM neutone_model WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRepo) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Model, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf("m.state = $%d", argPos))
		args = append(args, filter.State)
		argPos++
	}
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("m.tags ? $%d", argPos))
		args = append(args, filter.Tag)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("m.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM neutone_model m WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count models: %w", err)
	}

	// Order
	orderBy := "m.created_at DESC"
	if filter.SortBy != "" {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("m.%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model m
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, modelColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []*domain.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate model rows: %w", err)
	}

	return models, total, nil
}

// scanModel scans a Model from any source with the modelColumns layout.
func scanModel(row pgx.Row) (*domain.Model, error) {
	m := &domain.Model{}
	var authorsJSON, tagsJSON []byte

	err := row.Scan(
		&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.Name, &m.Slug, &authorsJSON,
		&m.ShortDescription, &m.LongDescription, &tagsJSON,
		&m.IsExperimental, &m.State, &m.VersionCount,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(authorsJSON, &m.Authors); err != nil {
		return nil, fmt.Errorf("unmarshal authors: %w", err)
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &m.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}

	return m, nil
}

// loadVersionMeta loads latest_version and default_version for a model.
// Latest means highest semver, taken from the decomposed version columns.
func (r *modelRepo) loadVersionMeta(ctx context.Context, model *domain.Model) error {
	latestQuery := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model_version v
		WHERE v.model_id = $1
		ORDER BY v.ver_major DESC, v.ver_minor DESC, v.ver_patch DESC
		LIMIT 1
	`, versionColumns)
	latest, err := scanVersion(r.pool.QueryRow(ctx, latestQuery, model.ID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("load latest version: %w", err)
	}
	if err == nil {
		model.LatestVersion = latest
	}

	defaultQuery := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model_version v
		WHERE v.model_id = $1 AND v.is_default = true
		LIMIT 1
	`, versionColumns)
	def, err := scanVersion(r.pool.QueryRow(ctx, defaultQuery, model.ID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("load default version: %w", err)
	}
	if err == nil {
		model.DefaultVersion = def
	}

	return nil
}
