package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"neutone-sdk/internal/domain"
)

const versionColumns = `
	v.id, v.created_at, v.updated_at, v.model_id, v.version, v.sdk_version,
	v.status, v.is_default, v.is_input_mono, v.is_output_mono,
	v.native_sample_rates, v.native_buffer_sizes, v.min_delay_samples,
	v.parameters, v.file_uri, v.checksum, v.file_size`

type modelVersionRepo struct {
	pool *pgxpool.Pool
}

func NewModelVersionRepository(pool *pgxpool.Pool) domain.ModelVersionRepository {
	return &modelVersionRepo{pool: pool}
}

func (r *modelVersionRepo) Create(ctx context.Context, version *domain.ModelVersion) error {
	sv, err := semver.NewVersion(version.Version)
	if err != nil {
		return domain.ErrInvalidVersion
	}
	ratesJSON, sizesJSON, paramsJSON, err := marshalVersionMeta(version)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO neutone_model_version
			(id, created_at, updated_at, model_id, version, sdk_version,
			 ver_major, ver_minor, ver_patch, status, is_default,
			 is_input_mono, is_output_mono, native_sample_rates,
			 native_buffer_sizes, min_delay_samples, parameters,
			 file_uri, checksum, file_size)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`

	_, err = r.pool.Exec(ctx, query,
		version.ID, version.CreatedAt, version.UpdatedAt,
		version.ModelID, version.Version, version.SDKVersion,
		sv.Major(), sv.Minor(), sv.Patch(), string(version.Status), version.IsDefault,
		version.IsInputMono, version.IsOutputMono, ratesJSON,
		sizesJSON, version.MinDelaySamples, paramsJSON,
		version.FileURI, version.Checksum, version.FileSize,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("create model version: %w", err)
	}
	return nil
}

func (r *modelVersionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model_version v
		WHERE v.id = $1
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by id: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) GetByModelAndVersion(ctx context.Context, modelID uuid.UUID, version string) (*domain.ModelVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model_version v
		WHERE v.model_id = $1 AND v.version = $2
	`, versionColumns)

	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID, version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) Update(ctx context.Context, version *domain.ModelVersion) error {
	ratesJSON, sizesJSON, paramsJSON, err := marshalVersionMeta(version)
	if err != nil {
		return err
	}

	query := `
		UPDATE neutone_model_version
		SET sdk_version=$1, status=$2, is_default=$3,
			is_input_mono=$4, is_output_mono=$5, native_sample_rates=$6,
			native_buffer_sizes=$7, min_delay_samples=$8, parameters=$9,
			file_uri=$10, checksum=$11, file_size=$12, updated_at=NOW()
		WHERE id=$13
	`
	result, err := r.pool.Exec(ctx, query,
		version.SDKVersion, string(version.Status), version.IsDefault,
		version.IsInputMono, version.IsOutputMono, ratesJSON,
		sizesJSON, version.MinDelaySamples, paramsJSON,
		version.FileURI, version.Checksum, version.FileSize, version.ID,
	)
	if err != nil {
		return fmt.Errorf("update model version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *modelVersionRepo) List(ctx context.Context, filter domain.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	conditions := []string{"v.model_id = $1"}
	args := []interface{}{filter.ModelID}
	argPos := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("v.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM neutone_model_version v WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count model versions: %w", err)
	}

	orderBy := "v.ver_major DESC, v.ver_minor DESC, v.ver_patch DESC"
	if filter.SortBy == "created_at" {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("v.created_at %s", dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM neutone_model_version v
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, versionColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.ModelVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate model version rows: %w", err)
	}

	return versions, total, nil
}

func (r *modelVersionRepo) ClearDefault(ctx context.Context, modelID uuid.UUID) error {
	query := `UPDATE neutone_model_version SET is_default = false, updated_at = NOW() WHERE model_id = $1 AND is_default = true`
	if _, err := r.pool.Exec(ctx, query, modelID); err != nil {
		return fmt.Errorf("clear default version: %w", err)
	}
	return nil
}

func marshalVersionMeta(v *domain.ModelVersion) (rates, sizes, params []byte, err error) {
	if rates, err = json.Marshal(v.NativeSampleRates); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal native sample rates: %w", err)
	}
	if sizes, err = json.Marshal(v.NativeBufferSizes); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal native buffer sizes: %w", err)
	}
	if params, err = json.Marshal(v.Parameters); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal parameters: %w", err)
	}
	return rates, sizes, params, nil
}

// scanVersion scans a ModelVersion from any source with the versionColumns
// layout.
func scanVersion(row pgx.Row) (*domain.ModelVersion, error) {
	v := &domain.ModelVersion{}
	var ratesJSON, sizesJSON, paramsJSON []byte

	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.ModelID, &v.Version, &v.SDKVersion,
		&v.Status, &v.IsDefault, &v.IsInputMono, &v.IsOutputMono,
		&ratesJSON, &sizesJSON, &v.MinDelaySamples,
		&paramsJSON, &v.FileURI, &v.Checksum, &v.FileSize,
	)
	if err != nil {
		return nil, err
	}

	if len(ratesJSON) > 0 {
		if err := json.Unmarshal(ratesJSON, &v.NativeSampleRates); err != nil {
			return nil, fmt.Errorf("unmarshal native sample rates: %w", err)
		}
	}
	if len(sizesJSON) > 0 {
		if err := json.Unmarshal(sizesJSON, &v.NativeBufferSizes); err != nil {
			return nil, fmt.Errorf("unmarshal native buffer sizes: %w", err)
		}
	}
	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &v.Parameters); err != nil {
			return nil, fmt.Errorf("unmarshal parameters: %w", err)
		}
	}

	return v, nil
}
