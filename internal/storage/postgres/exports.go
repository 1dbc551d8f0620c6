package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// exportsStorage — Postgres реализация ExportsStorage
type exportsStorage struct {
	pool *pgxpool.Pool
}

func newExportsStorage(pool *pgxpool.Pool) *exportsStorage {
	return &exportsStorage{pool: pool}
}

func (s *exportsStorage) CreateExport(ctx context.Context, export *storage.ExportMeta) error {
	query := `
		INSERT INTO exports (
			id, owner_user_id, meal_plan_id, format, plan_name,
			object_key, size_bytes, status, error, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	now := time.Now()
	export.CreatedAt = now
	export.UpdatedAt = now

	_, err := s.pool.Exec(ctx, query,
		export.ID,
		export.OwnerUserID,
		export.MealPlanID,
		export.Format,
		export.PlanName,
		export.ObjectKey,
		export.SizeBytes,
		export.Status,
		export.Error,
		export.CreatedAt,
		export.UpdatedAt,
	)

	return err
}

func (s *exportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.ExportMeta, error) {
	query := `
		SELECT id, owner_user_id, meal_plan_id, format, plan_name,
		       object_key, size_bytes, status, error, created_at, updated_at
		FROM exports
		WHERE id = $1
	`

	var e storage.ExportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.OwnerUserID,
		&e.MealPlanID,
		&e.Format,
		&e.PlanName,
		&e.ObjectKey,
		&e.SizeBytes,
		&e.Status,
		&e.Error,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (s *exportsStorage) ListExports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ExportMeta, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, owner_user_id, meal_plan_id, format, plan_name,
		       object_key, size_bytes, status, error, created_at, updated_at
		FROM exports
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := make([]storage.ExportMeta, 0)
	for rows.Next() {
		var e storage.ExportMeta
		if err := rows.Scan(
			&e.ID,
			&e.OwnerUserID,
			&e.MealPlanID,
			&e.Format,
			&e.PlanName,
			&e.ObjectKey,
			&e.SizeBytes,
			&e.Status,
			&e.Error,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}

	return exports, rows.Err()
}

func (s *exportsStorage) DeleteExport(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM exports WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExportNotFound
	}
	return nil
}
