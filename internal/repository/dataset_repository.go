package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sheet-analytics/internal/domain"
)

// DatasetRepository defines persistence access for upload records.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *domain.Dataset) error
	GetByID(ctx context.Context, id string) (*domain.Dataset, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Dataset, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type datasetRepository struct {
	pool *pgxpool.Pool
}

// NewDatasetRepository returns a Postgres-backed implementation.
func NewDatasetRepository(pool *pgxpool.Pool) DatasetRepository {
	return &datasetRepository{pool: pool}
}

func (r *datasetRepository) Create(ctx context.Context, dataset *domain.Dataset) error {
	const query = `
        INSERT INTO datasets (id, user_id, file_name, row_count, columns, chart_type, x_axis, y_axis)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		dataset.ID,
		dataset.UserID,
		dataset.FileName,
		dataset.RowCount,
		dataset.Columns,
		dataset.ChartType,
		dataset.XAxis,
		dataset.YAxis,
	).Scan(&dataset.CreatedAt)
}

func (r *datasetRepository) GetByID(ctx context.Context, id string) (*domain.Dataset, error) {
	const query = `
        SELECT id, user_id, file_name, row_count, columns, chart_type, x_axis, y_axis, created_at
        FROM datasets WHERE id=$1`

	var ds domain.Dataset
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ds.ID,
		&ds.UserID,
		&ds.FileName,
		&ds.RowCount,
		&ds.Columns,
		&ds.ChartType,
		&ds.XAxis,
		&ds.YAxis,
		&ds.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *datasetRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Dataset, error) {
	const query = `
        SELECT id, user_id, file_name, row_count, columns, chart_type, x_axis, y_axis, created_at
        FROM datasets WHERE user_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []*domain.Dataset
	for rows.Next() {
		var ds domain.Dataset
		if err := rows.Scan(
			&ds.ID,
			&ds.UserID,
			&ds.FileName,
			&ds.RowCount,
			&ds.Columns,
			&ds.ChartType,
			&ds.XAxis,
			&ds.YAxis,
			&ds.CreatedAt,
		); err != nil {
			return nil, err
		}
		datasets = append(datasets, &ds)
	}
	return datasets, rows.Err()
}

func (r *datasetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM datasets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *datasetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM datasets`).Scan(&count)
	return count, err
}
