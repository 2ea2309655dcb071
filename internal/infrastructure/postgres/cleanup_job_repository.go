package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

var _ repository.CleanupJobRepository = (*CleanupJobRepo)(nil)

// CleanupJobRepo persiste los trabajos de limpieza por retención.
type CleanupJobRepo struct {
	pool *pgxpool.Pool
}

// NewCleanupJobRepository construye el adaptador para trabajos de limpieza.
func NewCleanupJobRepository(pool *pgxpool.Pool) *CleanupJobRepo {
	return &CleanupJobRepo{pool: pool}
}

// Create persiste un trabajo recién encolado.
func (r *CleanupJobRepo) Create(job *entity.CleanupJob) error {
	query := `
		INSERT INTO cleanup_jobs (id, status, cutoff_date, deleted_count,
			error_message, created_by, created_at, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		job.ID, job.Status, job.CutoffDate, job.DeletedCount,
		job.ErrorMessage, job.CreatedBy, job.CreatedAt, job.StartedAt, job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cleanup job: %w", err)
	}
	return nil
}

// Update persiste una transición de estado del trabajo.
func (r *CleanupJobRepo) Update(job *entity.CleanupJob) error {
	query := `
		UPDATE cleanup_jobs SET status = $2, deleted_count = $3,
			error_message = $4, started_at = $5, finished_at = $6
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		job.ID, job.Status, job.DeletedCount, job.ErrorMessage, job.StartedAt, job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update cleanup job: %w", err)
	}
	return nil
}

// GetByID obtiene un trabajo por ID, o nil si no existe.
func (r *CleanupJobRepo) GetByID(id string) (*entity.CleanupJob, error) {
	query := `
		SELECT id, status, cutoff_date, deleted_count, error_message,
			created_by, created_at, started_at, finished_at
		FROM cleanup_jobs WHERE id = $1`
	var job entity.CleanupJob
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&job.ID, &job.Status, &job.CutoffDate, &job.DeletedCount, &job.ErrorMessage,
		&job.CreatedBy, &job.CreatedAt, &job.StartedAt, &job.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cleanup job: %w", err)
	}
	return &job, nil
}
