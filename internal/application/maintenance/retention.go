// Package maintenance implementa la limpieza por retención del libro mayor.
// El estado de cada trabajo se persiste para que sobreviva reinicios y sea
// consultable desde cualquier instancia.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
	"github.com/tu-usuario/editorial-stock/pkg/logger"
)

// Piso de retención por defecto: nunca se borran movimientos con menos de 30 días.
const defaultMinRetentionDays = 30

// RetentionUseCase lanza y consulta trabajos de limpieza de movimientos
// antiguos. El borrado corre en segundo plano; el llamador recibe el trabajo
// en PENDING y consulta su avance por id.
type RetentionUseCase struct {
	movRepo repository.MovementRepository
	jobRepo repository.CleanupJobRepository
	log     *logger.Logger
	minDays int
	now     func() time.Time
}

// NewRetentionUseCase construye el caso de uso; minDays en cero aplica el
// piso por defecto.
func NewRetentionUseCase(movRepo repository.MovementRepository, jobRepo repository.CleanupJobRepository, log *logger.Logger, minDays int) *RetentionUseCase {
	if minDays <= 0 {
		minDays = defaultMinRetentionDays
	}
	return &RetentionUseCase{movRepo: movRepo, jobRepo: jobRepo, log: log, minDays: minDays, now: time.Now}
}

// StartCleanup persiste un CleanupJob y dispara el borrado en segundo plano.
// Devuelve el trabajo recién creado en estado PENDING.
func (uc *RetentionUseCase) StartCleanup(ctx context.Context, req dto.StartCleanupRequest, createdBy string) (*dto.CleanupJobResponse, error) {
	if req.OlderThanDays < uc.minDays {
		return nil, fmt.Errorf("%w: older_than_days must be at least %d", domain.ErrValidation, uc.minDays)
	}

	now := uc.now()
	job := &entity.CleanupJob{
		ID:         uuid.New().String(),
		Status:     entity.CleanupStatusPending,
		CutoffDate: now.AddDate(0, 0, -req.OlderThanDays),
		CreatedBy:  createdBy,
		CreatedAt:  now,
	}
	if err := uc.jobRepo.Create(job); err != nil {
		return nil, fmt.Errorf("persisting cleanup job: %w", err)
	}

	uc.log.Info().
		Str("job_id", job.ID).
		Time("cutoff", job.CutoffDate).
		Str("created_by", createdBy).
		Msg("limpieza por retención encolada")

	go uc.run(*job)

	return toJobResponse(job), nil
}

// GetJob devuelve el estado actual de un trabajo de limpieza.
func (uc *RetentionUseCase) GetJob(ctx context.Context, id string) (*dto.CleanupJobResponse, error) {
	job, err := uc.jobRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("fetching cleanup job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("%w: cleanup job %s", domain.ErrNotFound, id)
	}
	return toJobResponse(job), nil
}

// run ejecuta el borrado y deja el trabajo en COMPLETED o FAILED. Corre en su
// propia goroutine: cada transición de estado se persiste de inmediato.
func (uc *RetentionUseCase) run(job entity.CleanupJob) {
	started := uc.now()
	job.Status = entity.CleanupStatusRunning
	job.StartedAt = &started
	if err := uc.jobRepo.Update(&job); err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("no se pudo marcar el trabajo como RUNNING")
		return
	}

	deleted, err := uc.movRepo.DeleteOlderThan(job.CutoffDate)
	finished := uc.now()
	job.FinishedAt = &finished
	if err != nil {
		job.Status = entity.CleanupStatusFailed
		job.ErrorMessage = err.Error()
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("limpieza por retención falló")
	} else {
		job.Status = entity.CleanupStatusCompleted
		job.DeletedCount = deleted
		uc.log.Info().
			Str("job_id", job.ID).
			Int64("deleted", deleted).
			Msg("limpieza por retención completada")
	}

	if err := uc.jobRepo.Update(&job); err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("no se pudo persistir el estado final del trabajo")
	}
}

func toJobResponse(job *entity.CleanupJob) *dto.CleanupJobResponse {
	return &dto.CleanupJobResponse{
		ID:           job.ID,
		Status:       job.Status,
		CutoffDate:   job.CutoffDate,
		DeletedCount: job.DeletedCount,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		StartedAt:    job.StartedAt,
		FinishedAt:   job.FinishedAt,
	}
}
