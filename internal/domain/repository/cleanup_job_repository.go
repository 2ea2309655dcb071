package repository

import "github.com/tu-usuario/editorial-stock/internal/domain/entity"

// CleanupJobRepository persiste los trabajos de limpieza por retención para
// que su estado sobreviva reinicios del proceso.
type CleanupJobRepository interface {
	Create(job *entity.CleanupJob) error
	Update(job *entity.CleanupJob) error
	GetByID(id string) (*entity.CleanupJob, error)
}
