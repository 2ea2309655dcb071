package entity

import "time"

// Estados de un trabajo de limpieza por retención.
const (
	CleanupStatusPending   = "PENDING"
	CleanupStatusRunning   = "RUNNING"
	CleanupStatusCompleted = "COMPLETED"
	CleanupStatusFailed    = "FAILED"
)

// CleanupJob es el registro persistido de un borrado masivo de movimientos
// antiguos. Se persiste (no se guarda en memoria del proceso) para que el
// estado sobreviva reinicios y sea consultable desde cualquier instancia.
type CleanupJob struct {
	ID           string
	Status       string
	CutoffDate   time.Time // se borran movimientos con fecha < CutoffDate
	DeletedCount int64
	ErrorMessage string
	CreatedBy    string
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}
