package repository

import (
	"time"

	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
)

// MovementFilter acota una consulta sobre el libro mayor. Un WarehouseID de
// filtro alcanza también los traslados donde la bodega es origen o destino.
// Los límites de fecha son inclusivos.
type MovementFilter struct {
	TitleID     string
	WarehouseID string
	Type        string
	DateFrom    *time.Time
	DateTo      *time.Time
	// Ascending ordena por fecha ascendente (series de tiempo); por defecto
	// descendente (vistas de historial).
	Ascending bool
}

// MovementRepository define el puerto de persistencia del libro mayor de
// movimientos. Los registros son inmutables: solo Create y DeleteOlderThan
// (limpieza de retención) escriben.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// Search pagina el libro mayor y devuelve además el total de coincidencias.
	Search(filter MovementFilter, limit, offset int) ([]*entity.Movement, int, error)
	// ListForAnalysis devuelve hasta max movimientos del rango en orden
	// ascendente por fecha, para los reportes analíticos.
	ListForAnalysis(filter MovementFilter, max int) ([]*entity.Movement, error)
	// DeleteOlderThan borra en bloque los movimientos con fecha anterior al
	// corte y devuelve cuántos borró.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
