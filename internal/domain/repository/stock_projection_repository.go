package repository

import "github.com/tu-usuario/editorial-stock/internal/domain/entity"

// StockProjectionRepository define el puerto para la proyección de stock por
// (título, bodega). Solo el escritor del libro mayor la muta, siempre dentro
// de una transacción con la fila bloqueada.
type StockProjectionRepository interface {
	Get(titleID, warehouseID string) (*entity.StockProjection, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); si no existe devuelve
	// una proyección en cero lista para el primer Upsert.
	GetForUpdate(titleID, warehouseID string) (*entity.StockProjection, error)
	Upsert(projection *entity.StockProjection) error
}
