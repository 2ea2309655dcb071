package entity

import "time"

// StockProjection representa el stock actual de un título en una bodega,
// derivado del libro mayor de movimientos (proyección materializada).
// Invariante: CurrentStock == suma de las cantidades con signo de todos los
// movimientos confirmados para (TitleID, WarehouseID).
type StockProjection struct {
	TitleID          string
	WarehouseID      string
	CurrentStock     int64
	ReservedStock    int64      // >= 0, apartado para pedidos pendientes
	LastMovementDate time.Time
	LastStockCheck   *time.Time // solo lo fija STOCK_ADJUSTMENT
	UpdatedAt        time.Time
}

// Available devuelve el stock disponible (actual menos reservado).
func (s *StockProjection) Available() int64 {
	return s.CurrentStock - s.ReservedStock
}
