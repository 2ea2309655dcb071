package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest entrada para registrar un movimiento.
// quantity es la magnitud (no negativa) salvo en STOCK_ADJUSTMENT, donde el
// caller decide el signo. Para TRANSFER van source/destination en vez de
// warehouse_id.
type RecordMovementRequest struct {
	TitleID                string           `json:"title_id" validate:"required,uuid4"`
	WarehouseID            string           `json:"warehouse_id" validate:"omitempty,uuid4"`
	Type                   string           `json:"type" validate:"required"`
	Quantity               int64            `json:"quantity" validate:"required"`
	SourceWarehouseID      string           `json:"source_warehouse_id" validate:"omitempty,uuid4"`
	DestinationWarehouseID string           `json:"destination_warehouse_id" validate:"omitempty,uuid4"`
	UnitPrice              *decimal.Decimal `json:"unit_price"`
	UnitCost               *decimal.Decimal `json:"unit_cost"`
	Discount               *decimal.Decimal `json:"discount"`
	ReferenceNumber        string           `json:"reference_number" validate:"omitempty,max=100"`
	Notes                  string           `json:"notes" validate:"omitempty,max=2000"`
	MovementDate           *time.Time       `json:"movement_date"`
}

// MovementResponse salida de un movimiento del libro mayor.
type MovementResponse struct {
	ID                     string           `json:"id"`
	TitleID                string           `json:"title_id"`
	WarehouseID            string           `json:"warehouse_id,omitempty"`
	Type                   string           `json:"type"`
	Quantity               int64            `json:"quantity"`
	MovementDate           time.Time        `json:"movement_date"`
	UnitPrice              *decimal.Decimal `json:"unit_price,omitempty"`
	UnitCost               *decimal.Decimal `json:"unit_cost,omitempty"`
	Discount               *decimal.Decimal `json:"discount,omitempty"`
	SourceWarehouseID      string           `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string           `json:"destination_warehouse_id,omitempty"`
	ReferenceNumber        string           `json:"reference_number,omitempty"`
	Notes                  string           `json:"notes,omitempty"`
	CreatedBy              string           `json:"created_by,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
}

// MovementHistoryQuery filtros del historial de movimientos.
type MovementHistoryQuery struct {
	TitleID     string     `json:"title_id" query:"title_id" validate:"omitempty,uuid4"`
	WarehouseID string     `json:"warehouse_id" query:"warehouse_id" validate:"omitempty,uuid4"`
	Type        string     `json:"type" query:"type"`
	DateFrom    *time.Time `json:"date_from" query:"date_from"`
	DateTo      *time.Time `json:"date_to" query:"date_to"`
	// Ascending para construir series de tiempo; por defecto descendente.
	Ascending bool `json:"ascending" query:"ascending"`
	PageRequest
}

// MovementHistoryResponse página del historial.
type MovementHistoryResponse struct {
	Data       []MovementResponse `json:"data"`
	Pagination PageResponse       `json:"pagination"`
}
