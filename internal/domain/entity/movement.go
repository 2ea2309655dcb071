package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro mayor de stock editorial.
const (
	// Entradas (cantidad almacenada positiva)
	MovementTypePrintReceived = "PRINT_RECEIVED" // recepción de imprenta
	MovementTypeReprint       = "REPRINT"        // reimpresión
	MovementTypeReturn        = "RETURN"         // devolución de librería/cliente

	// Salidas (cantidad almacenada negativa)
	MovementTypeOnlineSales = "ONLINE_SALES"
	MovementTypeDirectSales = "DIRECT_SALES"
	MovementTypeDamaged     = "DAMAGED"   // ejemplares dañados dados de baja
	MovementTypePromotion   = "PROMOTION" // ejemplares de cortesía/prensa

	// Bidireccionales
	MovementTypeAdjustment = "STOCK_ADJUSTMENT" // corrección tras conteo físico
	MovementTypeTransfer   = "TRANSFER"         // traslado entre bodegas
)

// Movement es un evento inmutable del libro mayor: un cambio de cantidad de un
// título en una bodega (o entre dos bodegas si es TRANSFER). Una vez creado
// nunca se modifica; solo la limpieza de retención puede borrarlo en bloque.
type Movement struct {
	ID           string
	TitleID      string
	WarehouseID  string // vacío para TRANSFER (usa Source/Destination)
	Type         string
	Quantity     int64  // con signo: entradas > 0, salidas < 0
	MovementDate time.Time

	// Snapshot financiero opcional al momento del movimiento.
	UnitPrice *decimal.Decimal
	UnitCost  *decimal.Decimal
	Discount  *decimal.Decimal

	// Solo TRANSFER: ambos presentes y distintos. Quantity guarda la magnitud.
	SourceWarehouseID      string
	DestinationWarehouseID string

	ReferenceNumber string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}

// IsTransfer indica si el movimiento es un traslado entre bodegas.
func (m *Movement) IsTransfer() bool { return m.Type == MovementTypeTransfer }

// Value devuelve el valor monetario del movimiento (|cantidad| × precio snapshot)
// o cero si el movimiento no tiene snapshot de precio.
func (m *Movement) Value() decimal.Decimal {
	if m.UnitPrice == nil {
		return decimal.Zero
	}
	qty := m.Quantity
	if qty < 0 {
		qty = -qty
	}
	return m.UnitPrice.Mul(decimal.NewFromInt(qty))
}
