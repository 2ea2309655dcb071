// Package movement contiene las reglas de negocio puras de los movimientos de
// stock: validación y normalización de una petición antes de cualquier
// escritura. No tiene efectos secundarios y puede llamarse las veces que sea
// sobre la misma entrada.
package movement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
)

// Request es la petición cruda de un caller externo. El caller siempre envía
// la magnitud (no negativa) en Quantity salvo para STOCK_ADJUSTMENT, donde el
// signo lo decide él (un ajuste puede ir en ambas direcciones).
type Request struct {
	TitleID                string
	WarehouseID            string
	Type                   string
	Quantity               int64
	SourceWarehouseID      string
	DestinationWarehouseID string
	UnitPrice              *decimal.Decimal
	UnitCost               *decimal.Decimal
	Discount               *decimal.Decimal
	ReferenceNumber        string
	Notes                  string
	CreatedBy              string
	MovementDate           *time.Time
}

// Normalized es la variante etiquetada que sale del validador: StockChange o
// Transfer. Cada variante lleva solo los campos válidos para su tipo, de modo
// que una combinación inválida no puede llegar al escritor del libro mayor.
type Normalized interface {
	isNormalized()
}

// StockChange es un movimiento de una sola bodega ya normalizado.
// SignedQuantity lleva el signo asignado por tipo (entradas +, salidas −;
// STOCK_ADJUSTMENT conserva el signo del caller).
type StockChange struct {
	TitleID         string
	WarehouseID     string
	Type            string
	SignedQuantity  int64
	StockCheck      bool // true solo para STOCK_ADJUSTMENT: actualiza LastStockCheck
	Snapshot        Snapshot
	ReferenceNumber string
	Notes           string
	CreatedBy       string
	MovementDate    time.Time
}

func (StockChange) isNormalized() {}

// Transfer es un traslado entre dos bodegas distintas ya normalizado.
// Quantity es la magnitud (> 0); el efecto es −Quantity en origen y
// +Quantity en destino dentro de la misma transacción.
type Transfer struct {
	TitleID                string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Quantity               int64
	Snapshot               Snapshot
	ReferenceNumber        string
	Notes                  string
	CreatedBy              string
	MovementDate           time.Time
}

func (Transfer) isNormalized() {}

// Snapshot agrupa los campos financieros opcionales al momento del movimiento.
type Snapshot struct {
	UnitPrice *decimal.Decimal
	UnitCost  *decimal.Decimal
	Discount  *decimal.Decimal
}

const adjustmentNotesMinLen = 10

var inboundTypes = map[string]bool{
	entity.MovementTypePrintReceived: true,
	entity.MovementTypeReprint:       true,
	entity.MovementTypeReturn:        true,
}

var outboundTypes = map[string]bool{
	entity.MovementTypeOnlineSales: true,
	entity.MovementTypeDirectSales: true,
	entity.MovementTypeDamaged:     true,
	entity.MovementTypePromotion:   true,
}

// IsInbound indica si el tipo suma stock.
func IsInbound(movementType string) bool { return inboundTypes[movementType] }

// IsOutbound indica si el tipo resta stock.
func IsOutbound(movementType string) bool { return outboundTypes[movementType] }

// KnownType indica si el tipo de movimiento está en el catálogo.
func KnownType(movementType string) bool {
	return IsInbound(movementType) || IsOutbound(movementType) ||
		movementType == entity.MovementTypeAdjustment ||
		movementType == entity.MovementTypeTransfer
}

// Normalize valida la petición en orden (cantidad, reglas por tipo, snapshot
// financiero) y devuelve la variante normalizada o el error de negocio.
func Normalize(req Request) (Normalized, error) {
	if req.TitleID == "" {
		return nil, fmt.Errorf("%w: title id is required", domain.ErrValidation)
	}
	if !KnownType(req.Type) {
		return nil, fmt.Errorf("%w: unknown movement type %q", domain.ErrValidation, req.Type)
	}
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be non-zero", domain.ErrValidation)
	}

	when := time.Now()
	if req.MovementDate != nil {
		when = *req.MovementDate
	}
	snap := Snapshot{UnitPrice: req.UnitPrice, UnitCost: req.UnitCost, Discount: req.Discount}

	if req.Type == entity.MovementTypeTransfer {
		// Ausencia e igualdad de bodegas son reglas de negocio, no de forma.
		if req.SourceWarehouseID == "" || req.DestinationWarehouseID == "" {
			return nil, domain.ErrTransferWarehouses
		}
		if req.SourceWarehouseID == req.DestinationWarehouseID {
			return nil, domain.ErrSameWarehouse
		}
		if err := validateSnapshot(req); err != nil {
			return nil, err
		}
		qty := req.Quantity
		if qty < 0 {
			qty = -qty
		}
		return Transfer{
			TitleID:                req.TitleID,
			SourceWarehouseID:      req.SourceWarehouseID,
			DestinationWarehouseID: req.DestinationWarehouseID,
			Quantity:               qty,
			Snapshot:               snap,
			ReferenceNumber:        req.ReferenceNumber,
			Notes:                  req.Notes,
			CreatedBy:              req.CreatedBy,
			MovementDate:           when,
		}, nil
	}

	if req.WarehouseID == "" {
		return nil, fmt.Errorf("%w: warehouse id is required", domain.ErrValidation)
	}

	signed := req.Quantity
	stockCheck := false
	switch {
	case IsInbound(req.Type):
		// Entradas: la magnitud debe ser estrictamente positiva.
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: inbound movement requires a positive quantity", domain.ErrValidation)
		}
	case IsOutbound(req.Type):
		if req.Quantity < 0 {
			return nil, fmt.Errorf("%w: outbound quantity must be given as a magnitude", domain.ErrValidation)
		}
		signed = -req.Quantity
	case req.Type == entity.MovementTypeAdjustment:
		// Requisito de auditoría: todo ajuste explica su motivo.
		if len(strings.TrimSpace(req.Notes)) < adjustmentNotesMinLen {
			return nil, domain.ErrAdjustmentReason
		}
		stockCheck = true
	}

	// El snapshot financiero se valida al final: una petición que viola una
	// regla por tipo reporta esa regla, no la del snapshot.
	if err := validateSnapshot(req); err != nil {
		return nil, err
	}

	return StockChange{
		TitleID:         req.TitleID,
		WarehouseID:     req.WarehouseID,
		Type:            req.Type,
		SignedQuantity:  signed,
		StockCheck:      stockCheck,
		Snapshot:        snap,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		CreatedBy:       req.CreatedBy,
		MovementDate:    when,
	}, nil
}

func validateSnapshot(req Request) error {
	for name, v := range map[string]*decimal.Decimal{
		"unit_price": req.UnitPrice,
		"unit_cost":  req.UnitCost,
		"discount":   req.Discount,
	} {
		if v != nil && v.IsNegative() {
			return fmt.Errorf("%w: %s cannot be negative", domain.ErrValidation, name)
		}
	}
	return nil
}
