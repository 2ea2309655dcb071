package domain

import "errors"

// Errores de dominio (sin dependencias externas). El mensaje viaja al caller;
// el código HTTP y el código de máquina se deciden en la capa de interfaces.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrSameWarehouse      = errors.New("cannot transfer between the same warehouse")
	ErrTransferWarehouses = errors.New("transfer requires both source and destination warehouses")
	ErrAdjustmentReason   = errors.New("stock adjustment requires notes of at least 10 characters")
	ErrInsufficientData   = errors.New("insufficient data points for analysis")
)
