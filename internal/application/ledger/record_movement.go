package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/movement"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos en el libro mayor de forma
// transaccional: un registro inmutable más la actualización de la proyección
// de stock, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RecordMovementUseCase struct {
	txRunner      TxRunner
	titleRepo     repository.TitleRepository
	warehouseRepo repository.WarehouseRepository
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	titleRepo repository.TitleRepository,
	warehouseRepo repository.WarehouseRepository,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:      txRunner,
		titleRepo:     titleRepo,
		warehouseRepo: warehouseRepo,
	}
}

// RecordMovement valida y normaliza la petición, verifica que título y
// bodega(s) existan, y dentro de una transacción aplica el efecto sobre la
// proyección y persiste el movimiento. Devuelve el movimiento confirmado.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, userID string, in dto.RecordMovementRequest) (*entity.Movement, error) {
	norm, err := movement.Normalize(movement.Request{
		TitleID:                in.TitleID,
		WarehouseID:            in.WarehouseID,
		Type:                   in.Type,
		Quantity:               in.Quantity,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		UnitPrice:              in.UnitPrice,
		UnitCost:               in.UnitCost,
		Discount:               in.Discount,
		ReferenceNumber:        in.ReferenceNumber,
		Notes:                  in.Notes,
		CreatedBy:              userID,
		MovementDate:           in.MovementDate,
	})
	if err != nil {
		return nil, err
	}

	title, err := uc.titleRepo.GetByID(in.TitleID)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, fmt.Errorf("%w: title %s", domain.ErrNotFound, in.TitleID)
	}

	switch n := norm.(type) {
	case movement.Transfer:
		if err := uc.requireWarehouse(n.SourceWarehouseID); err != nil {
			return nil, err
		}
		if err := uc.requireWarehouse(n.DestinationWarehouseID); err != nil {
			return nil, err
		}
	case movement.StockChange:
		if err := uc.requireWarehouse(n.WarehouseID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	var recorded *entity.Movement

	// Transacción: Commit si todo ok, Rollback si algo falla (TxRunner.Run).
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		projRepo repository.StockProjectionRepository,
	) error {
		switch n := norm.(type) {
		case movement.StockChange:
			recorded, err = applyStockChange(movRepo, projRepo, n, now)
		case movement.Transfer:
			recorded, err = applyTransfer(movRepo, projRepo, n, now)
		default:
			err = domain.ErrValidation
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

func (uc *RecordMovementUseCase) requireWarehouse(id string) error {
	wh, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("%w: warehouse %s", domain.ErrNotFound, id)
	}
	return nil
}

// applyStockChange bloquea la fila de la proyección, aplica la guarda de stock
// negativo para salidas no-ajuste, actualiza la proyección y persiste el
// movimiento.
func applyStockChange(
	movRepo repository.MovementRepository,
	projRepo repository.StockProjectionRepository,
	n movement.StockChange,
	now time.Time,
) (*entity.Movement, error) {
	proj, err := projRepo.GetForUpdate(n.TitleID, n.WarehouseID)
	if err != nil {
		return nil, err
	}

	newStock := proj.CurrentStock + n.SignedQuantity
	// El ajuste es el mecanismo explícito de corrección y queda exento de la
	// guarda; su motivo obligatorio ya lo exigió el validador.
	if newStock < 0 && !n.StockCheck {
		return nil, fmt.Errorf("%w: %s would leave stock at %d", domain.ErrInsufficientStock, n.Type, newStock)
	}

	proj.CurrentStock = newStock
	proj.LastMovementDate = n.MovementDate
	if n.StockCheck {
		checkedAt := now
		proj.LastStockCheck = &checkedAt
	}
	proj.UpdatedAt = now
	if err := projRepo.Upsert(proj); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:              uuid.New().String(),
		TitleID:         n.TitleID,
		WarehouseID:     n.WarehouseID,
		Type:            n.Type,
		Quantity:        n.SignedQuantity,
		MovementDate:    n.MovementDate,
		UnitPrice:       n.Snapshot.UnitPrice,
		UnitCost:        n.Snapshot.UnitCost,
		Discount:        n.Snapshot.Discount,
		ReferenceNumber: n.ReferenceNumber,
		Notes:           n.Notes,
		CreatedBy:       n.CreatedBy,
		CreatedAt:       now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// applyTransfer bloquea ambas filas en orden ascendente de bodega (nunca en el
// orden del caller, para no formar ciclos de deadlock), resta en origen, suma
// en destino (creándolo si no existe) y persiste UN solo registro que lleva
// ambas bodegas.
func applyTransfer(
	movRepo repository.MovementRepository,
	projRepo repository.StockProjectionRepository,
	n movement.Transfer,
	now time.Time,
) (*entity.Movement, error) {
	first, second := n.SourceWarehouseID, n.DestinationWarehouseID
	if second < first {
		first, second = second, first
	}
	firstProj, err := projRepo.GetForUpdate(n.TitleID, first)
	if err != nil {
		return nil, err
	}
	secondProj, err := projRepo.GetForUpdate(n.TitleID, second)
	if err != nil {
		return nil, err
	}

	source, dest := firstProj, secondProj
	if source.WarehouseID != n.SourceWarehouseID {
		source, dest = secondProj, firstProj
	}

	if source.CurrentStock < n.Quantity {
		return nil, fmt.Errorf("%w: transfer of %d exceeds stock %d at source", domain.ErrInsufficientStock, n.Quantity, source.CurrentStock)
	}

	source.CurrentStock -= n.Quantity
	dest.CurrentStock += n.Quantity
	source.LastMovementDate = n.MovementDate
	dest.LastMovementDate = n.MovementDate
	source.UpdatedAt = now
	dest.UpdatedAt = now
	if err := projRepo.Upsert(source); err != nil {
		return nil, err
	}
	if err := projRepo.Upsert(dest); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:                     uuid.New().String(),
		TitleID:                n.TitleID,
		Type:                   entity.MovementTypeTransfer,
		Quantity:               n.Quantity,
		MovementDate:           n.MovementDate,
		UnitPrice:              n.Snapshot.UnitPrice,
		UnitCost:               n.Snapshot.UnitCost,
		Discount:               n.Snapshot.Discount,
		SourceWarehouseID:      n.SourceWarehouseID,
		DestinationWarehouseID: n.DestinationWarehouseID,
		ReferenceNumber:        n.ReferenceNumber,
		Notes:                  n.Notes,
		CreatedBy:              n.CreatedBy,
		CreatedAt:              now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
