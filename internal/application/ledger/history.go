package ledger

import (
	"context"
	"fmt"

	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/movement"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

// HistoryUseCase consulta paginada de solo lectura sobre el libro mayor.
// No toma bloqueos: refleja lo confirmado antes de iniciar la lectura.
type HistoryUseCase struct {
	movRepo repository.MovementRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movRepo repository.MovementRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo}
}

// GetMovementHistory devuelve una página del historial con metadatos de
// paginación. Orden descendente por fecha salvo que el caller pida ascendente
// (series de tiempo). Limit se acota al tope duro.
func (uc *HistoryUseCase) GetMovementHistory(ctx context.Context, q dto.MovementHistoryQuery) (*dto.MovementHistoryResponse, error) {
	if q.Type != "" && !movement.KnownType(q.Type) {
		return nil, fmt.Errorf("%w: unknown movement type %q", domain.ErrValidation, q.Type)
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateFrom.After(*q.DateTo) {
		return nil, fmt.Errorf("%w: date_from is after date_to", domain.ErrValidation)
	}
	q.DefaultPage()

	filter := repository.MovementFilter{
		TitleID:     q.TitleID,
		WarehouseID: q.WarehouseID,
		Type:        q.Type,
		DateFrom:    q.DateFrom,
		DateTo:      q.DateTo,
		Ascending:   q.Ascending,
	}
	items, total, err := uc.movRepo.Search(filter, q.Limit, q.Offset())
	if err != nil {
		return nil, fmt.Errorf("movement history: %w", err)
	}

	data := make([]dto.MovementResponse, 0, len(items))
	for _, m := range items {
		data = append(data, ToMovementResponse(m))
	}
	totalPages := (total + q.Limit - 1) / q.Limit
	return &dto.MovementHistoryResponse{
		Data: data,
		Pagination: dto.PageResponse{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                     m.ID,
		TitleID:                m.TitleID,
		WarehouseID:            m.WarehouseID,
		Type:                   m.Type,
		Quantity:               m.Quantity,
		MovementDate:           m.MovementDate,
		UnitPrice:              m.UnitPrice,
		UnitCost:               m.UnitCost,
		Discount:               m.Discount,
		SourceWarehouseID:      m.SourceWarehouseID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		ReferenceNumber:        m.ReferenceNumber,
		Notes:                  m.Notes,
		CreatedBy:              m.CreatedBy,
		CreatedAt:              m.CreatedAt,
	}
}
