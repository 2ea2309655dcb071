package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/application/ledger"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
)

// seedHistory inserta n ventas diarias consecutivas empezando en base.
func seedHistory(s *memStore, n int, base time.Time) {
	repo := &fakeMovementRepo{s: s}
	for i := 0; i < n; i++ {
		_ = repo.Create(&entity.Movement{
			TitleID:      titleT,
			WarehouseID:  whW1,
			Type:         entity.MovementTypeOnlineSales,
			Quantity:     -1,
			MovementDate: base.AddDate(0, 0, i),
		})
	}
}

func TestGetMovementHistory_PaginacionYOrden(t *testing.T) {
	s := newMemStore()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedHistory(s, 45, base)
	uc := ledger.NewHistoryUseCase(&fakeMovementRepo{s: s})

	resp, err := uc.GetMovementHistory(context.Background(), dto.MovementHistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Data, dto.DefaultPageLimit, "limit por defecto")
	assert.Equal(t, 45, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	// Descendente por defecto: el primero es el más reciente.
	assert.Equal(t, base.AddDate(0, 0, 44), resp.Data[0].MovementDate)

	// Página 3 con limit 20 → 5 elementos restantes.
	resp, err = uc.GetMovementHistory(context.Background(), dto.MovementHistoryQuery{
		PageRequest: dto.PageRequest{Page: 3, Limit: 20},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 5)
}

func TestGetMovementHistory_TopeDuroDeLimit(t *testing.T) {
	s := newMemStore()
	seedHistory(s, 150, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	uc := ledger.NewHistoryUseCase(&fakeMovementRepo{s: s})

	resp, err := uc.GetMovementHistory(context.Background(), dto.MovementHistoryQuery{
		PageRequest: dto.PageRequest{Page: 1, Limit: 500},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Data, dto.MaxPageLimit, "el limit se acota a 100")
	assert.Equal(t, dto.MaxPageLimit, resp.Pagination.Limit)
}

func TestGetMovementHistory_OrdenAscendenteParaSeries(t *testing.T) {
	s := newMemStore()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedHistory(s, 10, base)
	uc := ledger.NewHistoryUseCase(&fakeMovementRepo{s: s})

	resp, err := uc.GetMovementHistory(context.Background(), dto.MovementHistoryQuery{Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, base, resp.Data[0].MovementDate)
}

func TestGetMovementHistory_FiltrosYRango(t *testing.T) {
	s := newMemStore()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	seedHistory(s, 10, base)
	repo := &fakeMovementRepo{s: s}
	_ = repo.Create(&entity.Movement{
		TitleID: titleT, WarehouseID: whW2,
		Type: entity.MovementTypeReprint, Quantity: 30, MovementDate: base.AddDate(0, 0, 3),
	})
	uc := ledger.NewHistoryUseCase(repo)

	from := base.AddDate(0, 0, 2)
	to := base.AddDate(0, 0, 5)
	resp, err := uc.GetMovementHistory(context.Background(), dto.MovementHistoryQuery{
		WarehouseID: whW1,
		Type:        entity.MovementTypeOnlineSales,
		DateFrom:    &from,
		DateTo:      &to,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Pagination.Total, "límites de fecha inclusivos")

	// Tipo desconocido → ValidationError
	_, err = uc.GetMovementHistory(context.Background(), dto.MovementHistoryQuery{Type: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Idempotencia: dos lecturas idénticas sobre un libro mayor sin cambios
// devuelven exactamente lo mismo.
func TestGetMovementHistory_LecturaIdempotente(t *testing.T) {
	s := newMemStore()
	seedHistory(s, 25, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	uc := ledger.NewHistoryUseCase(&fakeMovementRepo{s: s})

	q := dto.MovementHistoryQuery{PageRequest: dto.PageRequest{Page: 2, Limit: 10}}
	first, err := uc.GetMovementHistory(context.Background(), q)
	require.NoError(t, err)
	second, err := uc.GetMovementHistory(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
