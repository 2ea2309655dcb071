package movement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/movement"
)

const (
	testTitleID     = "00000000-0000-0000-0000-0000000000a1"
	testWarehouseID = "00000000-0000-0000-0000-0000000000b1"
	testWarehouse2  = "00000000-0000-0000-0000-0000000000b2"
)

// ──────────────────────────────────────────────────────────────────────────────
// Asignación de signo por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize_AsignacionDeSigno(t *testing.T) {
	cases := []struct {
		name       string
		movType    string
		quantity   int64
		wantSigned int64
	}{
		{"entrada imprenta positiva", entity.MovementTypePrintReceived, 100, 100},
		{"reimpresión positiva", entity.MovementTypeReprint, 50, 50},
		{"devolución positiva", entity.MovementTypeReturn, 5, 5},
		{"venta online negativa", entity.MovementTypeOnlineSales, 25, -25},
		{"venta directa negativa", entity.MovementTypeDirectSales, 3, -3},
		{"baja por daño negativa", entity.MovementTypeDamaged, 2, -2},
		{"cortesía negativa", entity.MovementTypePromotion, 10, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			norm, err := movement.Normalize(movement.Request{
				TitleID:     testTitleID,
				WarehouseID: testWarehouseID,
				Type:        tc.movType,
				Quantity:    tc.quantity,
			})
			require.NoError(t, err)
			sc, ok := norm.(movement.StockChange)
			require.True(t, ok, "debe normalizar a StockChange")
			assert.Equal(t, tc.wantSigned, sc.SignedQuantity)
			assert.False(t, sc.StockCheck)
		})
	}
}

// El ajuste conserva el signo que envía el caller (puede ir en ambas direcciones).
func TestNormalize_AjusteConservaSigno(t *testing.T) {
	for _, qty := range []int64{7, -7} {
		norm, err := movement.Normalize(movement.Request{
			TitleID:     testTitleID,
			WarehouseID: testWarehouseID,
			Type:        entity.MovementTypeAdjustment,
			Quantity:    qty,
			Notes:       "conteo físico trimestral bodega central",
		})
		require.NoError(t, err)
		sc := norm.(movement.StockChange)
		assert.Equal(t, qty, sc.SignedQuantity)
		assert.True(t, sc.StockCheck, "el ajuste marca la fecha de último conteo")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize_CantidadCeroRechazada(t *testing.T) {
	_, err := movement.Normalize(movement.Request{
		TitleID:     testTitleID,
		WarehouseID: testWarehouseID,
		Type:        entity.MovementTypePrintReceived,
		Quantity:    0,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalize_TipoDesconocidoRechazado(t *testing.T) {
	_, err := movement.Normalize(movement.Request{
		TitleID:     testTitleID,
		WarehouseID: testWarehouseID,
		Type:        "TELEPORT",
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Escenario: traslado a la misma bodega → BusinessRuleError con "same warehouse".
func TestNormalize_TrasladoMismaBodega(t *testing.T) {
	_, err := movement.Normalize(movement.Request{
		TitleID:                testTitleID,
		Type:                   entity.MovementTypeTransfer,
		Quantity:               30,
		SourceWarehouseID:      testWarehouseID,
		DestinationWarehouseID: testWarehouseID,
	})
	require.ErrorIs(t, err, domain.ErrSameWarehouse)
	assert.Contains(t, err.Error(), "same warehouse")
}

// La ausencia de una bodega en un traslado es regla de negocio, igual que la
// igualdad: no un error de forma.
func TestNormalize_TrasladoSinBodegas(t *testing.T) {
	_, err := movement.Normalize(movement.Request{
		TitleID:           testTitleID,
		Type:              entity.MovementTypeTransfer,
		Quantity:          30,
		SourceWarehouseID: testWarehouseID, // falta destino
	})
	assert.ErrorIs(t, err, domain.ErrTransferWarehouses)
}

// Escenario: ajuste sin notas de al menos 10 caracteres se rechaza antes de escribir.
func TestNormalize_AjusteSinMotivo(t *testing.T) {
	for _, notes := range []string{"", "corto", "  espacios   "} {
		_, err := movement.Normalize(movement.Request{
			TitleID:     testTitleID,
			WarehouseID: testWarehouseID,
			Type:        entity.MovementTypeAdjustment,
			Quantity:    -4,
			Notes:       notes,
		})
		assert.ErrorIs(t, err, domain.ErrAdjustmentReason, "notes=%q", notes)
	}
}

// Una petición que viola una regla por tipo y además trae un snapshot
// negativo debe reportar la regla por tipo: el snapshot se valida al final.
func TestNormalize_ReglaPorTipoAntesQueSnapshot(t *testing.T) {
	neg := decimal.NewFromInt(-1)

	_, err := movement.Normalize(movement.Request{
		TitleID:     testTitleID,
		WarehouseID: testWarehouseID,
		Type:        entity.MovementTypeAdjustment,
		Quantity:    -4,
		Notes:       "corto",
		UnitPrice:   &neg,
	})
	assert.ErrorIs(t, err, domain.ErrAdjustmentReason)

	_, err = movement.Normalize(movement.Request{
		TitleID:           testTitleID,
		Type:              entity.MovementTypeTransfer,
		Quantity:          30,
		SourceWarehouseID: testWarehouseID, // falta destino
		UnitPrice:         &neg,
	})
	assert.ErrorIs(t, err, domain.ErrTransferWarehouses)
}

func TestNormalize_SnapshotNegativoRechazado(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	_, err := movement.Normalize(movement.Request{
		TitleID:     testTitleID,
		WarehouseID: testWarehouseID,
		Type:        entity.MovementTypeOnlineSales,
		Quantity:    1,
		UnitPrice:   &neg,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de traslados e idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize_TrasladoValido(t *testing.T) {
	when := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	req := movement.Request{
		TitleID:                testTitleID,
		Type:                   entity.MovementTypeTransfer,
		Quantity:               30,
		SourceWarehouseID:      testWarehouseID,
		DestinationWarehouseID: testWarehouse2,
		ReferenceNumber:        "TRF-0042",
		MovementDate:           &when,
	}
	norm, err := movement.Normalize(req)
	require.NoError(t, err)
	tr, ok := norm.(movement.Transfer)
	require.True(t, ok, "debe normalizar a Transfer")
	assert.Equal(t, int64(30), tr.Quantity)
	assert.Equal(t, testWarehouseID, tr.SourceWarehouseID)
	assert.Equal(t, testWarehouse2, tr.DestinationWarehouseID)
	assert.Equal(t, when, tr.MovementDate)

	// Validación idempotente: la misma entrada produce el mismo resultado.
	again, err := movement.Normalize(req)
	require.NoError(t, err)
	assert.Equal(t, norm, again)
}

func TestNormalize_EntradaNegativaRechazada(t *testing.T) {
	_, err := movement.Normalize(movement.Request{
		TitleID:     testTitleID,
		WarehouseID: testWarehouseID,
		Type:        entity.MovementTypeReprint,
		Quantity:    -10,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
