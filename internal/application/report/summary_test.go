package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/application/report"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
)

var (
	summaryStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	summaryEnd   = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
)

func seedSummary(f *fakeLedger) {
	price := decimal.NewFromInt(20)
	// Entrada de imprenta el 2 de junio
	f.add(entity.Movement{
		ID: newID(1), TitleID: titleA, WarehouseID: whW1,
		Type: entity.MovementTypePrintReceived, Quantity: 100,
		MovementDate: summaryStart.AddDate(0, 0, 1).Add(10 * time.Hour),
	})
	// Dos ventas el 3 de junio
	f.add(entity.Movement{
		ID: newID(2), TitleID: titleA, WarehouseID: whW1,
		Type: entity.MovementTypeOnlineSales, Quantity: -25, UnitPrice: &price,
		MovementDate: summaryStart.AddDate(0, 0, 2).Add(11 * time.Hour),
	})
	f.add(entity.Movement{
		ID: newID(3), TitleID: titleB, WarehouseID: whW1,
		Type: entity.MovementTypeOnlineSales, Quantity: -5, UnitPrice: &price,
		MovementDate: summaryStart.AddDate(0, 0, 2).Add(15 * time.Hour),
	})
	// Traslado el 10 de junio
	f.add(entity.Movement{
		ID: newID(4), TitleID: titleA,
		Type: entity.MovementTypeTransfer, Quantity: 30,
		SourceWarehouseID: whW1, DestinationWarehouseID: whW2,
		MovementDate: summaryStart.AddDate(0, 0, 9).Add(9 * time.Hour),
	})
	// Fuera de rango: no debe contarse
	f.add(entity.Movement{
		ID: newID(5), TitleID: titleA, WarehouseID: whW1,
		Type: entity.MovementTypeOnlineSales, Quantity: -99,
		MovementDate: summaryEnd.Add(time.Hour),
	})
}

func TestGenerateSummaryReport_Totales(t *testing.T) {
	f := &fakeLedger{}
	seedSummary(f)
	uc := report.NewSummaryUseCase(f, fakeWarehouses{}, nil)

	out, err := uc.GenerateSummaryReport(context.Background(), dto.SummaryReportRequest{
		StartDate: summaryStart, EndDate: summaryEnd,
	})
	require.NoError(t, err)

	assert.Equal(t, dto.BucketDay, out.Granularity)
	assert.Equal(t, 4, out.TotalMovements, "el movimiento fuera de rango no cuenta")
	assert.Equal(t, int64(100), out.TotalInboundUnits)
	assert.Equal(t, int64(30), out.TotalOutboundUnits)
	assert.Equal(t, 2, out.DistinctTitles)
	assert.Equal(t, 2, out.DistinctWarehouses, "el traslado toca ambas bodegas")

	// Desglose por tipo: las ventas suman su valor snapshot (30 uds × $20)
	var ventas dto.TypeBreakdown
	for _, tb := range out.ByType {
		if tb.Type == entity.MovementTypeOnlineSales {
			ventas = tb
		}
	}
	assert.Equal(t, 2, ventas.Count)
	assert.Equal(t, int64(-30), ventas.TotalQuantity)
	assert.True(t, ventas.TotalValue.Equal(decimal.NewFromInt(600)), "valor = |qty| × precio: %s", ventas.TotalValue)
	assert.InDelta(t, 15.0, ventas.AverageTransaction, 1e-9)
	assert.InDelta(t, 50.0, ventas.PercentOfTotal, 1e-9)

	// Desglose por bodega con nombre
	require.Len(t, out.ByWarehouse, 2)
	assert.Equal(t, "Bodega Central", out.ByWarehouse[0].WarehouseName)
	assert.Equal(t, int64(30), out.ByWarehouse[1].InboundUnits, "W2 recibe el traslado")

	// Serie diaria: 3 días con actividad
	require.Len(t, out.TimeSeries, 3)
	assert.Equal(t, int64(100), out.TimeSeries[0].NetChange)
	assert.Equal(t, int64(-30), out.TimeSeries[1].NetChange)
}

func TestGenerateSummaryReport_RangoInvalido(t *testing.T) {
	uc := report.NewSummaryUseCase(&fakeLedger{}, fakeWarehouses{}, nil)
	_, err := uc.GenerateSummaryReport(context.Background(), dto.SummaryReportRequest{
		StartDate: summaryEnd, EndDate: summaryStart,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.GenerateSummaryReport(context.Background(), dto.SummaryReportRequest{
		StartDate: summaryStart, EndDate: summaryStart,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "start debe ser estrictamente anterior")
}

func TestGenerateSummaryReport_FiltroPorBodega(t *testing.T) {
	f := &fakeLedger{}
	seedSummary(f)
	uc := report.NewSummaryUseCase(f, fakeWarehouses{}, nil)

	out, err := uc.GenerateSummaryReport(context.Background(), dto.SummaryReportRequest{
		StartDate: summaryStart, EndDate: summaryEnd,
		WarehouseIDs: []string{whW2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalMovements, "solo el traslado toca W2")
}

// Límite de semana ISO: los movimientos de una misma semana caen en el lunes.
func TestGenerateSummaryReport_BucketSemanaISO(t *testing.T) {
	f := &fakeLedger{}
	// Miércoles 4 y domingo 8 de junio de 2025 → ambos en la semana del lunes 2
	f.venta(time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC), 1, 10)
	f.venta(time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC), 2, 10)
	// Lunes 9 de junio → semana siguiente
	f.venta(time.Date(2025, 6, 9, 0, 30, 0, 0, time.UTC), 3, 10)
	uc := report.NewSummaryUseCase(f, fakeWarehouses{}, nil)

	out, err := uc.GenerateSummaryReport(context.Background(), dto.SummaryReportRequest{
		StartDate: summaryStart, EndDate: summaryEnd, Granularity: dto.BucketWeek,
	})
	require.NoError(t, err)
	require.Len(t, out.TimeSeries, 2)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), out.TimeSeries[0].BucketStart)
	assert.Equal(t, 2, out.TimeSeries[0].MovementCount)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), out.TimeSeries[1].BucketStart)
}

func TestGenerateSummaryReport_BucketMes(t *testing.T) {
	f := &fakeLedger{}
	f.venta(time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC), 1, 10)
	f.venta(time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC), 2, 10)
	uc := report.NewSummaryUseCase(f, fakeWarehouses{}, nil)

	out, err := uc.GenerateSummaryReport(context.Background(), dto.SummaryReportRequest{
		StartDate: summaryStart,
		EndDate:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Granularity: dto.BucketMonth,
	})
	require.NoError(t, err)
	require.Len(t, out.TimeSeries, 2)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), out.TimeSeries[0].BucketStart)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), out.TimeSeries[1].BucketStart)
}

// El caché recibe el reporte y lo sirve en la segunda llamada sin recomputar.
func TestGenerateSummaryReport_Cache(t *testing.T) {
	f := &fakeLedger{}
	seedSummary(f)
	cache := &memCache{data: map[string][]byte{}}
	uc := report.NewSummaryUseCase(f, fakeWarehouses{}, cache)

	req := dto.SummaryReportRequest{StartDate: summaryStart, EndDate: summaryEnd}
	first, err := uc.GenerateSummaryReport(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := uc.GenerateSummaryReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "la segunda llamada sale del caché")
	assert.Equal(t, first.TotalMovements, second.TotalMovements)
}
