package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribución de referencia para el percentil de benchmark: puntajes de
// utilización históricos del sector se aproximan con una normal (65, 15).
var benchmarkDist = distuv.Normal{Mu: 65, Sigma: 15}

// Cada hueco entre movimientos consecutivos se acota para que una madrugada
// sin actividad no distorsione el proxy de tiempo de procesamiento.
const maxGapHours = 72.0

// EfficiencyUseCase deriva métricas de desempeño de una bodega en un rango.
type EfficiencyUseCase struct {
	movRepo       repository.MovementRepository
	warehouseRepo repository.WarehouseRepository
}

// NewEfficiencyUseCase construye el caso de uso.
func NewEfficiencyUseCase(movRepo repository.MovementRepository, warehouseRepo repository.WarehouseRepository) *EfficiencyUseCase {
	return &EfficiencyUseCase{movRepo: movRepo, warehouseRepo: warehouseRepo}
}

// CalculateEfficiencyMetrics calcula throughput, tiempo de procesamiento,
// exactitud de traslados, tasa de error y el puntaje compuesto de utilización
// con su percentil contra la distribución de referencia. Sin movimientos en el
// rango falla con NotFound ("no movements found").
func (uc *EfficiencyUseCase) CalculateEfficiencyMetrics(ctx context.Context, warehouseID string, start, end time.Time) (*dto.EfficiencyMetrics, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("%w: warehouse %s", domain.ErrNotFound, warehouseID)
	}

	to := end.Add(-time.Nanosecond)
	movements, err := uc.movRepo.ListForAnalysis(repository.MovementFilter{
		WarehouseID: warehouseID,
		DateFrom:    &start,
		DateTo:      &to,
	}, maxAnalysisRecords)
	if err != nil {
		return nil, fmt.Errorf("efficiency metrics: %w", err)
	}
	if len(movements) == 0 {
		return nil, fmt.Errorf("%w: no movements found for warehouse %s in range", domain.ErrNotFound, warehouseID)
	}

	days := end.Sub(start).Hours() / 24
	if days < 1 {
		days = 1
	}

	var units, inboundCount, outboundCount, transferCount, adjustmentCount int
	var transfersOK int
	for _, m := range movements {
		in, out := warehouseEffect(m, warehouseID)
		units += int(in + out)
		switch {
		case m.IsTransfer():
			transferCount++
			if transferOK(m) {
				transfersOK++
			}
		case m.Type == entity.MovementTypeAdjustment:
			adjustmentCount++
		case m.Quantity >= 0:
			inboundCount++
		default:
			outboundCount++
		}
	}

	transferAccuracy := 100.0
	if transferCount > 0 {
		transferAccuracy = clampPct(float64(transfersOK) / float64(transferCount) * 100)
	}
	errorRate := clampPct(float64(adjustmentCount) / float64(len(movements)) * 100)

	movementsPerDay := float64(len(movements)) / days
	unitsPerDay := float64(units) / days

	throughputScore := clampPct(movementsPerDay * 10)
	utilization := clampPct(0.4*throughputScore + 0.3*transferAccuracy + 0.3*(100-errorRate))

	metrics := &dto.EfficiencyMetrics{
		WarehouseID:         warehouseID,
		WarehouseName:       wh.Name,
		StartDate:           start,
		EndDate:             end,
		MovementsPerDay:     movementsPerDay,
		UnitsPerDay:         unitsPerDay,
		AvgProcessingHours:  avgProcessingHours(movements),
		TransferAccuracyPct: transferAccuracy,
		ErrorRatePct:        errorRate,
		UtilizationScore:    utilization,
		InboundEfficiency:   clampPct(float64(inboundCount) / days * 20),
		OutboundEfficiency:  clampPct(float64(outboundCount) / days * 20),
		TransferEfficiency:  transferAccuracy,
		BenchmarkPercentile: clampPct(benchmarkDist.CDF(utilization) * 100),
	}
	return metrics, nil
}

// transferOK verifica que el traslado forme un par completo: ambas bodegas
// declaradas, distintas y con magnitud positiva (el efecto doble se confirma
// junto en la misma transacción, así que un registro bien formado es un par
// exacto).
func transferOK(m *entity.Movement) bool {
	return m.SourceWarehouseID != "" &&
		m.DestinationWarehouseID != "" &&
		m.SourceWarehouseID != m.DestinationWarehouseID &&
		m.Quantity > 0
}

// avgProcessingHours aproxima el tiempo de procesamiento como el hueco medio
// entre movimientos consecutivos, con cada hueco acotado (modelo fijo).
func avgProcessingHours(movements []*entity.Movement) float64 {
	if len(movements) < 2 {
		return 0
	}
	sorted := append([]*entity.Movement{}, movements...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MovementDate.Before(sorted[j].MovementDate)
	})
	var total float64
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].MovementDate.Sub(sorted[i-1].MovementDate).Hours()
		if gap > maxGapHours {
			gap = maxGapHours
		}
		total += gap
	}
	return total / float64(len(sorted)-1)
}

// clampPct acota un porcentaje a [0,100].
func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
