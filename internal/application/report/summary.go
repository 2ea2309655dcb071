// Package report implementa el motor analítico sobre el modelo de lectura del
// libro mayor: reporte resumen, tendencia/pronóstico, eficiencia por bodega y
// detección de anomalías. Todos los casos de uso son de solo lectura y no
// toman bloqueos.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
)

// SummaryUseCase genera el reporte agregado de movimientos por rango.
type SummaryUseCase struct {
	movRepo       repository.MovementRepository
	warehouseRepo repository.WarehouseRepository
	cache         Cache
}

// NewSummaryUseCase construye el caso de uso. cache puede ser nil.
func NewSummaryUseCase(movRepo repository.MovementRepository, warehouseRepo repository.WarehouseRepository, cache Cache) *SummaryUseCase {
	return &SummaryUseCase{movRepo: movRepo, warehouseRepo: warehouseRepo, cache: cache}
}

// GenerateSummaryReport agrega el libro mayor en [start, end): totales,
// desglose por tipo y por bodega, y serie temporal en la granularidad pedida.
func (uc *SummaryUseCase) GenerateSummaryReport(ctx context.Context, req dto.SummaryReportRequest) (*dto.SummaryReport, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	granularity := req.Granularity
	if granularity == "" {
		granularity = dto.BucketDay
	}
	switch granularity {
	case dto.BucketDay, dto.BucketWeek, dto.BucketMonth:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", domain.ErrValidation, granularity)
	}

	cacheKey := summaryCacheKey(req, granularity)
	if uc.cache != nil {
		var cached dto.SummaryReport
		if uc.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	movements, err := uc.collect(req)
	if err != nil {
		return nil, fmt.Errorf("summary report: %w", err)
	}

	out := &dto.SummaryReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Granularity: granularity,
		ByType:      []dto.TypeBreakdown{},
		ByWarehouse: []dto.WarehouseBreakdown{},
		TimeSeries:  []dto.TimeBucket{},
	}

	titles := map[string]bool{}
	warehouses := map[string]bool{}
	byType := map[string]*dto.TypeBreakdown{}
	byTypeValue := map[string]decimal.Decimal{}
	byWarehouse := map[string]*dto.WarehouseBreakdown{}
	buckets := map[time.Time]*dto.TimeBucket{}

	for _, m := range movements {
		out.TotalMovements++
		titles[m.TitleID] = true

		inbound, outbound := splitUnits(m)
		out.TotalInboundUnits += inbound
		out.TotalOutboundUnits += outbound

		tb := byType[m.Type]
		if tb == nil {
			tb = &dto.TypeBreakdown{Type: m.Type}
			byType[m.Type] = tb
		}
		tb.Count++
		tb.TotalQuantity += m.Quantity
		byTypeValue[m.Type] = byTypeValue[m.Type].Add(m.Value())

		for _, wh := range movementWarehouses(m) {
			warehouses[wh] = true
			wb := byWarehouse[wh]
			if wb == nil {
				wb = &dto.WarehouseBreakdown{WarehouseID: wh}
				byWarehouse[wh] = wb
			}
			wb.MovementCount++
			in, outU := warehouseEffect(m, wh)
			wb.InboundUnits += in
			wb.OutboundUnits += outU
		}

		start := bucketStart(m.MovementDate, granularity)
		bk := buckets[start]
		if bk == nil {
			bk = &dto.TimeBucket{BucketStart: start}
			buckets[start] = bk
		}
		bk.MovementCount++
		bk.InboundUnits += inbound
		bk.OutboundUnits += outbound
		bk.NetChange += inbound - outbound
	}

	out.DistinctTitles = len(titles)
	out.DistinctWarehouses = len(warehouses)

	for movType, tb := range byType {
		tb.TotalValue = byTypeValue[movType].Round(2)
		if tb.Count > 0 {
			totalAbs := tb.TotalQuantity
			if totalAbs < 0 {
				totalAbs = -totalAbs
			}
			tb.AverageTransaction = float64(totalAbs) / float64(tb.Count)
		}
		if out.TotalMovements > 0 {
			tb.PercentOfTotal = float64(tb.Count) / float64(out.TotalMovements) * 100
		}
		out.ByType = append(out.ByType, *tb)
	}
	sort.Slice(out.ByType, func(i, j int) bool { return out.ByType[i].Type < out.ByType[j].Type })

	names := uc.warehouseNames()
	for _, wb := range byWarehouse {
		wb.WarehouseName = names[wb.WarehouseID]
		out.ByWarehouse = append(out.ByWarehouse, *wb)
	}
	sort.Slice(out.ByWarehouse, func(i, j int) bool {
		return out.ByWarehouse[i].WarehouseID < out.ByWarehouse[j].WarehouseID
	})

	for _, bk := range buckets {
		out.TimeSeries = append(out.TimeSeries, *bk)
	}
	sort.Slice(out.TimeSeries, func(i, j int) bool {
		return out.TimeSeries[i].BucketStart.Before(out.TimeSeries[j].BucketStart)
	})

	if uc.cache != nil {
		uc.cache.Set(ctx, cacheKey, out)
	}
	return out, nil
}

// collect trae los movimientos del rango aplicando los filtros opcionales.
// Los filtros multivalor se aplican en memoria sobre una sola pasada.
func (uc *SummaryUseCase) collect(req dto.SummaryReportRequest) ([]*entity.Movement, error) {
	// Rango [start, end): el límite superior inclusivo del repo se corre 1ns atrás.
	to := req.EndDate.Add(-time.Nanosecond)
	all, err := uc.movRepo.ListForAnalysis(repository.MovementFilter{
		DateFrom: &req.StartDate,
		DateTo:   &to,
	}, maxAnalysisRecords)
	if err != nil {
		return nil, err
	}
	if len(req.WarehouseIDs) == 0 && len(req.TitleIDs) == 0 && len(req.Types) == 0 {
		return all, nil
	}
	whSet := toSet(req.WarehouseIDs)
	titleSet := toSet(req.TitleIDs)
	typeSet := toSet(req.Types)
	var out []*entity.Movement
	for _, m := range all {
		if len(titleSet) > 0 && !titleSet[m.TitleID] {
			continue
		}
		if len(typeSet) > 0 && !typeSet[m.Type] {
			continue
		}
		if len(whSet) > 0 && !touchesAny(m, whSet) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (uc *SummaryUseCase) warehouseNames() map[string]string {
	names := map[string]string{}
	list, err := uc.warehouseRepo.List()
	if err != nil {
		return names // el nombre es decorativo: el reporte no falla por esto
	}
	for _, w := range list {
		names[w.ID] = w.Name
	}
	return names
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers compartidos por los reportes
// ──────────────────────────────────────────────────────────────────────────────

// validateRange exige start estrictamente anterior a end.
func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date must be before end date", domain.ErrValidation)
	}
	return nil
}

// splitUnits separa las unidades de entrada y salida de un movimiento
// (un traslado aporta su magnitud a ambos lados del sistema, pero el efecto
// neto global es cero; ver warehouseEffect para el efecto por bodega).
func splitUnits(m *entity.Movement) (inbound, outbound int64) {
	if m.IsTransfer() {
		return 0, 0 // neto global cero: no infla entradas ni salidas
	}
	if m.Quantity >= 0 {
		return m.Quantity, 0
	}
	return 0, -m.Quantity
}

// movementWarehouses devuelve las bodegas tocadas por el movimiento.
func movementWarehouses(m *entity.Movement) []string {
	if m.IsTransfer() {
		return []string{m.SourceWarehouseID, m.DestinationWarehouseID}
	}
	return []string{m.WarehouseID}
}

// warehouseEffect devuelve unidades entrantes/salientes del movimiento vistas
// desde una bodega concreta.
func warehouseEffect(m *entity.Movement, warehouseID string) (inbound, outbound int64) {
	if m.IsTransfer() {
		if m.SourceWarehouseID == warehouseID {
			return 0, m.Quantity
		}
		if m.DestinationWarehouseID == warehouseID {
			return m.Quantity, 0
		}
		return 0, 0
	}
	if m.WarehouseID != warehouseID {
		return 0, 0
	}
	return splitUnits(m)
}

// bucketStart devuelve el inicio del bucket calendario que contiene t:
// día a medianoche local, semana ISO (lunes) o primer día del mes.
// La regla es determinista y la comparten todos los gráficos río abajo.
func bucketStart(t time.Time, granularity string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch granularity {
	case dto.BucketWeek:
		// ISO: la semana empieza lunes.
		back := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -back)
	case dto.BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func touchesAny(m *entity.Movement, whSet map[string]bool) bool {
	for _, wh := range movementWarehouses(m) {
		if whSet[wh] {
			return true
		}
	}
	return false
}

func summaryCacheKey(req dto.SummaryReportRequest, granularity string) string {
	return fmt.Sprintf("report:summary:%d:%d:%s:%s:%s:%s",
		req.StartDate.Unix(), req.EndDate.Unix(), granularity,
		strings.Join(req.WarehouseIDs, ","),
		strings.Join(req.TitleIDs, ","),
		strings.Join(req.Types, ","),
	)
}
