package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
	"github.com/tu-usuario/editorial-stock/internal/domain/stats"
)

const (
	defaultMinDataPoints = 10
	maxForecastDays      = 365

	// Pendientes dentro de ±slopeEpsilon unidades/día se consideran STABLE.
	slopeEpsilon = 0.01

	// Autocorrelación mínima para declarar estacionalidad.
	seasonalityMinCorr = 0.5
)

// Lags candidatos de estacionalidad, en días (semanal, quincenal, mensual).
var seasonalityLags = []int{7, 14, 30}

// TrendUseCase calcula tendencia, estacionalidad y pronóstico sobre la serie
// diaria de unidades netas del libro mayor.
type TrendUseCase struct {
	movRepo repository.MovementRepository
}

// NewTrendUseCase construye el caso de uso.
func NewTrendUseCase(movRepo repository.MovementRepository) *TrendUseCase {
	return &TrendUseCase{movRepo: movRepo}
}

// AnalyzeTrends construye la serie diaria (los días sin movimientos aportan
// cero), ajusta una recta por mínimos cuadrados y, si se pide, detecta
// estacionalidad y proyecta forecast_days hacia adelante. Con menos de
// min_data_points días observados falla con InsufficientDataError.
func (uc *TrendUseCase) AnalyzeTrends(ctx context.Context, req dto.TrendAnalysisRequest) (*dto.TrendAnalysis, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if req.ForecastDays < 0 || req.ForecastDays > maxForecastDays {
		return nil, fmt.Errorf("%w: forecast_days must be between 0 and %d", domain.ErrValidation, maxForecastDays)
	}
	minPoints := req.MinDataPoints
	if minPoints <= 0 {
		minPoints = defaultMinDataPoints
	}

	to := req.EndDate.Add(-time.Nanosecond)
	movements, err := uc.movRepo.ListForAnalysis(repository.MovementFilter{
		TitleID:     req.TitleID,
		WarehouseID: req.WarehouseID,
		Type:        req.Type,
		DateFrom:    &req.StartDate,
		DateTo:      &to,
	}, maxAnalysisRecords)
	if err != nil {
		return nil, fmt.Errorf("trend analysis: %w", err)
	}

	series, observedDays := dailySeries(movements, req.StartDate, req.EndDate)
	if observedDays < minPoints {
		return nil, fmt.Errorf("%w: %d observed days, %d required", domain.ErrInsufficientData, observedDays, minPoints)
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.NetUnits
	}
	fit := stats.FitLine(values)

	direction := dto.TrendStable
	switch {
	case fit.Slope > slopeEpsilon:
		direction = dto.TrendIncreasing
	case fit.Slope < -slopeEpsilon:
		direction = dto.TrendDecreasing
	}

	n := float64(len(values))
	confidence := 100 * fit.R2 * (n / (n + 10))
	if confidence <= 0 {
		confidence = 1 // la confianza queda en (0,100]
	}

	out := &dto.TrendAnalysis{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Direction:     direction,
		Strength:      fit.R2,
		ConfidencePct: confidence,
		Slope:         fit.Slope,
		ObservedDays:  observedDays,
		Series:        series,
		Mean:          stats.Mean(values),
		StdDev:        stats.StdDev(values),
	}

	var seasonalOffsets []float64
	if req.DetectSeasonality {
		if period := detectSeasonality(values); period > 0 {
			out.SeasonalityDetected = true
			out.SeasonalityPeriod = period
			seasonalOffsets = periodOffsets(values, period)
		}
	}

	if req.ForecastDays > 0 {
		out.Forecast = forecast(fit, values, series[len(series)-1].Date, req.ForecastDays, confidence, out.SeasonalityPeriod, seasonalOffsets)
	}
	return out, nil
}

// dailySeries agrega unidades netas por día calendario dentro de [start, end)
// y rellena con ceros los días sin actividad (un día vacío es un punto en
// cero, no un hueco). Devuelve también cuántos días tuvieron movimientos.
func dailySeries(movements []*entity.Movement, start, end time.Time) ([]dto.DailyPoint, int) {
	perDay := map[time.Time]float64{}
	observed := map[time.Time]bool{}
	for _, m := range movements {
		if m.IsTransfer() {
			continue // neto global cero: no mueve la serie
		}
		day := bucketStart(m.MovementDate, dto.BucketDay)
		perDay[day] += float64(m.Quantity)
		observed[day] = true
	}

	var series []dto.DailyPoint
	for day := bucketStart(start, dto.BucketDay); day.Before(end); day = day.AddDate(0, 0, 1) {
		series = append(series, dto.DailyPoint{Date: day, NetUnits: perDay[day]})
	}
	return series, len(observed)
}

// detectSeasonality prueba los lags candidatos y devuelve el de mayor
// autocorrelación por encima del umbral, o 0 si ninguno supera.
func detectSeasonality(values []float64) int {
	period := 0
	best := 0.0
	for _, lag := range seasonalityLags {
		if len(values) < 2*lag {
			continue // se exige ver el ciclo al menos dos veces
		}
		ac := stats.Autocorrelation(values, lag)
		if ac > seasonalityMinCorr && ac > best {
			best = ac
			period = lag
		}
	}
	return period
}

// periodOffsets calcula el desvío medio de cada fase del ciclo respecto a la
// media global (ej. con periodo 7: cuánto se desvía cada día de la semana).
func periodOffsets(values []float64, period int) []float64 {
	mean := stats.Mean(values)
	sums := make([]float64, period)
	counts := make([]int, period)
	for i, v := range values {
		phase := i % period
		sums[phase] += v - mean
		counts[phase]++
	}
	offsets := make([]float64, period)
	for i := range offsets {
		if counts[i] > 0 {
			offsets[i] = sums[i] / float64(counts[i])
		}
	}
	return offsets
}

// forecast extrapola la recta ajustada; cada punto lleva confianza decreciente
// y un intervalo cuyo ancho crece con el horizonte.
func forecast(fit stats.LinearFit, history []float64, lastDay time.Time, days int, baseConfidence float64, period int, offsets []float64) []dto.ForecastPoint {
	n := len(history)
	sigma := stats.StdDev(history)
	if sigma == 0 {
		sigma = math.Abs(fit.Slope) // serie constante: ancho mínimo proporcional
	}
	points := make([]dto.ForecastPoint, 0, days)
	for h := 1; h <= days; h++ {
		predicted := fit.Predict(float64(n - 1 + h))
		if period > 0 && len(offsets) == period {
			predicted += offsets[(n-1+h)%period]
		}
		// Decaimiento de confianza con el horizonte, sin llegar a cero.
		conf := baseConfidence * (1 - 0.5*float64(h)/float64(days+n))
		if conf < 1 {
			conf = 1
		}
		margin := 1.96 * sigma * math.Sqrt(1+float64(h)/float64(n))
		points = append(points, dto.ForecastPoint{
			Date:           lastDay.AddDate(0, 0, h),
			PredictedValue: predicted,
			ConfidencePct:  conf,
			LowerBound:     predicted - margin,
			UpperBound:     predicted + margin,
		})
	}
	return points
}
