package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
	"github.com/tu-usuario/editorial-stock/internal/domain/entity"
	"github.com/tu-usuario/editorial-stock/internal/domain/repository"
	"github.com/tu-usuario/editorial-stock/internal/domain/stats"
)

// Mapeo sensibilidad → corte z. HIGH es el más sensible (corte más bajo), de
// modo que HIGH marca al menos todo lo que marca LOW sobre los mismos datos.
var sensitivityThresholds = map[string]float64{
	dto.SensitivityLow:    3.0,
	dto.SensitivityMedium: 2.5,
	dto.SensitivityHigh:   2.0,
}

const (
	minZThreshold = 1.0
	maxZThreshold = 5.0

	// Ventana de horario hábil para anomalías de timing.
	defaultBusinessStartHour = 8
	defaultBusinessEndHour   = 20

	// Patrón de ráfaga: repeticiones del mismo (título, bodega, tipo) en una hora.
	burstWindow = time.Hour
	burstSize   = 5
)

// BusinessHours ventana de horario hábil configurable del detector.
type BusinessHours struct {
	StartHour int
	EndHour   int
}

// AnomalyUseCase marca movimientos estadísticamente inusuales por cantidad,
// valor monetario y hora del día, usando z-scores sobre la población analizada.
type AnomalyUseCase struct {
	movRepo       repository.MovementRepository
	businessHours BusinessHours
}

// NewAnomalyUseCase construye el caso de uso; con horas en cero aplica la
// ventana hábil por defecto (08:00–20:00).
func NewAnomalyUseCase(movRepo repository.MovementRepository, hours BusinessHours) *AnomalyUseCase {
	if hours.StartHour == 0 && hours.EndHour == 0 {
		hours = BusinessHours{StartHour: defaultBusinessStartHour, EndHour: defaultBusinessEndHour}
	}
	return &AnomalyUseCase{movRepo: movRepo, businessHours: hours}
}

// DetectAnomalies analiza el rango y devuelve los movimientos cuyo |z| supera
// el corte activo en alguna dimensión, más las anomalías de timing fuera de
// horario hábil y, si se pide, las de patrón. Un rango sin movimientos
// devuelve conteos en cero, no un error.
func (uc *AnomalyUseCase) DetectAnomalies(ctx context.Context, req dto.AnomalyDetectionRequest) (*dto.AnomalyDetectionResult, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	threshold, err := resolveThreshold(req)
	if err != nil {
		return nil, err
	}

	to := req.EndDate.Add(-time.Nanosecond)
	movements, err := uc.movRepo.ListForAnalysis(repository.MovementFilter{
		TitleID:     req.TitleID,
		WarehouseID: req.WarehouseID,
		DateFrom:    &req.StartDate,
		DateTo:      &to,
	}, maxAnalysisRecords)
	if err != nil {
		return nil, fmt.Errorf("anomaly detection: %w", err)
	}

	result := &dto.AnomalyDetectionResult{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalAnalyzed: len(movements),
		ThresholdUsed: threshold,
		SeverityCounts: map[string]int{
			dto.SeverityLow:      0,
			dto.SeverityMedium:   0,
			dto.SeverityHigh:     0,
			dto.SeverityCritical: 0,
		},
		Anomalies: []dto.Anomaly{},
	}
	if len(movements) == 0 {
		return result, nil
	}

	quantities := make([]float64, len(movements))
	values := make([]float64, len(movements))
	times := make([]float64, len(movements))
	for i, m := range movements {
		quantities[i] = math.Abs(float64(m.Quantity))
		values[i], _ = m.Value().Float64()
		times[i] = hourOfDay(m.MovementDate)
	}

	uc.flagDimension(result, movements, quantities, threshold, dto.AnomalyQuantity, "unusual quantity")
	uc.flagDimension(result, movements, values, threshold, dto.AnomalyValue, "unusual monetary value")
	uc.flagDimension(result, movements, times, threshold, dto.AnomalyTiming, "unusual time of day")
	uc.flagOutOfHours(result, movements)
	if req.IncludePatternAnomalies {
		uc.flagBursts(result, movements)
	}

	result.AnomaliesFound = len(result.Anomalies)
	return result, nil
}

// flagDimension calcula media y desviación de la dimensión y marca los
// movimientos cuyo |z| supera el corte.
func (uc *AnomalyUseCase) flagDimension(result *dto.AnomalyDetectionResult, movements []*entity.Movement, dim []float64, threshold float64, anomalyType, label string) {
	mean := stats.Mean(dim)
	sd := stats.StdDev(dim)
	if sd == 0 {
		return // población constante: nada que marcar
	}
	for i, m := range movements {
		z := stats.ZScore(dim[i], mean, sd)
		if math.Abs(z) <= threshold {
			continue
		}
		severity := severityFromZ(math.Abs(z), threshold)
		result.SeverityCounts[severity]++
		result.Anomalies = append(result.Anomalies, dto.Anomaly{
			MovementID:    m.ID,
			Type:          anomalyType,
			Severity:      severity,
			Description:   fmt.Sprintf("%s %s: %s (z=%.2f)", m.Type, m.MovementDate.Format("2006-01-02"), label, z),
			ExpectedValue: mean,
			ActualValue:   dim[i],
			ZScore:        z,
		})
	}
}

// flagOutOfHours marca todo movimiento registrado fuera de la ventana hábil,
// independiente del z-score.
func (uc *AnomalyUseCase) flagOutOfHours(result *dto.AnomalyDetectionResult, movements []*entity.Movement) {
	for _, m := range movements {
		h := m.MovementDate.Hour()
		if h >= uc.businessHours.StartHour && h < uc.businessHours.EndHour {
			continue
		}
		result.SeverityCounts[dto.SeverityMedium]++
		result.Anomalies = append(result.Anomalies, dto.Anomaly{
			MovementID:    m.ID,
			Type:          dto.AnomalyTiming,
			Severity:      dto.SeverityMedium,
			Description:   fmt.Sprintf("%s recorded outside business hours (%02d:00–%02d:00)", m.Type, uc.businessHours.StartHour, uc.businessHours.EndHour),
			ExpectedValue: float64(uc.businessHours.StartHour),
			ActualValue:   hourOfDay(m.MovementDate),
		})
	}
}

// flagBursts detecta ráfagas: burstSize o más movimientos del mismo
// (título, bodega, tipo) dentro de una hora.
func (uc *AnomalyUseCase) flagBursts(result *dto.AnomalyDetectionResult, movements []*entity.Movement) {
	groups := map[string][]*entity.Movement{}
	for _, m := range movements {
		key := m.TitleID + "|" + m.WarehouseID + "|" + m.Type
		groups[key] = append(groups[key], m)
	}
	for _, group := range groups {
		if len(group) < burstSize {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].MovementDate.Before(group[j].MovementDate)
		})
		for i := 0; i+burstSize-1 < len(group); i++ {
			last := group[i+burstSize-1]
			if last.MovementDate.Sub(group[i].MovementDate) > burstWindow {
				continue
			}
			result.SeverityCounts[dto.SeverityHigh]++
			result.Anomalies = append(result.Anomalies, dto.Anomaly{
				MovementID:  last.ID,
				Type:        dto.AnomalyPattern,
				Severity:    dto.SeverityHigh,
				Description: fmt.Sprintf("burst of %d %s movements within one hour", burstSize, last.Type),
				ActualValue: float64(burstSize),
			})
			break // una ráfaga por grupo es suficiente señal
		}
	}
}

// resolveThreshold aplica el override numérico si viene (validando su rango) o
// mapea el nivel de sensibilidad; por defecto MEDIUM.
func resolveThreshold(req dto.AnomalyDetectionRequest) (float64, error) {
	if req.ZScoreThreshold != nil {
		t := *req.ZScoreThreshold
		if t < minZThreshold || t > maxZThreshold {
			return 0, fmt.Errorf("%w: z_score_threshold must be between %.1f and %.1f", domain.ErrValidation, minZThreshold, maxZThreshold)
		}
		return t, nil
	}
	level := req.SensitivityLevel
	if level == "" {
		level = dto.SensitivityMedium
	}
	t, ok := sensitivityThresholds[level]
	if !ok {
		return 0, fmt.Errorf("%w: unknown sensitivity level %q", domain.ErrValidation, level)
	}
	return t, nil
}

// severityFromZ escala la severidad según cuánto excede |z| al corte.
func severityFromZ(absZ, threshold float64) string {
	ratio := absZ / threshold
	switch {
	case ratio >= 2:
		return dto.SeverityCritical
	case ratio >= 1.5:
		return dto.SeverityHigh
	case ratio >= 1.25:
		return dto.SeverityMedium
	default:
		return dto.SeverityLow
	}
}

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}
