package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularidades del eje temporal de los reportes.
const (
	BucketDay   = "DAY"
	BucketWeek  = "WEEK" // semana ISO, inicia lunes
	BucketMonth = "MONTH"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reporte resumen
// ──────────────────────────────────────────────────────────────────────────────

// SummaryReportRequest opciones del reporte resumen. El rango es [start, end).
type SummaryReportRequest struct {
	StartDate    time.Time `json:"start_date" query:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" query:"end_date" validate:"required"`
	WarehouseIDs []string  `json:"warehouse_ids" query:"warehouse_ids"`
	TitleIDs     []string  `json:"title_ids" query:"title_ids"`
	Types        []string  `json:"types" query:"types"`
	Granularity  string    `json:"granularity" query:"granularity" validate:"omitempty,oneof=DAY WEEK MONTH"`
}

// TypeBreakdown desglose por tipo de movimiento.
type TypeBreakdown struct {
	Type               string          `json:"type"`
	Count              int             `json:"count"`
	TotalQuantity      int64           `json:"total_quantity"`
	TotalValue         decimal.Decimal `json:"total_value"`
	AverageTransaction float64         `json:"average_transaction_size"`
	PercentOfTotal     float64         `json:"percent_of_total"`
}

// WarehouseBreakdown desglose por bodega.
type WarehouseBreakdown struct {
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	MovementCount int    `json:"movement_count"`
	InboundUnits  int64  `json:"inbound_units"`
	OutboundUnits int64  `json:"outbound_units"`
}

// TimeBucket un punto de la serie temporal agregada.
type TimeBucket struct {
	BucketStart   time.Time `json:"bucket_start"`
	MovementCount int       `json:"movement_count"`
	InboundUnits  int64     `json:"inbound_units"`
	OutboundUnits int64     `json:"outbound_units"`
	NetChange     int64     `json:"net_change"`
}

// SummaryReport reporte agregado del libro mayor en un rango.
type SummaryReport struct {
	StartDate          time.Time            `json:"start_date"`
	EndDate            time.Time            `json:"end_date"`
	Granularity        string               `json:"granularity"`
	TotalMovements     int                  `json:"total_movements"`
	TotalInboundUnits  int64                `json:"total_inbound_units"`
	TotalOutboundUnits int64                `json:"total_outbound_units"`
	DistinctTitles     int                  `json:"distinct_titles"`
	DistinctWarehouses int                  `json:"distinct_warehouses"`
	ByType             []TypeBreakdown      `json:"by_type"`
	ByWarehouse        []WarehouseBreakdown `json:"by_warehouse"`
	TimeSeries         []TimeBucket         `json:"time_series"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Análisis de tendencia
// ──────────────────────────────────────────────────────────────────────────────

// Direcciones de tendencia.
const (
	TrendIncreasing = "INCREASING"
	TrendDecreasing = "DECREASING"
	TrendStable     = "STABLE"
)

// TrendAnalysisRequest opciones del análisis de tendencia.
type TrendAnalysisRequest struct {
	StartDate         time.Time `json:"start_date" query:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" query:"end_date" validate:"required"`
	TitleID           string    `json:"title_id" query:"title_id" validate:"omitempty,uuid4"`
	WarehouseID       string    `json:"warehouse_id" query:"warehouse_id" validate:"omitempty,uuid4"`
	Type              string    `json:"type" query:"type"`
	ForecastDays      int       `json:"forecast_days" query:"forecast_days" validate:"min=0,max=365"`
	DetectSeasonality bool      `json:"detect_seasonality" query:"detect_seasonality"`
	MinDataPoints     int       `json:"min_data_points" query:"min_data_points" validate:"omitempty,min=2"`
}

// DailyPoint un día de la serie histórica (los días sin movimientos aportan 0).
type DailyPoint struct {
	Date     time.Time `json:"date"`
	NetUnits float64   `json:"net_units"`
}

// ForecastPoint un día proyectado con su intervalo de confianza.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedValue float64   `json:"predicted_value"`
	ConfidencePct  float64   `json:"confidence_pct"` // en (0,100]
	LowerBound     float64   `json:"lower_bound"`
	UpperBound     float64   `json:"upper_bound"`
}

// TrendAnalysis resultado del análisis de tendencia y pronóstico.
type TrendAnalysis struct {
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	Direction           string          `json:"direction"`
	Strength            float64         `json:"strength"`       // [0,1]
	ConfidencePct       float64         `json:"confidence_pct"` // (0,100]
	Slope               float64         `json:"slope"`
	ObservedDays        int             `json:"observed_days"`
	SeasonalityDetected bool            `json:"seasonality_detected"`
	SeasonalityPeriod   int             `json:"seasonality_period,omitempty"` // días
	Series              []DailyPoint    `json:"series"`
	Forecast            []ForecastPoint `json:"forecast,omitempty"`
	Mean                float64         `json:"mean"`
	StdDev              float64         `json:"std_dev"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas de eficiencia
// ──────────────────────────────────────────────────────────────────────────────

// EfficiencyMetrics métricas de una bodega en un rango. Todos los porcentajes
// van acotados a [0,100].
type EfficiencyMetrics struct {
	WarehouseID         string    `json:"warehouse_id"`
	WarehouseName       string    `json:"warehouse_name"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	MovementsPerDay     float64   `json:"movements_per_day"`
	UnitsPerDay         float64   `json:"units_per_day"`
	AvgProcessingHours  float64   `json:"avg_processing_hours"`
	TransferAccuracyPct float64   `json:"transfer_accuracy_pct"`
	ErrorRatePct        float64   `json:"error_rate_pct"`
	UtilizationScore    float64   `json:"utilization_score"` // [0,100]
	InboundEfficiency   float64   `json:"inbound_efficiency"`
	OutboundEfficiency  float64   `json:"outbound_efficiency"`
	TransferEfficiency  float64   `json:"transfer_efficiency"`
	BenchmarkPercentile float64   `json:"benchmark_percentile"` // [0,100]
}

// ──────────────────────────────────────────────────────────────────────────────
// Detección de anomalías
// ──────────────────────────────────────────────────────────────────────────────

// Niveles de sensibilidad (HIGH = corte z más bajo = más sensible).
const (
	SensitivityLow    = "LOW"
	SensitivityMedium = "MEDIUM"
	SensitivityHigh   = "HIGH"
)

// Tipos y severidades de anomalía.
const (
	AnomalyQuantity = "QUANTITY"
	AnomalyValue    = "VALUE"
	AnomalyTiming   = "TIMING"
	AnomalyPattern  = "PATTERN"

	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// AnomalyDetectionRequest opciones del detector de anomalías.
type AnomalyDetectionRequest struct {
	StartDate               time.Time `json:"start_date" query:"start_date" validate:"required"`
	EndDate                 time.Time `json:"end_date" query:"end_date" validate:"required"`
	TitleID                 string    `json:"title_id" query:"title_id" validate:"omitempty,uuid4"`
	WarehouseID             string    `json:"warehouse_id" query:"warehouse_id" validate:"omitempty,uuid4"`
	SensitivityLevel        string    `json:"sensitivity_level" query:"sensitivity_level" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ZScoreThreshold         *float64  `json:"z_score_threshold" query:"z_score_threshold"`
	IncludePatternAnomalies bool      `json:"include_pattern_anomalies" query:"include_pattern_anomalies"`
}

// Anomaly un movimiento marcado como estadísticamente inusual.
type Anomaly struct {
	MovementID    string  `json:"movement_id"`
	Type          string  `json:"type"`
	Severity      string  `json:"severity"`
	Description   string  `json:"description"`
	ExpectedValue float64 `json:"expected_value"`
	ActualValue   float64 `json:"actual_value"`
	ZScore        float64 `json:"z_score"`
}

// AnomalyDetectionResult resultado agregado del detector.
type AnomalyDetectionResult struct {
	StartDate        time.Time      `json:"start_date"`
	EndDate          time.Time      `json:"end_date"`
	TotalAnalyzed    int            `json:"total_analyzed"`
	AnomaliesFound   int            `json:"anomalies_found"`
	ThresholdUsed    float64        `json:"threshold_used"`
	SeverityCounts   map[string]int `json:"severity_counts"`
	Anomalies        []Anomaly      `json:"anomalies"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Limpieza por retención
// ──────────────────────────────────────────────────────────────────────────────

// StartCleanupRequest entrada para lanzar una limpieza por retención.
// El piso de retención es configurable y lo aplica el caso de uso; aquí solo
// se exige un valor positivo.
type StartCleanupRequest struct {
	OlderThanDays int `json:"older_than_days" validate:"required,min=1"`
}

// CleanupJobResponse estado de un trabajo de limpieza.
type CleanupJobResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	CutoffDate   time.Time  `json:"cutoff_date"`
	DeletedCount int64      `json:"deleted_count"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
