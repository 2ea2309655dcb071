package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/application/report"
)

// ReportHandler maneja las peticiones HTTP del motor analítico.
type ReportHandler struct {
	summary    *report.SummaryUseCase
	trend      *report.TrendUseCase
	efficiency *report.EfficiencyUseCase
	anomaly    *report.AnomalyUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(summary *report.SummaryUseCase, trend *report.TrendUseCase, efficiency *report.EfficiencyUseCase, anomaly *report.AnomalyUseCase) *ReportHandler {
	return &ReportHandler{summary: summary, trend: trend, efficiency: efficiency, anomaly: anomaly}
}

// Summary genera el reporte agregado (GET /api/reports/summary).
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	req := dto.SummaryReportRequest{
		WarehouseIDs: queryCSV(c, "warehouse_ids"),
		TitleIDs:     queryCSV(c, "title_ids"),
		Types:        queryCSV(c, "types"),
		Granularity:  c.Query("granularity"),
	}
	var err error
	if req.StartDate, err = queryDate(c, "start_date"); err != nil {
		return respondError(c, err)
	}
	if req.EndDate, err = queryDate(c, "end_date"); err != nil {
		return respondError(c, err)
	}

	out, err := h.summary.GenerateSummaryReport(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Trends analiza tendencia y pronóstico (GET /api/reports/trends).
func (h *ReportHandler) Trends(c *fiber.Ctx) error {
	req := dto.TrendAnalysisRequest{
		TitleID:           c.Query("title_id"),
		WarehouseID:       c.Query("warehouse_id"),
		Type:              c.Query("type"),
		ForecastDays:      c.QueryInt("forecast_days"),
		DetectSeasonality: c.QueryBool("detect_seasonality"),
		MinDataPoints:     c.QueryInt("min_data_points"),
	}
	var err error
	if req.StartDate, err = queryDate(c, "start_date"); err != nil {
		return respondError(c, err)
	}
	if req.EndDate, err = queryDate(c, "end_date"); err != nil {
		return respondError(c, err)
	}

	out, err := h.trend.AnalyzeTrends(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Efficiency calcula métricas de una bodega (GET /api/reports/efficiency/:warehouseId).
func (h *ReportHandler) Efficiency(c *fiber.Ctx) error {
	start, err := queryDate(c, "start_date")
	if err != nil {
		return respondError(c, err)
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.efficiency.CalculateEfficiencyMetrics(c.Context(), c.Params("warehouseId"), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Anomalies ejecuta el detector (GET /api/reports/anomalies).
func (h *ReportHandler) Anomalies(c *fiber.Ctx) error {
	req := dto.AnomalyDetectionRequest{
		TitleID:                 c.Query("title_id"),
		WarehouseID:             c.Query("warehouse_id"),
		SensitivityLevel:        c.Query("sensitivity_level"),
		IncludePatternAnomalies: c.QueryBool("include_pattern_anomalies"),
	}
	var err error
	if req.StartDate, err = queryDate(c, "start_date"); err != nil {
		return respondError(c, err)
	}
	if req.EndDate, err = queryDate(c, "end_date"); err != nil {
		return respondError(c, err)
	}
	if req.ZScoreThreshold, err = queryFloatPtr(c, "z_score_threshold"); err != nil {
		return respondError(c, err)
	}

	out, err := h.anomaly.DetectAnomalies(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
