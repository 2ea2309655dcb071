package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/editorial-stock/internal/application/ledger"
	"github.com/tu-usuario/editorial-stock/internal/application/maintenance"
	"github.com/tu-usuario/editorial-stock/internal/application/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordMovement *ledger.RecordMovementUseCase
	History        *ledger.HistoryUseCase
	Summary        *report.SummaryUseCase
	Trend          *report.TrendUseCase
	Efficiency     *report.EfficiencyUseCase
	Anomaly        *report.AnomalyUseCase
	Retention      *maintenance.RetentionUseCase
}

// Router registra las rutas de la API. La superficie confía en su perímetro:
// no hay middleware de autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Libro mayor de movimientos
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.History)
	movements.Post("/", movementHandler.Record)
	movements.Get("/", movementHandler.History)

	// Motor analítico (solo lectura)
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Summary, deps.Trend, deps.Efficiency, deps.Anomaly)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/trends", reportHandler.Trends)
	reports.Get("/efficiency/:warehouseId", reportHandler.Efficiency)
	reports.Get("/anomalies", reportHandler.Anomalies)

	// Mantenimiento
	maintenanceGroup := api.Group("/maintenance")
	maintenanceHandler := NewMaintenanceHandler(deps.Retention)
	maintenanceGroup.Post("/cleanup", maintenanceHandler.StartCleanup)
	maintenanceGroup.Get("/cleanup/:id", maintenanceHandler.GetJob)
}
