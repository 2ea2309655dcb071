package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/editorial-stock/internal/application/ledger"
	"github.com/tu-usuario/editorial-stock/internal/application/maintenance"
	"github.com/tu-usuario/editorial-stock/internal/application/report"
	"github.com/tu-usuario/editorial-stock/internal/infrastructure/cache"
	"github.com/tu-usuario/editorial-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/editorial-stock/internal/interfaces/http"
	"github.com/tu-usuario/editorial-stock/pkg/config"
	"github.com/tu-usuario/editorial-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	movementRepo := postgres.NewMovementRepository(pool)
	_ = postgres.NewStockProjectionRepository(pool)
	titleRepo := postgres.NewTitleRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	cleanupJobRepo := postgres.NewCleanupJobRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de reportes opcional: sin REDIS_URL los reportes se computan siempre.
	var reportCache report.Cache
	if cfg.Redis.URL != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		reportCache = cache.NewReportCache(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		log.Info().Msg("caché de reportes habilitado")
	}

	recordMovementUC := ledger.NewRecordMovementUseCase(txRunner, titleRepo, warehouseRepo)
	historyUC := ledger.NewHistoryUseCase(movementRepo)
	summaryUC := report.NewSummaryUseCase(movementRepo, warehouseRepo, reportCache)
	trendUC := report.NewTrendUseCase(movementRepo)
	efficiencyUC := report.NewEfficiencyUseCase(movementRepo, warehouseRepo)
	anomalyUC := report.NewAnomalyUseCase(movementRepo, report.BusinessHours{
		StartHour: cfg.Analytics.BusinessStartHour,
		EndHour:   cfg.Analytics.BusinessEndHour,
	})
	retentionUC := maintenance.NewRetentionUseCase(movementRepo, cleanupJobRepo, log, cfg.Retention.MinDays)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecordMovement: recordMovementUC,
		History:        historyUC,
		Summary:        summaryUC,
		Trend:          trendUC,
		Efficiency:     efficiencyUC,
		Anomaly:        anomalyUC,
		Retention:      retentionUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
