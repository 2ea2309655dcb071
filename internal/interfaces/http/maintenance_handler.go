package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/application/maintenance"
)

// MaintenanceHandler maneja las peticiones HTTP de limpieza por retención.
type MaintenanceHandler struct {
	retention *maintenance.RetentionUseCase
}

// NewMaintenanceHandler construye el handler.
func NewMaintenanceHandler(retention *maintenance.RetentionUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{retention: retention}
}

// StartCleanup encola una limpieza (POST /api/maintenance/cleanup). Responde
// 202: el borrado corre en segundo plano y se consulta por id.
func (h *MaintenanceHandler) StartCleanup(c *fiber.Ctx) error {
	var in dto.StartCleanupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	job, err := h.retention.StartCleanup(c.Context(), in, requestUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(job)
}

// GetJob consulta el estado de una limpieza (GET /api/maintenance/cleanup/:id).
func (h *MaintenanceHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.retention.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(job)
}
