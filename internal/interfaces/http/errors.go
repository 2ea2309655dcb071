package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/domain"
)

// respondError mapea los sentinelas del dominio a estado HTTP + código de
// máquina. El mensaje conserva el detalle del error envuelto.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrSameWarehouse):
		status, code = fiber.StatusBadRequest, "SAME_WAREHOUSE"
	case errors.Is(err, domain.ErrTransferWarehouses):
		status, code = fiber.StatusBadRequest, "TRANSFER_WAREHOUSES"
	case errors.Is(err, domain.ErrAdjustmentReason):
		status, code = fiber.StatusBadRequest, "ADJUSTMENT_REASON"
	case errors.Is(err, domain.ErrInsufficientData):
		status, code = fiber.StatusUnprocessableEntity, "INSUFFICIENT_DATA"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
