package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/editorial-stock/internal/application/dto"
	"github.com/tu-usuario/editorial-stock/internal/application/ledger"
	"github.com/tu-usuario/editorial-stock/internal/domain"
)

var validate = validator.New()

// MovementHandler maneja las peticiones HTTP del libro mayor de movimientos.
type MovementHandler struct {
	record  *ledger.RecordMovementUseCase
	history *ledger.HistoryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(record *ledger.RecordMovementUseCase, history *ledger.HistoryUseCase) *MovementHandler {
	return &MovementHandler{record: record, history: history}
}

// Record registra un movimiento de stock (POST /api/movements).
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	movement, err := h.record.RecordMovement(c.Context(), requestUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ledger.ToMovementResponse(movement))
}

// History devuelve el historial paginado (GET /api/movements).
func (h *MovementHandler) History(c *fiber.Ctx) error {
	q := dto.MovementHistoryQuery{
		TitleID:     c.Query("title_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        c.Query("type"),
		Ascending:   c.QueryBool("ascending"),
		PageRequest: dto.PageRequest{
			Page:  c.QueryInt("page"),
			Limit: c.QueryInt("limit"),
		},
	}
	var err error
	if q.DateFrom, err = queryDatePtr(c, "date_from"); err != nil {
		return respondError(c, err)
	}
	if q.DateTo, err = queryDatePtr(c, "date_to"); err != nil {
		return respondError(c, err)
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	page, err := h.history.GetMovementHistory(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// requestUser identifica al usuario que origina la petición. Sin capa de
// autenticación, la identidad viaja en un header del perímetro.
func requestUser(c *fiber.Ctx) string {
	return c.Get("X-User-Id")
}

// parseDate acepta fecha simple (YYYY-MM-DD) o timestamp RFC 3339.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, value)
	}
	return t, nil
}

func queryDate(c *fiber.Ctx, key string) (time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return time.Time{}, nil
	}
	return parseDate(value)
}

func queryDatePtr(c *fiber.Ctx, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryCSV parte un parámetro multivalor separado por comas.
func queryCSV(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func queryFloatPtr(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q for %s", domain.ErrValidation, raw, key)
	}
	return &f, nil
}
