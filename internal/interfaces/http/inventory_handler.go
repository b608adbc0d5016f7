package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock,
// actividad y proyecciones de riesgo (protegido).
type InventoryHandler struct {
	stockUC    *inventory.StockMovementUseCase
	activityUC *inventory.ActivityUseCase
	riskUC     *inventory.RiskUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	stockUC *inventory.StockMovementUseCase,
	activityUC *inventory.ActivityUseCase,
	riskUC *inventory.RiskUseCase,
) *InventoryHandler {
	return &InventoryHandler{stockUC: stockUC, activityUC: activityUC, riskUC: riskUC}
}

// Receive godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, quantity (entero positivo), reference"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	return h.applyMovement(c, h.stockUC.Receive)
}

// Issue godoc
// @Summary      Registrar salida de stock
// @Description  Verifica la cantidad disponible bajo lock de fila; si no
//
//	alcanza responde 409 con la cantidad disponible.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, quantity (entero positivo), reference"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Router       /api/inventory/issue [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	return h.applyMovement(c, h.stockUC.Issue)
}

// applyMovement parsea el body, ejecuta la mutación y mapea errores de
// dominio a códigos HTTP.
func (h *InventoryHandler) applyMovement(
	c *fiber.Ctx,
	apply func(ctx context.Context, in inventory.MovementInput) (*inventory.MovementResult, error),
) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := apply(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		UserID:    userID,
	})
	if err != nil {
		return h.movementError(c, err)
	}
	return c.JSON(dto.StockMovementResponse{
		ProductID:   result.ProductID,
		Kind:        result.Kind,
		Quantity:    result.Quantity,
		NewQuantity: result.NewQuantity,
	})
}

func (h *InventoryHandler) movementError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.StockErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   "stock insuficiente",
			Available: stockErr.Available,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "quantity debe ser un entero positivo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrProductInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_INACTIVE", Message: "el producto está desactivado"})
	case errors.Is(err, domain.ErrAuditWriteFailed):
		// La transacción ya se revirtió; el fallo queda en el log.
		log.Error().Err(err).Msg("fallo al escribir el movimiento de auditoría, transacción revertida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "AUDIT_WRITE_FAILED", Message: "no se pudo registrar el movimiento; la operación se revirtió"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Movements godoc
// @Summary      Feed de actividad reciente
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de movimientos"  default(20)
// @Success      200    {array}  dto.MovementFeedItem
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	items, err := h.activityUC.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

// MovementReport godoc
// @Summary      Reporte de movimientos por tipo y rango de fechas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  true   "entrada | salida"
// @Param        from    query  string  false  "Fecha inicial (RFC3339 o 2006-01-02)"
// @Param        to      query  string  false  "Fecha final (RFC3339 o 2006-01-02)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}   dto.MovementReportItem
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/report [get]
func (h *InventoryHandler) MovementReport(c *fiber.Ctx) error {
	kind := c.Query("kind")
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido: usar RFC3339 o 2006-01-02"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido: usar RFC3339 o 2006-01-02"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	items, err := h.activityUC.Report(c.Context(), kind, from, to, page)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser entrada o salida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "movements": items})
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductRiskResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.riskUC.LowStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "products": items})
}

// NearExpiry godoc
// @Summary      Productos próximos a vencer
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductRiskResponse
// @Router       /api/inventory/near-expiry [get]
func (h *InventoryHandler) NearExpiry(c *fiber.Ctx) error {
	items, err := h.riskUC.NearExpiry(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "products": items})
}

// parseDateQuery acepta RFC3339 o fecha simple (2006-01-02); vacío → nil.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
