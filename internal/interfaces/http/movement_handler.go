package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del kardex: listado de
// movimientos, stock disponible y ajustes manuales.
type MovementHandler struct {
	uc *ledger.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List devuelve movimientos paginados con filtros.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	p := pageParams(c)
	from, err := queryTime(c, "from")
	if err != nil {
		return badBody(c)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badBody(c)
	}
	f := repository.MovementFilter{
		ProductID: queryString(c, "product_id"),
		Kind:      queryString(c, "movement_type"),
		From:      from,
		To:        to,
	}
	list, total, err := h.uc.List(c.Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		items = append(items, dto.NewMovementDTO(m))
	}
	return c.JSON(dto.NewPage(items, total, p.Page, p.Limit))
}

// StockOnHand devuelve el stock disponible de un producto (Σ del kardex).
func (h *MovementHandler) StockOnHand(c *fiber.Ctx) error {
	productID := c.Params("id")
	stock, err := h.uc.StockOnHand(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "stock_on_hand": stock})
}

// RegisterAdjustment registra un ajuste manual de stock.
func (h *MovementHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mov, err := h.uc.RegisterAdjustment(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementDTO(mov))
}

// DeleteAdjustment elimina un ajuste manual por ID.
func (h *MovementHandler) DeleteAdjustment(c *fiber.Ctx) error {
	if err := h.uc.DeleteAdjustment(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
