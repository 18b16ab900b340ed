package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	uc *ledger.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *ledger.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create crea una venta con sus líneas.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.uc.CreateSale(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	_, lines, err := h.uc.Get(c.Context(), sale.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleDTO(sale, lines))
}

// Get devuelve una venta con sus líneas.
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, lines, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSaleDTO(sale, lines))
}

// List devuelve ventas paginadas con filtros.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	p := pageParams(c)
	from, err := queryTime(c, "from")
	if err != nil {
		return badBody(c)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badBody(c)
	}
	f := repository.SaleFilter{
		Search:        queryString(c, "search"),
		PaymentMethod: queryString(c, "payment_method"),
		From:          from,
		To:            to,
	}
	list, total, err := h.uc.List(c.Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.SaleDTO, 0, len(list))
	for _, s := range list {
		items = append(items, dto.NewSaleDTO(s, nil))
	}
	return c.JSON(dto.NewPage(items, total, p.Page, p.Limit))
}

// UpdateHeader actualiza fecha/método de pago/notas del encabezado.
func (h *SaleHandler) UpdateHeader(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.uc.UpdateHeader(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSaleDTO(sale, nil))
}

// Delete elimina la venta con sus líneas y movimientos; el stock vuelve.
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSale(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLine agrega una línea a la venta.
func (h *SaleHandler) AddLine(c *fiber.Ctx) error {
	var in dto.SaleItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.uc.AddLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleLineDTO(line))
}

// UpdateLine revisa una línea de venta.
func (h *SaleHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateSaleLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.uc.UpdateLine(c.Context(), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSaleLineDTO(line))
}

// DeleteLine elimina una línea con su movimiento enlazado.
func (h *SaleHandler) DeleteLine(c *fiber.Ctx) error {
	if err := h.uc.DeleteLine(c.Context(), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecalculateTotal repara el total materializado desde las líneas.
func (h *SaleHandler) RecalculateTotal(c *fiber.Ctx) error {
	before, after, err := h.uc.RecalculateTotal(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"sale_id":      c.Params("id"),
		"total_before": before,
		"total_after":  after,
		"drift":        !before.Equal(after),
	})
}
