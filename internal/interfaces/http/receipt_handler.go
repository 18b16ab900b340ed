package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReceiptHandler maneja las peticiones HTTP de recepciones (stock-in).
type ReceiptHandler struct {
	uc *ledger.ReceiptUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *ledger.ReceiptUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Create crea una recepción con sus líneas iniciales.
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	header, err := h.uc.CreateReceipt(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	_, lines, err := h.uc.Get(c.Context(), header.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReceiptDTO(header, lines))
}

// Get devuelve una recepción con sus líneas.
func (h *ReceiptHandler) Get(c *fiber.Ctx) error {
	header, lines, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewReceiptDTO(header, lines))
}

// List devuelve recepciones paginadas con filtros de búsqueda y fechas.
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	p := pageParams(c)
	from, err := queryTime(c, "from")
	if err != nil {
		return badBody(c)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badBody(c)
	}
	f := repository.ReceiptFilter{
		Search: queryString(c, "search"),
		From:   from,
		To:     to,
	}
	list, total, err := h.uc.List(c.Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ReceiptDTO, 0, len(list))
	for _, r := range list {
		items = append(items, dto.NewReceiptDTO(r, nil))
	}
	return c.JSON(dto.NewPage(items, total, p.Page, p.Limit))
}

// UpdateHeader actualiza ref_no/fecha/notas del encabezado.
func (h *ReceiptHandler) UpdateHeader(c *fiber.Ctx) error {
	var in dto.UpdateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	header, err := h.uc.UpdateHeader(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewReceiptDTO(header, nil))
}

// Delete elimina la recepción con sus líneas y movimientos.
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteReceipt(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLine agrega una línea a la recepción.
func (h *ReceiptHandler) AddLine(c *fiber.Ctx) error {
	var in dto.ReceiptItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.uc.AddLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReceiptLineDTO(line))
}

// UpdateLine revisa una línea (cantidad, costo, producto).
func (h *ReceiptHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateReceiptLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.uc.UpdateLine(c.Context(), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewReceiptLineDTO(line))
}

// DeleteLine elimina una línea con su movimiento enlazado.
func (h *ReceiptHandler) DeleteLine(c *fiber.Ctx) error {
	if err := h.uc.DeleteLine(c.Context(), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RecalculateTotal repara el total materializado desde las líneas.
func (h *ReceiptHandler) RecalculateTotal(c *fiber.Ctx) error {
	before, after, err := h.uc.RecalculateTotal(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"stock_in_id":  c.Params("id"),
		"total_before": before,
		"total_after":  after,
		"drift":        !before.Equal(after),
	})
}
