package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP de categorías.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create crea una categoría.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cat, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CategoryDTO{ID: cat.ID, Name: cat.Name})
}

// Get devuelve una categoría por ID.
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	cat, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CategoryDTO{ID: cat.ID, Name: cat.Name})
}

// List devuelve categorías paginadas.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	p := pageParams(c)
	list, total, err := h.uc.List(c.Context(), queryString(c, "search"), p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.CategoryDTO, 0, len(list))
	for _, cat := range list {
		items = append(items, dto.CategoryDTO{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(dto.NewPage(items, total, p.Page, p.Limit))
}

// Update renombra una categoría.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cat, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CategoryDTO{ID: cat.ID, Name: cat.Name})
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
