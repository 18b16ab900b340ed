package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	CategoryID   *string         `json:"category_id,omitempty"`
	SKU          *string         `json:"sku,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int64           `json:"reorder_level"`
}

// UpdateProductRequest body para PATCH /api/products/:id.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	CategoryID   *string          `json:"category_id,omitempty"`
	SKU          *string          `json:"sku,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ReorderLevel *int64           `json:"reorder_level,omitempty"`
}

// ProductDTO producto en respuestas.
type ProductDTO struct {
	ID           string          `json:"product_id"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"category_id,omitempty"`
	SKU          *string         `json:"sku,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int64           `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewProductDTO convierte la entidad a DTO.
func NewProductDTO(p *entity.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		SKU:          p.SKU,
		Price:        p.Price,
		ReorderLevel: p.ReorderLevel,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CategoryRequest body para crear/actualizar categorías.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryDTO categoría en respuestas.
type CategoryDTO struct {
	ID   string `json:"category_id"`
	Name string `json:"name"`
}
