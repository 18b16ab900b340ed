package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SaleItemRequest línea de una venta (alta). UnitPrice vacío = precio de
// catálogo del producto. Discount es fracción en [0, 1).
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	SaleDatetime  *time.Time        `json:"sale_datetime,omitempty"` // vacío = ahora
	PaymentMethod string            `json:"payment_method"`
	Notes         string            `json:"notes,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

// UpdateSaleRequest body para PATCH /api/sales/:id (solo encabezado).
type UpdateSaleRequest struct {
	SaleDatetime  *time.Time `json:"sale_datetime,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateSaleLineRequest body para PATCH de una línea de venta.
type UpdateSaleLineRequest struct {
	ProductID *string          `json:"product_id,omitempty"`
	Quantity  *int64           `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// SaleLineDTO línea de venta en respuestas.
type SaleLineDTO struct {
	ID        string          `json:"sale_item_id"`
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// SaleDTO venta en respuestas.
type SaleDTO struct {
	ID            string          `json:"sale_id"`
	SaleDatetime  time.Time       `json:"sale_datetime"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	Items         []SaleLineDTO   `json:"items,omitempty"`
}

// NewSaleLineDTO convierte la entidad a DTO.
func NewSaleLineDTO(l *entity.SaleLine) SaleLineDTO {
	return SaleLineDTO{
		ID:        l.ID,
		SaleID:    l.SaleID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Discount:  l.Discount,
	}
}

// NewSaleDTO convierte la entidad (y sus líneas, opcional) a DTO.
func NewSaleDTO(s *entity.Sale, lines []*entity.SaleLine) SaleDTO {
	out := SaleDTO{
		ID:            s.ID,
		SaleDatetime:  s.SaleDatetime,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
	}
	for _, l := range lines {
		out.Items = append(out.Items, NewSaleLineDTO(l))
	}
	return out
}
