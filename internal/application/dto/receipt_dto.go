package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReceiptItemRequest línea de una recepción (alta).
type ReceiptItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateReceiptRequest body para POST /api/stock-in.
type CreateReceiptRequest struct {
	RefNo       *string              `json:"ref_no,omitempty"`
	ReceiptDate *time.Time           `json:"receipt_date,omitempty"` // vacío = ahora
	IsOpening   bool                 `json:"is_opening,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Items       []ReceiptItemRequest `json:"items"`
}

// UpdateReceiptRequest body para PATCH /api/stock-in/:id (solo encabezado).
type UpdateReceiptRequest struct {
	RefNo       *string    `json:"ref_no,omitempty"`
	ReceiptDate *time.Time `json:"receipt_date,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// UpdateReceiptLineRequest body para PATCH de una línea (campos opcionales).
type UpdateReceiptLineRequest struct {
	ProductID *string          `json:"product_id,omitempty"`
	Quantity  *int64           `json:"quantity,omitempty"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ReceiptLineDTO línea de recepción en respuestas.
type ReceiptLineDTO struct {
	ID        string          `json:"stock_in_item_id"`
	ReceiptID string          `json:"stock_in_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ReceiptDTO recepción en respuestas.
type ReceiptDTO struct {
	ID          string           `json:"stock_in_id"`
	RefNo       *string          `json:"ref_no,omitempty"`
	ReceiptDate time.Time        `json:"stock_in_date"`
	TotalCost   decimal.Decimal  `json:"total_cost"`
	IsOpening   bool             `json:"is_opening"`
	Notes       string           `json:"notes,omitempty"`
	Items       []ReceiptLineDTO `json:"items,omitempty"`
}

// NewReceiptLineDTO convierte la entidad a DTO.
func NewReceiptLineDTO(l *entity.StockReceiptLine) ReceiptLineDTO {
	return ReceiptLineDTO{
		ID:        l.ID,
		ReceiptID: l.ReceiptID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitCost:  l.UnitCost,
	}
}

// NewReceiptDTO convierte la entidad (y sus líneas, opcional) a DTO.
func NewReceiptDTO(r *entity.StockReceipt, lines []*entity.StockReceiptLine) ReceiptDTO {
	out := ReceiptDTO{
		ID:          r.ID,
		RefNo:       r.RefNo,
		ReceiptDate: r.ReceiptDate,
		TotalCost:   r.TotalCost,
		IsOpening:   r.IsOpening,
		Notes:       r.Notes,
	}
	for _, l := range lines {
		out.Items = append(out.Items, NewReceiptLineDTO(l))
	}
	return out
}
