package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// AdjustmentRequest body para POST /api/inventory/adjustments.
// Quantity con signo (≠ 0); UnitCost obligatorio en ajustes positivos.
type AdjustmentRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// MovementDTO movimiento del kardex en respuestas.
type MovementDTO struct {
	ID            string           `json:"movement_id"`
	ProductID     string           `json:"product_id"`
	Kind          string           `json:"movement_type"`
	Quantity      int64            `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	ReceiptLineID *string          `json:"stock_in_item_id,omitempty"`
	SaleLineID    *string          `json:"sale_item_id,omitempty"`
	MovementDate  time.Time        `json:"movement_date"`
	Notes         string           `json:"notes,omitempty"`
}

// NewMovementDTO convierte la entidad a DTO.
func NewMovementDTO(m *entity.Movement) MovementDTO {
	return MovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		SalePrice:     m.SalePrice,
		ReceiptLineID: m.ReceiptLineID,
		SaleLineID:    m.SaleLineID,
		MovementDate:  m.MovementDate,
		Notes:         m.Notes,
	}
}
