package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReceipt es el encabezado de una recepción de mercancía.
// TotalCost es un total derivado: nunca lo escribe un caller directamente,
// solo lo mantiene el agregador de recepciones en la misma transacción que
// muta las líneas. IsOpening marca el evento de stock inicial: sus líneas
// generan movimientos OPENING en lugar de STOCK_IN.
type StockReceipt struct {
	ID          string
	RefNo       *string
	ReceiptDate time.Time
	TotalCost   decimal.Decimal
	IsOpening   bool
	Notes       string
	CreatedAt   time.Time
}

// StockReceiptLine es una línea de recepción: cantidad > 0, costo unitario >= 0.
// Tiene exactamente un movimiento enlazado en el kardex.
type StockReceiptLine struct {
	ID        string
	ReceiptID string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// Amount devuelve el valor de la línea (cantidad × costo unitario).
func (l StockReceiptLine) Amount() decimal.Decimal {
	return decimal.NewFromInt(l.Quantity).Mul(l.UnitCost)
}
