package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
	PaymentQR   = "QR"
)

// ValidPaymentMethod valida el método de pago contra el conjunto fijo.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentQR
}

// Sale es el encabezado de una venta. TotalAmount es derivado: lo mantiene el
// agregador de ventas en lockstep con sus líneas, nunca el caller.
type Sale struct {
	ID            string
	SaleDatetime  time.Time
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
}

// SaleLine es una línea de venta: cantidad > 0, precio unitario >= 0,
// descuento como fracción en [0, 1). Tiene exactamente un movimiento SALE
// enlazado en el kardex con cantidad negada.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// NetPrice devuelve el precio unitario neto de descuento: unit_price × (1 − discount).
func (l SaleLine) NetPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(1).Sub(l.Discount))
}

// Amount devuelve el valor de la línea: cantidad × precio neto.
func (l SaleLine) Amount() decimal.Decimal {
	return decimal.NewFromInt(l.Quantity).Mul(l.NetPrice())
}
