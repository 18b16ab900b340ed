package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementOpening    = "OPENING"    // stock inicial
	MovementStockIn    = "STOCK_IN"   // entrada por recepción
	MovementSale       = "SALE"       // salida por venta
	MovementAdjustment = "ADJUSTMENT" // ajuste manual
)

// Movement es la unidad atómica del kardex: un evento de cantidad con signo
// contra el stock de un producto. Cantidad positiva para entradas
// (OPENING, STOCK_IN, ADJUSTMENT+), negativa para SALE y ADJUSTMENT-.
//
// Cada línea de recepción o de venta tiene exactamente un movimiento enlazado
// vía ReceiptLineID o SaleLineID (1:1). Los movimientos solo se crean, revisan
// o eliminan a través de ese enlace; la excepción son los ADJUSTMENT, que se
// registran directamente para correcciones manuales.
type Movement struct {
	ID            string
	ProductID     string
	Kind          string
	Quantity      int64            // con signo
	UnitCost      *decimal.Decimal // entradas (OPENING, STOCK_IN, ADJUSTMENT+)
	SalePrice     *decimal.Decimal // SALE: precio unitario neto de descuento
	ReceiptLineID *string          // enlace 1:1 con la línea de recepción
	SaleLineID    *string          // enlace 1:1 con la línea de venta
	MovementDate  time.Time
	Notes         string
	CreatedAt     time.Time
}

// IsInbound indica si el tipo aporta cantidad y costo a la valoración
// (promedio ponderado).
func IsInbound(kind string) bool {
	return kind == MovementOpening || kind == MovementStockIn
}
