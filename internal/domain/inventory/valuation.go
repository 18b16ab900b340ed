// Package inventory contiene la lógica pura de valoración del kardex
// (servicios de dominio sin estado ni persistencia).
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// WeightedAverageCost calcula el costo promedio ponderado:
// Σ(cantidad × costo) / Σ(cantidad) sobre las entradas (OPENING, STOCK_IN)
// hasta el instante consultado. Los agregados los aporta el repositorio de
// movimientos; aquí solo vive la división.
//
// Sin entradas previas (denominador cero) el costo es desconocido: se devuelve
// domain.ErrCostUnavailable y el caller debe tratarlo como "sin dato", nunca
// como cero.
func WeightedAverageCost(totalQuantity int64, totalCost decimal.Decimal) (decimal.Decimal, error) {
	if totalQuantity <= 0 {
		return decimal.Decimal{}, domain.ErrCostUnavailable
	}
	return totalCost.Div(decimal.NewFromInt(totalQuantity)), nil
}

// LineRevenue calcula el ingreso de una línea de venta:
// cantidad × precio_unitario × (1 − descuento).
func LineRevenue(quantity int64, unitPrice, discount decimal.Decimal) decimal.Decimal {
	net := unitPrice.Mul(decimal.NewFromInt(1).Sub(discount))
	return decimal.NewFromInt(quantity).Mul(net)
}
