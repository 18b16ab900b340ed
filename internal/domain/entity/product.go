package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (datos maestros).
// El stock nunca se materializa aquí: siempre se deriva del kardex de movimientos.
type Product struct {
	ID           string
	Name         string
	CategoryID   *string         // nil = sin categoría
	SKU          *string         // código único opcional
	Price        decimal.Decimal // precio de venta sugerido
	ReorderLevel int64           // punto de reorden para alertas de reposición
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
