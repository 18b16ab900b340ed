package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelRow fila de la proyección de stock: el stock disponible es
// siempre Σ de cantidades con signo del kardex, nunca un saldo materializado.
type StockLevelRow struct {
	ProductID    string
	Name         string
	SKU          *string
	CategoryName *string
	Price        decimal.Decimal
	ReorderLevel int64
	StockOnHand  int64
	NeedsRestock bool // StockOnHand <= ReorderLevel
}

// StockLevelFilter filtros de la proyección de stock.
type StockLevelFilter struct {
	Search *string
	// Restock: nil = todos, true = solo bajo reorden, false = solo sobre reorden.
	Restock *bool
}

// StockSummary resumen de la proyección de stock.
type StockSummary struct {
	TotalProducts          int
	TotalStockValue        decimal.Decimal // Σ(stock × precio) dentro del alcance
	ProductsNeedingRestock int
	RestockPercentage      float64
}

// ProfitabilityRow fila de la proyección de rentabilidad por línea de venta.
// AverageCost/TotalCOGS/GrossProfit son nil cuando no hay entradas previas a
// la venta (costo desconocido, no cero).
type ProfitabilityRow struct {
	SaleLineID   string
	SaleID       string
	SaleDatetime time.Time
	ProductID    string
	ProductName  string
	Quantity     int64
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	TotalRevenue decimal.Decimal
	AverageCost  *decimal.Decimal // costo promedio ponderado al instante de la venta
	TotalCOGS    *decimal.Decimal
	GrossProfit  *decimal.Decimal
}

// ProfitabilityFilter filtros de la proyección de rentabilidad.
type ProfitabilityFilter struct {
	Search    *string // nombre de producto
	ProductID *string
	From      *time.Time
	To        *time.Time
}

// ProductProfit utilidad acumulada por producto (para el top del resumen).
type ProductProfit struct {
	Name        string
	TotalProfit decimal.Decimal
}

// ProfitabilitySummary resumen agregado de rentabilidad. Las líneas con costo
// desconocido aportan solo revenue (su COGS/profit se excluye de las sumas).
type ProfitabilitySummary struct {
	TotalLines       int
	TotalRevenue     decimal.Decimal
	TotalCOGS        decimal.Decimal
	TotalGrossProfit decimal.Decimal
	AvgProfitMargin  float64 // % = profit/revenue*100, redondeado a 2 decimales
	TopProducts      []ProductProfit
}

// ReportRepository define las consultas de solo lectura de las dos
// proyecciones. Las implementaciones no modifican datos y deben leer un
// estado consistente (nunca una mutación a medio aplicar).
type ReportRepository interface {
	StockLevels(f StockLevelFilter, limit, offset int) ([]*StockLevelRow, int, error)
	StockSummary(restockOnly bool) (*StockSummary, error)
	Profitability(f ProfitabilityFilter, limit, offset int) ([]*ProfitabilityRow, int, error)
	ProfitabilitySummary(from, to *time.Time) (*ProfitabilitySummary, error)
}
