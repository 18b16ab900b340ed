package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// StockLevelDTO fila del reporte de stock.
type StockLevelDTO struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	SKU          *string         `json:"sku,omitempty"`
	CategoryName *string         `json:"category_name,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ReorderLevel int64           `json:"reorder_level"`
	StockOnHand  int64           `json:"stock_on_hand"`
	NeedsRestock bool            `json:"needs_restock"`
}

// StockSummaryDTO resumen del reporte de stock.
type StockSummaryDTO struct {
	TotalProducts          int             `json:"total_products"`
	TotalStockValue        decimal.Decimal `json:"total_stock_value"`
	ProductsNeedingRestock int             `json:"products_needing_restock"`
	RestockPercentage      float64         `json:"restock_percentage"`
}

// ProfitabilityRowDTO fila del reporte de rentabilidad por línea de venta.
// Los campos de costo son nil cuando el costo promedio es desconocido
// (sin entradas previas a la venta): se expone como dato faltante, nunca cero.
type ProfitabilityRowDTO struct {
	SaleLineID        string           `json:"sale_item_id"`
	SaleID            string           `json:"sale_id"`
	SaleDatetime      time.Time        `json:"sale_datetime"`
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	Quantity          int64            `json:"quantity"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	Discount          decimal.Decimal  `json:"discount"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	AverageCostAtSale *decimal.Decimal `json:"average_cost_at_sale"`
	TotalCOGS         *decimal.Decimal `json:"total_cogs"`
	GrossProfit       *decimal.Decimal `json:"gross_profit"`
}

// ProductProfitDTO producto del top de rentabilidad.
type ProductProfitDTO struct {
	Name        string          `json:"name"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// ProfitabilitySummaryDTO resumen del reporte de rentabilidad.
type ProfitabilitySummaryDTO struct {
	TotalLines       int                `json:"total_sales"`
	TotalRevenue     decimal.Decimal    `json:"total_revenue"`
	TotalCOGS        decimal.Decimal    `json:"total_cogs"`
	TotalGrossProfit decimal.Decimal    `json:"total_gross_profit"`
	AvgProfitMargin  float64            `json:"average_profit_margin"`
	TopProducts      []ProductProfitDTO `json:"top_profitable_products"`
}

// NewStockLevelDTO convierte la fila del repositorio a DTO.
func NewStockLevelDTO(r *repository.StockLevelRow) StockLevelDTO {
	return StockLevelDTO{
		ProductID:    r.ProductID,
		Name:         r.Name,
		SKU:          r.SKU,
		CategoryName: r.CategoryName,
		Price:        r.Price,
		ReorderLevel: r.ReorderLevel,
		StockOnHand:  r.StockOnHand,
		NeedsRestock: r.NeedsRestock,
	}
}

// NewProfitabilityRowDTO convierte la fila del repositorio a DTO.
func NewProfitabilityRowDTO(r *repository.ProfitabilityRow) ProfitabilityRowDTO {
	return ProfitabilityRowDTO{
		SaleLineID:        r.SaleLineID,
		SaleID:            r.SaleID,
		SaleDatetime:      r.SaleDatetime,
		ProductID:         r.ProductID,
		ProductName:       r.ProductName,
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		Discount:          r.Discount,
		TotalRevenue:      r.TotalRevenue,
		AverageCostAtSale: r.AverageCost,
		TotalCOGS:         r.TotalCOGS,
		GrossProfit:       r.GrossProfit,
	}
}
