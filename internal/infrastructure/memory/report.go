package memory

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReportRepository = reportRepo{}

// reportRepo adaptador de las proyecciones de solo lectura. Recalcula stock y
// costo promedio desde el kardex en cada consulta, igual que el adaptador
// PostgreSQL.
type reportRepo struct {
	view
}

func (d *data) stockLevelRows() []*repository.StockLevelRow {
	var rows []*repository.StockLevelRow
	for _, p := range d.products {
		row := &repository.StockLevelRow{
			ProductID:    p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			Price:        p.Price,
			ReorderLevel: p.ReorderLevel,
		}
		if p.CategoryID != nil {
			if c, ok := d.categories[*p.CategoryID]; ok {
				name := c.Name
				row.CategoryName = &name
			}
		}
		for _, m := range d.movements {
			if m.ProductID == p.ID {
				row.StockOnHand += m.Quantity
			}
		}
		row.NeedsRestock = row.StockOnHand <= row.ReorderLevel
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func (r reportRepo) StockLevels(f repository.StockLevelFilter, limit, offset int) ([]*repository.StockLevelRow, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var rows []*repository.StockLevelRow
	for _, row := range d.stockLevelRows() {
		if f.Search != nil {
			sku := ""
			if row.SKU != nil {
				sku = *row.SKU
			}
			if !containsFold(row.Name, *f.Search) && !containsFold(sku, *f.Search) {
				continue
			}
		}
		if f.Restock != nil && row.NeedsRestock != *f.Restock {
			continue
		}
		rows = append(rows, row)
	}
	total := len(rows)
	return paginate(rows, limit, offset), total, nil
}

func (r reportRepo) StockSummary(restockOnly bool) (*repository.StockSummary, error) {
	d, unlock := r.acquire()
	defer unlock()
	sum := &repository.StockSummary{TotalStockValue: decimal.Zero}
	for _, row := range d.stockLevelRows() {
		if restockOnly && !row.NeedsRestock {
			continue
		}
		sum.TotalProducts++
		sum.TotalStockValue = sum.TotalStockValue.Add(decimal.NewFromInt(row.StockOnHand).Mul(row.Price))
		if row.NeedsRestock {
			sum.ProductsNeedingRestock++
		}
	}
	if sum.TotalProducts > 0 {
		pct := float64(sum.ProductsNeedingRestock) / float64(sum.TotalProducts) * 100
		sum.RestockPercentage = math.Round(pct*100) / 100
	}
	return sum, nil
}

func (d *data) profitabilityRows() []*repository.ProfitabilityRow {
	var rows []*repository.ProfitabilityRow
	for _, l := range d.saleLines {
		sale, ok := d.sales[l.SaleID]
		if !ok {
			continue
		}
		product, ok := d.products[l.ProductID]
		if !ok {
			continue
		}
		row := &repository.ProfitabilityRow{
			SaleLineID:   l.ID,
			SaleID:       l.SaleID,
			SaleDatetime: sale.SaleDatetime,
			ProductID:    l.ProductID,
			ProductName:  product.Name,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount,
			TotalRevenue: l.Amount(),
		}
		t := d.inboundTotalsAsOf(l.ProductID, sale.SaleDatetime)
		if avg, err := inventory.WeightedAverageCost(t.Quantity, t.TotalCost); err == nil {
			cogs := avg.Mul(decimal.NewFromInt(l.Quantity))
			profit := row.TotalRevenue.Sub(cogs)
			row.AverageCost = &avg
			row.TotalCOGS = &cogs
			row.GrossProfit = &profit
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].SaleDatetime.Equal(rows[j].SaleDatetime) {
			return rows[i].SaleDatetime.After(rows[j].SaleDatetime)
		}
		return rows[i].SaleLineID < rows[j].SaleLineID
	})
	return rows
}

func (r reportRepo) Profitability(f repository.ProfitabilityFilter, limit, offset int) ([]*repository.ProfitabilityRow, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var rows []*repository.ProfitabilityRow
	for _, row := range d.profitabilityRows() {
		if f.Search != nil && !containsFold(row.ProductName, *f.Search) {
			continue
		}
		if f.ProductID != nil && row.ProductID != *f.ProductID {
			continue
		}
		if f.From != nil && row.SaleDatetime.Before(*f.From) {
			continue
		}
		if f.To != nil && row.SaleDatetime.After(*f.To) {
			continue
		}
		rows = append(rows, row)
	}
	total := len(rows)
	return paginate(rows, limit, offset), total, nil
}

func (r reportRepo) ProfitabilitySummary(from, to *time.Time) (*repository.ProfitabilitySummary, error) {
	d, unlock := r.acquire()
	defer unlock()
	sum := &repository.ProfitabilitySummary{
		TotalRevenue:     decimal.Zero,
		TotalCOGS:        decimal.Zero,
		TotalGrossProfit: decimal.Zero,
	}
	byProduct := map[string]decimal.Decimal{}
	for _, row := range d.profitabilityRows() {
		if from != nil && row.SaleDatetime.Before(*from) {
			continue
		}
		if to != nil && row.SaleDatetime.After(*to) {
			continue
		}
		sum.TotalLines++
		sum.TotalRevenue = sum.TotalRevenue.Add(row.TotalRevenue)
		if row.GrossProfit != nil {
			sum.TotalCOGS = sum.TotalCOGS.Add(*row.TotalCOGS)
			sum.TotalGrossProfit = sum.TotalGrossProfit.Add(*row.GrossProfit)
			byProduct[row.ProductName] = byProduct[row.ProductName].Add(*row.GrossProfit)
		}
	}
	if sum.TotalRevenue.IsPositive() {
		margin, _ := sum.TotalGrossProfit.Div(sum.TotalRevenue).Mul(decimal.NewFromInt(100)).Float64()
		sum.AvgProfitMargin = math.Round(margin*100) / 100
	}
	var top []repository.ProductProfit
	for name, profit := range byProduct {
		top = append(top, repository.ProductProfit{Name: name, TotalProfit: profit})
	}
	sort.Slice(top, func(i, j int) bool {
		if !top[i].TotalProfit.Equal(top[j].TotalProfit) {
			return top[i].TotalProfit.GreaterThan(top[j].TotalProfit)
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > 3 {
		top = top[:3]
	}
	sum.TopProducts = top
	return sum, nil
}
