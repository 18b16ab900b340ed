package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación de las proyecciones de solo lectura. El stock y el
// costo promedio se recalculan desde el kardex en cada consulta: ninguna tabla
// materializa saldos.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// stockLevelBase deriva stock_on_hand como Σ de cantidades con signo del
// kardex por producto.
const stockLevelBase = `
	SELECT p.id, p.name, p.sku, c.name AS category_name, p.price, p.reorder_level,
		COALESCE(m.stock, 0) AS stock_on_hand
	FROM product p
	LEFT JOIN category c ON c.id = p.category_id
	LEFT JOIN (
		SELECT product_id, SUM(quantity) AS stock
		FROM inventory_movement
		GROUP BY product_id
	) m ON m.product_id = p.id`

// StockLevels devuelve la proyección de stock con filtros y paginación.
func (r *ReportRepo) StockLevels(f repository.StockLevelFilter, limit, offset int) ([]*repository.StockLevelRow, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.Search != nil {
		where += fmt.Sprintf(" AND (s.name ILIKE $%d OR s.sku ILIKE $%d)", pos, pos)
		args = append(args, "%"+*f.Search+"%")
		pos++
	}
	if f.Restock != nil {
		if *f.Restock {
			where += " AND s.stock_on_hand <= s.reorder_level"
		} else {
			where += " AND s.stock_on_hand > s.reorder_level"
		}
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM (` + stockLevelBase + `) s` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock levels: %w", err)
	}

	query := `SELECT s.id, s.name, s.sku, s.category_name, s.price, s.reorder_level, s.stock_on_hand
		FROM (` + stockLevelBase + `) s` + where +
		fmt.Sprintf(" ORDER BY s.name LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()

	var list []*repository.StockLevelRow
	for rows.Next() {
		var row repository.StockLevelRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.SKU, &row.CategoryName,
			&row.Price, &row.ReorderLevel, &row.StockOnHand); err != nil {
			return nil, 0, fmt.Errorf("scan stock level: %w", err)
		}
		row.NeedsRestock = row.StockOnHand <= row.ReorderLevel
		list = append(list, &row)
	}
	return list, total, rows.Err()
}

// StockSummary devuelve los agregados de la proyección de stock.
func (r *ReportRepo) StockSummary(restockOnly bool) (*repository.StockSummary, error) {
	where := ""
	if restockOnly {
		where = " WHERE s.stock_on_hand <= s.reorder_level"
	}
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(s.stock_on_hand * s.price), 0),
			COALESCE(SUM(CASE WHEN s.stock_on_hand <= s.reorder_level THEN 1 ELSE 0 END), 0)
		FROM (` + stockLevelBase + `) s` + where

	var sum repository.StockSummary
	err := r.q.QueryRow(context.Background(), query).Scan(
		&sum.TotalProducts, &sum.TotalStockValue, &sum.ProductsNeedingRestock)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	if sum.TotalProducts > 0 {
		pct := float64(sum.ProductsNeedingRestock) / float64(sum.TotalProducts) * 100
		sum.RestockPercentage = math.Round(pct*100) / 100
	}
	return &sum, nil
}

// profitabilityBase calcula por línea de venta el costo promedio ponderado al
// instante de la venta. El LATERAL agrega las entradas (OPENING, STOCK_IN)
// con movement_date <= la fecha de la venta; cantidad cero => costo NULL
// (desconocido, nunca cero).
const profitabilityBase = `
	SELECT si.id AS line_id, si.sale_id, s.sale_datetime, si.product_id, p.name AS product_name,
		si.quantity, si.unit_price, si.discount,
		(si.quantity * si.unit_price * (1 - si.discount)) AS total_revenue,
		w.avg_cost
	FROM sale_item si
	JOIN sale s ON s.id = si.sale_id
	JOIN product p ON p.id = si.product_id
	LEFT JOIN LATERAL (
		SELECT SUM(im.quantity * im.unit_cost) / NULLIF(SUM(im.quantity), 0) AS avg_cost
		FROM inventory_movement im
		WHERE im.product_id = si.product_id
			AND im.movement_type IN ('OPENING', 'STOCK_IN')
			AND im.movement_date <= s.sale_datetime
	) w ON true`

// Profitability devuelve la proyección de rentabilidad por línea de venta.
func (r *ReportRepo) Profitability(f repository.ProfitabilityFilter, limit, offset int) ([]*repository.ProfitabilityRow, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.Search != nil {
		where += fmt.Sprintf(" AND pr.product_name ILIKE $%d", pos)
		args = append(args, "%"+*f.Search+"%")
		pos++
	}
	if f.ProductID != nil {
		where += fmt.Sprintf(" AND pr.product_id = $%d", pos)
		args = append(args, *f.ProductID)
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND pr.sale_datetime >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND pr.sale_datetime <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM (` + profitabilityBase + `) pr` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profitability: %w", err)
	}

	query := `SELECT pr.line_id, pr.sale_id, pr.sale_datetime, pr.product_id, pr.product_name,
			pr.quantity, pr.unit_price, pr.discount, pr.total_revenue, pr.avg_cost
		FROM (` + profitabilityBase + `) pr` + where +
		fmt.Sprintf(" ORDER BY pr.sale_datetime DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("profitability: %w", err)
	}
	defer rows.Close()

	var list []*repository.ProfitabilityRow
	for rows.Next() {
		var row repository.ProfitabilityRow
		if err := rows.Scan(&row.SaleLineID, &row.SaleID, &row.SaleDatetime,
			&row.ProductID, &row.ProductName, &row.Quantity, &row.UnitPrice,
			&row.Discount, &row.TotalRevenue, &row.AverageCost); err != nil {
			return nil, 0, fmt.Errorf("scan profitability: %w", err)
		}
		if row.AverageCost != nil {
			cogs := row.AverageCost.Mul(decimal.NewFromInt(row.Quantity))
			profit := row.TotalRevenue.Sub(cogs)
			row.TotalCOGS = &cogs
			row.GrossProfit = &profit
		}
		list = append(list, &row)
	}
	return list, total, rows.Err()
}

// ProfitabilitySummary devuelve los agregados de rentabilidad y el top de
// productos por utilidad. Las líneas con costo desconocido aportan solo
// revenue: su COGS y utilidad se excluyen de las sumas.
func (r *ReportRepo) ProfitabilitySummary(from, to *time.Time) (*repository.ProfitabilitySummary, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if from != nil {
		where += fmt.Sprintf(" AND pr.sale_datetime >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		where += fmt.Sprintf(" AND pr.sale_datetime <= $%d", pos)
		args = append(args, *to)
		pos++
	}

	query := `
		SELECT COUNT(*),
			COALESCE(SUM(pr.total_revenue), 0),
			COALESCE(SUM(pr.avg_cost * pr.quantity), 0),
			COALESCE(SUM(pr.total_revenue - pr.avg_cost * pr.quantity), 0)
		FROM (` + profitabilityBase + `) pr` + where

	var sum repository.ProfitabilitySummary
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&sum.TotalLines, &sum.TotalRevenue, &sum.TotalCOGS, &sum.TotalGrossProfit)
	if err != nil {
		return nil, fmt.Errorf("profitability summary: %w", err)
	}
	if sum.TotalRevenue.IsPositive() {
		margin, _ := sum.TotalGrossProfit.Div(sum.TotalRevenue).Mul(decimal.NewFromInt(100)).Float64()
		sum.AvgProfitMargin = math.Round(margin*100) / 100
	}

	topQuery := `
		SELECT pr.product_name, SUM(pr.total_revenue - pr.avg_cost * pr.quantity) AS profit
		FROM (` + profitabilityBase + `) pr` + where + `
			AND pr.avg_cost IS NOT NULL
		GROUP BY pr.product_name
		ORDER BY profit DESC
		LIMIT 3`
	rows, err := r.q.Query(context.Background(), topQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p repository.ProductProfit
		if err := rows.Scan(&p.Name, &p.TotalProfit); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		sum.TopProducts = append(sum.TopProducts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &sum, nil
}
