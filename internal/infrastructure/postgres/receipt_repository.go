package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de recepciones sobre PostgreSQL (pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `id, ref_no, stock_in_date, total_cost, is_opening, notes, created_at`

// Create persiste el encabezado de una recepción.
func (r *ReceiptRepo) Create(rec *entity.StockReceipt) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO stock_in (id, ref_no, stock_in_date, total_cost, is_opening, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.RefNo, rec.ReceiptDate, rec.TotalCost, rec.IsOpening, rec.Notes, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create receipt: %w", err)
	}
	return nil
}

func scanReceipt(row pgx.Row) (*entity.StockReceipt, error) {
	var rec entity.StockReceipt
	err := row.Scan(&rec.ID, &rec.RefNo, &rec.ReceiptDate, &rec.TotalCost,
		&rec.IsOpening, &rec.Notes, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan receipt: %w", err)
	}
	return &rec, nil
}

// GetByID obtiene una recepción por ID.
func (r *ReceiptRepo) GetByID(id string) (*entity.StockReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM stock_in WHERE id = $1`
	return scanReceipt(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la recepción y bloquea la fila (SELECT FOR UPDATE)
// para serializar mutaciones concurrentes de líneas del mismo encabezado.
func (r *ReceiptRepo) GetForUpdate(id string) (*entity.StockReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM stock_in WHERE id = $1 FOR UPDATE`
	return scanReceipt(r.q.QueryRow(context.Background(), query, id))
}

// UpdateHeader actualiza ref_no, fecha y notas del encabezado.
func (r *ReceiptRepo) UpdateHeader(rec *entity.StockReceipt) error {
	query := `UPDATE stock_in SET ref_no = $2, stock_in_date = $3, notes = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, rec.ID, rec.RefNo, rec.ReceiptDate, rec.Notes)
	if err != nil {
		return fmt.Errorf("update receipt header: %w", err)
	}
	return nil
}

// AddToTotal ajusta el total derivado con un único UPDATE aditivo
// (combinación sin conflictos bajo concurrencia).
func (r *ReceiptRepo) AddToTotal(id string, delta decimal.Decimal) error {
	query := `UPDATE stock_in SET total_cost = total_cost + $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("add to receipt total: %w", err)
	}
	return nil
}

// SetTotal fija el total (operación de reparación).
func (r *ReceiptRepo) SetTotal(id string, total decimal.Decimal) error {
	query := `UPDATE stock_in SET total_cost = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, total)
	if err != nil {
		return fmt.Errorf("set receipt total: %w", err)
	}
	return nil
}

// Delete elimina el encabezado (las líneas ya deben haber caído en la misma tx).
func (r *ReceiptRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_in WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	return nil
}

// List lista recepciones con filtros y paginación (más recientes primero).
func (r *ReceiptRepo) List(f repository.ReceiptFilter, limit, offset int) ([]*entity.StockReceipt, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.Search != nil {
		where += fmt.Sprintf(" AND (ref_no ILIKE $%d OR notes ILIKE $%d)", pos, pos)
		args = append(args, "%"+*f.Search+"%")
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND stock_in_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND stock_in_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM stock_in`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count receipts: %w", err)
	}

	query := `SELECT ` + receiptColumns + ` FROM stock_in` + where +
		fmt.Sprintf(" ORDER BY stock_in_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockReceipt
	for rows.Next() {
		var rec entity.StockReceipt
		if err := rows.Scan(&rec.ID, &rec.RefNo, &rec.ReceiptDate, &rec.TotalCost,
			&rec.IsOpening, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, &rec)
	}
	return list, total, rows.Err()
}

// CreateLine persiste una línea de recepción.
func (r *ReceiptRepo) CreateLine(l *entity.StockReceiptLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_in_item (id, stock_in_id, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, l.ID, l.ReceiptID, l.ProductID, l.Quantity, l.UnitCost)
	if err != nil {
		return fmt.Errorf("create receipt line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea por ID.
func (r *ReceiptRepo) GetLine(lineID string) (*entity.StockReceiptLine, error) {
	query := `SELECT id, stock_in_id, product_id, quantity, unit_cost FROM stock_in_item WHERE id = $1`
	var l entity.StockReceiptLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.ReceiptID, &l.ProductID, &l.Quantity, &l.UnitCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt line: %w", err)
	}
	return &l, nil
}

// UpdateLine actualiza producto, cantidad y costo de una línea.
func (r *ReceiptRepo) UpdateLine(l *entity.StockReceiptLine) error {
	query := `UPDATE stock_in_item SET product_id = $2, quantity = $3, unit_cost = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, l.ID, l.ProductID, l.Quantity, l.UnitCost)
	if err != nil {
		return fmt.Errorf("update receipt line: %w", err)
	}
	return nil
}

// DeleteLine elimina una línea por ID.
func (r *ReceiptRepo) DeleteLine(lineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_in_item WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete receipt line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una recepción.
func (r *ReceiptRepo) ListLines(receiptID string) ([]*entity.StockReceiptLine, error) {
	query := `SELECT id, stock_in_id, product_id, quantity, unit_cost
		FROM stock_in_item WHERE stock_in_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list receipt lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockReceiptLine
	for rows.Next() {
		var l entity.StockReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.ProductID, &l.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan receipt line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// LineExists verifica si ya hay una línea del producto en la recepción.
func (r *ReceiptRepo) LineExists(receiptID, productID, excludeLineID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM stock_in_item
		WHERE stock_in_id = $1 AND product_id = $2 AND ($3 = '' OR id <> $3))`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, receiptID, productID, excludeLineID).Scan(&exists); err != nil {
		return false, fmt.Errorf("receipt line exists: %w", err)
	}
	return exists, nil
}

// SumLines recalcula Σ(cantidad × costo) desde las líneas.
func (r *ReceiptRepo) SumLines(receiptID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity * unit_cost), 0) FROM stock_in_item WHERE stock_in_id = $1`,
		receiptID).Scan(&sum)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sum receipt lines: %w", err)
	}
	return sum, nil
}
