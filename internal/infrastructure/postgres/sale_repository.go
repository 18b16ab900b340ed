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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de ventas sobre PostgreSQL (pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, sale_datetime, total_amount, payment_method, notes, created_at`

// Create persiste el encabezado de una venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO sale (id, sale_datetime, total_amount, payment_method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.SaleDatetime, s.TotalAmount, s.PaymentMethod, s.Notes, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.SaleDatetime, &s.TotalAmount, &s.PaymentMethod, &s.Notes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}
	return &s, nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sale WHERE id = $1`
	return scanSale(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la venta y bloquea la fila (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sale WHERE id = $1 FOR UPDATE`
	return scanSale(r.q.QueryRow(context.Background(), query, id))
}

// UpdateHeader actualiza fecha, método de pago y notas.
func (r *SaleRepo) UpdateHeader(s *entity.Sale) error {
	query := `UPDATE sale SET sale_datetime = $2, payment_method = $3, notes = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.SaleDatetime, s.PaymentMethod, s.Notes)
	if err != nil {
		return fmt.Errorf("update sale header: %w", err)
	}
	return nil
}

// AddToTotal ajusta el total derivado con un único UPDATE aditivo.
func (r *SaleRepo) AddToTotal(id string, delta decimal.Decimal) error {
	query := `UPDATE sale SET total_amount = total_amount + $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("add to sale total: %w", err)
	}
	return nil
}

// SetTotal fija el total (operación de reparación).
func (r *SaleRepo) SetTotal(id string, total decimal.Decimal) error {
	query := `UPDATE sale SET total_amount = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, total)
	if err != nil {
		return fmt.Errorf("set sale total: %w", err)
	}
	return nil
}

// Delete elimina el encabezado (las líneas ya deben haber caído en la misma tx).
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// List lista ventas con filtros y paginación (más recientes primero).
func (r *SaleRepo) List(f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.Search != nil {
		where += fmt.Sprintf(" AND notes ILIKE $%d", pos)
		args = append(args, "%"+*f.Search+"%")
		pos++
	}
	if f.PaymentMethod != nil {
		where += fmt.Sprintf(" AND payment_method = $%d", pos)
		args = append(args, *f.PaymentMethod)
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND sale_datetime >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND sale_datetime <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM sale`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `SELECT ` + saleColumns + ` FROM sale` + where +
		fmt.Sprintf(" ORDER BY sale_datetime DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.SaleDatetime, &s.TotalAmount, &s.PaymentMethod, &s.Notes, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(l *entity.SaleLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_item (id, sale_id, product_id, quantity, unit_price, discount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.Discount)
	if err != nil {
		return fmt.Errorf("create sale line: %w", err)
	}
	return nil
}

// GetLine obtiene una línea por ID.
func (r *SaleRepo) GetLine(lineID string) (*entity.SaleLine, error) {
	query := `SELECT id, sale_id, product_id, quantity, unit_price, discount FROM sale_item WHERE id = $1`
	var l entity.SaleLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Discount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale line: %w", err)
	}
	return &l, nil
}

// UpdateLine actualiza producto, cantidad, precio y descuento de una línea.
func (r *SaleRepo) UpdateLine(l *entity.SaleLine) error {
	query := `UPDATE sale_item SET product_id = $2, quantity = $3, unit_price = $4, discount = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, l.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Discount)
	if err != nil {
		return fmt.Errorf("update sale line: %w", err)
	}
	return nil
}

// DeleteLine elimina una línea por ID.
func (r *SaleRepo) DeleteLine(lineID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_item WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete sale line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una venta.
func (r *SaleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	query := `SELECT id, sale_id, product_id, quantity, unit_price, discount
		FROM sale_item WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Discount); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// SumLines recalcula Σ(cantidad × precio × (1 − descuento)) desde las líneas.
func (r *SaleRepo) SumLines(saleID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity * unit_price * (1 - discount)), 0) FROM sale_item WHERE sale_id = $1`,
		saleID).Scan(&sum)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("sum sale lines: %w", err)
	}
	return sum, nil
}
