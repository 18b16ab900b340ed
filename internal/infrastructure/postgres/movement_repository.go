package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del kardex sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, movement_type, quantity, unit_cost, sale_price,
	stock_in_item_id, sale_item_id, movement_date, notes, created_at`

// Create persiste un movimiento del kardex.
func (r *MovementRepo) Create(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO inventory_movement (id, product_id, movement_type, quantity, unit_cost, sale_price,
			stock_in_item_id, sale_item_id, movement_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Kind, m.Quantity, m.UnitCost, m.SalePrice,
		m.ReceiptLineID, m.SaleLineID, m.MovementDate, m.Notes, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la línea ya tiene movimiento enlazado", domain.ErrDuplicate)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.UnitCost, &m.SalePrice,
		&m.ReceiptLineID, &m.SaleLineID, &m.MovementDate, &m.Notes, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movement WHERE id = $1`
	return scanMovement(r.q.QueryRow(context.Background(), query, id))
}

// GetByReceiptLine obtiene el movimiento enlazado a una línea de recepción.
func (r *MovementRepo) GetByReceiptLine(lineID string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movement WHERE stock_in_item_id = $1`
	return scanMovement(r.q.QueryRow(context.Background(), query, lineID))
}

// GetBySaleLine obtiene el movimiento enlazado a una línea de venta.
func (r *MovementRepo) GetBySaleLine(lineID string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movement WHERE sale_item_id = $1`
	return scanMovement(r.q.QueryRow(context.Background(), query, lineID))
}

// ReviseForReceiptLine actualiza el movimiento enlazado a la línea de
// recepción. Cero filas afectadas = invariante rota (ErrLedgerDesync).
func (r *MovementRepo) ReviseForReceiptLine(lineID, productID string, quantity int64, unitCost decimal.Decimal, date time.Time) error {
	query := `
		UPDATE inventory_movement
		SET product_id = $2, quantity = $3, unit_cost = $4, movement_date = $5
		WHERE stock_in_item_id = $1`
	tag, err := r.q.Exec(context.Background(), query, lineID, productID, quantity, unitCost, date)
	if err != nil {
		return fmt.Errorf("revise movement for receipt line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de recepción %s", domain.ErrLedgerDesync, lineID)
	}
	return nil
}

// ReviseForSaleLine actualiza el movimiento enlazado a la línea de venta
// (cantidad ya negada, precio neto).
func (r *MovementRepo) ReviseForSaleLine(lineID, productID string, quantity int64, salePrice decimal.Decimal, date time.Time) error {
	query := `
		UPDATE inventory_movement
		SET product_id = $2, quantity = $3, sale_price = $4, movement_date = $5
		WHERE sale_item_id = $1`
	tag, err := r.q.Exec(context.Background(), query, lineID, productID, quantity, salePrice, date)
	if err != nil {
		return fmt.Errorf("revise movement for sale line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de venta %s", domain.ErrLedgerDesync, lineID)
	}
	return nil
}

// RemoveForReceiptLine elimina el movimiento enlazado a una línea de recepción.
func (r *MovementRepo) RemoveForReceiptLine(lineID string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_movement WHERE stock_in_item_id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("remove movement for receipt line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de recepción %s", domain.ErrLedgerDesync, lineID)
	}
	return nil
}

// RemoveForSaleLine elimina el movimiento enlazado a una línea de venta.
func (r *MovementRepo) RemoveForSaleLine(lineID string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_movement WHERE sale_item_id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("remove movement for sale line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: línea de venta %s", domain.ErrLedgerDesync, lineID)
	}
	return nil
}

// DeleteAdjustment elimina un ajuste manual por ID. Solo ADJUSTMENT.
func (r *MovementRepo) DeleteAdjustment(id string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_movement WHERE id = $1 AND movement_type = $2`,
		id, entity.MovementAdjustment)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	existing, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: movimiento %s no es ADJUSTMENT", domain.ErrInvalidInput, id)
}

// SumByProduct devuelve Σ de cantidades con signo (stock disponible).
func (r *MovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM inventory_movement WHERE product_id = $1`,
		productID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum by product: %w", err)
	}
	return sum, nil
}

// SumByProductAsOf devuelve Σ de cantidades con signo hasta asOf inclusive.
func (r *MovementRepo) SumByProductAsOf(productID string, asOf time.Time) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM inventory_movement
		 WHERE product_id = $1 AND movement_date <= $2`,
		productID, asOf).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum by product as of: %w", err)
	}
	return sum, nil
}

// InboundTotalsAsOf devuelve los agregados de entradas (OPENING, STOCK_IN)
// hasta asOf inclusive: insumo del costo promedio ponderado.
func (r *MovementRepo) InboundTotalsAsOf(productID string, asOf time.Time) (repository.InboundTotals, error) {
	var t repository.InboundTotals
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_cost), 0)
		 FROM inventory_movement
		 WHERE product_id = $1 AND movement_type IN ($2, $3) AND movement_date <= $4`,
		productID, entity.MovementOpening, entity.MovementStockIn, asOf,
	).Scan(&t.Quantity, &t.TotalCost)
	if err != nil {
		return repository.InboundTotals{}, fmt.Errorf("inbound totals: %w", err)
	}
	return t, nil
}

// HasAnyForProduct indica si el producto tiene movimientos.
func (r *MovementRepo) HasAnyForProduct(productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM inventory_movement WHERE product_id = $1)`,
		productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has movements for product: %w", err)
	}
	return exists, nil
}

// List lista movimientos con filtros y paginación (más recientes primero).
func (r *MovementRepo) List(f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.ProductID != nil {
		where += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, *f.ProductID)
		pos++
	}
	if f.Kind != nil {
		where += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, *f.Kind)
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory_movement` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM inventory_movement` + where +
		fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.UnitCost, &m.SalePrice,
			&m.ReceiptLineID, &m.SaleLineID, &m.MovementDate, &m.Notes, &m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
