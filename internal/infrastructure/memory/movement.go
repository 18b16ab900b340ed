package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = movementRepo{}

// movementRepo adaptador del puerto del kardex.
type movementRepo struct {
	view
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	return &c
}

func (d *data) createMovement(m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if m.ReceiptLineID != nil && d.movementByReceiptLine(*m.ReceiptLineID) != nil {
		return fmt.Errorf("%w: la línea ya tiene movimiento enlazado", domain.ErrDuplicate)
	}
	if m.SaleLineID != nil && d.movementBySaleLine(*m.SaleLineID) != nil {
		return fmt.Errorf("%w: la línea ya tiene movimiento enlazado", domain.ErrDuplicate)
	}
	d.movements[m.ID] = cloneMovement(m)
	return nil
}

func (d *data) movementByReceiptLine(lineID string) *entity.Movement {
	for _, m := range d.movements {
		if m.ReceiptLineID != nil && *m.ReceiptLineID == lineID {
			return m
		}
	}
	return nil
}

func (d *data) movementBySaleLine(lineID string) *entity.Movement {
	for _, m := range d.movements {
		if m.SaleLineID != nil && *m.SaleLineID == lineID {
			return m
		}
	}
	return nil
}

func (r movementRepo) Create(m *entity.Movement) error {
	d, unlock := r.acquire()
	defer unlock()
	return d.createMovement(m)
}

func (r movementRepo) GetByID(id string) (*entity.Movement, error) {
	d, unlock := r.acquire()
	defer unlock()
	if m, ok := d.movements[id]; ok {
		return cloneMovement(m), nil
	}
	return nil, nil
}

func (r movementRepo) GetByReceiptLine(lineID string) (*entity.Movement, error) {
	d, unlock := r.acquire()
	defer unlock()
	if m := d.movementByReceiptLine(lineID); m != nil {
		return cloneMovement(m), nil
	}
	return nil, nil
}

func (r movementRepo) GetBySaleLine(lineID string) (*entity.Movement, error) {
	d, unlock := r.acquire()
	defer unlock()
	if m := d.movementBySaleLine(lineID); m != nil {
		return cloneMovement(m), nil
	}
	return nil, nil
}

func (r movementRepo) ReviseForReceiptLine(lineID, productID string, quantity int64, unitCost decimal.Decimal, date time.Time) error {
	d, unlock := r.acquire()
	defer unlock()
	m := d.movementByReceiptLine(lineID)
	if m == nil {
		return fmt.Errorf("%w: línea de recepción %s", domain.ErrLedgerDesync, lineID)
	}
	c := cloneMovement(m)
	c.ProductID = productID
	c.Quantity = quantity
	c.UnitCost = &unitCost
	c.MovementDate = date
	d.movements[c.ID] = c
	return nil
}

func (r movementRepo) ReviseForSaleLine(lineID, productID string, quantity int64, salePrice decimal.Decimal, date time.Time) error {
	d, unlock := r.acquire()
	defer unlock()
	m := d.movementBySaleLine(lineID)
	if m == nil {
		return fmt.Errorf("%w: línea de venta %s", domain.ErrLedgerDesync, lineID)
	}
	c := cloneMovement(m)
	c.ProductID = productID
	c.Quantity = quantity
	c.SalePrice = &salePrice
	c.MovementDate = date
	d.movements[c.ID] = c
	return nil
}

func (r movementRepo) RemoveForReceiptLine(lineID string) error {
	d, unlock := r.acquire()
	defer unlock()
	m := d.movementByReceiptLine(lineID)
	if m == nil {
		return fmt.Errorf("%w: línea de recepción %s", domain.ErrLedgerDesync, lineID)
	}
	delete(d.movements, m.ID)
	return nil
}

func (r movementRepo) RemoveForSaleLine(lineID string) error {
	d, unlock := r.acquire()
	defer unlock()
	m := d.movementBySaleLine(lineID)
	if m == nil {
		return fmt.Errorf("%w: línea de venta %s", domain.ErrLedgerDesync, lineID)
	}
	delete(d.movements, m.ID)
	return nil
}

func (r movementRepo) DeleteAdjustment(id string) error {
	d, unlock := r.acquire()
	defer unlock()
	m, ok := d.movements[id]
	if !ok {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	if m.Kind != entity.MovementAdjustment {
		return fmt.Errorf("%w: movimiento %s no es ADJUSTMENT", domain.ErrInvalidInput, id)
	}
	delete(d.movements, id)
	return nil
}

func (r movementRepo) SumByProduct(productID string) (int64, error) {
	d, unlock := r.acquire()
	defer unlock()
	var sum int64
	for _, m := range d.movements {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r movementRepo) SumByProductAsOf(productID string, asOf time.Time) (int64, error) {
	d, unlock := r.acquire()
	defer unlock()
	var sum int64
	for _, m := range d.movements {
		if m.ProductID == productID && !m.MovementDate.After(asOf) {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (d *data) inboundTotalsAsOf(productID string, asOf time.Time) repository.InboundTotals {
	var t repository.InboundTotals
	for _, m := range d.movements {
		if m.ProductID != productID || !entity.IsInbound(m.Kind) || m.MovementDate.After(asOf) {
			continue
		}
		t.Quantity += m.Quantity
		if m.UnitCost != nil {
			t.TotalCost = t.TotalCost.Add(decimal.NewFromInt(m.Quantity).Mul(*m.UnitCost))
		}
	}
	return t
}

func (r movementRepo) InboundTotalsAsOf(productID string, asOf time.Time) (repository.InboundTotals, error) {
	d, unlock := r.acquire()
	defer unlock()
	return d.inboundTotalsAsOf(productID, asOf), nil
}

func (r movementRepo) HasAnyForProduct(productID string) (bool, error) {
	d, unlock := r.acquire()
	defer unlock()
	for _, m := range d.movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r movementRepo) List(f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var all []*entity.Movement
	for _, m := range d.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Kind != nil && m.Kind != *f.Kind {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		all = append(all, cloneMovement(m))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].MovementDate.Equal(all[j].MovementDate) {
			return all[i].MovementDate.After(all[j].MovementDate)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	return paginate(all, limit, offset), total, nil
}
