package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.SaleRepository = saleRepo{}

// saleRepo adaptador del puerto de ventas.
type saleRepo struct {
	view
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	return &c
}

func cloneSaleLine(l *entity.SaleLine) *entity.SaleLine {
	c := *l
	return &c
}

func (r saleRepo) Create(s *entity.Sale) error {
	d, unlock := r.acquire()
	defer unlock()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	d.sales[s.ID] = cloneSale(s)
	return nil
}

func (r saleRepo) GetByID(id string) (*entity.Sale, error) {
	d, unlock := r.acquire()
	defer unlock()
	if s, ok := d.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las
// transacciones con el mutex del almacén.
func (r saleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r saleRepo) UpdateHeader(s *entity.Sale) error {
	d, unlock := r.acquire()
	defer unlock()
	stored, ok := d.sales[s.ID]
	if !ok {
		return nil
	}
	c := cloneSale(stored)
	c.SaleDatetime = s.SaleDatetime
	c.PaymentMethod = s.PaymentMethod
	c.Notes = s.Notes
	d.sales[c.ID] = c
	return nil
}

func (r saleRepo) AddToTotal(id string, delta decimal.Decimal) error {
	d, unlock := r.acquire()
	defer unlock()
	stored, ok := d.sales[id]
	if !ok {
		return nil
	}
	c := cloneSale(stored)
	c.TotalAmount = c.TotalAmount.Add(delta)
	d.sales[c.ID] = c
	return nil
}

func (r saleRepo) SetTotal(id string, total decimal.Decimal) error {
	d, unlock := r.acquire()
	defer unlock()
	stored, ok := d.sales[id]
	if !ok {
		return nil
	}
	c := cloneSale(stored)
	c.TotalAmount = total
	d.sales[c.ID] = c
	return nil
}

func (r saleRepo) Delete(id string) error {
	d, unlock := r.acquire()
	defer unlock()
	delete(d.sales, id)
	return nil
}

func (r saleRepo) List(f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var all []*entity.Sale
	for _, s := range d.sales {
		if f.Search != nil && !containsFold(s.Notes, *f.Search) {
			continue
		}
		if f.PaymentMethod != nil && s.PaymentMethod != *f.PaymentMethod {
			continue
		}
		if f.From != nil && s.SaleDatetime.Before(*f.From) {
			continue
		}
		if f.To != nil && s.SaleDatetime.After(*f.To) {
			continue
		}
		all = append(all, cloneSale(s))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].SaleDatetime.Equal(all[j].SaleDatetime) {
			return all[i].SaleDatetime.After(all[j].SaleDatetime)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	return paginate(all, limit, offset), total, nil
}

func (r saleRepo) CreateLine(l *entity.SaleLine) error {
	d, unlock := r.acquire()
	defer unlock()
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	d.saleLines[l.ID] = cloneSaleLine(l)
	return nil
}

func (r saleRepo) GetLine(lineID string) (*entity.SaleLine, error) {
	d, unlock := r.acquire()
	defer unlock()
	if l, ok := d.saleLines[lineID]; ok {
		return cloneSaleLine(l), nil
	}
	return nil, nil
}

func (r saleRepo) UpdateLine(l *entity.SaleLine) error {
	d, unlock := r.acquire()
	defer unlock()
	if _, ok := d.saleLines[l.ID]; !ok {
		return nil
	}
	d.saleLines[l.ID] = cloneSaleLine(l)
	return nil
}

func (r saleRepo) DeleteLine(lineID string) error {
	d, unlock := r.acquire()
	defer unlock()
	delete(d.saleLines, lineID)
	return nil
}

func (r saleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	d, unlock := r.acquire()
	defer unlock()
	var list []*entity.SaleLine
	for _, l := range d.saleLines {
		if l.SaleID == saleID {
			list = append(list, cloneSaleLine(l))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r saleRepo) SumLines(saleID string) (decimal.Decimal, error) {
	d, unlock := r.acquire()
	defer unlock()
	sum := decimal.Zero
	for _, l := range d.saleLines {
		if l.SaleID == saleID {
			sum = sum.Add(l.Amount())
		}
	}
	return sum, nil
}
