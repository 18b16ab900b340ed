package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = receiptRepo{}

// receiptRepo adaptador del puerto de recepciones.
type receiptRepo struct {
	view
}

func cloneReceipt(r *entity.StockReceipt) *entity.StockReceipt {
	c := *r
	return &c
}

func cloneReceiptLine(l *entity.StockReceiptLine) *entity.StockReceiptLine {
	c := *l
	return &c
}

func (r receiptRepo) Create(rec *entity.StockReceipt) error {
	d, unlock := r.acquire()
	defer unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	d.receipts[rec.ID] = cloneReceipt(rec)
	return nil
}

func (r receiptRepo) GetByID(id string) (*entity.StockReceipt, error) {
	d, unlock := r.acquire()
	defer unlock()
	if rec, ok := d.receipts[id]; ok {
		return cloneReceipt(rec), nil
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las
// transacciones con el mutex del almacén.
func (r receiptRepo) GetForUpdate(id string) (*entity.StockReceipt, error) {
	return r.GetByID(id)
}

func (r receiptRepo) UpdateHeader(rec *entity.StockReceipt) error {
	d, unlock := r.acquire()
	defer unlock()
	stored, ok := d.receipts[rec.ID]
	if !ok {
		return nil
	}
	c := cloneReceipt(stored)
	c.RefNo = rec.RefNo
	c.ReceiptDate = rec.ReceiptDate
	c.Notes = rec.Notes
	d.receipts[c.ID] = c
	return nil
}

func (r receiptRepo) AddToTotal(id string, delta decimal.Decimal) error {
	d, unlock := r.acquire()
	defer unlock()
	stored, ok := d.receipts[id]
	if !ok {
		return nil
	}
	c := cloneReceipt(stored)
	c.TotalCost = c.TotalCost.Add(delta)
	d.receipts[c.ID] = c
	return nil
}

func (r receiptRepo) SetTotal(id string, total decimal.Decimal) error {
	d, unlock := r.acquire()
	defer unlock()
	stored, ok := d.receipts[id]
	if !ok {
		return nil
	}
	c := cloneReceipt(stored)
	c.TotalCost = total
	d.receipts[c.ID] = c
	return nil
}

func (r receiptRepo) Delete(id string) error {
	d, unlock := r.acquire()
	defer unlock()
	delete(d.receipts, id)
	return nil
}

func (r receiptRepo) List(f repository.ReceiptFilter, limit, offset int) ([]*entity.StockReceipt, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var all []*entity.StockReceipt
	for _, rec := range d.receipts {
		if f.Search != nil {
			refNo := ""
			if rec.RefNo != nil {
				refNo = *rec.RefNo
			}
			if !containsFold(refNo, *f.Search) && !containsFold(rec.Notes, *f.Search) {
				continue
			}
		}
		if f.From != nil && rec.ReceiptDate.Before(*f.From) {
			continue
		}
		if f.To != nil && rec.ReceiptDate.After(*f.To) {
			continue
		}
		all = append(all, cloneReceipt(rec))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ReceiptDate.Equal(all[j].ReceiptDate) {
			return all[i].ReceiptDate.After(all[j].ReceiptDate)
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	total := len(all)
	return paginate(all, limit, offset), total, nil
}

func (r receiptRepo) CreateLine(l *entity.StockReceiptLine) error {
	d, unlock := r.acquire()
	defer unlock()
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	d.recLines[l.ID] = cloneReceiptLine(l)
	return nil
}

func (r receiptRepo) GetLine(lineID string) (*entity.StockReceiptLine, error) {
	d, unlock := r.acquire()
	defer unlock()
	if l, ok := d.recLines[lineID]; ok {
		return cloneReceiptLine(l), nil
	}
	return nil, nil
}

func (r receiptRepo) UpdateLine(l *entity.StockReceiptLine) error {
	d, unlock := r.acquire()
	defer unlock()
	if _, ok := d.recLines[l.ID]; !ok {
		return nil
	}
	d.recLines[l.ID] = cloneReceiptLine(l)
	return nil
}

func (r receiptRepo) DeleteLine(lineID string) error {
	d, unlock := r.acquire()
	defer unlock()
	delete(d.recLines, lineID)
	return nil
}

func (r receiptRepo) ListLines(receiptID string) ([]*entity.StockReceiptLine, error) {
	d, unlock := r.acquire()
	defer unlock()
	var list []*entity.StockReceiptLine
	for _, l := range d.recLines {
		if l.ReceiptID == receiptID {
			list = append(list, cloneReceiptLine(l))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r receiptRepo) LineExists(receiptID, productID, excludeLineID string) (bool, error) {
	d, unlock := r.acquire()
	defer unlock()
	for _, l := range d.recLines {
		if l.ReceiptID == receiptID && l.ProductID == productID && l.ID != excludeLineID {
			return true, nil
		}
	}
	return false, nil
}

func (r receiptRepo) SumLines(receiptID string) (decimal.Decimal, error) {
	d, unlock := r.acquire()
	defer unlock()
	sum := decimal.Zero
	for _, l := range d.recLines {
		if l.ReceiptID == receiptID {
			sum = sum.Add(l.Amount())
		}
	}
	return sum, nil
}
