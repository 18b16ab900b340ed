// Package memory implementa los puertos del dominio sobre mapas en memoria.
// Sirve para el modo desarrollo (sin PostgreSQL) y para las pruebas de los
// casos de uso. Las semánticas replican a las del adaptador PostgreSQL:
// clones al leer y escribir, snapshot/rollback en las transacciones.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// data contiene el estado y toda la lógica de los repositorios. Sus métodos
// no toman el lock: los adaptadores públicos lo envuelven con el mutex y Run
// los expone a la transacción con el lock ya tomado.
type data struct {
	categories map[string]*entity.Category
	products   map[string]*entity.Product
	receipts   map[string]*entity.StockReceipt
	recLines   map[string]*entity.StockReceiptLine
	sales      map[string]*entity.Sale
	saleLines  map[string]*entity.SaleLine
	movements  map[string]*entity.Movement
}

func newData() *data {
	return &data{
		categories: map[string]*entity.Category{},
		products:   map[string]*entity.Product{},
		receipts:   map[string]*entity.StockReceipt{},
		recLines:   map[string]*entity.StockReceiptLine{},
		sales:      map[string]*entity.Sale{},
		saleLines:  map[string]*entity.SaleLine{},
		movements:  map[string]*entity.Movement{},
	}
}

// snapshot copia superficial de los mapas. Los valores almacenados nunca se
// mutan en sitio (siempre se reemplazan por clones), así que basta con copiar
// los mapas para poder restaurar.
func (d *data) snapshot() *data {
	s := newData()
	for k, v := range d.categories {
		s.categories[k] = v
	}
	for k, v := range d.products {
		s.products[k] = v
	}
	for k, v := range d.receipts {
		s.receipts[k] = v
	}
	for k, v := range d.recLines {
		s.recLines[k] = v
	}
	for k, v := range d.sales {
		s.sales[k] = v
	}
	for k, v := range d.saleLines {
		s.saleLines[k] = v
	}
	for k, v := range d.movements {
		s.movements[k] = v
	}
	return s
}

// Store es el almacén en memoria. Expone los puertos del dominio vía
// Movements/Receipts/Sales/Products/Categories/Reports e implementa
// ledger.TxRunner.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

var _ ledger.TxRunner = (*Store)(nil)

// view es la base de los adaptadores de puerto: con s != nil toma el lock y
// lee el estado vigente del almacén; con s == nil es una vista de transacción
// (el lock ya lo tiene Run) atada a d.
type view struct {
	s *Store
	d *data
}

func (v view) acquire() (*data, func()) {
	if v.s != nil {
		v.s.mu.Lock()
		return v.s.d, v.s.mu.Unlock
	}
	return v.d, func() {}
}

// Movements devuelve el puerto del kardex.
func (s *Store) Movements() repository.MovementRepository {
	return movementRepo{view{s: s}}
}

// Receipts devuelve el puerto de recepciones.
func (s *Store) Receipts() repository.ReceiptRepository {
	return receiptRepo{view{s: s}}
}

// Sales devuelve el puerto de ventas.
func (s *Store) Sales() repository.SaleRepository {
	return saleRepo{view{s: s}}
}

// Products devuelve el puerto del catálogo de productos.
func (s *Store) Products() repository.ProductRepository {
	return productRepo{view{s: s}}
}

// Categories devuelve el puerto de categorías.
func (s *Store) Categories() repository.CategoryRepository {
	return categoryRepo{view{s: s}}
}

// Reports devuelve el puerto de proyecciones de solo lectura.
func (s *Store) Reports() repository.ReportRepository {
	return reportRepo{view{s: s}}
}

// Run ejecuta fn bajo el lock del almacén con vistas sin lock. Si fn falla,
// restaura el snapshot previo: ninguna mutación queda a medio aplicar.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	receiptRepo repository.ReceiptRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.d.snapshot()
	tx := view{d: s.d}
	err := fn(movementRepo{tx}, receiptRepo{tx}, saleRepo{tx}, productRepo{tx})
	if err != nil {
		s.d = before
		return err
	}
	return nil
}

// paginate recorta la página [offset, offset+limit) de la lista ordenada.
func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// containsFold búsqueda insensible a mayúsculas (equivalente a ILIKE '%…%').
func containsFold(value, needle string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}
