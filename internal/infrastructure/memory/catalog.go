package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = productRepo{}
	_ repository.CategoryRepository = categoryRepo{}
)

// productRepo adaptador del puerto del catálogo de productos.
type productRepo struct {
	view
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func (d *data) skuTaken(sku string, excludeID string) bool {
	for _, p := range d.products {
		if p.ID != excludeID && p.SKU != nil && *p.SKU == sku {
			return true
		}
	}
	return false
}

func (r productRepo) Create(p *entity.Product) error {
	d, unlock := r.acquire()
	defer unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.SKU != nil && d.skuTaken(*p.SKU, p.ID) {
		return fmt.Errorf("%w: SKU ya registrado", domain.ErrDuplicate)
	}
	if p.CategoryID != nil {
		if _, ok := d.categories[*p.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrReferential)
		}
	}
	d.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	d, unlock := r.acquire()
	defer unlock()
	if p, ok := d.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

func (r productRepo) List(f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var all []*entity.Product
	for _, p := range d.products {
		if f.Search != nil {
			sku := ""
			if p.SKU != nil {
				sku = *p.SKU
			}
			if !containsFold(p.Name, *f.Search) && !containsFold(sku, *f.Search) {
				continue
			}
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		all = append(all, cloneProduct(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	return paginate(all, limit, offset), total, nil
}

func (r productRepo) Update(p *entity.Product) error {
	d, unlock := r.acquire()
	defer unlock()
	if _, ok := d.products[p.ID]; !ok {
		return nil
	}
	if p.SKU != nil && d.skuTaken(*p.SKU, p.ID) {
		return fmt.Errorf("%w: SKU ya registrado", domain.ErrDuplicate)
	}
	if p.CategoryID != nil {
		if _, ok := d.categories[*p.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrReferential)
		}
	}
	p.UpdatedAt = time.Now()
	d.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) Delete(id string) error {
	d, unlock := r.acquire()
	defer unlock()
	for _, m := range d.movements {
		if m.ProductID == id {
			return fmt.Errorf("%w: el producto tiene movimientos o líneas asociadas", domain.ErrReferential)
		}
	}
	for _, l := range d.recLines {
		if l.ProductID == id {
			return fmt.Errorf("%w: el producto tiene movimientos o líneas asociadas", domain.ErrReferential)
		}
	}
	for _, l := range d.saleLines {
		if l.ProductID == id {
			return fmt.Errorf("%w: el producto tiene movimientos o líneas asociadas", domain.ErrReferential)
		}
	}
	delete(d.products, id)
	return nil
}

// categoryRepo adaptador del puerto de categorías.
type categoryRepo struct {
	view
}

func cloneCategory(c *entity.Category) *entity.Category {
	cc := *c
	return &cc
}

func (r categoryRepo) Create(c *entity.Category) error {
	d, unlock := r.acquire()
	defer unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	for _, other := range d.categories {
		if other.Name == c.Name {
			return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
		}
	}
	d.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r categoryRepo) GetByID(id string) (*entity.Category, error) {
	d, unlock := r.acquire()
	defer unlock()
	if c, ok := d.categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, nil
}

func (r categoryRepo) GetByName(name string) (*entity.Category, error) {
	d, unlock := r.acquire()
	defer unlock()
	for _, c := range d.categories {
		if c.Name == name {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (r categoryRepo) List(search *string, limit, offset int) ([]*entity.Category, int, error) {
	d, unlock := r.acquire()
	defer unlock()
	var all []*entity.Category
	for _, c := range d.categories {
		if search != nil && !containsFold(c.Name, *search) {
			continue
		}
		all = append(all, cloneCategory(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	return paginate(all, limit, offset), total, nil
}

func (r categoryRepo) Update(c *entity.Category) error {
	d, unlock := r.acquire()
	defer unlock()
	if _, ok := d.categories[c.ID]; !ok {
		return nil
	}
	for _, other := range d.categories {
		if other.ID != c.ID && other.Name == c.Name {
			return fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, c.Name)
		}
	}
	d.categories[c.ID] = cloneCategory(c)
	return nil
}

// Delete elimina la categoría y anula la referencia de sus productos
// (equivalente al ON DELETE SET NULL de la FK).
func (r categoryRepo) Delete(id string) error {
	d, unlock := r.acquire()
	defer unlock()
	delete(d.categories, id)
	for _, p := range d.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			c := cloneProduct(p)
			c.CategoryID = nil
			d.products[c.ID] = c
		}
	}
	return nil
}
