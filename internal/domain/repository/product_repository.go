package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	Search     *string // busca en nombre y SKU
	CategoryID *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// ProductRepository define el puerto de datos maestros de productos.
// El motor del kardex solo los lee; el CRUD vive en los casos de uso de
// catálogo. Delete devuelve domain.ErrReferential si el producto tiene
// líneas o movimientos asociados.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(f ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	Update(p *entity.Product) error
	Delete(id string) error
}
