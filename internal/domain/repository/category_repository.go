package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// CategoryRepository define el puerto de categorías de producto.
// Delete anula la referencia de los productos de la categoría (nunca los
// elimina en cascada).
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	List(search *string, limit, offset int) ([]*entity.Category, int, error)
	Update(c *entity.Category) error
	Delete(id string) error
}
