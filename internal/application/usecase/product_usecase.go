package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos (datos maestros). El motor del kardex
// solo los lee; la protección referencial impide eliminar productos con
// líneas o movimientos.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movRepo      repository.MovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movRepo repository.MovementRepository,
) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, categoryRepo: categoryRepo, movRepo: movRepo}
}

// Create valida y crea un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de producto vacío", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if in.ReorderLevel < 0 {
		return nil, fmt.Errorf("%w: punto de reorden negativo", domain.ErrInvalidInput)
	}
	if in.CategoryID != nil {
		cat, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrReferential, *in.CategoryID)
		}
	}
	p := &entity.Product{
		Name:         name,
		CategoryID:   in.CategoryID,
		SKU:          in.SKU,
		Price:        in.Price,
		ReorderLevel: in.ReorderLevel,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get devuelve un producto por ID.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// List devuelve productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	return uc.productRepo.List(f, limit, offset)
}

// Update aplica cambios parciales a un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	p, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre de producto vacío", domain.ErrInvalidInput)
		}
		p.Name = name
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			p.CategoryID = nil
		} else {
			cat, err := uc.categoryRepo.GetByID(*in.CategoryID)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				return nil, fmt.Errorf("%w: categoría %s", domain.ErrReferential, *in.CategoryID)
			}
			p.CategoryID = in.CategoryID
		}
	}
	if in.SKU != nil {
		if *in.SKU == "" {
			p.SKU = nil
		} else {
			p.SKU = in.SKU
		}
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
		}
		p.Price = *in.Price
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, fmt.Errorf("%w: punto de reorden negativo", domain.ErrInvalidInput)
		}
		p.ReorderLevel = *in.ReorderLevel
	}
	if err := uc.productRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete elimina un producto sin historial. Con líneas o movimientos la
// eliminación se rechaza (protección referencial).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	has, err := uc.movRepo.HasAnyForProduct(id)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("%w: producto %s tiene movimientos en el kardex", domain.ErrReferential, id)
	}
	return uc.productRepo.Delete(id)
}
