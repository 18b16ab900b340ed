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

// CategoryUseCase CRUD de categorías. Eliminar una categoría anula la
// referencia de sus productos, nunca los elimina.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// Create crea una categoría con nombre único.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de categoría vacío", domain.ErrInvalidInput)
	}
	existing, err := uc.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, name)
	}
	c := &entity.Category{Name: name}
	if err := uc.categoryRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get devuelve una categoría por ID.
func (uc *CategoryUseCase) Get(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// List devuelve categorías paginadas.
func (uc *CategoryUseCase) List(ctx context.Context, search *string, limit, offset int) ([]*entity.Category, int, error) {
	return uc.categoryRepo.List(search, limit, offset)
}

// Update renombra una categoría (nombre único).
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*entity.Category, error) {
	c, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de categoría vacío", domain.ErrInvalidInput)
	}
	existing, err := uc.categoryRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, name)
	}
	c.Name = name
	if err := uc.categoryRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}
	return uc.categoryRepo.Delete(id)
}
