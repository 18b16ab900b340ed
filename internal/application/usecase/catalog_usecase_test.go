package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func newCatalog(t *testing.T) (*memory.Store, *usecase.ProductUseCase, *usecase.CategoryUseCase) {
	t.Helper()
	store := memory.NewStore()
	products := usecase.NewProductUseCase(store.Products(), store.Categories(), store.Movements())
	categories := usecase.NewCategoryUseCase(store.Categories())
	return store, products, categories
}

func TestCreateProduct_Validaciones(t *testing.T) {
	_, products, _ := newCatalog(t)
	ctx := context.Background()

	_, err := products.Create(ctx, dto.CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre vacío se rechaza")

	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "Café", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo se rechaza")

	missing := "no-existe"
	_, err = products.Create(ctx, dto.CreateProductRequest{
		Name: "Café", Price: decimal.NewFromInt(100), CategoryID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrReferential, "categoría inexistente se rechaza")
}

func TestCreateProduct_SKUDuplicado(t *testing.T) {
	_, products, _ := newCatalog(t)
	ctx := context.Background()

	sku := "CAF-500"
	_, err := products.Create(ctx, dto.CreateProductRequest{
		Name: "Café molido", SKU: &sku, Price: decimal.NewFromInt(41900),
	})
	require.NoError(t, err)

	_, err = products.Create(ctx, dto.CreateProductRequest{
		Name: "Otro café", SKU: &sku, Price: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeleteProduct_ProteccionReferencial(t *testing.T) {
	store, products, _ := newCatalog(t)
	ctx := context.Background()

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Café", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	receipts := ledger.NewReceiptUseCase(store, store.Receipts())
	_, err = receipts.CreateReceipt(ctx, dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 1, UnitCost: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	// con historial en el kardex el producto no se elimina
	err = products.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrReferential)

	// sin historial sí
	limpio, err := products.Create(ctx, dto.CreateProductRequest{Name: "Sin historia", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, limpio.ID))
	_, err = products.Get(ctx, limpio.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategory_NombreUnicoYRenombre(t *testing.T) {
	_, _, categories := newCatalog(t)
	ctx := context.Background()

	bebidas, err := categories.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	snacks, err := categories.Create(ctx, dto.CategoryRequest{Name: "Snacks"})
	require.NoError(t, err)
	_, err = categories.Update(ctx, snacks.ID, dto.CategoryRequest{Name: "Bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "renombrar al nombre de otra se rechaza")

	// renombrarse a sí misma con el mismo nombre no es conflicto
	same, err := categories.Update(ctx, bebidas.ID, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", same.Name)
}

func TestDeleteCategory_DesvinculaProductos(t *testing.T) {
	_, products, categories := newCatalog(t)
	ctx := context.Background()

	cat, err := categories.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	p, err := products.Create(ctx, dto.CreateProductRequest{
		Name: "Café", Price: decimal.NewFromInt(100), CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	require.NoError(t, categories.Delete(ctx, cat.ID))

	// el producto sobrevive sin categoría
	got, err := products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}
