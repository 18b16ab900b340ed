package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

// seedStock registra una recepción para que el producto tenga entradas
// valoradas antes de vender.
func seedStock(t *testing.T, store *memory.Store, productID string, qty int64, cost int64) {
	t.Helper()
	uc := ledger.NewReceiptUseCase(store, store.Receipts())
	_, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: productID, Quantity: qty, UnitCost: decimal.NewFromInt(cost)},
		},
	})
	require.NoError(t, err)
}

func TestCreateSale_TotalStockYMovimientoNegado(t *testing.T) {
	store, p := newStoreWithProduct(t)
	seedStock(t, store, p.ID, 20, 29500)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "cash", // variante de mayúsculas aceptada
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID, Quantity: 2}, // sin precio: toma el de catálogo (41900)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)

	// total = 2 × 41900 = 83800
	stored, lines, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(83800).Equal(stored.TotalAmount),
		"total esperado 83800, obtenido %s", stored.TotalAmount)

	// stock 20 − 2 = 18; el movimiento SALE lleva cantidad negada
	assert.Equal(t, int64(18), stockOf(t, store, p.ID))
	require.Len(t, lines, 1)
	mov, err := store.Movements().GetBySaleLine(lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementSale, mov.Kind)
	assert.Equal(t, int64(-2), mov.Quantity)
	require.NotNil(t, mov.SalePrice)
	assert.True(t, decimal.NewFromInt(41900).Equal(*mov.SalePrice))
}

func TestCreateSale_PrecioNetoConDescuento(t *testing.T) {
	store, p := newStoreWithProduct(t)
	seedStock(t, store, p.ID, 10, 100)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	price := decimal.NewFromInt(1000)
	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "QR",
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID, Quantity: 4, UnitPrice: &price, Discount: decimal.RequireFromString("0.25")},
		},
	})
	require.NoError(t, err)

	// total = 4 × 1000 × 0.75 = 3000; precio neto del movimiento = 750
	stored, lines, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3000).Equal(stored.TotalAmount))
	mov, err := store.Movements().GetBySaleLine(lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, mov.SalePrice)
	assert.True(t, decimal.NewFromInt(750).Equal(*mov.SalePrice))
}

func TestCreateSale_Validaciones(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método de pago fuera del conjunto fijo")

	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero se rechaza")

	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID, Quantity: 1, Discount: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento 1 queda fuera de [0, 1)")

	_, err = uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrReferential)

	// nada quedó a medias tras los rechazos
	assert.Zero(t, stockOf(t, store, p.ID))
}

func TestUpdateSaleLine_ReviseSinDuplicar(t *testing.T) {
	store, p := newStoreWithProduct(t)
	seedStock(t, store, p.ID, 20, 29500)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Card",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, lines, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)

	newQty := int64(3)
	_, err = uc.UpdateLine(context.Background(), lines[0].ID, dto.UpdateSaleLineRequest{Quantity: &newQty})
	require.NoError(t, err)

	// total = 3 × 41900 = 125700; stock = 20 − 3 = 17
	stored, _, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(125700).Equal(stored.TotalAmount))
	assert.Equal(t, int64(17), stockOf(t, store, p.ID))

	// sigue habiendo un solo movimiento SALE para la línea
	kind := entity.MovementSale
	movs, total, err := store.Movements().List(movementFilterKind(p.ID, kind), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(-3), movs[0].Quantity)
}

func TestDeleteSaleLine_DevuelveStock(t *testing.T) {
	store, p := newStoreWithProduct(t)
	seedStock(t, store, p.ID, 20, 29500)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	_, lines, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)

	require.NoError(t, uc.DeleteLine(context.Background(), lines[0].ID))

	stored, remaining, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.IsZero())
	assert.Empty(t, remaining)
	assert.Equal(t, int64(20), stockOf(t, store, p.ID), "el stock vuelve al eliminar la línea")
}

func TestDeleteSale_CascadaDevuelveStock(t *testing.T) {
	store, p := newStoreWithProduct(t)
	seedStock(t, store, p.ID, 20, 29500)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(15), stockOf(t, store, p.ID))

	require.NoError(t, uc.DeleteSale(context.Background(), sale.ID))

	_, _, err = uc.Get(context.Background(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(20), stockOf(t, store, p.ID))
}

func TestUpdateSaleHeader_FechaYMetodo(t *testing.T) {
	store, p := newStoreWithProduct(t)
	seedStock(t, store, p.ID, 20, 29500)
	uc := ledger.NewSaleUseCase(store, store.Sales())

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, lines, err := uc.Get(context.Background(), sale.ID)
	require.NoError(t, err)

	newDate := sale.SaleDatetime.AddDate(0, 0, -1)
	method := "qr"
	updated, err := uc.UpdateHeader(context.Background(), sale.ID, dto.UpdateSaleRequest{
		SaleDatetime:  &newDate,
		PaymentMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentQR, updated.PaymentMethod)

	mov, err := store.Movements().GetBySaleLine(lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.True(t, mov.MovementDate.Equal(newDate))
}
