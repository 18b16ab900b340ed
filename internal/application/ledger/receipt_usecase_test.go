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

// newStoreWithProduct prepara un almacén en memoria con un producto de
// catálogo para las pruebas de los agregadores.
func newStoreWithProduct(t *testing.T) (*memory.Store, *entity.Product) {
	t.Helper()
	store := memory.NewStore()
	p := &entity.Product{
		Name:         "Café molido 500g",
		Price:        decimal.NewFromInt(41900),
		ReorderLevel: 5,
	}
	require.NoError(t, store.Products().Create(p))
	return store, p
}

func stockOf(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	stock, err := store.Movements().SumByProduct(productID)
	require.NoError(t, err)
	return stock
}

func TestCreateReceipt_TotalYKardexEnLockstep(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 20, UnitCost: decimal.NewFromInt(29500)},
		},
	})
	require.NoError(t, err)

	// total_cost = 20 × 29500 = 590000
	stored, _, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(590000).Equal(stored.TotalCost),
		"total esperado 590000, obtenido %s", stored.TotalCost)

	// el kardex refleja la entrada completa
	assert.Equal(t, int64(20), stockOf(t, store, p.ID))

	_, lines, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	mov, err := store.Movements().GetByReceiptLine(lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, mov, "cada línea debe tener movimiento enlazado")
	assert.Equal(t, entity.MovementStockIn, mov.Kind)
	assert.Equal(t, int64(20), mov.Quantity)
}

func TestCreateReceipt_AperturaGeneraOpening(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		IsOpening: true,
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 10, UnitCost: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	_, lines, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)
	mov, err := store.Movements().GetByReceiptLine(lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementOpening, mov.Kind)
}

func TestCreateReceipt_RollbackSinEstadoParcial(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	// la segunda línea duplica el producto: toda la creación debe deshacerse
	_, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 5, UnitCost: decimal.NewFromInt(100)},
			{ProductID: p.ID, Quantity: 3, UnitCost: decimal.NewFromInt(100)},
		},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// ni encabezado, ni líneas, ni movimientos: nada a medio aplicar
	list, total, err := uc.List(context.Background(), ledgerReceiptFilter(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
	assert.Zero(t, stockOf(t, store, p.ID))
}

func TestAddLine_ValidacionesYReferencias(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{})
	require.NoError(t, err)

	_, err = uc.AddLine(context.Background(), header.ID,
		dto.ReceiptItemRequest{ProductID: p.ID, Quantity: 0, UnitCost: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero se rechaza")

	_, err = uc.AddLine(context.Background(), header.ID,
		dto.ReceiptItemRequest{ProductID: p.ID, Quantity: 5, UnitCost: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo se rechaza")

	_, err = uc.AddLine(context.Background(), header.ID,
		dto.ReceiptItemRequest{ProductID: "no-existe", Quantity: 5, UnitCost: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrReferential, "producto inexistente se rechaza")

	_, err = uc.AddLine(context.Background(), "no-existe",
		dto.ReceiptItemRequest{ProductID: p.ID, Quantity: 5, UnitCost: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound, "recepción inexistente se rechaza")
}

func TestUpdateLine_AjustaTotalPorDeltaYRevisaMovimiento(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 20, UnitCost: decimal.NewFromInt(29500)},
		},
	})
	require.NoError(t, err)
	_, lines, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)

	newQty := int64(25)
	_, err = uc.UpdateLine(context.Background(), lines[0].ID, dto.UpdateReceiptLineRequest{Quantity: &newQty})
	require.NoError(t, err)

	stored, _, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(737500).Equal(stored.TotalCost),
		"total esperado 737500, obtenido %s", stored.TotalCost)
	assert.Equal(t, int64(25), stockOf(t, store, p.ID))

	// la revisión no crea un movimiento nuevo
	movs, total, err := store.Movements().List(movementFilterFor(p.ID), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(25), movs[0].Quantity)
}

func TestDeleteLine_RestauraTotalYStock(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 20, UnitCost: decimal.NewFromInt(29500)},
		},
	})
	require.NoError(t, err)
	_, lines, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)

	require.NoError(t, uc.DeleteLine(context.Background(), lines[0].ID))

	stored, remaining, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalCost.IsZero(), "total debe volver a cero, obtenido %s", stored.TotalCost)
	assert.Empty(t, remaining)
	assert.Zero(t, stockOf(t, store, p.ID))
}

func TestUpdateHeader_CambioDeFechaRevisaMovimientos(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 5, UnitCost: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	_, lines, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)

	newDate := header.ReceiptDate.AddDate(0, 0, -7)
	_, err = uc.UpdateHeader(context.Background(), header.ID, dto.UpdateReceiptRequest{ReceiptDate: &newDate})
	require.NoError(t, err)

	mov, err := store.Movements().GetByReceiptLine(lines[0].ID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.True(t, mov.MovementDate.Equal(newDate),
		"la marca temporal del movimiento debe seguir la fecha del encabezado")
}

func TestDeleteReceipt_CascadaAtomica(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 20, UnitCost: decimal.NewFromInt(29500)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(20), stockOf(t, store, p.ID))

	require.NoError(t, uc.DeleteReceipt(context.Background(), header.ID))

	_, _, err = uc.Get(context.Background(), header.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, stockOf(t, store, p.ID), "el stock refleja la eliminación exactamente")
}

func TestRecalculateTotal_ReparaDeriva(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewReceiptUseCase(store, store.Receipts())

	header, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: p.ID, Quantity: 20, UnitCost: decimal.NewFromInt(29500)},
		},
	})
	require.NoError(t, err)

	// deriva inducida en el total materializado
	require.NoError(t, store.Receipts().SetTotal(header.ID, decimal.NewFromInt(1)))

	before, after, err := uc.RecalculateTotal(context.Background(), header.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(before))
	assert.True(t, decimal.NewFromInt(590000).Equal(after))

	stored, _, err := uc.Get(context.Background(), header.ID)
	require.NoError(t, err)
	assert.True(t, after.Equal(stored.TotalCost))
}
