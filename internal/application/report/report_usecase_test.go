package report_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func newProduct(t *testing.T, store *memory.Store, name string, price int64, reorder int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.NewFromInt(price), ReorderLevel: reorder}
	require.NoError(t, store.Products().Create(p))
	return p
}

func receiveStock(t *testing.T, store *memory.Store, productID string, qty, cost int64) {
	t.Helper()
	uc := ledger.NewReceiptUseCase(store, store.Receipts())
	_, err := uc.CreateReceipt(context.Background(), dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: productID, Quantity: qty, UnitCost: decimal.NewFromInt(cost)},
		},
	})
	require.NoError(t, err)
}

func sellStock(t *testing.T, store *memory.Store, productID string, qty int64) {
	t.Helper()
	uc := ledger.NewSaleUseCase(store, store.Sales())
	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: productID, Quantity: qty}},
	})
	require.NoError(t, err)
}

func TestStockLevels_FronteraDeReorden(t *testing.T) {
	store := memory.NewStore()
	// reorden 5: con stock exactamente 5 la alerta se enciende (<=)
	p := newProduct(t, store, "Té verde", 100, 5)
	receiveStock(t, store, p.ID, 5, 50)
	uc := report.NewStockUseCase(store.Reports())

	rows, total, err := uc.Levels(context.Background(), repository.StockLevelFilter{}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, int64(5), rows[0].StockOnHand)
	assert.True(t, rows[0].NeedsRestock, "stock == punto de reorden debe alertar")

	// una unidad más y la alerta se apaga
	receiveStock(t, store, p.ID, 1, 50)
	rows, _, err = uc.Levels(context.Background(), repository.StockLevelFilter{}, 10, 0)
	require.NoError(t, err)
	assert.False(t, rows[0].NeedsRestock)
}

func TestStockLevels_FiltroRestock(t *testing.T) {
	store := memory.NewStore()
	low := newProduct(t, store, "Azúcar", 100, 10)
	ok := newProduct(t, store, "Sal", 100, 1)
	receiveStock(t, store, low.ID, 2, 50)
	receiveStock(t, store, ok.ID, 20, 50)
	uc := report.NewStockUseCase(store.Reports())

	restock := true
	rows, total, err := uc.Levels(context.Background(), repository.StockLevelFilter{Restock: &restock}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, low.ID, rows[0].ProductID)

	sum, err := uc.Summary(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, 1, sum.ProductsNeedingRestock)
	assert.InDelta(t, 50.0, sum.RestockPercentage, 0.001)
	// valor de stock = 2×100 + 20×100 = 2200
	assert.True(t, decimal.NewFromInt(2200).Equal(sum.TotalStockValue))
}

func TestProfitability_CostoPromedioAlInstanteDeLaVenta(t *testing.T) {
	store := memory.NewStore()
	p := newProduct(t, store, "Café molido 500g", 41900, 5)
	receiveStock(t, store, p.ID, 20, 29500)
	sellStock(t, store, p.ID, 2)
	uc := report.NewProfitabilityUseCase(store.Reports())

	rows, total, err := uc.Report(context.Background(), repository.ProfitabilityFilter{}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	row := rows[0]

	// revenue = 2 × 41900 = 83800; WAC = 29500; COGS = 59000; utilidad = 24800
	assert.True(t, decimal.NewFromInt(83800).Equal(row.TotalRevenue))
	require.NotNil(t, row.AverageCost)
	assert.True(t, decimal.NewFromInt(29500).Equal(*row.AverageCost))
	require.NotNil(t, row.TotalCOGS)
	assert.True(t, decimal.NewFromInt(59000).Equal(*row.TotalCOGS))
	require.NotNil(t, row.GrossProfit)
	assert.True(t, decimal.NewFromInt(24800).Equal(*row.GrossProfit))
}

func TestProfitability_CostoDesconocidoNoEsCero(t *testing.T) {
	store := memory.NewStore()
	p := newProduct(t, store, "Galletas", 500, 0)
	// venta sin ninguna entrada previa: el costo es desconocido
	sellStock(t, store, p.ID, 1)
	uc := report.NewProfitabilityUseCase(store.Reports())

	rows, _, err := uc.Report(context.Background(), repository.ProfitabilityFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].AverageCost, "sin entradas el costo va en nil, nunca cero")
	assert.Nil(t, rows[0].TotalCOGS)
	assert.Nil(t, rows[0].GrossProfit)
	assert.True(t, decimal.NewFromInt(500).Equal(rows[0].TotalRevenue))
}

func TestProfitabilitySummary_ExcluyeCostosDesconocidos(t *testing.T) {
	store := memory.NewStore()
	conCosto := newProduct(t, store, "Café molido 500g", 41900, 5)
	sinCosto := newProduct(t, store, "Galletas", 500, 0)
	receiveStock(t, store, conCosto.ID, 20, 29500)
	sellStock(t, store, conCosto.ID, 2)
	sellStock(t, store, sinCosto.ID, 1)
	uc := report.NewProfitabilityUseCase(store.Reports())

	sum, err := uc.Summary(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalLines)
	// revenue incluye ambas líneas; COGS/utilidad solo la línea con costo
	assert.True(t, decimal.NewFromInt(84300).Equal(sum.TotalRevenue))
	assert.True(t, decimal.NewFromInt(59000).Equal(sum.TotalCOGS))
	assert.True(t, decimal.NewFromInt(24800).Equal(sum.TotalGrossProfit))
	require.Len(t, sum.TopProducts, 1, "los productos sin costo no entran al top")
	assert.Equal(t, "Café molido 500g", sum.TopProducts[0].Name)
}
