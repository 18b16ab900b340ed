package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

// newTestApp arma la aplicación completa sobre el almacén en memoria, con el
// mismo cableado que cmd/api.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ReceiptUC:       ledger.NewReceiptUseCase(store, store.Receipts()),
		SaleUC:          ledger.NewSaleUseCase(store, store.Sales()),
		MovementUC:      ledger.NewMovementUseCase(store, store.Movements()),
		StockUC:         report.NewStockUseCase(store.Reports()),
		ProfitabilityUC: report.NewProfitabilityUseCase(store.Reports()),
		ProductUC:       usecase.NewProductUseCase(store.Products(), store.Categories(), store.Movements()),
		CategoryUC:      usecase.NewCategoryUseCase(store.Categories()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *nethttp.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAPI_FlujoRecepcionVentaYReporte(t *testing.T) {
	app := newTestApp(t)

	// catálogo
	resp := doJSON(t, app, fiber.MethodPost, "/api/categories", dto.CategoryRequest{Name: "Bebidas"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var cat dto.CategoryDTO
	decode(t, resp, &cat)

	sku := "CAF-500"
	resp = doJSON(t, app, fiber.MethodPost, "/api/products", dto.CreateProductRequest{
		Name:         "Café molido 500g",
		CategoryID:   &cat.ID,
		SKU:          &sku,
		Price:        decimal.NewFromInt(41900),
		ReorderLevel: 5,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var product dto.ProductDTO
	decode(t, resp, &product)

	// recepción: 20 × 29500 = 590000
	resp = doJSON(t, app, fiber.MethodPost, "/api/stock-in", dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: product.ID, Quantity: 20, UnitCost: decimal.NewFromInt(29500)},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var receipt dto.ReceiptDTO
	decode(t, resp, &receipt)
	assert.True(t, decimal.NewFromInt(590000).Equal(receipt.TotalCost))
	require.Len(t, receipt.Items, 1)

	// venta: 2 × precio de catálogo = 83800
	resp = doJSON(t, app, fiber.MethodPost, "/api/sales", dto.CreateSaleRequest{
		PaymentMethod: "Cash",
		Items:         []dto.SaleItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var sale dto.SaleDTO
	decode(t, resp, &sale)
	assert.True(t, decimal.NewFromInt(83800).Equal(sale.TotalAmount))

	// stock disponible tras la venta
	resp = doJSON(t, app, fiber.MethodGet, "/api/products/"+product.ID+"/stock", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stock struct {
		StockOnHand int64 `json:"stock_on_hand"`
	}
	decode(t, resp, &stock)
	assert.Equal(t, int64(18), stock.StockOnHand)

	// rentabilidad: COGS = 2 × 29500, utilidad = 24800
	resp = doJSON(t, app, fiber.MethodGet, "/api/reports/profit", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page dto.Page[dto.ProfitabilityRowDTO]
	decode(t, resp, &page)
	require.Equal(t, 1, page.Total)
	row := page.Items[0]
	require.NotNil(t, row.GrossProfit)
	assert.True(t, decimal.NewFromInt(24800).Equal(*row.GrossProfit))

	// el total materializado no tiene deriva
	resp = doJSON(t, app, fiber.MethodPost, "/api/stock-in/"+receipt.ID+"/recalculate", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var recalc struct {
		Drift bool `json:"drift"`
	}
	decode(t, resp, &recalc)
	assert.False(t, recalc.Drift)
}

func TestAPI_MapeoDeErrores(t *testing.T) {
	app := newTestApp(t)

	// recurso inexistente
	resp := doJSON(t, app, fiber.MethodGet, "/api/sales/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "NOT_FOUND", body.Code)

	// SKU duplicado
	sku := "DUP-1"
	create := dto.CreateProductRequest{Name: "Uno", SKU: &sku, Price: decimal.NewFromInt(10)}
	resp = doJSON(t, app, fiber.MethodPost, "/api/products", create)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	create.Name = "Dos"
	resp = doJSON(t, app, fiber.MethodPost, "/api/products", create)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "DUPLICATE", body.Code)

	// validación de dominio
	resp = doJSON(t, app, fiber.MethodPost, "/api/sales", dto.CreateSaleRequest{PaymentMethod: "cheque"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)

	// cuerpo que no es JSON
	req := httptest.NewRequest(fiber.MethodPost, "/api/products", bytes.NewReader([]byte("{no json")))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "INVALID_BODY", body.Code)

	// referencia rota al crear una línea
	resp = doJSON(t, app, fiber.MethodPost, "/api/stock-in", dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemRequest{
			{ProductID: "no-existe", Quantity: 1, UnitCost: decimal.NewFromInt(1)},
		},
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "REFERENTIAL", body.Code)
}

func TestAPI_PaginacionDeMovimientos(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: "Genérico", Price: decimal.NewFromInt(100),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var product dto.ProductDTO
	decode(t, resp, &product)

	for i := 0; i < 5; i++ {
		resp = doJSON(t, app, fiber.MethodPost, "/api/stock-in", dto.CreateReceiptRequest{
			Items: []dto.ReceiptItemRequest{
				{ProductID: product.ID, Quantity: int64(i + 1), UnitCost: decimal.NewFromInt(10)},
			},
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, app, fiber.MethodGet,
		fmt.Sprintf("/api/inventory/movements?product_id=%s&page=2&limit=2", product.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page dto.Page[dto.MovementDTO]
	decode(t, resp, &page)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}
