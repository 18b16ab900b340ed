package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReceiptUC       *ledger.ReceiptUseCase
	SaleUC          *ledger.SaleUseCase
	MovementUC      *ledger.MovementUseCase
	StockUC         *report.StockUseCase
	ProfitabilityUC *report.ProfitabilityUseCase
	ProductUC       *usecase.ProductUseCase
	CategoryUC      *usecase.CategoryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Recepciones (stock-in)
	receipts := api.Group("/stock-in")
	receiptHandler := NewReceiptHandler(deps.ReceiptUC)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.Get)
	receipts.Patch("/:id", receiptHandler.UpdateHeader)
	receipts.Delete("/:id", receiptHandler.Delete)
	receipts.Post("/:id/items", receiptHandler.AddLine)
	receipts.Patch("/:id/items/:lineId", receiptHandler.UpdateLine)
	receipts.Delete("/:id/items/:lineId", receiptHandler.DeleteLine)
	receipts.Post("/:id/recalculate", receiptHandler.RecalculateTotal)

	// Ventas
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.Get)
	sales.Patch("/:id", saleHandler.UpdateHeader)
	sales.Delete("/:id", saleHandler.Delete)
	sales.Post("/:id/items", saleHandler.AddLine)
	sales.Patch("/:id/items/:lineId", saleHandler.UpdateLine)
	sales.Delete("/:id/items/:lineId", saleHandler.DeleteLine)
	sales.Post("/:id/recalculate", saleHandler.RecalculateTotal)

	// Kardex: movimientos y ajustes manuales
	inv := api.Group("/inventory")
	movementHandler := NewMovementHandler(deps.MovementUC)
	inv.Get("/movements", movementHandler.List)
	inv.Post("/adjustments", movementHandler.RegisterAdjustment)
	inv.Delete("/adjustments/:id", movementHandler.DeleteAdjustment)

	// Reportes (proyecciones de solo lectura)
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.StockUC, deps.ProfitabilityUC)
	reports.Get("/stock", reportHandler.StockLevels)
	reports.Get("/stock/summary", reportHandler.StockSummary)
	reports.Get("/profit", reportHandler.Profitability)
	reports.Get("/profit/summary", reportHandler.ProfitabilitySummary)

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Get("/:id/stock", movementHandler.StockOnHand)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Patch("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
}
