package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/report"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReportHandler maneja las proyecciones de solo lectura: niveles de stock y
// rentabilidad.
type ReportHandler struct {
	stockUC  *report.StockUseCase
	profitUC *report.ProfitabilityUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(stockUC *report.StockUseCase, profitUC *report.ProfitabilityUseCase) *ReportHandler {
	return &ReportHandler{stockUC: stockUC, profitUC: profitUC}
}

// StockLevels devuelve la proyección de stock por producto.
func (h *ReportHandler) StockLevels(c *fiber.Ctx) error {
	p := pageParams(c)
	f := repository.StockLevelFilter{Search: queryString(c, "search")}
	if v := c.Query("restock"); v != "" {
		restock := v == "true" || v == "1"
		f.Restock = &restock
	}
	rows, total, err := h.stockUC.Levels(c.Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.StockLevelDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewStockLevelDTO(r))
	}
	return c.JSON(dto.NewPage(items, total, p.Page, p.Limit))
}

// StockSummary devuelve los agregados de la proyección de stock.
func (h *ReportHandler) StockSummary(c *fiber.Ctx) error {
	restockOnly := c.Query("restock") == "true" || c.Query("restock") == "1"
	sum, err := h.stockUC.Summary(c.Context(), restockOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockSummaryDTO{
		TotalProducts:          sum.TotalProducts,
		TotalStockValue:        sum.TotalStockValue,
		ProductsNeedingRestock: sum.ProductsNeedingRestock,
		RestockPercentage:      sum.RestockPercentage,
	})
}

// Profitability devuelve la rentabilidad por línea de venta.
func (h *ReportHandler) Profitability(c *fiber.Ctx) error {
	p := pageParams(c)
	from, err := queryTime(c, "from")
	if err != nil {
		return badBody(c)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badBody(c)
	}
	f := repository.ProfitabilityFilter{
		Search:    queryString(c, "search"),
		ProductID: queryString(c, "product_id"),
		From:      from,
		To:        to,
	}
	rows, total, err := h.profitUC.Report(c.Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ProfitabilityRowDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.NewProfitabilityRowDTO(r))
	}
	return c.JSON(dto.NewPage(items, total, p.Page, p.Limit))
}

// ProfitabilitySummary devuelve los agregados del período y el top de
// productos por utilidad.
func (h *ReportHandler) ProfitabilitySummary(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return badBody(c)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return badBody(c)
	}
	sum, err := h.profitUC.Summary(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ProfitabilitySummaryDTO{
		TotalLines:       sum.TotalLines,
		TotalRevenue:     sum.TotalRevenue,
		TotalCOGS:        sum.TotalCOGS,
		TotalGrossProfit: sum.TotalGrossProfit,
		AvgProfitMargin:  sum.AvgProfitMargin,
		TopProducts:      make([]dto.ProductProfitDTO, 0, len(sum.TopProducts)),
	}
	for _, p := range sum.TopProducts {
		out.TopProducts = append(out.TopProducts, dto.ProductProfitDTO{Name: p.Name, TotalProfit: p.TotalProfit})
	}
	return c.JSON(out)
}
