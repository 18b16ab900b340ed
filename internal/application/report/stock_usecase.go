// Package report contiene las proyecciones de solo lectura: stock disponible
// y rentabilidad. No tienen camino de escritura; todo se deriva del kardex y
// de los datos maestros en el momento de la consulta.
package report

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// StockUseCase proyección de niveles de stock con alerta de reposición.
type StockUseCase struct {
	reportRepo repository.ReportRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(reportRepo repository.ReportRepository) *StockUseCase {
	return &StockUseCase{reportRepo: reportRepo}
}

// Levels devuelve por producto: stock disponible (Σ del kardex) y
// needs_restock = stock <= punto de reorden.
func (uc *StockUseCase) Levels(ctx context.Context, f repository.StockLevelFilter, limit, offset int) ([]*repository.StockLevelRow, int, error) {
	return uc.reportRepo.StockLevels(f, limit, offset)
}

// Summary devuelve totales del alcance indicado: productos, valor de stock
// (Σ stock × precio) y proporción bajo reorden.
func (uc *StockUseCase) Summary(ctx context.Context, restockOnly bool) (*repository.StockSummary, error) {
	return uc.reportRepo.StockSummary(restockOnly)
}
