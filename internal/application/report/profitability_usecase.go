package report

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ProfitabilityUseCase proyección de rentabilidad por línea de venta:
// revenue, costo promedio ponderado al instante de la venta, COGS y utilidad
// bruta. El costo se recalcula desde el kardex vivo en cada consulta, así que
// entradas retro-fechadas posteriores pueden cambiar reportes históricos
// (limitación conocida del modelo, no se congela el costo al vender).
type ProfitabilityUseCase struct {
	reportRepo repository.ReportRepository
}

// NewProfitabilityUseCase construye el caso de uso.
func NewProfitabilityUseCase(reportRepo repository.ReportRepository) *ProfitabilityUseCase {
	return &ProfitabilityUseCase{reportRepo: reportRepo}
}

// Report devuelve las líneas de venta con su rentabilidad. Las líneas sin
// entradas previas llevan costo/COGS/utilidad en nil (desconocido, no cero).
func (uc *ProfitabilityUseCase) Report(ctx context.Context, f repository.ProfitabilityFilter, limit, offset int) ([]*repository.ProfitabilityRow, int, error) {
	return uc.reportRepo.Profitability(f, limit, offset)
}

// Summary devuelve los agregados del período y el top de productos por
// utilidad.
func (uc *ProfitabilityUseCase) Summary(ctx context.Context, from, to *time.Time) (*repository.ProfitabilitySummary, error) {
	return uc.reportRepo.ProfitabilitySummary(from, to)
}
