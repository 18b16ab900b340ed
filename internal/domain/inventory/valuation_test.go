package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func TestWeightedAverageCost_PromedioPonderado(t *testing.T) {
	// 10 unidades a 100 + 20 unidades a 130 => (1000 + 2600) / 30 = 120
	totalCost := decimal.NewFromInt(10).Mul(decimal.NewFromInt(100)).
		Add(decimal.NewFromInt(20).Mul(decimal.NewFromInt(130)))

	avg, err := inventory.WeightedAverageCost(30, totalCost)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(avg), "promedio esperado 120, obtenido %s", avg)
}

func TestWeightedAverageCost_SinEntradasEsDesconocido(t *testing.T) {
	// Denominador cero: el costo es desconocido, nunca cero.
	_, err := inventory.WeightedAverageCost(0, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrCostUnavailable)

	_, err = inventory.WeightedAverageCost(-5, decimal.NewFromInt(100))
	require.ErrorIs(t, err, domain.ErrCostUnavailable)
}

func TestWeightedAverageCost_DivisionNoEntera(t *testing.T) {
	// 3 unidades con costo total 100 => 33.333... sin truncar a entero
	avg, err := inventory.WeightedAverageCost(3, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, avg.GreaterThan(decimal.NewFromInt(33)))
	assert.True(t, avg.LessThan(decimal.NewFromInt(34)))
}

func TestLineRevenue_ConDescuento(t *testing.T) {
	// 2 × 41900 × (1 − 0) = 83800
	rev := inventory.LineRevenue(2, decimal.NewFromInt(41900), decimal.Zero)
	assert.True(t, decimal.NewFromInt(83800).Equal(rev))

	// 4 × 100 × (1 − 0.25) = 300
	rev = inventory.LineRevenue(4, decimal.NewFromInt(100), decimal.RequireFromString("0.25"))
	assert.True(t, decimal.NewFromInt(300).Equal(rev))
}
