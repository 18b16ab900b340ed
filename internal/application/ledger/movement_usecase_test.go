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
)

func TestRegisterAdjustment_PositivoYNegativo(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewMovementUseCase(store, store.Movements())

	cost := decimal.NewFromInt(500)
	up, err := uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{
		ProductID: p.ID,
		Quantity:  10,
		UnitCost:  &cost,
		Notes:     "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAdjustment, up.Kind)
	require.NotNil(t, up.UnitCost)
	assert.Equal(t, int64(10), stockOf(t, store, p.ID))

	// ajuste negativo: sin costo, resta stock
	down, err := uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{
		ProductID: p.ID,
		Quantity:  -4,
		Notes:     "merma",
	})
	require.NoError(t, err)
	assert.Nil(t, down.UnitCost)
	assert.Equal(t, int64(6), stockOf(t, store, p.ID))
}

func TestRegisterAdjustment_Validaciones(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewMovementUseCase(store, store.Movements())

	_, err := uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero se rechaza")

	_, err = uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{ProductID: p.ID, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ajuste positivo sin costo se rechaza")

	neg := decimal.NewFromInt(-1)
	_, err = uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{ProductID: p.ID, Quantity: 5, UnitCost: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo se rechaza")

	cost := decimal.NewFromInt(10)
	_, err = uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{ProductID: "no-existe", Quantity: 5, UnitCost: &cost})
	assert.ErrorIs(t, err, domain.ErrReferential)
}

func TestDeleteAdjustment_SoloAjustes(t *testing.T) {
	store, p := newStoreWithProduct(t)
	uc := ledger.NewMovementUseCase(store, store.Movements())

	cost := decimal.NewFromInt(500)
	adj, err := uc.RegisterAdjustment(context.Background(), dto.AdjustmentRequest{
		ProductID: p.ID, Quantity: 10, UnitCost: &cost,
	})
	require.NoError(t, err)

	// un movimiento enlazado a línea no se elimina por aquí
	seedStock(t, store, p.ID, 5, 100)
	movs, _, err := store.Movements().List(movementFilterKind(p.ID, entity.MovementStockIn), 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	err = uc.DeleteAdjustment(context.Background(), movs[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.DeleteAdjustment(context.Background(), adj.ID))
	assert.Equal(t, int64(5), stockOf(t, store, p.ID))

	err = uc.DeleteAdjustment(context.Background(), adj.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
