package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// MovementUseCase expone el kardex para lectura y para ajustes manuales.
// Los ADJUSTMENT son los únicos movimientos que un caller crea o elimina
// directamente; todo lo demás entra por los agregadores.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository // lecturas fuera de transacción
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, movRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, movRepo: movRepo}
}

// RegisterAdjustment registra una corrección manual de stock: cantidad con
// signo distinta de cero; costo unitario obligatorio y no negativo cuando el
// ajuste es positivo (entra stock valorado).
func (uc *MovementUseCase) RegisterAdjustment(ctx context.Context, in dto.AdjustmentRequest) (*entity.Movement, error) {
	if in.Quantity == 0 {
		return nil, fmt.Errorf("%w: cantidad de ajuste no puede ser cero (producto %s)", domain.ErrInvalidInput, in.ProductID)
	}
	if in.Quantity > 0 {
		if in.UnitCost == nil {
			return nil, fmt.Errorf("%w: ajuste positivo requiere costo unitario (producto %s)", domain.ErrInvalidInput, in.ProductID)
		}
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: costo unitario negativo (producto %s)", domain.ErrInvalidInput, in.ProductID)
		}
	}

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrReferential, in.ProductID)
		}
		mov = &entity.Movement{
			ProductID:    in.ProductID,
			Kind:         entity.MovementAdjustment,
			Quantity:     in.Quantity,
			MovementDate: time.Now(),
			Notes:        in.Notes,
		}
		if in.Quantity > 0 {
			mov.UnitCost = in.UnitCost
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// DeleteAdjustment elimina un ajuste manual. Los movimientos enlazados a
// líneas no se pueden eliminar por aquí.
func (uc *MovementUseCase) DeleteAdjustment(ctx context.Context, movementID string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		return movRepo.DeleteAdjustment(movementID)
	})
}

// List devuelve movimientos paginados.
func (uc *MovementUseCase) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int, error) {
	return uc.movRepo.List(f, limit, offset)
}

// StockOnHand devuelve el stock disponible de un producto:
// Σ de cantidades con signo del kardex.
func (uc *MovementUseCase) StockOnHand(ctx context.Context, productID string) (int64, error) {
	return uc.movRepo.SumByProduct(productID)
}
