package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos del kardex.
type MovementFilter struct {
	ProductID *string
	Kind      *string
	From      *time.Time
	To        *time.Time
}

// InboundTotals agregados de entradas (OPENING, STOCK_IN) de un producto
// hasta un instante: insumo del costo promedio ponderado.
type InboundTotals struct {
	Quantity  int64
	TotalCost decimal.Decimal // Σ(cantidad × costo unitario)
}

// MovementRepository define el puerto del kardex (Movement Ledger).
// Es la única vía de escritura de movimientos: los agregadores de recepciones
// y ventas escriben a través del enlace 1:1 línea→movimiento; los ADJUSTMENT
// son la única excepción y se crean/eliminan directamente.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	GetByReceiptLine(lineID string) (*entity.Movement, error)
	GetBySaleLine(lineID string) (*entity.Movement, error)

	// ReviseForReceiptLine actualiza el movimiento enlazado a una línea de
	// recepción (producto, cantidad positiva, costo unitario, fecha).
	// Devuelve domain.ErrLedgerDesync si la línea no tiene movimiento.
	ReviseForReceiptLine(lineID, productID string, quantity int64, unitCost decimal.Decimal, date time.Time) error
	// ReviseForSaleLine actualiza el movimiento enlazado a una línea de venta
	// (producto, cantidad ya negada, precio neto, fecha).
	ReviseForSaleLine(lineID, productID string, quantity int64, salePrice decimal.Decimal, date time.Time) error
	// RemoveForReceiptLine / RemoveForSaleLine eliminan el movimiento enlazado.
	// Devuelven domain.ErrLedgerDesync si no existe.
	RemoveForReceiptLine(lineID string) error
	RemoveForSaleLine(lineID string) error

	// DeleteAdjustment elimina un ajuste manual por ID. Solo aplica a
	// movimientos ADJUSTMENT; para cualquier otro tipo devuelve
	// domain.ErrInvalidInput.
	DeleteAdjustment(id string) error

	// SumByProduct devuelve el stock disponible: Σ de cantidades con signo.
	SumByProduct(productID string) (int64, error)
	SumByProductAsOf(productID string, asOf time.Time) (int64, error)
	// InboundTotalsAsOf devuelve los agregados de entradas hasta asOf inclusive.
	InboundTotalsAsOf(productID string, asOf time.Time) (InboundTotals, error)

	// HasAnyForProduct indica si el producto tiene movimientos (protección
	// referencial al eliminar productos).
	HasAnyForProduct(productID string) (bool, error)

	List(f MovementFilter, limit, offset int) ([]*entity.Movement, int, error)
}
