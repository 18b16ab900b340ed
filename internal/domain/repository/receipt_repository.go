package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReceiptFilter filtros para listar recepciones.
type ReceiptFilter struct {
	Search *string // busca en ref_no y notas
	From   *time.Time
	To     *time.Time
}

// ReceiptRepository define el puerto de persistencia de recepciones
// (encabezado + líneas). El total del encabezado solo se toca vía
// AddToTotal/SetTotal, dentro de la transacción del agregador.
type ReceiptRepository interface {
	Create(r *entity.StockReceipt) error
	GetByID(id string) (*entity.StockReceipt, error)
	// GetForUpdate bloquea la fila del encabezado (SELECT FOR UPDATE) para
	// serializar mutaciones concurrentes de líneas del mismo encabezado.
	GetForUpdate(id string) (*entity.StockReceipt, error)
	UpdateHeader(r *entity.StockReceipt) error
	// AddToTotal ajusta el total derivado con un único UPDATE aditivo.
	AddToTotal(id string, delta decimal.Decimal) error
	SetTotal(id string, total decimal.Decimal) error
	Delete(id string) error
	List(f ReceiptFilter, limit, offset int) ([]*entity.StockReceipt, int, error)

	CreateLine(l *entity.StockReceiptLine) error
	GetLine(lineID string) (*entity.StockReceiptLine, error)
	UpdateLine(l *entity.StockReceiptLine) error
	DeleteLine(lineID string) error
	ListLines(receiptID string) ([]*entity.StockReceiptLine, error)
	// LineExists verifica si ya hay una línea del producto en la recepción
	// (excluyendo excludeLineID, vacío para inserciones).
	LineExists(receiptID, productID, excludeLineID string) (bool, error)
	// SumLines recalcula Σ(cantidad × costo) desde las líneas (operación de
	// reparación/verificación del total materializado).
	SumLines(receiptID string) (decimal.Decimal, error)
}
