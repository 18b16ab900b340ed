package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	Search        *string // busca en notas
	PaymentMethod *string
	From          *time.Time
	To            *time.Time
}

// SaleRepository define el puerto de persistencia de ventas (encabezado +
// líneas). Espejo de ReceiptRepository: el total derivado solo se toca vía
// AddToTotal/SetTotal dentro de la transacción del agregador.
type SaleRepository interface {
	Create(s *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	GetForUpdate(id string) (*entity.Sale, error)
	UpdateHeader(s *entity.Sale) error
	AddToTotal(id string, delta decimal.Decimal) error
	SetTotal(id string, total decimal.Decimal) error
	Delete(id string) error
	List(f SaleFilter, limit, offset int) ([]*entity.Sale, int, error)

	CreateLine(l *entity.SaleLine) error
	GetLine(lineID string) (*entity.SaleLine, error)
	UpdateLine(l *entity.SaleLine) error
	DeleteLine(lineID string) error
	ListLines(saleID string) ([]*entity.SaleLine, error)
	SumLines(saleID string) (decimal.Decimal, error)
}
