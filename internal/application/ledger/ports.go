package ledger

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad atómica del motor: o se aplican
// el ajuste del total del encabezado, la mutación de la línea y la escritura
// en el kardex completos, o no se aplica nada. Ningún lector puede observar
// un estado intermedio.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error) error
}
