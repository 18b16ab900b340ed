package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// SaleUseCase es el agregador de ventas: espejo del de recepciones.
// Mantiene total_amount = Σ(cantidad × precio × (1 − descuento)) y un
// movimiento SALE por línea con cantidad negada y precio neto, todo dentro
// de la transacción de cada mutación.
type SaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository // lecturas fuera de transacción
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, saleRepo: saleRepo}
}

// normalizePayment acepta variantes de mayúsculas ("cash", "QR", "qr") y
// devuelve el valor canónico, o cadena vacía si no es un método válido.
func normalizePayment(m string) string {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case "cash":
		return entity.PaymentCash
	case "card":
		return entity.PaymentCard
	case "qr":
		return entity.PaymentQR
	}
	return ""
}

// CreateSale crea el encabezado y sus líneas en una sola transacción.
// El precio unitario omitido en una línea toma el precio de catálogo del
// producto.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	method := normalizePayment(in.PaymentMethod)
	if method == "" {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	when := time.Now()
	if in.SaleDatetime != nil {
		when = *in.SaleDatetime
	}
	sale := &entity.Sale{
		SaleDatetime:  when,
		TotalAmount:   decimal.Zero,
		PaymentMethod: method,
		Notes:         in.Notes,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range in.Items {
			line, err := insertSaleLine(movRepo, saleRepo, productRepo, sale, item)
			if err != nil {
				return err
			}
			sale.TotalAmount = sale.TotalAmount.Add(line.Amount())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// AddLine agrega una línea a una venta existente bajo bloqueo del encabezado.
func (uc *SaleUseCase) AddLine(ctx context.Context, saleID string, item dto.SaleItemRequest) (*entity.SaleLine, error) {
	var line *entity.SaleLine
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		line, err = insertSaleLine(movRepo, saleRepo, productRepo, sale, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// validateSaleLine valida cantidad, precio y descuento de una línea.
func validateSaleLine(lineRef string, quantity int64, unitPrice, discount decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: cantidad debe ser > 0 (%s)", domain.ErrInvalidInput, lineRef)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("%w: precio unitario negativo (%s)", domain.ErrInvalidInput, lineRef)
	}
	if discount.IsNegative() || discount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: descuento fuera de [0, 1) (%s)", domain.ErrInvalidInput, lineRef)
	}
	return nil
}

// insertSaleLine guion de inserción compartido por CreateSale y AddLine:
// crea la línea, suma su valor al total y registra el movimiento SALE con
// cantidad negada y precio neto a la fecha de la venta.
func insertSaleLine(
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	sale *entity.Sale,
	item dto.SaleItemRequest,
) (*entity.SaleLine, error) {
	product, err := productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrReferential, item.ProductID)
	}
	unitPrice := product.Price
	if item.UnitPrice != nil {
		unitPrice = *item.UnitPrice
	}
	if err := validateSaleLine("producto "+item.ProductID, item.Quantity, unitPrice, item.Discount); err != nil {
		return nil, err
	}

	line := &entity.SaleLine{
		SaleID:    sale.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: unitPrice,
		Discount:  item.Discount,
	}
	if err := saleRepo.CreateLine(line); err != nil {
		return nil, err
	}
	if err := saleRepo.AddToTotal(sale.ID, line.Amount()); err != nil {
		return nil, err
	}

	netPrice := line.NetPrice()
	mov := &entity.Movement{
		ProductID:    item.ProductID,
		Kind:         entity.MovementSale,
		Quantity:     -item.Quantity,
		SalePrice:    &netPrice,
		SaleLineID:   &line.ID,
		MovementDate: sale.SaleDatetime,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLine revisa una línea de venta: ajusta el total por el delta y revisa
// el movimiento enlazado (cantidad negada, precio neto, producto) sin crear
// un duplicado.
func (uc *SaleUseCase) UpdateLine(ctx context.Context, lineID string, in dto.UpdateSaleLineRequest) (*entity.SaleLine, error) {
	var updated *entity.SaleLine
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		line, err := saleRepo.GetLine(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: línea de venta %s", domain.ErrNotFound, lineID)
		}
		sale, err := saleRepo.GetForUpdate(line.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, line.SaleID)
		}

		oldAmount := line.Amount()
		next := *line
		if in.ProductID != nil && *in.ProductID != line.ProductID {
			product, err := productRepo.GetByID(*in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrReferential, *in.ProductID)
			}
			next.ProductID = *in.ProductID
		}
		if in.Quantity != nil {
			next.Quantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			next.UnitPrice = *in.UnitPrice
		}
		if in.Discount != nil {
			next.Discount = *in.Discount
		}
		if err := validateSaleLine("línea "+lineID, next.Quantity, next.UnitPrice, next.Discount); err != nil {
			return err
		}

		if err := saleRepo.UpdateLine(&next); err != nil {
			return err
		}
		if err := saleRepo.AddToTotal(sale.ID, next.Amount().Sub(oldAmount)); err != nil {
			return err
		}
		if err := movRepo.ReviseForSaleLine(line.ID, next.ProductID, -next.Quantity, next.NetPrice(), sale.SaleDatetime); err != nil {
			return reportDesync(err, "sale_line", line.ID)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLine elimina una línea de venta: resta su valor del total y elimina
// el movimiento enlazado en la misma transacción.
func (uc *SaleUseCase) DeleteLine(ctx context.Context, lineID string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		line, err := saleRepo.GetLine(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: línea de venta %s", domain.ErrNotFound, lineID)
		}
		if _, err := saleRepo.GetForUpdate(line.SaleID); err != nil {
			return err
		}
		if err := saleRepo.AddToTotal(line.SaleID, line.Amount().Neg()); err != nil {
			return err
		}
		if err := movRepo.RemoveForSaleLine(line.ID); err != nil {
			return reportDesync(err, "sale_line", line.ID)
		}
		return saleRepo.DeleteLine(line.ID)
	})
}

// UpdateHeader actualiza fecha/método de pago/notas. Si cambia la fecha, los
// movimientos de todas las líneas se revisan a la nueva marca temporal.
func (uc *SaleUseCase) UpdateHeader(ctx context.Context, saleID string, in dto.UpdateSaleRequest) (*entity.Sale, error) {
	var updated *entity.Sale
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		if in.PaymentMethod != nil {
			method := normalizePayment(*in.PaymentMethod)
			if method == "" {
				return fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, *in.PaymentMethod)
			}
			sale.PaymentMethod = method
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
		}
		dateChanged := false
		if in.SaleDatetime != nil && !in.SaleDatetime.Equal(sale.SaleDatetime) {
			sale.SaleDatetime = *in.SaleDatetime
			dateChanged = true
		}
		if err := saleRepo.UpdateHeader(sale); err != nil {
			return err
		}
		if dateChanged {
			lines, err := saleRepo.ListLines(sale.ID)
			if err != nil {
				return err
			}
			for _, l := range lines {
				if err := movRepo.ReviseForSaleLine(l.ID, l.ProductID, -l.Quantity, l.NetPrice(), sale.SaleDatetime); err != nil {
					return reportDesync(err, "sale_line", l.ID)
				}
			}
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteSale elimina la venta en cascada explícita: movimiento y línea por
// cada línea, luego el encabezado, como una sola unidad atómica. El stock
// de los productos afectados refleja la eliminación exactamente.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, saleID string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		lines, err := saleRepo.ListLines(saleID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := movRepo.RemoveForSaleLine(l.ID); err != nil {
				return reportDesync(err, "sale_line", l.ID)
			}
			if err := saleRepo.DeleteLine(l.ID); err != nil {
				return err
			}
		}
		return saleRepo.Delete(saleID)
	})
}

// RecalculateTotal recomputa total_amount desde las líneas y lo fija
// (reparación del total materializado). Devuelve anterior y recalculado.
func (uc *SaleUseCase) RecalculateTotal(ctx context.Context, saleID string) (before, after decimal.Decimal, err error) {
	err = uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.ReceiptRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		sum, err := saleRepo.SumLines(saleID)
		if err != nil {
			return err
		}
		before, after = sale.TotalAmount, sum
		return saleRepo.SetTotal(saleID, sum)
	})
	return before, after, err
}

// Get devuelve la venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, saleID string) (*entity.Sale, []*entity.SaleLine, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	lines, err := uc.saleRepo.ListLines(saleID)
	if err != nil {
		return nil, nil, err
	}
	return sale, lines, nil
}

// List devuelve ventas paginadas.
func (uc *SaleUseCase) List(ctx context.Context, f repository.SaleFilter, limit, offset int) ([]*entity.Sale, int, error) {
	return uc.saleRepo.List(f, limit, offset)
}
