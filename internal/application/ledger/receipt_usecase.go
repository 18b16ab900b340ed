package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReceiptUseCase es el agregador de recepciones: mantiene el total del
// encabezado en lockstep con sus líneas y con el kardex. Cada mutación de
// línea ejecuta su guion fijo (ajustar total, mutar línea, escribir kardex)
// dentro de una sola transacción; el encabezado se bloquea primero
// (SELECT FOR UPDATE) para serializar mutaciones concurrentes de líneas
// del mismo encabezado.
type ReceiptUseCase struct {
	txRunner    TxRunner
	receiptRepo repository.ReceiptRepository // lecturas fuera de transacción
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(txRunner TxRunner, receiptRepo repository.ReceiptRepository) *ReceiptUseCase {
	return &ReceiptUseCase{txRunner: txRunner, receiptRepo: receiptRepo}
}

// CreateReceipt crea el encabezado y sus líneas iniciales (si las hay) en una
// sola transacción. El total arranca en cero y lo construyen las líneas.
func (uc *ReceiptUseCase) CreateReceipt(ctx context.Context, in dto.CreateReceiptRequest) (*entity.StockReceipt, error) {
	date := time.Now()
	if in.ReceiptDate != nil {
		date = *in.ReceiptDate
	}
	header := &entity.StockReceipt{
		RefNo:       in.RefNo,
		ReceiptDate: date,
		TotalCost:   decimal.Zero,
		IsOpening:   in.IsOpening,
		Notes:       in.Notes,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := receiptRepo.Create(header); err != nil {
			return err
		}
		for _, item := range in.Items {
			if _, err := insertReceiptLine(movRepo, receiptRepo, productRepo, header, item); err != nil {
				return err
			}
			header.TotalCost = header.TotalCost.Add(decimal.NewFromInt(item.Quantity).Mul(item.UnitCost))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

// AddLine agrega una línea a una recepción existente: bloquea el encabezado,
// suma cantidad×costo al total y registra la entrada en el kardex, todo en
// la misma transacción.
func (uc *ReceiptUseCase) AddLine(ctx context.Context, receiptID string, item dto.ReceiptItemRequest) (*entity.StockReceiptLine, error) {
	var line *entity.StockReceiptLine
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		header, err := receiptRepo.GetForUpdate(receiptID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, receiptID)
		}
		line, err = insertReceiptLine(movRepo, receiptRepo, productRepo, header, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// insertReceiptLine guion de inserción compartido por CreateReceipt y AddLine.
// El caller ya garantiza que el encabezado existe (y está bloqueado si es
// preexistente).
func insertReceiptLine(
	movRepo repository.MovementRepository,
	receiptRepo repository.ReceiptRepository,
	productRepo repository.ProductRepository,
	header *entity.StockReceipt,
	item dto.ReceiptItemRequest,
) (*entity.StockReceiptLine, error) {
	if item.Quantity <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser > 0 (producto %s)", domain.ErrInvalidInput, item.ProductID)
	}
	if item.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo (producto %s)", domain.ErrInvalidInput, item.ProductID)
	}
	product, err := productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrReferential, item.ProductID)
	}
	dup, err := receiptRepo.LineExists(header.ID, item.ProductID, "")
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("%w: producto %s ya tiene línea en la recepción %s", domain.ErrDuplicate, item.ProductID, header.ID)
	}

	line := &entity.StockReceiptLine{
		ReceiptID: header.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitCost:  item.UnitCost,
	}
	if err := receiptRepo.CreateLine(line); err != nil {
		return nil, err
	}
	if err := receiptRepo.AddToTotal(header.ID, line.Amount()); err != nil {
		return nil, err
	}

	kind := entity.MovementStockIn
	if header.IsOpening {
		kind = entity.MovementOpening
	}
	unitCost := item.UnitCost
	mov := &entity.Movement{
		ProductID:     item.ProductID,
		Kind:          kind,
		Quantity:      item.Quantity,
		UnitCost:      &unitCost,
		ReceiptLineID: &line.ID,
		MovementDate:  header.ReceiptDate,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLine revisa una línea: ajusta el total por el delta
// (−viejo + nuevo) y revisa el movimiento enlazado, sin crear duplicados.
func (uc *ReceiptUseCase) UpdateLine(ctx context.Context, lineID string, in dto.UpdateReceiptLineRequest) (*entity.StockReceiptLine, error) {
	var updated *entity.StockReceiptLine
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		line, err := receiptRepo.GetLine(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: línea de recepción %s", domain.ErrNotFound, lineID)
		}
		header, err := receiptRepo.GetForUpdate(line.ReceiptID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, line.ReceiptID)
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
			dup, err := receiptRepo.LineExists(line.ReceiptID, *in.ProductID, line.ID)
			if err != nil {
				return err
			}
			if dup {
				return fmt.Errorf("%w: producto %s ya tiene línea en la recepción %s", domain.ErrDuplicate, *in.ProductID, line.ReceiptID)
			}
			next.ProductID = *in.ProductID
		}
		if in.Quantity != nil {
			next.Quantity = *in.Quantity
		}
		if in.UnitCost != nil {
			next.UnitCost = *in.UnitCost
		}
		if next.Quantity <= 0 {
			return fmt.Errorf("%w: cantidad debe ser > 0 (línea %s)", domain.ErrInvalidInput, lineID)
		}
		if next.UnitCost.IsNegative() {
			return fmt.Errorf("%w: costo unitario negativo (línea %s)", domain.ErrInvalidInput, lineID)
		}

		if err := receiptRepo.UpdateLine(&next); err != nil {
			return err
		}
		if err := receiptRepo.AddToTotal(header.ID, next.Amount().Sub(oldAmount)); err != nil {
			return err
		}
		if err := movRepo.ReviseForReceiptLine(line.ID, next.ProductID, next.Quantity, next.UnitCost, header.ReceiptDate); err != nil {
			return reportDesync(err, "receipt_line", line.ID)
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLine elimina una línea: resta su valor del total y elimina el
// movimiento enlazado en la misma transacción.
func (uc *ReceiptUseCase) DeleteLine(ctx context.Context, lineID string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		line, err := receiptRepo.GetLine(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: línea de recepción %s", domain.ErrNotFound, lineID)
		}
		if _, err := receiptRepo.GetForUpdate(line.ReceiptID); err != nil {
			return err
		}
		if err := receiptRepo.AddToTotal(line.ReceiptID, line.Amount().Neg()); err != nil {
			return err
		}
		if err := movRepo.RemoveForReceiptLine(line.ID); err != nil {
			return reportDesync(err, "receipt_line", line.ID)
		}
		return receiptRepo.DeleteLine(line.ID)
	})
}

// UpdateHeader actualiza ref_no/fecha/notas del encabezado. Si cambia la
// fecha, los movimientos de todas las líneas se revisan a la nueva fecha
// (la marca temporal del movimiento siempre es la fecha del encabezado).
func (uc *ReceiptUseCase) UpdateHeader(ctx context.Context, receiptID string, in dto.UpdateReceiptRequest) (*entity.StockReceipt, error) {
	var updated *entity.StockReceipt
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		header, err := receiptRepo.GetForUpdate(receiptID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, receiptID)
		}
		dateChanged := false
		if in.RefNo != nil {
			header.RefNo = in.RefNo
		}
		if in.Notes != nil {
			header.Notes = *in.Notes
		}
		if in.ReceiptDate != nil && !in.ReceiptDate.Equal(header.ReceiptDate) {
			header.ReceiptDate = *in.ReceiptDate
			dateChanged = true
		}
		if err := receiptRepo.UpdateHeader(header); err != nil {
			return err
		}
		if dateChanged {
			lines, err := receiptRepo.ListLines(header.ID)
			if err != nil {
				return err
			}
			for _, l := range lines {
				if err := movRepo.ReviseForReceiptLine(l.ID, l.ProductID, l.Quantity, l.UnitCost, header.ReceiptDate); err != nil {
					return reportDesync(err, "receipt_line", l.ID)
				}
			}
		}
		updated = header
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteReceipt elimina la recepción en cascada explícita: cada línea elimina
// su movimiento enlazado y luego cae el encabezado, todo como una unidad.
func (uc *ReceiptUseCase) DeleteReceipt(ctx context.Context, receiptID string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		header, err := receiptRepo.GetForUpdate(receiptID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, receiptID)
		}
		lines, err := receiptRepo.ListLines(receiptID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := movRepo.RemoveForReceiptLine(l.ID); err != nil {
				return reportDesync(err, "receipt_line", l.ID)
			}
			if err := receiptRepo.DeleteLine(l.ID); err != nil {
				return err
			}
		}
		return receiptRepo.Delete(receiptID)
	})
}

// RecalculateTotal recomputa el total desde las líneas y lo fija (operación
// de reparación del total materializado). Devuelve el total anterior y el
// recalculado para detección de deriva.
func (uc *ReceiptUseCase) RecalculateTotal(ctx context.Context, receiptID string) (before, after decimal.Decimal, err error) {
	err = uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		header, err := receiptRepo.GetForUpdate(receiptID)
		if err != nil {
			return err
		}
		if header == nil {
			return fmt.Errorf("%w: recepción %s", domain.ErrNotFound, receiptID)
		}
		sum, err := receiptRepo.SumLines(receiptID)
		if err != nil {
			return err
		}
		before, after = header.TotalCost, sum
		if !before.Equal(after) {
			log.Warn().
				Str("stock_in_id", receiptID).
				Str("total_almacenado", before.String()).
				Str("total_recalculado", after.String()).
				Msg("deriva detectada en total de recepción")
		}
		return receiptRepo.SetTotal(receiptID, sum)
	})
	return before, after, err
}

// Get devuelve la recepción con sus líneas.
func (uc *ReceiptUseCase) Get(ctx context.Context, receiptID string) (*entity.StockReceipt, []*entity.StockReceiptLine, error) {
	header, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, fmt.Errorf("%w: recepción %s", domain.ErrNotFound, receiptID)
	}
	lines, err := uc.receiptRepo.ListLines(receiptID)
	if err != nil {
		return nil, nil, err
	}
	return header, lines, nil
}

// List devuelve recepciones paginadas.
func (uc *ReceiptUseCase) List(ctx context.Context, f repository.ReceiptFilter, limit, offset int) ([]*entity.StockReceipt, int, error) {
	return uc.receiptRepo.List(f, limit, offset)
}

// reportDesync registra la invariante rota (línea sin movimiento enlazado)
// antes de propagarla: es un defecto, no una condición de negocio.
func reportDesync(err error, kind, lineID string) error {
	if err == nil {
		return nil
	}
	log.Error().Str("line_kind", kind).Str("line_id", lineID).Err(err).
		Msg("kardex desincronizado: línea sin movimiento enlazado")
	return err
}
