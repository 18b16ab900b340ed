package ledger_test

import (
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

func ledgerReceiptFilter() repository.ReceiptFilter {
	return repository.ReceiptFilter{}
}

func movementFilterFor(productID string) repository.MovementFilter {
	return repository.MovementFilter{ProductID: &productID}
}

func movementFilterKind(productID, kind string) repository.MovementFilter {
	return repository.MovementFilter{ProductID: &productID, Kind: &kind}
}
