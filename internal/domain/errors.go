package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrReferential     = errors.New("referencia inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrCostUnavailable = errors.New("costo promedio no disponible")
	// ErrLedgerDesync indica que una línea no tiene movimiento enlazado en el kardex.
	// Es una invariante rota: se reporta como defecto, nunca se ignora en silencio.
	ErrLedgerDesync = errors.New("línea sin movimiento enlazado en el kardex")
)
