package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
)

// SalesLedgerRepository histórico de ventas confirmadas (append-only, solo lectura para reportes).
type SalesLedgerRepository interface {
	// Append inserta las filas de forma atómica entre sí. Si falla dentro de una transacción
	// mayor, la transacción del caller sigue utilizable (savepoint).
	Append(ctx context.Context, entries []entity.SalesEntry) error
	// ListByRange filas con from <= sold_at < to, más recientes primero y luego por número de ficha.
	ListByRange(ctx context.Context, from, to time.Time) ([]entity.SalesEntry, error)
	// SummarizeRange cantidad de números de ficha distintos y suma de line_total en [from, to).
	SummarizeRange(ctx context.Context, from, to time.Time) (tickets int, revenue decimal.Decimal, err error)
}
