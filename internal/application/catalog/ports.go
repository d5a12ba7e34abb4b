package catalog

import (
	"context"

	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos atados a ella.
// Mismo contrato que el de las fichas: la fila bloqueada por Update serializa contra la apertura de fichas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ticketRepo repository.TicketRepository,
		ledgerRepo repository.SalesLedgerRepository,
	) error) error
}
