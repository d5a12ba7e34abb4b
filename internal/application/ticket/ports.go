package ticket

import (
	"context"

	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn devuelve error se hace rollback completo; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ticketRepo repository.TicketRepository,
		ledgerRepo repository.SalesLedgerRepository,
	) error) error
}
