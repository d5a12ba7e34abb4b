package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
)

// TicketRepository define el puerto de persistencia para fichas y sus líneas.
// Las búsquedas devuelven (nil, nil) cuando no hay resultado.
type TicketRepository interface {
	// LockPendingByNumber toma un lock exclusivo sobre el número (exista o no una ficha con él)
	// y devuelve la ficha pendiente con ese número, si la hay. Solo tiene sentido dentro de una tx.
	LockPendingByNumber(ctx context.Context, number string) (*entity.Ticket, error)
	Create(ctx context.Context, ticket *entity.Ticket) error
	CreateLine(ctx context.Context, line *entity.TicketLine) error
	UpdateTotal(ctx context.Context, ticketID string, total decimal.Decimal) error

	// GetByIDForUpdate bloquea la ficha (no sus líneas) y trae el nombre del atendente.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Ticket, error)
	// ListLines devuelve las líneas con el nombre actual del producto.
	ListLines(ctx context.Context, ticketID string) ([]entity.TicketLine, error)
	MarkConfirmed(ctx context.Context, id, confirmedBy string, at time.Time) error
	// Delete borra la ficha y, en cascada, sus líneas.
	Delete(ctx context.Context, id string) error

	// FindByNumber devuelve la ficha con líneas. Con includeConfirmed=false solo ve pendientes;
	// con true prefiere la pendiente y si no la confirmada más reciente.
	FindByNumber(ctx context.Context, number string, includeConfirmed bool) (*entity.Ticket, error)
	// ListPending fichas pendientes con sus líneas, más recientes primero.
	ListPending(ctx context.Context) ([]*entity.Ticket, error)
}
