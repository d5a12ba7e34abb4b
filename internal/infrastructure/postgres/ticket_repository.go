package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

const ticketSelect = `
	SELECT t.id, t.number, t.staff_id, COALESCE(u.name, ''), t.total, t.status, t.created_at,
	       t.confirmed_at, t.confirmed_by, COALESCE(c.name, '')
	FROM tickets t
	LEFT JOIN users u ON u.id = t.staff_id
	LEFT JOIN users c ON c.id = t.confirmed_by`

// TicketRepo implementación del puerto TicketRepository sobre PostgreSQL (usable con pool o tx).
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

// LockPendingByNumber serializa las aperturas con el mismo número (advisory lock de la tx)
// y bloquea la ficha pendiente, si existe.
func (r *TicketRepo) LockPendingByNumber(ctx context.Context, number string) (*entity.Ticket, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, number); err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	query := ticketSelect + `
	WHERE t.number = $1 AND t.status = 'pendente'
	FOR UPDATE OF t`
	return r.getOne(ctx, query, number)
}

// Create persiste la cabecera de la ficha.
func (r *TicketRepo) Create(ctx context.Context, t *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, number, staff_id, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Number, t.StaffID, t.Total, string(t.Status), t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "tickets_pending_number_key") {
			return &domain.DuplicateTicketError{Number: t.Number}
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// CreateLine persiste una línea con el precio congelado.
func (r *TicketRepo) CreateLine(ctx context.Context, l *entity.TicketLine) error {
	query := `
		INSERT INTO ticket_lines (id, ticket_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, l.ID, l.TicketID, l.ProductID, l.Quantity, l.UnitPrice)
	if err != nil {
		if isForeignKeyViolation(err, "ticket_lines_product_id_fkey") {
			return &domain.ProductNotFoundError{ProductID: l.ProductID}
		}
		if isCheckViolation(err, "ticket_lines_quantity_check") {
			return domain.Invalid("quantidade", "debe ser mayor que cero")
		}
		return fmt.Errorf("insert ticket line: %w", err)
	}
	return nil
}

// UpdateTotal fija el total calculado de la ficha.
func (r *TicketRepo) UpdateTotal(ctx context.Context, ticketID string, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE tickets SET total = $2 WHERE id = $1`, ticketID, total)
	if err != nil {
		return fmt.Errorf("update ticket total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByIDForUpdate bloquea la ficha hasta el fin de la tx.
func (r *TicketRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Ticket, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, ticketSelect+`
	WHERE t.id = $1
	FOR UPDATE OF t`, id)
}

// ListLines líneas de la ficha en orden de carga.
func (r *TicketRepo) ListLines(ctx context.Context, ticketID string) ([]entity.TicketLine, error) {
	byTicket, err := r.linesFor(ctx, []string{ticketID})
	if err != nil {
		return nil, err
	}
	return byTicket[ticketID], nil
}

// MarkConfirmed pasa la ficha a confirmada.
func (r *TicketRepo) MarkConfirmed(ctx context.Context, id, confirmedBy string, at time.Time) error {
	query := `
		UPDATE tickets SET status = 'confirmada', confirmed_at = $2, confirmed_by = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, at, confirmedBy)
	if err != nil {
		return fmt.Errorf("confirm ticket: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la ficha; las líneas caen por ON DELETE CASCADE.
func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

// FindByNumber pendiente primero; con includeConfirmed, la confirmada más reciente.
func (r *TicketRepo) FindByNumber(ctx context.Context, number string, includeConfirmed bool) (*entity.Ticket, error) {
	query := ticketSelect + `
	WHERE t.number = $1 AND (t.status = 'pendente' OR $2)
	ORDER BY (t.status = 'pendente') DESC, t.created_at DESC
	LIMIT 1`
	t, err := r.getOne(ctx, query, number, includeConfirmed)
	if err != nil || t == nil {
		return t, err
	}
	if t.Lines, err = r.ListLines(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListPending fichas pendientes con líneas, más recientes primero.
func (r *TicketRepo) ListPending(ctx context.Context) ([]*entity.Ticket, error) {
	rows, err := r.q.Query(ctx, ticketSelect+`
	WHERE t.status = 'pendente'
	ORDER BY t.created_at DESC, t.number`)
	if err != nil {
		return nil, fmt.Errorf("list pending tickets: %w", err)
	}
	list := make([]*entity.Ticket, 0)
	ids := make([]string, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		list = append(list, t)
		ids = append(ids, t.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending tickets: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	byTicket, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		t.Lines = byTicket[t.ID]
	}
	return list, nil
}

func (r *TicketRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Ticket, error) {
	t, err := scanTicket(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// linesFor trae las líneas de varias fichas en una sola consulta.
func (r *TicketRepo) linesFor(ctx context.Context, ticketIDs []string) (map[string][]entity.TicketLine, error) {
	query := `
		SELECT l.id, l.ticket_id, l.product_id, p.name, l.quantity, l.unit_price
		FROM ticket_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.ticket_id = ANY($1::uuid[])
		ORDER BY l.seq`
	rows, err := r.q.Query(ctx, query, ticketIDs)
	if err != nil {
		return nil, fmt.Errorf("list ticket lines: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.TicketLine, len(ticketIDs))
	for rows.Next() {
		var l entity.TicketLine
		if err := rows.Scan(&l.ID, &l.TicketID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan ticket line: %w", err)
		}
		out[l.TicketID] = append(out[l.TicketID], l)
	}
	return out, rows.Err()
}

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	var status string
	err := row.Scan(
		&t.ID, &t.Number, &t.StaffID, &t.StaffName, &t.Total, &status, &t.CreatedAt,
		&t.ConfirmedAt, &t.ConfirmedBy, &t.ConfirmedByName,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TicketStatus(status)
	return &t, nil
}
