package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

var _ repository.SalesLedgerRepository = (*SalesLedgerRepo)(nil)

// SalesLedgerRepo histórico de ventas sobre PostgreSQL.
type SalesLedgerRepo struct {
	q Querier
}

// NewSalesLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesLedgerRepository(q Querier) *SalesLedgerRepo {
	return &SalesLedgerRepo{q: q}
}

// Append inserta todas las filas en un batch dentro de un savepoint (o tx propia si q es el pool).
// Si falla, solo se deshace el savepoint y la tx del caller sigue viva.
func (r *SalesLedgerRepo) Append(ctx context.Context, entries []entity.SalesEntry) error {
	if len(entries) == 0 {
		return nil
	}
	sp, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ledger savepoint: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	query := `
		INSERT INTO sales_ledger (id, ticket_number, product_id, product_name, quantity, unit_price,
		                          line_total, sold_at, staff_id, staff_name, confirmed_by, confirmed_by_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		batch.Queue(query,
			e.ID, e.TicketNumber, e.ProductID, e.ProductName, e.Quantity, e.UnitPrice,
			e.LineTotal, e.SoldAt, nullableUUID(e.StaffID), e.StaffName,
			nullableUUID(e.ConfirmedBy), e.ConfirmedByName,
		)
	}
	br := sp.SendBatch(ctx, batch)
	for range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert ledger batch: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("ledger release savepoint: %w", err)
	}
	return nil
}

// ListByRange filas con from <= sold_at < to, más recientes primero y luego por número de ficha.
func (r *SalesLedgerRepo) ListByRange(ctx context.Context, from, to time.Time) ([]entity.SalesEntry, error) {
	query := `
		SELECT id, ticket_number, product_id, product_name, quantity, unit_price, line_total, sold_at,
		       COALESCE(staff_id::text, ''), staff_name, COALESCE(confirmed_by::text, ''), confirmed_by_name
		FROM sales_ledger
		WHERE sold_at >= $1 AND sold_at < $2
		ORDER BY sold_at DESC, ticket_number`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	out := make([]entity.SalesEntry, 0)
	for rows.Next() {
		var e entity.SalesEntry
		if err := rows.Scan(
			&e.ID, &e.TicketNumber, &e.ProductID, &e.ProductName, &e.Quantity, &e.UnitPrice, &e.LineTotal,
			&e.SoldAt, &e.StaffID, &e.StaffName, &e.ConfirmedBy, &e.ConfirmedByName,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SummarizeRange fichas distintas y total vendido en [from, to).
func (r *SalesLedgerRepo) SummarizeRange(ctx context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	query := `
		SELECT COUNT(DISTINCT ticket_number), COALESCE(SUM(line_total), 0)
		FROM sales_ledger
		WHERE sold_at >= $1 AND sold_at < $2`
	var tickets int
	var revenue decimal.Decimal
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&tickets, &revenue); err != nil {
		return 0, decimal.Zero, fmt.Errorf("summarize ledger: %w", err)
	}
	return tickets, revenue, nil
}

// nullableUUID "" → NULL; un id no uuid (usuarios de prueba) también se guarda como NULL.
func nullableUUID(id string) any {
	if !validUUID(id) {
		return nil
	}
	return id
}
