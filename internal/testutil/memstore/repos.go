package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*ProductRepo)(nil)
	_ repository.TicketRepository      = (*TicketRepo)(nil)
	_ repository.SalesLedgerRepository = (*LedgerRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
)

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepo ProductRepository en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.v.lock()()
	if p.Stock < 0 || p.Price.IsNegative() {
		return domain.ErrInvalidInput
	}
	if _, ok := r.v.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.v.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.v.lock()()
	p, ok := r.v.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) (*entity.Product, error) {
	defer r.v.lock()()
	p, ok := r.v.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Stock-qty < 0 {
		// Igual que el CHECK (stock >= 0) de la tabla.
		return nil, domain.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now()
	r.v.s.products[id] = p
	return &p, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.v.lock()()
	if _, ok := r.v.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.Stock < 0 || p.Price.IsNegative() {
		return domain.ErrInvalidInput
	}
	r.v.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	if _, ok := r.v.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, lines := range r.v.s.lines {
		for _, l := range lines {
			if l.ProductID == id {
				return domain.ErrProductInUse
			}
		}
	}
	delete(r.v.s.products, id)
	return nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.v.lock()()
	return r.filter(func(*entity.Product) bool { return true }), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.Product, error) {
	defer r.v.lock()()
	list := r.filter(func(p *entity.Product) bool { return p.IsLowStock(threshold) })
	sort.SliceStable(list, func(i, j int) bool { return list[i].Stock < list[j].Stock })
	return list, nil
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	defer r.v.lock()()
	if r.v.s.ProductCountErr != nil {
		return 0, r.v.s.ProductCountErr
	}
	return len(r.v.s.products), nil
}

func (r *ProductRepo) CountLowStock(_ context.Context, threshold int) (int, error) {
	defer r.v.lock()()
	if r.v.s.ProductCountErr != nil {
		return 0, r.v.s.ProductCountErr
	}
	return len(r.filter(func(p *entity.Product) bool { return p.IsLowStock(threshold) })), nil
}

// filter devuelve copias ordenadas por nombre.
func (r *ProductRepo) filter(keep func(*entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0, len(r.v.s.products))
	for _, p := range r.v.s.products {
		p := p
		if keep(&p) {
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// ── Fichas ────────────────────────────────────────────────────────────────────

// TicketRepo TicketRepository en memoria.
type TicketRepo struct{ v view }

func (r *TicketRepo) LockPendingByNumber(_ context.Context, number string) (*entity.Ticket, error) {
	defer r.v.lock()()
	for _, t := range r.v.s.tickets {
		if t.Number == number && t.Status == entity.TicketPending {
			return r.hydrate(t, false), nil
		}
	}
	return nil, nil
}

func (r *TicketRepo) Create(_ context.Context, t *entity.Ticket) error {
	defer r.v.lock()()
	// Igual que el índice único parcial (number) WHERE status = 'pendente'.
	for _, existing := range r.v.s.tickets {
		if existing.Number == t.Number && existing.Status == entity.TicketPending && t.Status == entity.TicketPending {
			return &domain.DuplicateTicketError{Number: t.Number}
		}
	}
	stored := *t
	stored.Lines = nil
	r.v.s.tickets[t.ID] = stored
	return nil
}

func (r *TicketRepo) CreateLine(_ context.Context, l *entity.TicketLine) error {
	defer r.v.lock()()
	if _, ok := r.v.s.tickets[l.TicketID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.v.s.products[l.ProductID]; !ok {
		return &domain.ProductNotFoundError{ProductID: l.ProductID}
	}
	if l.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	r.v.s.lines[l.TicketID] = append(r.v.s.lines[l.TicketID], *l)
	return nil
}

func (r *TicketRepo) UpdateTotal(_ context.Context, ticketID string, total decimal.Decimal) error {
	defer r.v.lock()()
	t, ok := r.v.s.tickets[ticketID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Total = total
	r.v.s.tickets[ticketID] = t
	return nil
}

func (r *TicketRepo) GetByIDForUpdate(_ context.Context, id string) (*entity.Ticket, error) {
	defer r.v.lock()()
	t, ok := r.v.s.tickets[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(t, false), nil
}

func (r *TicketRepo) ListLines(_ context.Context, ticketID string) ([]entity.TicketLine, error) {
	defer r.v.lock()()
	return r.linesOf(ticketID), nil
}

func (r *TicketRepo) MarkConfirmed(_ context.Context, id, confirmedBy string, at time.Time) error {
	defer r.v.lock()()
	t, ok := r.v.s.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	by := confirmedBy
	t.Status = entity.TicketConfirmed
	t.ConfirmedAt = &at
	t.ConfirmedBy = &by
	r.v.s.tickets[id] = t
	return nil
}

func (r *TicketRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	delete(r.v.s.tickets, id)
	delete(r.v.s.lines, id)
	return nil
}

func (r *TicketRepo) FindByNumber(_ context.Context, number string, includeConfirmed bool) (*entity.Ticket, error) {
	defer r.v.lock()()
	var candidates []*entity.Ticket
	for _, t := range r.v.s.tickets {
		if t.Number != number {
			continue
		}
		if t.Status == entity.TicketPending {
			return r.hydrate(t, true), nil
		}
		if includeConfirmed {
			candidates = append(candidates, r.hydrate(t, true))
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sortTicketsNewestFirst(candidates)
	return candidates[0], nil
}

func (r *TicketRepo) ListPending(_ context.Context) ([]*entity.Ticket, error) {
	defer r.v.lock()()
	var list []*entity.Ticket
	for _, t := range r.v.s.tickets {
		if t.Status == entity.TicketPending {
			list = append(list, r.hydrate(t, true))
		}
	}
	sortTicketsNewestFirst(list)
	return list, nil
}

// hydrate copia la ficha y completa nombres (y líneas si withLines).
func (r *TicketRepo) hydrate(t entity.Ticket, withLines bool) *entity.Ticket {
	if u, ok := r.v.s.users[t.StaffID]; ok {
		t.StaffName = u.Name
	}
	if t.ConfirmedBy != nil {
		if u, ok := r.v.s.users[*t.ConfirmedBy]; ok {
			t.ConfirmedByName = u.Name
		}
	}
	t.Lines = nil
	if withLines {
		t.Lines = r.linesOf(t.ID)
	}
	return &t
}

func (r *TicketRepo) linesOf(ticketID string) []entity.TicketLine {
	src := r.v.s.lines[ticketID]
	out := make([]entity.TicketLine, 0, len(src))
	for _, l := range src {
		if p, ok := r.v.s.products[l.ProductID]; ok {
			l.ProductName = p.Name
		}
		out = append(out, l)
	}
	return out
}

// ── Histórico ─────────────────────────────────────────────────────────────────

// LedgerRepo SalesLedgerRepository en memoria.
type LedgerRepo struct{ v view }

func (r *LedgerRepo) Append(_ context.Context, entries []entity.SalesEntry) error {
	defer r.v.lock()()
	if r.v.s.LedgerAppendErr != nil {
		return r.v.s.LedgerAppendErr
	}
	r.v.s.ledger = append(r.v.s.ledger, entries...)
	return nil
}

func (r *LedgerRepo) ListByRange(_ context.Context, from, to time.Time) ([]entity.SalesEntry, error) {
	defer r.v.lock()()
	if r.v.s.LedgerQueryErr != nil {
		return nil, r.v.s.LedgerQueryErr
	}
	var out []entity.SalesEntry
	for _, e := range r.v.s.ledger {
		if !e.SoldAt.Before(from) && e.SoldAt.Before(to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SoldAt.Equal(out[j].SoldAt) {
			return out[i].SoldAt.After(out[j].SoldAt)
		}
		return out[i].TicketNumber < out[j].TicketNumber
	})
	return out, nil
}

func (r *LedgerRepo) SummarizeRange(ctx context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	entries, err := r.ListByRange(ctx, from, to)
	if err != nil {
		return 0, decimal.Zero, err
	}
	numbers := make(map[string]struct{})
	revenue := decimal.Zero
	for _, e := range entries {
		numbers[e.TicketNumber] = struct{}{}
		revenue = revenue.Add(e.LineTotal)
	}
	return len(numbers), revenue, nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UserRepo UserRepository en memoria.
type UserRepo struct{ v view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.v.lock()()
	for _, existing := range r.v.s.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	r.v.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.v.lock()()
	u, ok := r.v.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.v.lock()()
	for _, u := range r.v.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}
