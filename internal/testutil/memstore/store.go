// Package memstore implementa en memoria los puertos de persistencia y el TxRunner
// para los tests de aplicación y HTTP. Las transacciones se serializan con un mutex y,
// si el callback falla, el estado se restaura completo (mismo contrato que PostgreSQL).
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu       sync.Mutex
	products map[string]entity.Product
	tickets  map[string]entity.Ticket
	lines    map[string][]entity.TicketLine
	ledger   []entity.SalesEntry
	users    map[string]entity.User

	// Fallos inyectables. Se leen bajo el mutex; asignarlos antes de lanzar operaciones.
	LedgerAppendErr error
	LedgerQueryErr  error
	ProductCountErr error
}

// New construye un store vacío.
func New() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		tickets:  make(map[string]entity.Ticket),
		lines:    make(map[string][]entity.TicketLine),
		users:    make(map[string]entity.User),
	}
}

type state struct {
	products map[string]entity.Product
	tickets  map[string]entity.Ticket
	lines    map[string][]entity.TicketLine
	ledger   []entity.SalesEntry
	users    map[string]entity.User
}

func (s *Store) snapshot() state {
	st := state{
		products: make(map[string]entity.Product, len(s.products)),
		tickets:  make(map[string]entity.Ticket, len(s.tickets)),
		lines:    make(map[string][]entity.TicketLine, len(s.lines)),
		ledger:   append([]entity.SalesEntry(nil), s.ledger...),
		users:    make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		st.products[k] = v
	}
	for k, v := range s.tickets {
		st.tickets[k] = v
	}
	for k, v := range s.lines {
		st.lines[k] = append([]entity.TicketLine(nil), v...)
	}
	for k, v := range s.users {
		st.users[k] = v
	}
	return st
}

func (s *Store) restore(st state) {
	s.products = st.products
	s.tickets = st.tickets
	s.lines = st.lines
	s.ledger = st.ledger
	s.users = st.users
}

// Run ejecuta fn como una transacción: exclusiva frente a cualquier otra operación y
// con rollback completo si fn devuelve error.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ticketRepo repository.TicketRepository,
	ledgerRepo repository.SalesLedgerRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	v := view{s: s, inTx: true}
	if err := fn(&ProductRepo{v}, &TicketRepo{v}, &LedgerRepo{v}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Products repo de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{view{s: s}} }

// Tickets repo de fichas fuera de transacción.
func (s *Store) Tickets() *TicketRepo { return &TicketRepo{view{s: s}} }

// Ledger repo del histórico fuera de transacción.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{view{s: s}} }

// Users repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{view{s: s}} }

// view decide si hay que tomar el mutex: dentro de Run ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

// ── Helpers para tests ────────────────────────────────────────────────────────

// SeedProduct inserta un producto directamente.
func (s *Store) SeedProduct(p entity.Product) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	s.products[p.ID] = p
	return p
}

// SeedUser inserta un usuario directamente.
func (s *Store) SeedUser(u entity.User) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return u
}

// SeedLedger agrega filas al histórico directamente.
func (s *Store) SeedLedger(entries ...entity.SalesEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, entries...)
}

// Product devuelve el estado actual de un producto.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// SetPrice cambia el precio de catálogo de un producto.
func (s *Store) SetPrice(id string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[id]
	p.Price = price
	s.products[id] = p
}

// LedgerEntries copia del histórico en orden de inserción.
func (s *Store) LedgerEntries() []entity.SalesEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.SalesEntry(nil), s.ledger...)
}

// PendingCount cantidad de fichas pendientes con number.
func (s *Store) PendingCount(number string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tickets {
		if t.Number == number && t.Status == entity.TicketPending {
			n++
		}
	}
	return n
}

// TicketCount cantidad total de fichas almacenadas (cualquier estado).
func (s *Store) TicketCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

// LineCount cantidad total de líneas almacenadas.
func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += len(l)
	}
	return n
}

func sortTicketsNewestFirst(list []*entity.Ticket) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
