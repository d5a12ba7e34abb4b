package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fichas-api/internal/application/catalog"
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/application/report"
	"github.com/jhoicas/fichas-api/internal/application/ticket"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fichas-api/pkg/config"
)

// Tests contra una base real. Se saltan si TEST_DATABASE_URL no está definido.
// La base se vacía en cada test.

func newDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE sales_ledger, ticket_lines, tickets, products, users`)
	require.NoError(t, err)
	return pool
}

type fixture struct {
	pool    *pgxpool.Pool
	staff   entity.StaffIdentity
	product entity.Product
	tickets *ticket.UseCase
}

func newFixture(t *testing.T, stock int) fixture {
	t.Helper()
	pool := newDB(t)
	ctx := context.Background()

	u := entity.User{ID: uuid.New().String(), Username: "maria", PasswordHash: "x", Name: "Maria", Role: entity.RoleAtendente, CreatedAt: time.Now()}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, &u))

	p := entity.Product{
		ID: uuid.New().String(), Name: "Café Expresso", Category: "Bebidas",
		Price: decimal.RequireFromString("5.00"), Stock: stock, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, &p))

	uc := ticket.NewUseCase(postgres.NewTxRunner(pool), postgres.NewTicketRepository(pool), ticket.Config{}, zerolog.Nop())
	return fixture{
		pool:    pool,
		staff:   entity.StaffIdentity{StaffID: u.ID, StaffName: u.Name},
		product: p,
		tickets: uc,
	}
}

func (f fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := postgres.NewProductRepository(f.pool).GetByID(context.Background(), f.product.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f fixture) req(number string, qty int) dto.CreateTicketRequest {
	return dto.CreateTicketRequest{Number: number, Lines: []dto.CreateTicketLineInput{{ProductID: f.product.ID, Quantity: qty}}}
}

func TestCicloDeVida(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	// A
	created, err := f.tickets.Create(ctx, f.staff, f.req("T1", 3))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15.00").Equal(created.Total))
	assert.Equal(t, 7, f.stock(t))

	// B
	_, err = f.tickets.Create(ctx, f.staff, f.req("T1", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)

	// C
	_, err = f.tickets.Create(ctx, f.staff, f.req("T2", 20))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 7, stockErr.Available)
	assert.Equal(t, 7, f.stock(t))

	found, err := f.tickets.FindByNumber(ctx, "T1", false)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Café Expresso", found.Lines[0].ProductName)
	assert.Equal(t, "Maria", found.StaffName)

	// D
	res, err := f.tickets.Confirm(ctx, created.ID, f.staff)
	require.NoError(t, err)
	assert.True(t, res.LedgerRecorded)
	assert.Equal(t, 7, f.stock(t))

	_, err = f.tickets.FindByNumber(ctx, "T1", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.tickets.Confirm(ctx, created.ID, f.staff)
	assert.Error(t, err)

	_, err = f.tickets.Create(ctx, f.staff, f.req("T1", 1))
	require.NoError(t, err)

	// E
	today := time.Now().Format("2006-01-02")
	rep, err := report.NewUseCase(postgres.NewSalesLedgerRepository(f.pool), time.Local, zerolog.Nop()).
		Generate(ctx, today, today)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.TotalTickets)
	assert.True(t, decimal.RequireFromString("15.00").Equal(rep.TotalRevenue))
	assert.Len(t, rep.Items, 1)
}

func TestMismoNumeroConcurrente(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.tickets.Create(ctx, f.staff, f.req("T7", 1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateTicket)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 99, f.stock(t))
}

func TestUltimasUnidadesConcurrente(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.tickets.Create(ctx, f.staff, f.req(fmt.Sprintf("C%d", i), 1))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, 0, f.stock(t))
}

func TestBorrarProductoEnUso(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.tickets.Create(ctx, f.staff, f.req("T1", 1))
	require.NoError(t, err)

	err = postgres.NewProductRepository(f.pool).Delete(ctx, f.product.ID)
	assert.ErrorIs(t, err, domain.ErrProductInUse)
}

func TestLedgerFallidoNoAbortaLaTransaccion(t *testing.T) {
	pool := newDB(t)
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	// product_id no es uuid: el INSERT falla dentro del savepoint.
	err = postgres.NewSalesLedgerRepository(tx).Append(ctx, []entity.SalesEntry{{
		TicketNumber: "T1", ProductID: "no-uuid", ProductName: "X", Quantity: 1,
		UnitPrice: decimal.NewFromInt(1), LineTotal: decimal.NewFromInt(1), SoldAt: time.Now(),
	}})
	require.Error(t, err)

	var one int
	require.NoError(t, tx.QueryRow(ctx, `SELECT 1`).Scan(&one))
	assert.Equal(t, 1, one)
}

func TestEditarProductoConcurrenteConFichas(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()
	products := catalog.NewProductUseCase(postgres.NewTxRunner(f.pool), postgres.NewProductRepository(f.pool), 10)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := f.tickets.Create(ctx, f.staff, f.req(fmt.Sprintf("E%d", i), 1))
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("Café Expresso %d", i)
			_, err := products.Update(ctx, f.product.ID, dto.UpdateProductRequest{Name: &name})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100-n, f.stock(t))
}
