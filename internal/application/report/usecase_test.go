package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/application/report"
	"github.com/jhoicas/fichas-api/internal/application/ticket"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/testutil/memstore"
)

var (
	loc   = time.FixedZone("BRT", -3*3600)
	today = time.Date(2026, 3, 14, 15, 30, 0, 0, loc)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(number, product string, qty int, price string, at time.Time) entity.SalesEntry {
	p := dec(price)
	return entity.SalesEntry{
		TicketNumber: number,
		ProductName:  product,
		Quantity:     qty,
		UnitPrice:    p,
		LineTotal:    p.Mul(decimal.NewFromInt(int64(qty))),
		SoldAt:       at,
		StaffName:    "Maria",
	}
}

type fakeRenderer struct {
	got *dto.SalesReport
}

func (f *fakeRenderer) Render(_ context.Context, r *dto.SalesReport) ([]byte, error) {
	f.got = r
	return []byte("ok"), nil
}
func (f *fakeRenderer) ContentType() string { return "text/plain" }
func (f *fakeRenderer) Extension() string   { return "txt" }

func newReport(store *memstore.Store, renderers ...report.Renderer) *report.UseCase {
	return report.NewUseCase(store.Ledger(), loc, zerolog.Nop(), renderers...).
		WithClock(func() time.Time { return today })
}

// Escenario E: tras confirmar T1 (3×5.00) el relatório de hoy muestra 1 ficha y 15.00.
func TestGenerate_TrasConfirmarFicha(t *testing.T) {
	store := memstore.New()
	store.SeedProduct(entity.Product{ID: "11111111-1111-1111-1111-111111111111", Name: "Café Expresso", Price: dec("5.00"), Stock: 10})
	staff := entity.StaffIdentity{StaffID: "u-maria", StaffName: "Maria"}
	store.SeedUser(entity.User{ID: staff.StaffID, Username: "maria", Name: staff.StaffName})

	tickets := ticket.NewUseCase(store, store.Tickets(), ticket.Config{Now: func() time.Time { return today }}, zerolog.Nop())
	ctx := context.Background()
	created, err := tickets.Create(ctx, staff, dto.CreateTicketRequest{
		Number: "T1",
		Lines:  []dto.CreateTicketLineInput{{ProductID: "11111111-1111-1111-1111-111111111111", Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = tickets.Confirm(ctx, created.ID, staff)
	require.NoError(t, err)

	rep, err := newReport(store).Generate(ctx, "2026-03-14", "2026-03-14")
	require.NoError(t, err)

	assert.Equal(t, 1, rep.TotalTickets)
	assert.True(t, dec("15.00").Equal(rep.TotalRevenue), "totalVendas: %s", rep.TotalRevenue)
	assert.Equal(t, 3, rep.TotalItems)
	require.Len(t, rep.Items, 1)
	assert.Equal(t, "T1", rep.Items[0].TicketNumber)
	assert.False(t, rep.Degraded)
}

func TestGenerate_AgregadosYOrden(t *testing.T) {
	store := memstore.New()
	morning := time.Date(2026, 3, 14, 9, 5, 0, 0, loc)
	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, loc)
	store.SeedLedger(
		entry("T1", "Café Expresso", 2, "5.00", morning),
		entry("T1", "Misto Quente", 1, "8.00", morning),
		entry("T2", "Café Expresso", 3, "6.00", noon),
		entry("T3", "Cappuccino", 1, "7.00", noon),
		// Fuera de rango: día anterior y día siguiente.
		entry("T0", "Café Expresso", 9, "5.00", time.Date(2026, 3, 13, 23, 59, 0, 0, loc)),
		entry("T9", "Café Expresso", 9, "5.00", time.Date(2026, 3, 15, 0, 0, 0, 0, loc)),
	)

	rep, err := newReport(store).Generate(context.Background(), "2026-03-14", "2026-03-14")
	require.NoError(t, err)

	// T1 repetido en dos filas cuenta una sola ficha.
	assert.Equal(t, 3, rep.TotalTickets)
	assert.Equal(t, 7, rep.TotalItems)
	assert.True(t, dec("43.00").Equal(rep.TotalRevenue), "totalVendas: %s", rep.TotalRevenue)

	require.Len(t, rep.Items, 4)
	assert.Equal(t, "T2", rep.Items[0].TicketNumber)
	assert.Equal(t, "T3", rep.Items[1].TicketNumber)
	assert.Equal(t, "T1", rep.Items[2].TicketNumber)
	assert.Equal(t, "14/03/2026 09:05", rep.Items[2].DisplayTime)

	require.Len(t, rep.Products, 3)
	cafe := rep.Products[0]
	assert.Equal(t, "Café Expresso", cafe.ProductName)
	assert.Equal(t, 5, cafe.Quantity)
	assert.True(t, dec("28.00").Equal(cafe.Revenue))
	assert.True(t, dec("5.50").Equal(cafe.AveragePrice), "preço médio: %s", cafe.AveragePrice)
	// Empate en cantidad: por nombre.
	assert.Equal(t, "Cappuccino", rep.Products[1].ProductName)
	assert.Equal(t, "Misto Quente", rep.Products[2].ProductName)
}

func TestGenerate_FechasVaciasSonHoy(t *testing.T) {
	store := memstore.New()
	store.SeedLedger(entry("T1", "Café Expresso", 1, "5.00", today))

	rep, err := newReport(store).Generate(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", rep.Start)
	assert.Equal(t, "2026-03-14", rep.End)
	assert.Equal(t, 1, rep.TotalTickets)
}

func TestGenerate_FallaDelHistoricoDevuelveCero(t *testing.T) {
	store := memstore.New()
	store.SeedLedger(entry("T1", "Café Expresso", 1, "5.00", today))
	store.LedgerQueryErr = errors.New("relation \"historico_vendas\" does not exist")

	rep, err := newReport(store).Generate(context.Background(), "2026-03-01", "2026-03-31")
	require.NoError(t, err)

	assert.True(t, rep.Degraded)
	assert.Equal(t, 0, rep.TotalTickets)
	assert.Equal(t, 0, rep.TotalItems)
	assert.True(t, rep.TotalRevenue.IsZero())
	assert.Empty(t, rep.Items)
	assert.Empty(t, rep.Products)
	assert.NotNil(t, rep.Items)
}

func TestGenerate_RangoInvalido(t *testing.T) {
	uc := newReport(memstore.New())
	ctx := context.Background()

	_, err := uc.Generate(ctx, "14/03/2026", "2026-03-14")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Generate(ctx, "2026-03-15", "2026-03-14")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport(t *testing.T) {
	store := memstore.New()
	store.SeedLedger(entry("T1", "Café Expresso", 2, "5.00", today))
	r := &fakeRenderer{}
	uc := newReport(store, r)

	file, err := uc.Export(context.Background(), "2026-03-14", "2026-03-14", "TXT")
	require.NoError(t, err)
	assert.Equal(t, "relatorio_2026-03-14_2026-03-14.txt", file.Filename)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.Equal(t, []byte("ok"), file.Content)
	require.NotNil(t, r.got)
	assert.True(t, dec("10.00").Equal(r.got.TotalRevenue))

	_, err = uc.Export(context.Background(), "2026-03-14", "2026-03-14", "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_RelatorioDegradadoTambienSeExporta(t *testing.T) {
	store := memstore.New()
	store.LedgerQueryErr = errors.New("timeout")
	r := &fakeRenderer{}

	_, err := newReport(store, r).Export(context.Background(), "", "", "txt")
	require.NoError(t, err)
	require.NotNil(t, r.got)
	assert.True(t, r.got.Degraded)
}
