// Package analytics contiene el resumen del día mostrado en el painel de fichas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

// DashboardUseCase contadores del cardápio y ventas de hoy.
//
// Fuente de datos: ProductRepository para el cardápio y SalesLedgerRepository para las ventas.
// Las fichas pendientes no cuentan como venta.
type DashboardUseCase struct {
	productRepo       repository.ProductRepository
	ledgerRepo        repository.SalesLedgerRepository
	lowStockThreshold int
	loc               *time.Location
	now               func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc define el día calendario de "hoy".
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	ledgerRepo repository.SalesLedgerRepository,
	lowStockThreshold int,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{
		productRepo:       productRepo,
		ledgerRepo:        ledgerRepo,
		lowStockThreshold: lowStockThreshold,
		loc:               loc,
		now:               time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// Summarize construye el DashboardSummary.
//
// Tres llamadas en paralelo:
//  1. Count                 → TotalProducts
//  2. CountLowStock(umbral) → LowStock
//  3. SummarizeRange(hoy)   → TicketsToday + RevenueToday
func (uc *DashboardUseCase) Summarize(ctx context.Context) (*dto.DashboardSummary, error) {
	now := uc.now().In(uc.loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	tomorrow := todayStart.AddDate(0, 0, 1)

	type countResult struct {
		n   int
		err error
	}
	type salesResult struct {
		tickets int
		revenue decimal.Decimal
		err     error
	}

	totalCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)
	salesCh := make(chan salesResult, 1)

	go func() {
		n, err := uc.productRepo.Count(ctx)
		totalCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.productRepo.CountLowStock(ctx, uc.lowStockThreshold)
		lowCh <- countResult{n, err}
	}()
	go func() {
		tickets, revenue, err := uc.ledgerRepo.SummarizeRange(ctx, todayStart, tomorrow)
		salesCh <- salesResult{tickets, revenue, err}
	}()

	total := <-totalCh
	low := <-lowCh
	sales := <-salesCh

	if total.err != nil {
		return nil, fmt.Errorf("dashboard: total de productos: %w", total.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: bajo stock: %w", low.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", sales.err)
	}

	return &dto.DashboardSummary{
		Date:          todayStart.Format("2006-01-02"),
		TotalProducts: total.n,
		LowStock:      low.n,
		TicketsToday:  sales.tickets,
		RevenueToday:  sales.revenue.Round(2),
	}, nil
}
