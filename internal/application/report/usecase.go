// Package report construye el relatório de vendas a partir del histórico y lo exporta.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

const (
	dateLayout    = "2006-01-02"
	displayLayout = "02/01/2006 15:04"
)

// UseCase genera y exporta relatórios.
type UseCase struct {
	ledger    repository.SalesLedgerRepository
	loc       *time.Location
	renderers map[string]Renderer
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. loc define el día calendario de los rangos.
func NewUseCase(ledger repository.SalesLedgerRepository, loc *time.Location, log zerolog.Logger, renderers ...Renderer) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	reg := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		reg[r.Extension()] = r
	}
	return &UseCase{ledger: ledger, loc: loc, renderers: reg, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Generate relatório del rango [start, end] en fechas calendario (aaaa-mm-dd).
// Fechas vacías se toman como hoy. Si la consulta falla devuelve el relatório en cero con Degraded=true.
func (uc *UseCase) Generate(ctx context.Context, start, end string) (*dto.SalesReport, error) {
	from, to, err := uc.parseRange(start, end)
	if err != nil {
		return nil, err
	}
	rep := emptyReport(from, to.AddDate(0, 0, -1))

	entries, err := uc.ledger.ListByRange(ctx, from, to)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("inicio", rep.Start).
			Str("fim", rep.End).
			Msg("relatório: consulta del histórico falló, se devuelve en cero")
		rep.Degraded = true
		return rep, nil
	}
	uc.fill(rep, entries)
	return rep, nil
}

// Export genera el relatório y lo serializa en el formato pedido.
func (uc *UseCase) Export(ctx context.Context, start, end, format string) (*dto.ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "pdf"
	}
	r, ok := uc.renderers[format]
	if !ok {
		return nil, domain.Invalid("formato", "formatos válidos: "+strings.Join(uc.Formats(), ", "))
	}
	rep, err := uc.Generate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	content, err := r.Render(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("relatório: render %s: %w", format, err)
	}
	return &dto.ReportFile{
		Filename:    fmt.Sprintf("relatorio_%s_%s.%s", rep.Start, rep.End, r.Extension()),
		ContentType: r.ContentType(),
		Content:     content,
	}, nil
}

// Formats formatos de exportación registrados, ordenados.
func (uc *UseCase) Formats() []string {
	out := make([]string, 0, len(uc.renderers))
	for k := range uc.renderers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// parseRange convierte fechas inclusivas a [from, to) en la zona configurada.
func (uc *UseCase) parseRange(start, end string) (time.Time, time.Time, error) {
	today := uc.now().In(uc.loc).Format(dateLayout)
	if strings.TrimSpace(start) == "" {
		start = today
	}
	if strings.TrimSpace(end) == "" {
		end = today
	}
	from, err := time.ParseInLocation(dateLayout, strings.TrimSpace(start), uc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, domain.Invalid("inicio", "formato esperado aaaa-mm-dd")
	}
	last, err := time.ParseInLocation(dateLayout, strings.TrimSpace(end), uc.loc)
	if err != nil {
		return time.Time{}, time.Time{}, domain.Invalid("fim", "formato esperado aaaa-mm-dd")
	}
	if last.Before(from) {
		return time.Time{}, time.Time{}, domain.Invalid("fim", "anterior a la fecha de inicio")
	}
	return from, last.AddDate(0, 0, 1), nil
}

func emptyReport(from, last time.Time) *dto.SalesReport {
	return &dto.SalesReport{
		Start:        from.Format(dateLayout),
		End:          last.Format(dateLayout),
		TotalRevenue: decimal.Zero,
		Items:        []dto.SalesReportItem{},
		Products:     []dto.ProductSalesSummary{},
	}
}

type productAgg struct {
	quantity int
	revenue  decimal.Decimal
	priceSum decimal.Decimal
	rows     int64
}

// fill recibe las entradas ya ordenadas (más recientes primero, luego número de ficha).
func (uc *UseCase) fill(rep *dto.SalesReport, entries []entity.SalesEntry) {
	numbers := make(map[string]struct{})
	byProduct := make(map[string]*productAgg)

	for _, e := range entries {
		numbers[e.TicketNumber] = struct{}{}
		rep.TotalItems += e.Quantity
		rep.TotalRevenue = rep.TotalRevenue.Add(e.LineTotal)

		rep.Items = append(rep.Items, dto.SalesReportItem{
			TicketNumber: e.TicketNumber,
			ProductName:  e.ProductName,
			Quantity:     e.Quantity,
			UnitPrice:    e.UnitPrice,
			LineTotal:    e.LineTotal,
			SoldAt:       e.SoldAt,
			DisplayTime:  e.SoldAt.In(uc.loc).Format(displayLayout),
			StaffName:    e.StaffName,
		})

		agg, ok := byProduct[e.ProductName]
		if !ok {
			agg = &productAgg{revenue: decimal.Zero, priceSum: decimal.Zero}
			byProduct[e.ProductName] = agg
		}
		agg.quantity += e.Quantity
		agg.revenue = agg.revenue.Add(e.LineTotal)
		agg.priceSum = agg.priceSum.Add(e.UnitPrice)
		agg.rows++
	}
	rep.TotalTickets = len(numbers)

	for name, agg := range byProduct {
		rep.Products = append(rep.Products, dto.ProductSalesSummary{
			ProductName:  name,
			Quantity:     agg.quantity,
			Revenue:      agg.revenue,
			AveragePrice: agg.priceSum.Div(decimal.NewFromInt(agg.rows)).Round(2),
		})
	}
	sort.Slice(rep.Products, func(i, j int) bool {
		if rep.Products[i].Quantity != rep.Products[j].Quantity {
			return rep.Products[i].Quantity > rep.Products[j].Quantity
		}
		return rep.Products[i].ProductName < rep.Products[j].ProductName
	})
}
