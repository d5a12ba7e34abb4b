// Package pdf implementa la exportación del relatório de vendas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + período    │  Fecha de emisión            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Fichas | Itens | Total vendido                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMO: Produto | Qtd | Preço médio | Total                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALHE: Data/hora | Ficha | Produto | Qtd | Unit | Total   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 150, Green: 60, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 190, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa report.Renderer usando Maroto v2.
type ReportRenderer struct {
	currency *money.Formatter
	now func() time.Time
}

// NewReportRenderer construye el renderer con formato monetario en reais.
func NewReportRenderer() *ReportRenderer {
	return &ReportRenderer{currency: money.BRL(), now: time.Now}
}

func (r *ReportRenderer) ContentType() string { return "application/pdf" }
func (r *ReportRenderer) Extension() string   { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (r *ReportRenderer) Render(_ context.Context, rep *dto.SalesReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de Vendas", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if rep.Degraded {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Histórico indisponível no momento: valores zerados.", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWarn, Top: 2,
			}),
		)))
	}
	m.AddRows(r.totalsRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("RESUMO POR PRODUTO"))
	m.AddRows(headerCells([]cell{
		{"Produto", 6, align.Left}, {"Qtd.", 2, align.Center},
		{"Preço médio", 2, align.Right}, {"Total", 2, align.Right},
	}))
	for _, p := range rep.Products {
		m.AddRows(bodyCells([]cell{
			{p.ProductName, 6, align.Left},
			{r.currency.Quantity(p.Quantity), 2, align.Center},
			{r.currency.Format(p.AveragePrice), 2, align.Right},
			{r.currency.Format(p.Revenue), 2, align.Right},
		}))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("VENDAS DETALHADAS"))
	m.AddRows(headerCells([]cell{
		{"Data/hora", 2, align.Left}, {"Ficha", 1, align.Center}, {"Produto", 3, align.Left},
		{"Qtd.", 1, align.Center}, {"Unit.", 2, align.Right}, {"Total", 2, align.Right},
		{"Atendente", 1, align.Left},
	}))
	for _, it := range rep.Items {
		m.AddRows(bodyCells([]cell{
			{it.DisplayTime, 2, align.Left},
			{it.TicketNumber, 1, align.Center},
			{it.ProductName, 3, align.Left},
			{strconv.Itoa(it.Quantity), 1, align.Center},
			{r.currency.Format(it.UnitPrice), 2, align.Right},
			{r.currency.Format(it.LineTotal), 2, align.Right},
			{it.StaffName, 1, align.Left},
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar relatório: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y período (izq), fecha de emisión (der).
func (r *ReportRenderer) headerRow(rep *dto.SalesReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("RELATÓRIO DE VENDAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Período: %s a %s", brDate(rep.Start), brDate(rep.End)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido em "+r.now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (r *ReportRenderer) totalsRow(rep *dto.SalesReport) core.Row {
	box := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: colorPrimary, Top: 7,
			}),
		)
	}
	return row.New(16).Add(
		box("Fichas", r.currency.Quantity(rep.TotalTickets)),
		box("Itens", r.currency.Quantity(rep.TotalItems)),
		box("Total vendido", r.currency.Format(rep.TotalRevenue)),
	)
}

type cell struct {
	value string
	size  int
	align align.Type
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func headerCells(cells []cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.value, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func bodyCells(cells []cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.value, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(5).Add(cols...)
}

// brDate "2026-03-14" → "14/03/2026"; devuelve s sin cambios si no es una fecha.
func brDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
