// Package excel exporta el relatório de vendas a una planilla XLSX.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fichas-api/internal/application/dto"
)

const (
	sheetSummary = "Resumo"
	sheetItems   = "Vendas"
	sheetTotals  = "Totais"

	// Formato numérico interno de Excel "#,##0.00".
	numFmtMoney = 4
)

// ReportRenderer implementa report.Renderer con excelize.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (r *ReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (r *ReportRenderer) Extension() string { return "xlsx" }

// Render genera el libro con tres hojas: totales, resumen por producto y detalle.
func (r *ReportRenderer) Render(_ context.Context, rep *dto.SalesReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTotals); err != nil {
		return nil, fmt.Errorf("excel: hoja %s: %w", sheetTotals, err)
	}
	for _, name := range []string{sheetSummary, sheetItems} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel: hoja %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}

	// Totais
	w.row(sheetTotals, 1, "Período", rep.Start+" a "+rep.End)
	w.row(sheetTotals, 2, "Fichas", rep.TotalTickets)
	w.row(sheetTotals, 3, "Itens", rep.TotalItems)
	w.row(sheetTotals, 4, "Total vendido", rep.TotalRevenue.InexactFloat64())
	if rep.Degraded {
		w.row(sheetTotals, 5, "Aviso", "Histórico indisponível: valores zerados")
	}
	w.style(sheetTotals, "A1", "A5", bold)
	w.style(sheetTotals, "B4", "B4", moneyStyle)

	// Resumo
	w.row(sheetSummary, 1, "Produto", "Quantidade", "Preço médio", "Total vendido")
	for i, p := range rep.Products {
		w.row(sheetSummary, i+2, p.ProductName, p.Quantity, p.AveragePrice.InexactFloat64(), p.Revenue.InexactFloat64())
	}
	w.style(sheetSummary, "A1", "D1", bold)
	if n := len(rep.Products); n > 0 {
		w.style(sheetSummary, "C2", fmt.Sprintf("D%d", n+1), moneyStyle)
	}

	// Vendas
	w.row(sheetItems, 1, "Data/hora", "Ficha", "Produto", "Quantidade", "Preço unitário", "Total", "Atendente")
	for i, it := range rep.Items {
		w.row(sheetItems, i+2, it.DisplayTime, it.TicketNumber, it.ProductName, it.Quantity,
			it.UnitPrice.InexactFloat64(), it.LineTotal.InexactFloat64(), it.StaffName)
	}
	w.style(sheetItems, "A1", "G1", bold)
	if n := len(rep.Items); n > 0 {
		w.style(sheetItems, "E2", fmt.Sprintf("F%d", n+1), moneyStyle)
	}

	w.width(sheetTotals, "A", "B", 22)
	w.width(sheetSummary, "A", "A", 30)
	w.width(sheetSummary, "B", "D", 15)
	w.width(sheetItems, "A", "A", 18)
	w.width(sheetItems, "C", "C", 30)
	w.width(sheetItems, "D", "G", 15)

	if w.err != nil {
		return nil, fmt.Errorf("excel: escribir relatório: %w", w.err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter acumula el primer error para no chequear cada celda.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) row(sheet string, rowNum int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *sheetWriter) style(sheet, from, to string, styleID int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(sheet, from, to, styleID)
}

func (w *sheetWriter) width(sheet, from, to string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, from, to, width)
}
