package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesEntry fila del histórico de ventas: una por línea de ficha confirmada.
// Es append-only y no referencia a tickets ni products; guarda copia de nombres y precios.
type SalesEntry struct {
	ID              string
	TicketNumber    string
	ProductID       string
	ProductName     string
	Quantity        int
	UnitPrice       decimal.Decimal
	LineTotal       decimal.Decimal
	SoldAt          time.Time // momento de la confirmación
	StaffID         string    // quien abrió la ficha
	StaffName       string
	ConfirmedBy     string
	ConfirmedByName string
}

// NewSalesEntries construye las filas del histórico para una ficha que se está confirmando.
func NewSalesEntries(t *Ticket, confirmedBy StaffIdentity, at time.Time) []SalesEntry {
	entries := make([]SalesEntry, 0, len(t.Lines))
	for _, l := range t.Lines {
		entries = append(entries, SalesEntry{
			TicketNumber:    t.Number,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			LineTotal:       l.Total(),
			SoldAt:          at,
			StaffID:         t.StaffID,
			StaffName:       t.StaffName,
			ConfirmedBy:     confirmedBy.StaffID,
			ConfirmedByName: confirmedBy.StaffName,
		})
	}
	return entries
}
