package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_ComputeTotal(t *testing.T) {
	tk := &Ticket{Lines: []TicketLine{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
		{Quantity: 2, UnitPrice: decimal.RequireFromString("3.50")},
	}}
	assert.True(t, decimal.RequireFromString("22.00").Equal(tk.ComputeTotal()))
}

func TestTicket_ComputeTotalSinLineas(t *testing.T) {
	assert.True(t, (&Ticket{}).ComputeTotal().IsZero())
}

func TestTicketLine_TotalSinErrorDeRedondeo(t *testing.T) {
	l := TicketLine{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")}
	assert.Equal(t, "0.3", l.Total().String())
}

func TestProduct_IsLowStockEsEstricto(t *testing.T) {
	p := &Product{Stock: 10}
	assert.False(t, p.IsLowStock(10))
	p.Stock = 9
	assert.True(t, p.IsLowStock(10))
	assert.True(t, p.CanFulfil(9))
	assert.False(t, p.CanFulfil(10))
}

func TestNewSalesEntries(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	tk := &Ticket{
		Number:    "T1",
		StaffID:   "u1",
		StaffName: "Maria",
		Lines: []TicketLine{
			{ProductID: "p1", ProductName: "Café Expresso", Quantity: 3, UnitPrice: decimal.RequireFromString("3.50")},
			{ProductID: "p2", ProductName: "Misto Quente", Quantity: 1, UnitPrice: decimal.RequireFromString("8.00")},
		},
	}

	entries := NewSalesEntries(tk, StaffIdentity{StaffID: "u2", StaffName: "João"}, at)

	require.Len(t, entries, 2)
	assert.Equal(t, "T1", entries[0].TicketNumber)
	assert.True(t, decimal.RequireFromString("10.50").Equal(entries[0].LineTotal))
	assert.Equal(t, "Maria", entries[1].StaffName)
	assert.Equal(t, "u2", entries[1].ConfirmedBy)
	assert.Equal(t, at, entries[1].SoldAt)
}
