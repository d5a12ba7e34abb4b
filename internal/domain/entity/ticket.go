package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus estado de una ficha. Los valores son los que viajan al cliente.
type TicketStatus string

const (
	TicketPending   TicketStatus = "pendente"
	TicketConfirmed TicketStatus = "confirmada"
)

// Ticket ficha (comanda) abierta por un atendente e identificada por un número elegido a mano.
// Solo puede existir una ficha pendiente por número. Total se calcula al crearla y no cambia.
type Ticket struct {
	ID        string
	Number    string
	StaffID   string
	StaffName string // join con users, solo lectura
	Total     decimal.Decimal
	Status    TicketStatus
	CreatedAt time.Time

	ConfirmedAt     *time.Time
	ConfirmedBy     *string
	ConfirmedByName string // join con users, solo lectura

	Lines []TicketLine
}

// IsPending true mientras la ficha no fue confirmada.
func (t *Ticket) IsPending() bool {
	return t.Status == TicketPending
}

// ComputeTotal suma quantity × unitPrice de todas las líneas.
func (t *Ticket) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// TicketLine ítem de una ficha. UnitPrice es una copia del precio del producto al crear la ficha.
type TicketLine struct {
	ID          string
	TicketID    string
	ProductID   string
	ProductName string // join con products, solo lectura
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Total quantity × unitPrice.
func (l TicketLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
