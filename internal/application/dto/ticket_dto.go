package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTicketRequest apertura de una ficha.
type CreateTicketRequest struct {
	Number string                  `json:"numero"`
	Lines  []CreateTicketLineInput `json:"itens"`
}

// CreateTicketLineInput ítem pedido.
type CreateTicketLineInput struct {
	ProductID string `json:"produto_id"`
	Quantity  int    `json:"quantidade"`
}

// TicketResponse ficha con sus ítems.
type TicketResponse struct {
	ID              string               `json:"id"`
	Number          string               `json:"numero"`
	Status          string               `json:"status"`
	Total           decimal.Decimal      `json:"total"`
	CreatedAt       time.Time            `json:"data_hora"`
	StaffID         string               `json:"usuario_id"`
	StaffName       string               `json:"usuario_nome"`
	ConfirmedAt     *time.Time           `json:"data_confirmacao,omitempty"`
	ConfirmedByName string               `json:"usuario_confirmacao_nome,omitempty"`
	Lines           []TicketLineResponse `json:"itens"`
}

// TicketLineResponse ítem de una ficha con el precio congelado al abrirla.
type TicketLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"produto_id"`
	ProductName string          `json:"produto_nome"`
	Quantity    int             `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"preco_unitario"`
	Total       decimal.Decimal `json:"total_item"`
}

// ConfirmationResponse resultado de confirmar el pago de una ficha.
// LedgerRecorded=false: la ficha se confirmó pero el histórico no pudo registrarse.
type ConfirmationResponse struct {
	Number         string          `json:"numero"`
	Total          decimal.Decimal `json:"total"`
	LineCount      int             `json:"itens"`
	LedgerRecorded bool            `json:"registradoNoHistorico"`
}
