package dto

import "github.com/shopspring/decimal"

// DashboardSummary contadores del día. Las ventas salen del histórico, no de las fichas pendientes.
type DashboardSummary struct {
	Date          string          `json:"data"`
	TotalProducts int             `json:"totalProdutos"`
	LowStock      int             `json:"produtosBaixoEstoque"`
	TicketsToday  int             `json:"fichasHoje"`
	RevenueToday  decimal.Decimal `json:"vendasHoje"`
}
