package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport relatório de vendas de un período (fechas inclusivas).
// Degraded=true indica que la consulta falló y se devolvió el reporte en cero.
type SalesReport struct {
	Start        string                `json:"inicio"`
	End          string                `json:"fim"`
	TotalTickets int                   `json:"totalFichas"`
	TotalItems   int                   `json:"totalItens"`
	TotalRevenue decimal.Decimal       `json:"totalVendas"`
	Items        []SalesReportItem     `json:"itensDetalhados"`
	Products     []ProductSalesSummary `json:"produtosResumo"`
	Degraded     bool                  `json:"degradado"`
}

// SalesReportItem una fila del histórico.
type SalesReportItem struct {
	TicketNumber string          `json:"ficha_numero"`
	ProductName  string          `json:"produto_nome"`
	Quantity     int             `json:"quantidade"`
	UnitPrice    decimal.Decimal `json:"preco_unitario"`
	LineTotal    decimal.Decimal `json:"total_item"`
	SoldAt       time.Time       `json:"vendido_em"`
	DisplayTime  string          `json:"data_hora"` // dd/mm/aaaa hh:mm en la zona del servidor
	StaffName    string          `json:"atendente"`
}

// ProductSalesSummary agregado por nombre de producto.
type ProductSalesSummary struct {
	ProductName  string          `json:"produto_nome"`
	Quantity     int             `json:"quantidade_total"`
	Revenue      decimal.Decimal `json:"total_vendido"`
	AveragePrice decimal.Decimal `json:"preco_medio"`
}

// ReportFile documento exportado listo para descargar.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
