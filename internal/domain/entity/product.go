package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del cardápio de la lanchonete. Stock nunca es negativo.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal // precio de venta vigente; las fichas guardan su propia copia
	Stock       int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock está por debajo del umbral (estricto).
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock < threshold
}

// CanFulfil indica si hay unidades suficientes para qty.
func (p *Product) CanFulfil(qty int) bool {
	return qty <= p.Stock
}
