package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Name        string          `json:"nome"`
	Category    string          `json:"categoria"`
	Price       decimal.Decimal `json:"preco"`
	Stock       int             `json:"estoque"`
	Description string          `json:"descricao"`
}

// UpdateProductRequest actualización parcial; nil = no se toca.
type UpdateProductRequest struct {
	Name        *string          `json:"nome"`
	Category    *string          `json:"categoria"`
	Price       *decimal.Decimal `json:"preco"`
	Stock       *int             `json:"estoque"`
	Description *string          `json:"descricao"`
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"nome"`
	Category    string          `json:"categoria"`
	Price       decimal.Decimal `json:"preco"`
	Stock       int             `json:"estoque"`
	Description string          `json:"descricao"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
