// Package catalog casos de uso CRUD del cardápio. El stock solo se descuenta vía fichas;
// aquí se fija al dar de alta o al corregirlo manualmente.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

// ProductUseCase casos de uso de productos.
type ProductUseCase struct {
	txRunner          TxRunner
	repo              repository.ProductRepository
	lowStockThreshold int
}

// NewProductUseCase construye el caso de uso. Las lecturas usan repo; Update pasa por txRunner.
func NewProductUseCase(txRunner TxRunner, repo repository.ProductRepository, lowStockThreshold int) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, lowStockThreshold: lowStockThreshold}
}

// Create da de alta un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nome", "obligatorio")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.Invalid("estoque", "no puede ser negativo")
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto; domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update actualización parcial de los campos enviados. Lee la fila con FOR UPDATE dentro de la
// transacción: el estoque escrito es siempre el vigente, nunca uno leído antes de una ficha concurrente.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	var out *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.TicketRepository,
		_ repository.SalesLedgerRepository,
	) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(p, in); err != nil {
			return err
		}
		p.UpdatedAt = time.Now()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

func applyUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Invalid("nome", "obligatorio")
		}
		p.Name = name
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Invalid("estoque", "no puede ser negativo")
		}
		p.Stock = *in.Stock
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	return nil
}

// Delete elimina un producto; domain.ErrProductInUse si alguna ficha lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List todos los productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// ListLowStock productos por debajo del umbral configurado.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// validatePrice precio >= 0 con centavos como máximo (columna NUMERIC(10,2)).
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.Invalid("preco", "no puede ser negativo")
	}
	if !price.Equal(price.Round(2)) {
		return domain.Invalid("preco", "máximo dos decimales")
	}
	if price.GreaterThanOrEqual(decimal.NewFromInt(100_000_000)) {
		return domain.Invalid("preco", "fuera de rango")
	}
	return nil
}

func toProductList(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
