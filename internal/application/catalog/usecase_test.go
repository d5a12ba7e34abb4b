package catalog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fichas-api/internal/application/catalog"
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/application/ticket"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
	"github.com/jhoicas/fichas-api/internal/testutil/memstore"
)

func newCatalog() (*memstore.Store, *catalog.ProductUseCase) {
	store := memstore.New()
	return store, catalog.NewProductUseCase(store, store.Products(), 10)
}

func TestCreateYListOrdenadoPorNombre(t *testing.T) {
	_, uc := newCatalog()
	ctx := context.Background()

	for _, name := range []string{"Suco de Laranja", "Água Mineral", "Cappuccino"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Name: name, Category: "Bebidas", Price: decimal.RequireFromString("3.00"), Stock: 20})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Cappuccino", list[0].Name)
	assert.Equal(t, "Suco de Laranja", list[1].Name)
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc := newCatalog()
	ctx := context.Background()

	cases := map[string]dto.CreateProductRequest{
		"sin nombre":      {Name: " ", Price: decimal.NewFromInt(1)},
		"precio negativo": {Name: "X", Price: decimal.NewFromInt(-1)},
		"tres decimales":  {Name: "X", Price: decimal.RequireFromString("1.005")},
		"stock negativo":  {Name: "X", Price: decimal.NewFromInt(1), Stock: -1},
	}
	for name, in := range cases {
		_, err := uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestUpdateParcial(t *testing.T) {
	store, uc := newCatalog()
	ctx := context.Background()
	p := store.SeedProduct(entity.Product{ID: "11111111-1111-1111-1111-111111111111", Name: "Cappuccino", Category: "Bebidas", Price: decimal.RequireFromString("5.00"), Stock: 80})

	price := decimal.RequireFromString("5.50")
	stock := 75
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &price, Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, "Cappuccino", out.Name)
	assert.True(t, price.Equal(out.Price))
	assert.Equal(t, 75, out.Stock)

	_, err = uc.Update(ctx, "22222222-2222-2222-2222-222222222222", dto.UpdateProductRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, uc := newCatalog()
	ctx := context.Background()
	p := store.SeedProduct(entity.Product{ID: "11111111-1111-1111-1111-111111111111", Name: "Cappuccino", Price: decimal.NewFromInt(5), Stock: 1})

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err := uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, "no-es-uuid"), domain.ErrNotFound)
}

func TestListLowStock(t *testing.T) {
	store, uc := newCatalog()
	store.SeedProduct(entity.Product{ID: "11111111-1111-1111-1111-111111111111", Name: "Misto Quente", Stock: 9})
	store.SeedProduct(entity.Product{ID: "22222222-2222-2222-2222-222222222222", Name: "Café Expresso", Stock: 10})
	store.SeedProduct(entity.Product{ID: "33333333-3333-3333-3333-333333333333", Name: "Cappuccino", Stock: 0})

	list, err := uc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cappuccino", list[0].Name)
	assert.Equal(t, "Misto Quente", list[1].Name)
}

// readHookRepo ejecuta afterRead después de cada lectura sin bloqueo y devuelve el valor ya leído:
// simula una ficha que se abre entre la lectura y la escritura de otra operación.
type readHookRepo struct {
	repository.ProductRepository
	afterRead func()
}

func (r *readHookRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	if r.afterRead != nil {
		r.afterRead()
	}
	return p, err
}

var atendente = entity.StaffIdentity{StaffID: "00000000-0000-0000-0000-0000000000aa", StaffName: "Maria", Role: entity.RoleAtendente}

func TestUpdate_RenombrarNoPisaStockReservadoPorFicha(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	p := store.SeedProduct(entity.Product{ID: "11111111-1111-1111-1111-111111111111", Name: "Cappuccino", Price: decimal.NewFromInt(5), Stock: 10})
	tickets := ticket.NewUseCase(store, store.Tickets(), ticket.Config{}, zerolog.Nop())

	opened := false
	openTicket := func() {
		if opened {
			return
		}
		opened = true
		_, err := tickets.Create(ctx, atendente, dto.CreateTicketRequest{
			Number: "1",
			Lines:  []dto.CreateTicketLineInput{{ProductID: p.ID, Quantity: 3}},
		})
		require.NoError(t, err)
	}
	uc := catalog.NewProductUseCase(store, &readHookRepo{ProductRepository: store.Products(), afterRead: openTicket}, 10)

	name := "Cappuccino Grande"
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Cappuccino Grande", out.Name)

	// Si Update no pasó por la lectura sin bloqueo, la ficha entra justo después.
	openTicket()

	stored, _ := store.Product(p.ID)
	assert.Equal(t, "Cappuccino Grande", stored.Name)
	assert.Equal(t, 7, stored.Stock)
}

func TestUpdate_ConcurrenteConFichasNoPierdeDescuentos(t *testing.T) {
	store, uc := newCatalog()
	ctx := context.Background()
	p := store.SeedProduct(entity.Product{ID: "11111111-1111-1111-1111-111111111111", Name: "Misto Quente", Price: decimal.NewFromInt(8), Stock: 100})
	tickets := ticket.NewUseCase(store, store.Tickets(), ticket.Config{}, zerolog.Nop())

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := tickets.Create(ctx, atendente, dto.CreateTicketRequest{
				Number: fmt.Sprintf("%d", i),
				Lines:  []dto.CreateTicketLineInput{{ProductID: p.ID, Quantity: 1}},
			})
			assert.NoError(t, err)
		}(i)
		go func(i int) {
			defer wg.Done()
			desc := fmt.Sprintf("revisão %d", i)
			_, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Description: &desc})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, _ := store.Product(p.ID)
	assert.Equal(t, 100-n, stored.Stock)
}
