// Package ticket contiene el ciclo de vida de las fichas: apertura con reserva de stock,
// consulta, listado de pendientes y confirmación de pago con paso al histórico de ventas.
package ticket

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

const (
	maxNumberLength = 20
	// maxQuantity tope por producto y ficha: la columna quantity es INTEGER.
	maxQuantity = math.MaxInt32
)

// reservedNumbers coinciden con rutas fijas bajo /api/fichas; una ficha con ese número no podría consultarse.
var reservedNumbers = map[string]bool{
	"dashboard": true,
	"pendentes": true,
	"relatorio": true,
}

// Config reglas configurables del ciclo de vida.
type Config struct {
	// RetainConfirmed archiva las fichas confirmadas en vez de borrarlas.
	RetainConfirmed bool
	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
}

// UseCase casos de uso de fichas. Toda escritura pasa por TxRunner; las lecturas usan ticketRepo (pool).
type UseCase struct {
	txRunner   TxRunner
	ticketRepo repository.TicketRepository
	cfg        Config
	log        zerolog.Logger
	now        func() time.Time
	newID      func() string
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, ticketRepo repository.TicketRepository, cfg Config, log zerolog.Logger) *UseCase {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		txRunner:   txRunner,
		ticketRepo: ticketRepo,
		cfg:        cfg,
		log:        log.With().Str("component", "tickets").Logger(),
		now:        now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Create abre una ficha: valida, bloquea el número y los productos, congela precios,
// descuenta stock y persiste ficha + líneas + total en una sola transacción.
func (uc *UseCase) Create(ctx context.Context, staff entity.StaffIdentity, in dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	if staff.StaffID == "" {
		return nil, domain.ErrUnauthorized
	}
	number, lines, requested, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	// Los productos se bloquean siempre en orden ascendente de id.
	productIDs := make([]string, 0, len(requested))
	for id := range requested {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var created *entity.Ticket
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		ticketRepo repository.TicketRepository,
		_ repository.SalesLedgerRepository,
	) error {
		existing, err := ticketRepo.LockPendingByNumber(ctx, number)
		if err != nil {
			return fmt.Errorf("bloquear número de ficha: %w", err)
		}
		if existing != nil {
			return &domain.DuplicateTicketError{Number: number}
		}

		products := make(map[string]*entity.Product, len(productIDs))
		for _, id := range productIDs {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("bloquear producto %s: %w", id, err)
			}
			if p == nil {
				return &domain.ProductNotFoundError{ProductID: id}
			}
			if !p.CanFulfil(requested[id]) {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   requested[id],
				}
			}
			products[id] = p
		}

		t := &entity.Ticket{
			ID:        uc.newID(),
			Number:    number,
			StaffID:   staff.StaffID,
			StaffName: staff.StaffName,
			Status:    entity.TicketPending,
			Total:     decimal.Zero,
			CreatedAt: uc.now(),
		}
		if err := ticketRepo.Create(ctx, t); err != nil {
			return err
		}

		for _, l := range lines {
			p := products[l.ProductID]
			line := entity.TicketLine{
				ID:          uc.newID(),
				TicketID:    t.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    l.Quantity,
				UnitPrice:   p.Price,
			}
			if err := ticketRepo.CreateLine(ctx, &line); err != nil {
				return err
			}
			if _, err := productRepo.DecrementStock(ctx, p.ID, l.Quantity); err != nil {
				return fmt.Errorf("descontar stock de %s: %w", p.ID, err)
			}
			t.Lines = append(t.Lines, line)
		}

		t.Total = t.ComputeTotal()
		if err := ticketRepo.UpdateTotal(ctx, t.ID, t.Total); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("ticket_id", created.ID).
		Str("ticket_number", created.Number).
		Str("staff_id", staff.StaffID).
		Str("total", created.Total.StringFixed(2)).
		Int("lines", len(created.Lines)).
		Msg("ficha creada")

	out := toTicketResponse(created)
	return &out, nil
}

// FindByNumber busca la ficha por número. Sin includeConfirmed solo ve pendientes.
func (uc *UseCase) FindByNumber(ctx context.Context, number string, includeConfirmed bool) (*dto.TicketResponse, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.Invalid("numero", "obligatorio")
	}
	t, err := uc.ticketRepo.FindByNumber(ctx, number, includeConfirmed)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	out := toTicketResponse(t)
	return &out, nil
}

// ListPending fichas pendientes, más recientes primero.
func (uc *UseCase) ListPending(ctx context.Context) ([]dto.TicketResponse, error) {
	list, err := uc.ticketRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TicketResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTicketResponse(t))
	}
	return out, nil
}

// validateCreate normaliza la entrada y suma lo pedido por producto (un producto puede repetirse en varias líneas).
func validateCreate(in dto.CreateTicketRequest) (string, []dto.CreateTicketLineInput, map[string]int, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return "", nil, nil, domain.Invalid("numero", "obligatorio")
	}
	if len([]rune(number)) > maxNumberLength {
		return "", nil, nil, domain.Invalid("numero", fmt.Sprintf("máximo %d caracteres", maxNumberLength))
	}
	if reservedNumbers[strings.ToLower(number)] {
		return "", nil, nil, domain.Invalid("numero", fmt.Sprintf("%q está reservado, use otro número", number))
	}
	if len(in.Lines) == 0 {
		return "", nil, nil, domain.Invalid("itens", "la ficha necesita al menos un ítem")
	}

	lines := make([]dto.CreateTicketLineInput, 0, len(in.Lines))
	requested := make(map[string]int, len(in.Lines))
	for i, l := range in.Lines {
		id := strings.TrimSpace(l.ProductID)
		if id == "" {
			return "", nil, nil, domain.Invalid(fmt.Sprintf("itens[%d].produto_id", i), "obligatorio")
		}
		if l.Quantity <= 0 {
			return "", nil, nil, domain.Invalid(fmt.Sprintf("itens[%d].quantidade", i), "debe ser mayor que cero")
		}
		if l.Quantity > maxQuantity-requested[id] {
			return "", nil, nil, domain.Invalid(fmt.Sprintf("itens[%d].quantidade", i), fmt.Sprintf("máximo %d por produto", maxQuantity))
		}
		lines = append(lines, dto.CreateTicketLineInput{ProductID: id, Quantity: l.Quantity})
		requested[id] += l.Quantity
	}
	return number, lines, requested, nil
}
