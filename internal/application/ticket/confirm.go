package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	"github.com/jhoicas/fichas-api/internal/domain/repository"
)

// Confirm registra el pago de una ficha pendiente:
//  1. bloquea la ficha y verifica que siga pendiente
//  2. pasa sus líneas al histórico de ventas (best-effort)
//  3. la marca confirmada y, salvo RetainConfirmed, la borra junto con sus líneas
//
// El stock ya se descontó al abrir la ficha; aquí no se vuelve a tocar.
func (uc *UseCase) Confirm(ctx context.Context, ticketID string, staff entity.StaffIdentity) (*dto.ConfirmationResponse, error) {
	if staff.StaffID == "" {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uuid.Parse(ticketID); err != nil {
		return nil, domain.Invalid("id", "identificador de ficha inválido")
	}

	var result dto.ConfirmationResponse
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		ticketRepo repository.TicketRepository,
		ledgerRepo repository.SalesLedgerRepository,
	) error {
		t, err := ticketRepo.GetByIDForUpdate(ctx, ticketID)
		if err != nil {
			return fmt.Errorf("bloquear ficha: %w", err)
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if !t.IsPending() {
			return domain.ErrAlreadyConfirmed
		}

		lines, err := ticketRepo.ListLines(ctx, t.ID)
		if err != nil {
			return err
		}
		t.Lines = lines

		now := uc.now()
		recorded := uc.appendToLedger(ctx, ledgerRepo, t, staff, now)

		if err := ticketRepo.MarkConfirmed(ctx, t.ID, staff.StaffID, now); err != nil {
			return err
		}
		if !uc.cfg.RetainConfirmed {
			if err := ticketRepo.Delete(ctx, t.ID); err != nil {
				return err
			}
		}

		result = dto.ConfirmationResponse{
			Number:         t.Number,
			Total:          t.Total,
			LineCount:      len(lines),
			LedgerRecorded: recorded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("ticket_id", ticketID).
		Str("ticket_number", result.Number).
		Str("confirmed_by", staff.StaffID).
		Bool("ledger_recorded", result.LedgerRecorded).
		Msg("ficha confirmada")

	return &result, nil
}

// appendToLedger devuelve false si el histórico no aceptó las filas; la confirmación sigue igual.
func (uc *UseCase) appendToLedger(
	ctx context.Context,
	ledgerRepo repository.SalesLedgerRepository,
	t *entity.Ticket,
	staff entity.StaffIdentity,
	at time.Time,
) bool {
	entries := entity.NewSalesEntries(t, staff, at)
	for i := range entries {
		entries[i].ID = uc.newID()
	}
	if err := ledgerRepo.Append(ctx, entries); err != nil {
		uc.log.Warn().
			Err(err).
			Str("ticket_id", t.ID).
			Str("ticket_number", t.Number).
			Str("total", t.Total.StringFixed(2)).
			Int("lines", len(entries)).
			Msg("histórico de ventas no disponible, la ficha se confirma sin registrar")
		return false
	}
	return true
}
