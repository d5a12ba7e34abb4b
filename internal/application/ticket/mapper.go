package ticket

import (
	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
)

func toTicketResponse(t *entity.Ticket) dto.TicketResponse {
	lines := make([]dto.TicketLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TicketLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		})
	}
	return dto.TicketResponse{
		ID:              t.ID,
		Number:          t.Number,
		Status:          string(t.Status),
		Total:           t.Total,
		CreatedAt:       t.CreatedAt,
		StaffID:         t.StaffID,
		StaffName:       t.StaffName,
		ConfirmedAt:     t.ConfirmedAt,
		ConfirmedByName: t.ConfirmedByName,
		Lines:           lines,
	}
}
