package report

import (
	"context"

	"github.com/jhoicas/fichas-api/internal/application/dto"
)

// Renderer serializa un relatório ya calculado a un formato descargable.
// Extension identifica el formato ("pdf", "xlsx", "xml") y se usa como clave de registro.
type Renderer interface {
	Render(ctx context.Context, r *dto.SalesReport) ([]byte, error)
	ContentType() string
	Extension() string
}
