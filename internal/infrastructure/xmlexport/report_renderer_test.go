package xmlexport_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fichas-api/internal/application/dto"
	"github.com/jhoicas/fichas-api/internal/infrastructure/xmlexport"
)

func sampleReport() *dto.SalesReport {
	return &dto.SalesReport{
		Start: "2026-03-14", End: "2026-03-14",
		TotalTickets: 1, TotalItems: 3, TotalRevenue: decimal.RequireFromString("15"),
		Items: []dto.SalesReportItem{{
			TicketNumber: "T1", ProductName: "Pão & Café", Quantity: 3,
			UnitPrice: decimal.RequireFromString("5"), LineTotal: decimal.RequireFromString("15"),
			SoldAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600)), StaffName: "Maria",
		}},
		Products: []dto.ProductSalesSummary{{
			ProductName: "Pão & Café", Quantity: 3,
			Revenue: decimal.RequireFromString("15"), AveragePrice: decimal.RequireFromString("5"),
		}},
	}
}

func TestReportRenderer_ContenidoYDigest(t *testing.T) {
	out, err := xmlexport.NewReportRenderer().Render(context.Background(), sampleReport())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	assert.Equal(t, "15.00", doc.FindElement("//Conteudo/Totais/Vendas").Text())
	assert.Equal(t, "1", doc.FindElement("//Conteudo/Totais/Fichas").Text())
	venda := doc.FindElement("//Conteudo/Vendas/Venda")
	require.NotNil(t, venda)
	assert.Equal(t, "T1", venda.SelectAttrValue("ficha", ""))
	assert.Equal(t, "Pão & Café", venda.SelectElement("Produto").Text())
	assert.Equal(t, "2026-03-14T12:00:00-03:00", venda.SelectAttrValue("dataHora", ""))

	integrity := doc.FindElement("//Integridade")
	require.NotNil(t, integrity)
	assert.NotEmpty(t, integrity.Text())

	ok, err := xmlexport.Verify(out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_DetectaAlteracion(t *testing.T) {
	out, err := xmlexport.NewReportRenderer().Render(context.Background(), sampleReport())
	require.NoError(t, err)

	tampered := bytes.Replace(out, []byte("<Vendas>15.00</Vendas>"), []byte("<Vendas>1.00</Vendas>"), 1)
	require.NotEqual(t, out, tampered)

	ok, err := xmlexport.Verify(tampered)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_SinIntegridad(t *testing.T) {
	_, err := xmlexport.Verify([]byte(`<RelatorioVendas><Conteudo/></RelatorioVendas>`))
	assert.ErrorIs(t, err, xmlexport.ErrNoIntegrity)
}

func TestReportRenderer_Degradado(t *testing.T) {
	rep := &dto.SalesReport{Start: "2026-03-14", End: "2026-03-14", TotalRevenue: decimal.Zero, Degraded: true}
	out, err := xmlexport.NewReportRenderer().Render(context.Background(), rep)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<Degradado>true</Degradado>")
}
