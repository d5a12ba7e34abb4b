// Package xmlexport exporta el relatório de vendas a XML con un digest de integridad
// SHA-256 calculado sobre la forma canónica (C14N) del elemento <Conteudo>.
package xmlexport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/fichas-api/internal/application/dto"
)

const (
	elemRoot      = "RelatorioVendas"
	elemContent   = "Conteudo"
	elemIntegrity = "Integridade"
	schemaVersion = "1.0"
)

// ErrNoIntegrity el documento no trae <Conteudo> o <Integridade>.
var ErrNoIntegrity = errors.New("xmlexport: documento sin bloque de integridad")

// ReportRenderer implementa report.Renderer con etree.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (r *ReportRenderer) ContentType() string { return "application/xml" }
func (r *ReportRenderer) Extension() string   { return "xml" }

// Render arma el documento, lo indenta y completa <Integridade> con el digest del contenido.
func (r *ReportRenderer) Render(_ context.Context, rep *dto.SalesReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(elemRoot)
	root.CreateAttr("versao", schemaVersion)

	content := root.CreateElement(elemContent)
	period := content.CreateElement("Periodo")
	period.CreateAttr("inicio", rep.Start)
	period.CreateAttr("fim", rep.End)
	if rep.Degraded {
		content.CreateElement("Degradado").SetText("true")
	}

	totals := content.CreateElement("Totais")
	totals.CreateElement("Fichas").SetText(strconv.Itoa(rep.TotalTickets))
	totals.CreateElement("Itens").SetText(strconv.Itoa(rep.TotalItems))
	totals.CreateElement("Vendas").SetText(rep.TotalRevenue.StringFixed(2))

	products := content.CreateElement("Produtos")
	for _, p := range rep.Products {
		el := products.CreateElement("Produto")
		el.CreateAttr("nome", p.ProductName)
		el.CreateElement("Quantidade").SetText(strconv.Itoa(p.Quantity))
		el.CreateElement("PrecoMedio").SetText(p.AveragePrice.StringFixed(2))
		el.CreateElement("TotalVendido").SetText(p.Revenue.StringFixed(2))
	}

	items := content.CreateElement("Vendas")
	for _, it := range rep.Items {
		el := items.CreateElement("Venda")
		el.CreateAttr("ficha", it.TicketNumber)
		el.CreateAttr("dataHora", it.SoldAt.Format("2006-01-02T15:04:05-07:00"))
		el.CreateElement("Produto").SetText(it.ProductName)
		el.CreateElement("Quantidade").SetText(strconv.Itoa(it.Quantity))
		el.CreateElement("PrecoUnitario").SetText(it.UnitPrice.StringFixed(2))
		el.CreateElement("Total").SetText(it.LineTotal.StringFixed(2))
		el.CreateElement("Atendente").SetText(it.StaffName)
	}

	integrity := root.CreateElement(elemIntegrity)
	integrity.CreateAttr("algoritmo", "c14n")
	integrity.CreateAttr("digest", "sha256")

	// El digest se calcula después de indentar: los espacios forman parte del contenido canónico.
	doc.Indent(2)
	digest, err := contentDigest(content)
	if err != nil {
		return nil, err
	}
	integrity.SetText(digest)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlexport: serializar: %w", err)
	}
	return out, nil
}

// Verify recalcula el digest de <Conteudo> y lo compara con <Integridade>.
func Verify(data []byte) (bool, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return false, fmt.Errorf("xmlexport: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return false, ErrNoIntegrity
	}
	content := root.SelectElement(elemContent)
	integrity := root.SelectElement(elemIntegrity)
	if content == nil || integrity == nil {
		return false, ErrNoIntegrity
	}
	digest, err := contentDigest(content)
	if err != nil {
		return false, err
	}
	return digest == integrity.Text(), nil
}

// contentDigest base64(sha256(C14N(el))).
func contentDigest(el *etree.Element) (string, error) {
	sub := etree.NewDocument()
	sub.SetRoot(el.Copy())
	raw, err := sub.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("xmlexport: serializar contenido: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("xmlexport: c14n: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
