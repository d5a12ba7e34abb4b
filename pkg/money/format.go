// Package money formatea valores monetarios para los documentos exportados (PDF, XLSX, XML).
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea decimal.Decimal con los separadores de un idioma sin pasar por float64.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter construye un formateador para el idioma y símbolo dados.
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// BRL formateador por defecto: "R$ 1.234,50".
func BRL() *Formatter {
	return NewFormatter(language.BrazilianPortuguese, "R$")
}

// Amount devuelve el número con dos decimales y separadores locales, sin símbolo.
func (f *Formatter) Amount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	// %d con el printer de x/text aplica la agrupación de miles del idioma.
	intPart := f.printer.Sprintf("%d", whole.IntPart())
	dec := f.printer.Sprintf("%.1f", 0.5)[1:2] // separador decimal del idioma
	return fmt.Sprintf("%s%s%s%02d", sign, intPart, dec, cents)
}

// Format devuelve el valor con el símbolo de moneda.
func (f *Formatter) Format(d decimal.Decimal) string {
	if f.symbol == "" {
		return f.Amount(d)
	}
	return f.symbol + " " + f.Amount(d)
}

// Quantity formatea cantidades enteras con agrupación de miles.
func (f *Formatter) Quantity(n int) string {
	return f.printer.Sprintf("%d", n)
}
