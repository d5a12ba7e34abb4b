package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/fichas-api/internal/application/dto"
)

// csvColumns cabecera esperada del catálogo; descricao es opcional.
var csvColumns = []string{"nome", "categoria", "preco", "estoque"}

// decoderFor envuelve r según el charset del archivo (planillas exportadas en Windows suelen venir en Latin-1).
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

// readCatalog parsea un CSV nome,categoria,preco,estoque[,descricao].
// Acepta preco con coma decimal ("3,50") y separador ';' cuando sep lo indica.
func readCatalog(r io.Reader, charset string, sep rune) ([]dto.CreateProductRequest, error) {
	dec, err := decoderFor(r, charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(dec)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv vacío")
		}
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field("nome") == "" {
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(field("preco"), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: preco inválido %q", line, field("preco"))
		}
		stock, err := strconv.Atoi(field("estoque"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: estoque inválido %q", line, field("estoque"))
		}
		out = append(out, dto.CreateProductRequest{
			Name:        field("nome"),
			Category:    field("categoria"),
			Price:       price,
			Stock:       stock,
			Description: field("descricao"),
		})
	}
	return out, nil
}
