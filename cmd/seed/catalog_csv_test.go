package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadCatalog_UTF8(t *testing.T) {
	in := "nome,categoria,preco,estoque,descricao\n" +
		"Café Expresso,Bebidas,3.50,100,Tradicional\n" +
		"\n" +
		"Pão de Queijo,Salgados,4.5,40,\n"

	list, err := readCatalog(strings.NewReader(in), "utf-8", ',')
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Café Expresso", list[0].Name)
	assert.True(t, decimal.RequireFromString("3.50").Equal(list[0].Price))
	assert.Equal(t, 100, list[0].Stock)
	assert.Equal(t, "Pão de Queijo", list[1].Name)
	assert.Empty(t, list[1].Description)
}

func TestReadCatalog_Latin1ConPuntoYComa(t *testing.T) {
	utf8 := "nome;categoria;preco;estoque\nÁgua Mineral;Bebidas;3,00;200\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	list, err := readCatalog(bytes.NewReader([]byte(latin1)), "latin1", ';')
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Água Mineral", list[0].Name)
	assert.True(t, decimal.RequireFromString("3").Equal(list[0].Price))
}

func TestReadCatalog_Errores(t *testing.T) {
	_, err := readCatalog(strings.NewReader(""), "utf-8", ',')
	assert.Error(t, err)

	_, err = readCatalog(strings.NewReader("nome,preco\nX,1\n"), "utf-8", ',')
	assert.ErrorContains(t, err, "categoria")

	_, err = readCatalog(strings.NewReader("nome,categoria,preco,estoque\nX,Y,abc,1\n"), "utf-8", ',')
	assert.ErrorContains(t, err, "preco")

	_, err = readCatalog(strings.NewReader("nome,categoria,preco,estoque\nX,Y,1,1\n"), "ebcdic", ',')
	assert.ErrorContains(t, err, "charset")
}

func TestDefaultProducts(t *testing.T) {
	require.Len(t, defaultProducts, 6)
	for _, p := range defaultProducts {
		assert.NotEmpty(t, p.Name)
		assert.False(t, p.Price.IsNegative())
	}
}
