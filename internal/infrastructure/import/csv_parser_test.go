package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientsCSV = "nome_completo,cpf,cidade\n" +
	"Maria da Silva,52998224725,Curitiba\n" +
	"João Pereira,11144477735,São Paulo\n"

func TestNewCSVParser(t *testing.T) {
	t.Run("valid UTF-8 file", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(clientsCSV))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\xEF\xBB\xBFnome_completo,cpf\nMaria,52998224725"))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, "nome_completo", parser.Headers()[0])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("non UTF-8 content", func(t *testing.T) {
		// Latin-1 encoded "ç"
		_, err := NewCSVParser(strings.NewReader("nome\n\xe7"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		parser, err := NewCSVParser(
			strings.NewReader("nome_completo;cpf\nMaria da Silva;52998224725"),
			WithDelimiter(';'))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"nome_completo", "cpf"}, parser.Headers())
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("indexes columns", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(clientsCSV))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"nome_completo", "cpf", "cidade"}, parser.Headers())
		assert.True(t, parser.HasHeader("cpf"))
		assert.False(t, parser.HasHeader("sku"))
	})

	t.Run("trims header whitespace", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(" nome_completo , cpf \nMaria,52998224725"))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"nome_completo", "cpf"}, parser.Headers())
	})

	t.Run("header only file parses", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("nome_completo,cpf\n"))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())

		_, err = parser.ReadRow()
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestValidateHeaders(t *testing.T) {
	parser, err := NewCSVParser(strings.NewReader(clientsCSV))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	assert.Empty(t, parser.ValidateHeaders([]string{"nome_completo", "cpf"}))
	assert.Equal(t, []string{"rg", "cep"}, parser.ValidateHeaders([]string{"nome_completo", "rg", "cep"}))
}

func TestReadRow(t *testing.T) {
	t.Run("maps values by header", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(clientsCSV))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)

		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "Maria da Silva", row.Get("nome_completo"))
		assert.Equal(t, "52998224725", row.Get("cpf"))
		assert.Equal(t, "Curitiba", row.Get("cidade"))
	})

	t.Run("line numbers follow the file", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(clientsCSV))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		first, err := parser.ReadRow()
		require.NoError(t, err)
		second, err := parser.ReadRow()
		require.NoError(t, err)

		assert.Equal(t, 2, first.LineNumber)
		assert.Equal(t, 3, second.LineNumber)
		assert.Equal(t, 2, parser.TotalRows())
	})

	t.Run("short rows pad missing columns", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("nome_completo,cpf,cidade\nMaria,52998224725"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)

		assert.Equal(t, "", row.Get("cidade"))
	})

	t.Run("trims cell whitespace", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("nome_completo,cpf\n  Maria da Silva  , 52998224725 "))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)

		assert.Equal(t, "Maria da Silva", row.Get("nome_completo"))
		assert.Equal(t, "52998224725", row.Get("cpf"))
	})

	t.Run("eof after last row", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("nome_completo,cpf\nMaria,52998224725"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		_, err = parser.ReadRow()
		require.NoError(t, err)
		_, err = parser.ReadRow()
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestRow(t *testing.T) {
	t.Run("GetOrDefault", func(t *testing.T) {
		row := &Row{Data: map[string]string{"uf": "PR", "bairro": ""}}

		assert.Equal(t, "PR", row.GetOrDefault("uf", "SP"))
		assert.Equal(t, "Centro", row.GetOrDefault("bairro", "Centro"))
		assert.Equal(t, "Centro", row.GetOrDefault("missing", "Centro"))
	})

	t.Run("IsEmpty", func(t *testing.T) {
		assert.True(t, (&Row{Data: map[string]string{"nome_completo": "", "cpf": ""}}).IsEmpty())
		assert.False(t, (&Row{Data: map[string]string{"nome_completo": "Maria", "cpf": ""}}).IsEmpty())
	})
}
