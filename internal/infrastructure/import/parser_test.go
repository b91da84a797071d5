package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "user_email,company\nalice@example.com,Acme"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		// UTF-8 BOM: 0xEF, 0xBB, 0xBF
		csv := "\xEF\xBB\xBFuser_email,company\nalice@example.com,Acme"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		headers := parser.Headers()
		assert.Equal(t, "user_email", headers[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(""))

		assert.Error(t, err)
		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Invalid encoding returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("user_email\n\xff\xfe\xfd"))

		assert.Error(t, err)
		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		csv := "user_email;company;city\nalice@example.com;Acme;Tokyo"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter(';'))

		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"user_email", "company", "city"}, parser.Headers())
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("Header with spaces trimmed", func(t *testing.T) {
		csv := "  user_email  ,  company  \nalice@example.com,Acme"
		parser, _ := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, []string{"user_email", "company"}, parser.Headers())
	})
}

func TestReadRow(t *testing.T) {
	t.Run("Line numbers start after the header", func(t *testing.T) {
		csv := "user_email,company\nalice@example.com,Acme\nbob@example.com,Beta"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "alice@example.com", row.Get("user_email"))

		row, err = parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, 3, row.LineNumber)
		assert.Equal(t, "Beta", row.Get("company"))
	})

	t.Run("Short rows fill missing columns with empty strings", func(t *testing.T) {
		csv := "user_email,company,city\nalice@example.com,Acme"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "", row.Get("city"))
	})

	t.Run("Values are trimmed", func(t *testing.T) {
		csv := "user_email,company\n  alice@example.com  ,  Acme  "
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", row.Get("user_email"))
		assert.Equal(t, "Acme", row.Get("company"))
	})

	t.Run("IsEmpty row", func(t *testing.T) {
		csv := "user_email,company\n,\nalice@example.com,Acme"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		row1, _ := parser.ReadRow()
		assert.True(t, row1.IsEmpty())

		row2, _ := parser.ReadRow()
		assert.False(t, row2.IsEmpty())
	})

	t.Run("EOF after last row", func(t *testing.T) {
		csv := "user_email,company\nalice@example.com,Acme"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		_, err := parser.ReadRow()
		require.NoError(t, err)

		_, err = parser.ReadRow()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadAllRows(t *testing.T) {
	t.Run("Skips empty rows and counts the rest", func(t *testing.T) {
		csv := "user_email,company\nalice@example.com,Acme\n,\nbob@example.com,Beta"
		parser, _ := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, parser.ParseHeader())

		rows, err := parser.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, 3, parser.TotalRows())
	})
}

func TestQuotedFields(t *testing.T) {
	csv := "user_email,company\nalice@example.com,\"Acme, Inc.\"\nbob@example.com,\"Say \"\"hi\"\"\""
	parser, _ := NewCSVParser(strings.NewReader(csv))
	require.NoError(t, parser.ParseHeader())

	row1, _ := parser.ReadRow()
	assert.Equal(t, "Acme, Inc.", row1.Get("company"))

	row2, _ := parser.ReadRow()
	assert.Equal(t, `Say "hi"`, row2.Get("company"))
}
