package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVParser_CanParse(t *testing.T) {
	p := NewCSVParser()
	assert.True(t, p.CanParse("usage.csv"))
	assert.True(t, p.CanParse("USAGE.CSV"))
	assert.False(t, p.CanParse("usage.xlsx"))
}

func TestCSVParser_Parse(t *testing.T) {
	p := NewCSVParser()

	t.Run("single table named after the file", func(t *testing.T) {
		ext, err := p.Parse("usage.csv", []byte("WK,USAGE\n1,10\n2,20\n"))
		require.NoError(t, err)

		require.Len(t, ext.Tables, 1)
		table := ext.Tables[0]
		assert.Equal(t, "usage.csv", table.Name)
		assert.Equal(t, []string{"WK", "USAGE"}, table.Columns)
		assert.Equal(t, []any{1.0, 2.0}, table.Column("WK"))
		assert.Equal(t, []any{10.0, 20.0}, table.Column("USAGE"))
		assert.Empty(t, ext.Outlets)
	})

	t.Run("byte order mark and blank lines", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("WK,USAGE\n\n1,10\n,\n")...)
		ext, err := p.Parse("usage.csv", data)
		require.NoError(t, err)

		assert.Equal(t, "WK", ext.Tables[0].Columns[0])
		assert.Len(t, ext.Tables[0].Rows, 1)
	})

	t.Run("short rows padded and duplicates mangled", func(t *testing.T) {
		ext, err := p.Parse("dup.csv", []byte("WK,Paid,Paid\n1,5\n"))
		require.NoError(t, err)

		table := ext.Tables[0]
		assert.Equal(t, []string{"WK", "Paid", "Paid.1"}, table.Columns)
		assert.Nil(t, table.Rows[0]["Paid.1"])
	})

	t.Run("placeholder kept as text", func(t *testing.T) {
		ext, err := p.Parse("rep.csv", []byte("WK.2,Paid,Outstanding\n1,10,-\n"))
		require.NoError(t, err)
		assert.Equal(t, "-", ext.Tables[0].Rows[0]["Outstanding"])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := p.Parse("empty.csv", nil)
		assert.True(t, errors.Is(err, ErrEmptyFile))
	})

	t.Run("malformed quoting", func(t *testing.T) {
		_, err := p.Parse("bad.csv", []byte("WK,USAGE\n\"1,10\n"))
		var pe *ParseError
		assert.True(t, errors.As(err, &pe))
	})
}
