package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FindParser(t *testing.T) {
	r := NewRegistry(nil, 0)

	tests := []struct {
		fileName string
		want     string
	}{
		{"usage.csv", "csv"},
		{"report.xlsx", "workbook"},
		{"legacy.xls", "workbook"},
		{"csv-export.xlsx", "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			p, err := r.FindParser(tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}

	_, err := r.FindParser("notes.txt")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRegistry_Extract(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := NewRegistry(nil, 0).Extract("notes.txt", []byte("hello"))
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("size cap", func(t *testing.T) {
		_, err := NewRegistry(nil, 8).Extract("usage.csv", []byte("WK,USAGE\n1,10\n"))
		assert.True(t, errors.Is(err, ErrFileTooLarge))

		var pe *ParseError
		assert.True(t, errors.As(err, &pe))
	})

	t.Run("csv", func(t *testing.T) {
		ext, err := NewRegistry(nil, 0).Extract("usage.csv", []byte("WK,USAGE\n1,10\n"))
		require.NoError(t, err)
		assert.Len(t, ext.Tables, 1)
	})
}
