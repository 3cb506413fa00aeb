package cells

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"blank", "   ", nil},
		{"integer", "10", 10.0},
		{"float", " 12.5 ", 12.5},
		{"negative", "-3", -3.0},
		{"grouped thousands", "1,234.50", 1234.5},
		{"placeholder stays text", "-", "-"},
		{"text", "Sari Store", "Sari Store"},
		{"not a number", "NaN", "NaN"},
		{"bad grouping is text", "12,34", "12,34"},
		{"overflow is text", "1e400", "1e400"},
		{"negative overflow is text", "-1e400", "-1e400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.raw))
		})
	}
}

func TestToFloat(t *testing.T) {
	t.Run("placeholder is zero", func(t *testing.T) {
		f, err := ToFloat("-")
		require.NoError(t, err)
		assert.Equal(t, 0.0, f)
	})

	t.Run("numeric string", func(t *testing.T) {
		f, err := ToFloat("42.25")
		require.NoError(t, err)
		assert.Equal(t, 42.25, f)
	})

	t.Run("integer kinds widen", func(t *testing.T) {
		f, err := ToFloat(int64(7))
		require.NoError(t, err)
		assert.Equal(t, 7.0, f)
	})

	t.Run("nil is missing", func(t *testing.T) {
		_, err := ToFloat(nil)
		assert.True(t, errors.Is(err, ErrMissingValue))
	})

	t.Run("text fails", func(t *testing.T) {
		_, err := ToFloat("n/a")
		var ce *CoercionError
		assert.True(t, errors.As(err, &ce))
	})

	t.Run("non-finite fails", func(t *testing.T) {
		for _, v := range []any{"1e400", math.Inf(1), math.NaN()} {
			_, err := ToFloat(v)
			var ce *CoercionError
			assert.True(t, errors.As(err, &ce), "value %v", v)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("replaces placeholder", func(t *testing.T) {
		got, err := Normalize("Outstanding", []any{100.0, "-", "25"})
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 0, 25}, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := Normalize("Paid", []any{"-", 3.5, 4.0})
		require.NoError(t, err)

		again := make([]any, len(first))
		for i, f := range first {
			again[i] = f
		}
		second, err := Normalize("Paid", again)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("reports column and row", func(t *testing.T) {
		_, err := Normalize("Outstanding", []any{1.0, "pending"})
		var ce *CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "Outstanding", ce.Column)
		assert.Equal(t, 1, ce.Row)
	})
}

func TestFormatFixed2(t *testing.T) {
	assert.Equal(t, "10.00", FormatFixed2(10))
	assert.Equal(t, "3.33", FormatFixed2(10.0/3))
	assert.Equal(t, "0.00", FormatFixed2(0))
	assert.Equal(t, "+Inf", FormatFixed2(math.Inf(1)))
	assert.Equal(t, "NaN", FormatFixed2(math.NaN()))
}

func TestString(t *testing.T) {
	assert.Equal(t, "1", String(1.0))
	assert.Equal(t, "2.5", String(2.5))
	assert.Equal(t, "Jan", String("Jan"))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "-Inf", String(math.Inf(-1)))
}
