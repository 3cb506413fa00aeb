// Package cells converts raw spreadsheet and CSV cell text into typed values.
package cells

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is the token spreadsheets use for a zero or blank amount.
const Placeholder = "-"

// ErrMissingValue is returned when a blank cell is coerced to a number.
var ErrMissingValue = errors.New("missing value")

var groupedNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// CoercionError reports a cell that cannot be read as a number.
type CoercionError struct {
	Column string
	Row    int
	Value  any
}

func (e *CoercionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot convert %v (%T) to a number", e.Value, e.Value)
	}
	return fmt.Sprintf("column %q row %d: cannot convert %v (%T) to a number", e.Column, e.Row, e.Value, e.Value)
}

// ParseValue turns raw cell text into nil, float64 or string.
func ParseValue(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f, ok := parseNumber(s); ok {
		return f
	}
	return s
}

func parseNumber(s string) (float64, bool) {
	if groupedNumber.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// IsPlaceholder reports whether v is the "-" token.
func IsPlaceholder(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == Placeholder
}

// IsNumeric reports whether v can be used in arithmetic without normalization.
func IsNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// ToFloat converts a cell value to float64. The placeholder becomes 0.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrMissingValue
	case float64:
		if finite(n) {
			return n, nil
		}
	case float32:
		if finite(float64(n)) {
			return float64(n), nil
		}
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		if IsPlaceholder(n) {
			return 0, nil
		}
		if f, ok := parseNumber(strings.TrimSpace(n)); ok {
			return f, nil
		}
	}
	return 0, &CoercionError{Value: v}
}

// Normalize replaces placeholders with 0 and converts every value to float64.
// Already numeric input passes through unchanged.
func Normalize(column string, values []any) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := ToFloat(v)
		if err != nil {
			var ce *CoercionError
			if errors.As(err, &ce) {
				ce.Column = column
				ce.Row = i
				return nil, ce
			}
			return nil, &CoercionError{Column: column, Row: i, Value: v}
		}
		out[i] = f
	}
	return out, nil
}

// FormatFixed2 renders v with exactly two decimals.
func FormatFixed2(v float64) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// String renders a cell value for labels and category keys.
func String(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		if !finite(n) {
			return strconv.FormatFloat(n, 'g', -1, 64)
		}
		return decimal.NewFromFloat(n).String()
	}
	return fmt.Sprint(v)
}
