package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedTable_Subset(t *testing.T) {
	tbl := &NamedTable{
		Name:    "1. USAGE",
		Columns: []string{"WK", "USAGE"},
		Rows: []Record{
			{"WK": 1.0, "USAGE": 10.0},
			{"WK": 2.0, "USAGE": 20.0},
			{"WK": 3.0, "USAGE": 30.0},
		},
	}

	t.Run("nil keeps the receiver", func(t *testing.T) {
		assert.Same(t, tbl, tbl.Subset(nil))
	})

	t.Run("empty selects nothing", func(t *testing.T) {
		sub := tbl.Subset([]int{})
		assert.NotSame(t, tbl, sub)
		assert.Empty(t, sub.Rows)
		assert.Equal(t, tbl.Columns, sub.Columns)
	})

	t.Run("order kept and out of range skipped", func(t *testing.T) {
		sub := tbl.Subset([]int{2, -1, 0, 7})
		assert.Equal(t, []any{30.0, 10.0}, sub.Column("USAGE"))
		assert.Len(t, tbl.Rows, 3)
	})
}
