// Package models contains domain types for the TindaPay dashboard.
package models

// Record is one table row keyed by column name.
// Values are float64, string or nil.
type Record map[string]any

// NamedTable is a logical table extracted from an uploaded file.
type NamedTable struct {
	Name    string   `json:"name" msgpack:"name"`
	Columns []string `json:"columns" msgpack:"columns"`
	Rows    []Record `json:"rows" msgpack:"rows"`
}

// HasColumns reports whether every name is a column of the table.
func (t *NamedTable) HasColumns(names ...string) bool {
	for _, name := range names {
		if !t.hasColumn(name) {
			return false
		}
	}
	return true
}

func (t *NamedTable) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Subset returns a new table restricted to the given row indices, in the
// given order. Indices outside the table are skipped. A nil slice returns t
// itself, not a copy; rows are shared either way.
func (t *NamedTable) Subset(indices []int) *NamedTable {
	if indices == nil {
		return t
	}
	out := &NamedTable{
		Name:    t.Name,
		Columns: t.Columns,
		Rows:    make([]Record, 0, len(indices)),
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(t.Rows) {
			continue
		}
		out.Rows = append(out.Rows, t.Rows[idx])
	}
	return out
}

// Column returns the values of one column in row order.
func (t *NamedTable) Column(name string) []any {
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}
