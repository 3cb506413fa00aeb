package chart

import (
	"errors"
	"sort"

	"github.com/tindapay/dashboard/internal/cells"
	"github.com/tindapay/dashboard/internal/models"
)

// excludedSelection is a column label that never drives the usage chart.
const excludedSelection = "Year"

// Query is the live state of a displayed table.
type Query struct {
	// Indices are the visible rows in display order. Nil means all rows.
	Indices        []int  `json:"indices,omitempty" msgpack:"indices,omitempty"`
	SelectedColumn string `json:"selectedColumn,omitempty" msgpack:"selectedColumn,omitempty"`
}

// Selector maps tables to chart specs. It holds no per-request state.
type Selector struct {
	signatures  []Signature
	interactive bool
}

// NewSelector returns a selector over the default signatures. In interactive
// mode the usage chart plots the per-week mean of the selected column and is
// empty until a column is selected.
func NewSelector(interactive bool) *Selector {
	return &Selector{
		signatures:  Signatures(),
		interactive: interactive,
	}
}

// Interactive reports whether the selector runs the usage chart in
// single-series mode.
func (s *Selector) Interactive() bool {
	return s.interactive
}

// Match returns the first signature the table satisfies.
func (s *Selector) Match(table *models.NamedTable) (Signature, bool) {
	for _, sig := range s.signatures {
		if sig.Matches(table) {
			return sig, true
		}
	}
	return Signature{}, false
}

// Select builds the chart for a table. A nil spec with a nil error means the
// table has no chart. Errors are returned only when a charted column holds a
// value that is not a number.
func (s *Selector) Select(table *models.NamedTable, q Query) (*models.ChartSpec, error) {
	if table == nil {
		return nil, nil
	}
	sig, ok := s.Match(table)
	if !ok {
		return nil, nil
	}

	view := table.Subset(q.Indices)
	if sig.Kind == models.ChartLine {
		return s.usageLine(sig, view, q.SelectedColumn)
	}
	return stackedBar(sig, view)
}

func (s *Selector) usageLine(sig Signature, table *models.NamedTable, selected string) (*models.ChartSpec, error) {
	if !s.interactive {
		series, err := rawSeries(table, sig.X, sig.Y[0])
		if err != nil {
			return nil, err
		}
		spec := newSpec(sig)
		spec.YAxisTitle = sig.Y[0]
		spec.Series = []models.Series{series}
		return spec, nil
	}

	if selected == "" || selected == excludedSelection || !table.HasColumns(selected) {
		return nil, nil
	}
	series, err := meanSeries(table, sig.X, selected)
	if err != nil {
		return nil, err
	}
	spec := newSpec(sig)
	spec.Y = []string{selected}
	spec.YAxisTitle = selected
	spec.Series = []models.Series{series}
	return spec, nil
}

func stackedBar(sig Signature, table *models.NamedTable) (*models.ChartSpec, error) {
	spec := newSpec(sig)
	spec.BarMode = "stack"
	if spec.XAxisTitle == "" {
		spec.XAxisTitle = BaseName(sig.X)
	}
	if spec.YAxisTitle == "" {
		spec.YAxisTitle = sig.ValueLabel
	}
	for _, col := range sig.Y {
		series, err := rawSeries(table, sig.X, col)
		if err != nil {
			return nil, err
		}
		spec.Series = append(spec.Series, series)
	}
	return spec, nil
}

func newSpec(sig Signature) *models.ChartSpec {
	return &models.ChartSpec{
		Kind:          sig.Kind,
		Signature:     sig.Family,
		Title:         sig.Title,
		X:             sig.X,
		Y:             append([]string(nil), sig.Y...),
		XAxisTitle:    sig.XAxisTitle,
		YAxisTitle:    sig.YAxisTitle,
		ValueLabel:    sig.ValueLabel,
		VariableLabel: sig.VariableLabel,
	}
}

// rawSeries plots one column row by row. Blank cells count as the
// placeholder and chart as zero.
func rawSeries(table *models.NamedTable, x, column string) (models.Series, error) {
	values := table.Column(column)
	for i, v := range values {
		if v == nil {
			values[i] = cells.Placeholder
		}
	}
	ys, err := cells.Normalize(column, values)
	if err != nil {
		return models.Series{}, err
	}

	series := models.Series{
		Name:   BaseName(column),
		Column: column,
		Points: make([]models.Point, len(ys)),
	}
	for i, y := range ys {
		series.Points[i] = models.Point{X: table.Rows[i][x], Y: y, Text: cells.FormatFixed2(y)}
	}
	return series, nil
}

type group struct {
	x     any
	sum   float64
	count int
}

// meanSeries averages a column per x value. Points are ordered by x, numbers
// numerically and ahead of text, whatever order the rows arrive in. Rows with
// a blank x or a blank value are skipped.
func meanSeries(table *models.NamedTable, x, column string) (models.Series, error) {
	var order []string
	groups := make(map[string]*group)

	for i, row := range table.Rows {
		key := row[x]
		if key == nil {
			continue
		}
		v, err := cells.ToFloat(row[column])
		if errors.Is(err, cells.ErrMissingValue) {
			continue
		}
		if err != nil {
			return models.Series{}, &cells.CoercionError{Column: column, Row: i, Value: row[column]}
		}

		k := cells.String(key)
		g, ok := groups[k]
		if !ok {
			g = &group{x: key}
			groups[k] = g
			order = append(order, k)
		}
		g.sum += v
		g.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return lessKey(groups[order[i]].x, groups[order[j]].x)
	})

	series := models.Series{
		Name:   BaseName(column),
		Column: column,
		Points: make([]models.Point, 0, len(order)),
	}
	for _, k := range order {
		g := groups[k]
		mean := g.sum / float64(g.count)
		series.Points = append(series.Points, models.Point{X: g.x, Y: mean, Text: cells.FormatFixed2(mean)})
	}
	return series, nil
}

func lessKey(a, b any) bool {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	switch {
	case aNum && bNum:
		return fa < fb
	case aNum != bNum:
		return aNum
	}
	return cells.String(a) < cells.String(b)
}
