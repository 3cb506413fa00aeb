package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindapay/dashboard/internal/cells"
	"github.com/tindapay/dashboard/internal/models"
)

func table(columns []string, rows ...[]any) *models.NamedTable {
	t := &models.NamedTable{Name: "test", Columns: columns}
	for _, r := range rows {
		rec := make(models.Record, len(columns))
		for i, c := range columns {
			rec[c] = r[i]
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func yValues(s models.Series) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Y
	}
	return out
}

func xValues(s models.Series) []any {
	out := make([]any, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.X
	}
	return out
}

func TestCheckContract(t *testing.T) {
	assert.NoError(t, CheckContract(SuffixContract))
	assert.True(t, errors.Is(CheckContract(SuffixContract+1), ErrContractMismatch))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Paid", BaseName("Paid.1"))
	assert.Equal(t, "WK", BaseName("WK.12"))
	assert.Equal(t, "No. of Invoices", BaseName("No. of Invoices"))
	assert.Equal(t, "Grew vs. Baseline", BaseName("Grew vs. Baseline"))
}

func TestSelector_SignaturePriority(t *testing.T) {
	s := NewSelector(false)

	tests := []struct {
		name    string
		columns []string
		family  string
		x       string
	}{
		{"usage", []string{"WK", "USAGE"}, WeeklyUsageLine, "WK"},
		{"usage wins over repeat", []string{"WK", "USAGE", "REPEAT", "NEW"}, WeeklyUsageLine, "WK"},
		{"wide repeat", []string{"WK.1", "REPEAT", "NEW"}, WeeklyRepeatBar, "WK.1"},
		{"suffixed repeat wins over bare", []string{"WK", "WK.1", "REPEAT", "NEW"}, WeeklyRepeatBar, "WK.1"},
		{"sheet repeat", []string{"WK", "REPEAT", "NEW"}, WeeklyRepeatBar, "WK"},
		{"wide repayment 1", []string{"WK.2", "Total", "Paid", "Outstanding"}, WeeklyRepaymentBar, "WK.2"},
		{"wide repayment 2", []string{"WK.3", "Total.1", "Paid.1", "Outstanding.1"}, WeeklyRepaymentBar, "WK.3"},
		{"sheet repayment", []string{"Week", "Total", "Paid", "Outstanding"}, WeeklyRepaymentBar, "Week"},
		{"gsv", []string{"Month", "GSV (PHP)", "Growth vs Baseline"}, MonthlyGSVBar, "Month"},
		{"wide invoices", []string{"Month.1", "No. of Invoices", "Growth vs Baseline.1"}, MonthlyInvoiceBar, "Month.1"},
		{"sheet invoices", []string{"Month", "No. of Invoices", "Growth vs Baseline"}, MonthlyInvoiceBar, "Month"},
		{"wide growth", []string{"Month.2", "Grew vs. Baseline", "Did not grow vs. Baseline"}, MonthlyGrowthBar, "Month.2"},
		{"sheet growth", []string{"Month", "Grew vs. Baseline", "Did not grow vs. Baseline"}, MonthlyGrowthBar, "Month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := make([]any, len(tt.columns))
			for i := range row {
				row[i] = 1.0
			}
			tbl := table(tt.columns, row)

			for i := 0; i < 3; i++ {
				spec, err := s.Select(tbl, Query{})
				require.NoError(t, err)
				require.NotNil(t, spec)
				assert.Equal(t, tt.family, spec.Signature)
				assert.Equal(t, tt.x, spec.X)
			}
		})
	}
}

func TestSelector_NoMatch(t *testing.T) {
	s := NewSelector(true)

	tests := []struct {
		name    string
		columns []string
	}{
		{"unrelated", []string{"A", "B"}},
		{"repayment without paid", []string{"WK.2", "Total", "Outstanding"}},
		{"repeat only", []string{"REPEAT", "NEW"}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := s.Select(table(tt.columns), Query{})
			assert.NoError(t, err)
			assert.Nil(t, spec)
		})
	}

	spec, err := s.Select(nil, Query{})
	assert.NoError(t, err)
	assert.Nil(t, spec)
}

func TestSelector_UsageInteractive(t *testing.T) {
	s := NewSelector(true)
	tbl := table([]string{"WK", "USAGE", "Year"},
		[]any{1.0, 10.0, 2024.0},
		[]any{1.0, 30.0, 2024.0},
		[]any{2.0, 20.0, 2024.0},
	)

	t.Run("no selection", func(t *testing.T) {
		spec, err := s.Select(tbl, Query{})
		assert.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("year excluded", func(t *testing.T) {
		spec, err := s.Select(tbl, Query{SelectedColumn: "Year"})
		assert.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("unknown column", func(t *testing.T) {
		spec, err := s.Select(tbl, Query{SelectedColumn: "Missing"})
		assert.NoError(t, err)
		assert.Nil(t, spec)
	})

	t.Run("mean per week", func(t *testing.T) {
		spec, err := s.Select(tbl, Query{SelectedColumn: "USAGE"})
		require.NoError(t, err)
		require.NotNil(t, spec)

		assert.Equal(t, models.ChartLine, spec.Kind)
		assert.Equal(t, "WK", spec.X)
		assert.Equal(t, []string{"USAGE"}, spec.Y)
		require.Len(t, spec.Series, 1)
		assert.Equal(t, []float64{20, 20}, yValues(spec.Series[0]))
		assert.Equal(t, 1.0, spec.Series[0].Points[0].X)
		assert.Equal(t, "20.00", spec.Series[0].Points[0].Text)
	})

	t.Run("weeks sorted whatever the row order", func(t *testing.T) {
		unordered := table([]string{"WK", "USAGE"},
			[]any{3.0, 1.0}, []any{1.0, 2.0}, []any{3.0, 5.0}, []any{10.0, 4.0},
		)
		spec, err := s.Select(unordered, Query{SelectedColumn: "USAGE"})
		require.NoError(t, err)
		assert.Equal(t, []any{1.0, 3.0, 10.0}, xValues(spec.Series[0]))
		assert.Equal(t, []float64{2, 3, 4}, yValues(spec.Series[0]))
	})

	t.Run("sorted display indices keep the week axis", func(t *testing.T) {
		weeks := table([]string{"WK", "USAGE"},
			[]any{1.0, 10.0}, []any{2.0, 40.0}, []any{3.0, 20.0},
		)
		// rows sorted by USAGE descending
		spec, err := s.Select(weeks, Query{Indices: []int{1, 2, 0}, SelectedColumn: "USAGE"})
		require.NoError(t, err)
		assert.Equal(t, []any{1.0, 2.0, 3.0}, xValues(spec.Series[0]))
		assert.Equal(t, []float64{10, 40, 20}, yValues(spec.Series[0]))
	})

	t.Run("numbers before text", func(t *testing.T) {
		mixed := table([]string{"WK", "USAGE"},
			[]any{"W2", 1.0}, []any{2.0, 2.0}, []any{"W1", 3.0},
		)
		spec, err := s.Select(mixed, Query{SelectedColumn: "USAGE"})
		require.NoError(t, err)
		assert.Equal(t, []any{2.0, "W1", "W2"}, xValues(spec.Series[0]))
	})

	t.Run("overflowing cell is an error", func(t *testing.T) {
		huge := table([]string{"WK", "USAGE"}, []any{1.0, cells.ParseValue("1e400")})
		_, err := s.Select(huge, Query{SelectedColumn: "USAGE"})
		var ce *cells.CoercionError
		require.True(t, errors.As(err, &ce))
	})

	t.Run("text in selected column", func(t *testing.T) {
		bad := table([]string{"WK", "USAGE"}, []any{1.0, "n/a"})
		_, err := s.Select(bad, Query{SelectedColumn: "USAGE"})
		var ce *cells.CoercionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "USAGE", ce.Column)
	})
}

func TestSelector_UsageNonInteractive(t *testing.T) {
	s := NewSelector(false)
	assert.False(t, s.Interactive())

	tbl := table([]string{"WK", "USAGE"}, []any{1.0, 10.0}, []any{1.0, 30.0})
	spec, err := s.Select(tbl, Query{})
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, []float64{10, 30}, yValues(spec.Series[0]))
}

// Scenario: Outstanding holds "-" and still charts.
func TestSelector_RepaymentPlaceholder(t *testing.T) {
	s := NewSelector(true)
	tbl := table([]string{"WK.2", "Total", "Paid", "Outstanding"},
		[]any{1.0, 100.0, 100.0, "-"},
		[]any{2.0, 200.0, 150.0, 50.0},
	)

	spec, err := s.Select(tbl, Query{})
	require.NoError(t, err)
	require.NotNil(t, spec)

	assert.Equal(t, models.ChartStackedBar, spec.Kind)
	assert.Equal(t, "stack", spec.BarMode)
	assert.Equal(t, "Total, Paid, and Outstanding Balances", spec.Title)
	assert.Equal(t, "Week", spec.XAxisTitle)
	assert.Equal(t, "Amount", spec.YAxisTitle)
	assert.Equal(t, "Balance Type", spec.VariableLabel)

	require.Len(t, spec.Series, 2)
	assert.Equal(t, []float64{100, 150}, yValues(spec.Series[0]))
	assert.Equal(t, []float64{0, 50}, yValues(spec.Series[1]))
	assert.Equal(t, "0.00", spec.Series[1].Points[0].Text)

	for i := range tbl.Rows {
		total, _ := cells.ToFloat(tbl.Rows[i]["Total"])
		assert.Equal(t, total, spec.Series[0].Points[i].Y+spec.Series[1].Points[i].Y)
	}
}

func TestSelector_SuffixedSeriesUseBaseNames(t *testing.T) {
	s := NewSelector(true)
	tbl := table([]string{"WK.3", "Total.1", "Paid.1", "Outstanding.1"}, []any{3.0, 300.0, 200.0, 100.0})

	spec, err := s.Select(tbl, Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Paid.1", "Outstanding.1"}, spec.Y)
	assert.Equal(t, "Paid", spec.Series[0].Name)
	assert.Equal(t, "Paid.1", spec.Series[0].Column)
	assert.Equal(t, "Outstanding", spec.Series[1].Name)
}

func TestSelector_BlankBarCellChartsAsZero(t *testing.T) {
	s := NewSelector(true)
	tbl := table([]string{"WK", "REPEAT", "NEW"}, []any{1.0, nil, 3.0})

	spec, err := s.Select(tbl, Query{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, yValues(spec.Series[0]))
}

func TestSelector_OverflowInBarColumn(t *testing.T) {
	s := NewSelector(false)
	tbl := table([]string{"WK", "REPEAT", "NEW"}, []any{1.0, cells.ParseValue("1e400"), 3.0})

	assert.NotPanics(t, func() {
		_, err := s.Select(tbl, Query{})
		var ce *cells.CoercionError
		assert.True(t, errors.As(err, &ce))
	})
}

func TestSelector_TextInBarColumn(t *testing.T) {
	s := NewSelector(true)
	tbl := table([]string{"Month", "GSV (PHP)", "Growth vs Baseline"}, []any{"Jan", "lots", 0.1})

	_, err := s.Select(tbl, Query{})
	var ce *cells.CoercionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "GSV (PHP)", ce.Column)
}

func TestSelector_FilterThenChartCommutes(t *testing.T) {
	tables := []*models.NamedTable{
		table([]string{"WK", "USAGE"}, []any{1.0, 10.0}, []any{2.0, 20.0}, []any{1.0, 40.0}, []any{3.0, 5.0}),
		table([]string{"WK.1", "REPEAT", "NEW"}, []any{1.0, 5.0, 3.0}, []any{2.0, 6.0, 4.0}, []any{3.0, 7.0, 1.0}),
		table([]string{"Week", "Total", "Paid", "Outstanding"}, []any{1.0, 100.0, 100.0, "-"}, []any{2.0, 200.0, 150.0, 50.0}, []any{3.0, 10.0, 5.0, 5.0}),
		table([]string{"Month", "GSV (PHP)", "Growth vs Baseline"}, []any{"Jan", 1000.0, 0.1}, []any{"Feb", 1200.0, 0.2}, []any{"Mar", 900.0, 0.0}),
	}
	filters := [][]int{{2, 0}, {1}, {}, {0, 1, 2}, {2, 9, 0}}

	for _, interactive := range []bool{true, false} {
		s := NewSelector(interactive)
		for _, tbl := range tables {
			for _, idx := range filters {
				q := Query{Indices: idx, SelectedColumn: tbl.Columns[1]}

				filtered, err := s.Select(tbl, q)
				require.NoError(t, err)
				pre, err := s.Select(tbl.Subset(idx), Query{SelectedColumn: q.SelectedColumn})
				require.NoError(t, err)

				assert.Equal(t, pre, filtered, "table %v indices %v", tbl.Columns, idx)
			}
		}
	}
}
