// Package testutil builds workbook and CSV fixtures for tests.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Block is a rectangle of values written to a sheet. Rows[0] is the header
// row and is written at Cell.
type Block struct {
	Sheet string
	Cell  string
	Rows  [][]any
}

// BuildWorkbook creates an xlsx file with the given sheets and blocks.
func BuildWorkbook(t testing.TB, sheets []string, blocks []Block) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	keepDefault := false
	for _, name := range sheets {
		if name == "Sheet1" {
			keepDefault = true
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("creating sheet %q: %v", name, err)
		}
	}
	if !keepDefault && len(sheets) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("deleting default sheet: %v", err)
		}
	}

	for _, b := range blocks {
		col, row, err := excelize.CellNameToCoordinates(b.Cell)
		if err != nil {
			t.Fatalf("bad cell %q: %v", b.Cell, err)
		}
		for i, values := range b.Rows {
			cell, err := excelize.CoordinatesToCellName(col, row+i)
			if err != nil {
				t.Fatalf("bad coordinates: %v", err)
			}
			line := values
			if err := f.SetSheetRow(b.Sheet, cell, &line); err != nil {
				t.Fatalf("writing %s!%s: %v", b.Sheet, cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

// MultiSheetSheets are the sheet names of the multi-sheet layout.
var MultiSheetSheets = []string{"1. USAGE", "2. REPEAT", "3. REPAYMENT", "4. IMPACT TO GSV"}

// MultiSheetBlocks returns a complete multi-sheet dashboard export. The
// outlet block has one row without an outlet name.
func MultiSheetBlocks() []Block {
	return []Block{
		{Sheet: "1. USAGE", Cell: "B4", Rows: [][]any{
			{"WK", "USAGE"},
			{1, 10}, {1, 30}, {2, 20}, {3, 40},
		}},
		{Sheet: "2. REPEAT", Cell: "B4", Rows: [][]any{
			{"WK", "REPEAT", "NEW"},
			{1, 5, 3}, {2, 6, 4},
		}},
		{Sheet: "3. REPAYMENT", Cell: "B4", Rows: [][]any{
			{"Week", "Total", "Paid", "Outstanding"},
			{1, 100, 100, "-"}, {2, 200, 150, 50},
		}},
		{Sheet: "3. REPAYMENT", Cell: "B21", Rows: [][]any{
			{"Week", "Total", "Paid", "Outstanding"},
			{3, 300, 200, 100},
		}},
		{Sheet: "3. REPAYMENT", Cell: "B41", Rows: OutletRows()},
		{Sheet: "4. IMPACT TO GSV", Cell: "B4", Rows: [][]any{
			{"Month", "GSV (PHP)", "Growth vs Baseline"},
			{"Jan", 1000, 0.1}, {"Feb", 1200, 0.2},
		}},
		{Sheet: "4. IMPACT TO GSV", Cell: "B12", Rows: [][]any{
			{"Month", "No. of Invoices", "Growth vs Baseline"},
			{"Jan", 10, 0.05},
		}},
		{Sheet: "4. IMPACT TO GSV", Cell: "B20", Rows: [][]any{
			{"Month", "Grew vs. Baseline", "Did not grow vs. Baseline"},
			{"Jan", 12, 8},
		}},
	}
}

// WideSheets is the single sheet of the wide layout.
var WideSheets = []string{"DASHBOARD"}

// WideBlocks returns the same dashboard laid out side by side on one sheet.
func WideBlocks() []Block {
	return []Block{
		{Sheet: "DASHBOARD", Cell: "B4", Rows: [][]any{
			{"WK", "USAGE"},
			{1, 10}, {2, 20},
		}},
		{Sheet: "DASHBOARD", Cell: "E4", Rows: [][]any{
			{"WK", "REPEAT", "NEW"},
			{1, 5, 3}, {2, 6, 4}, {3, 7, 1},
		}},
		{Sheet: "DASHBOARD", Cell: "I4", Rows: [][]any{
			{"WK", "Total", "Paid", "Outstanding"},
			{1, 100, 100, "-"}, {2, 200, 150, 50},
		}},
		{Sheet: "DASHBOARD", Cell: "N4", Rows: [][]any{
			{"WK", "Total", "Paid", "Outstanding"},
			{3, 300, 200, 100},
		}},
		{Sheet: "DASHBOARD", Cell: "S4", Rows: OutletRows()},
		{Sheet: "DASHBOARD", Cell: "X4", Rows: [][]any{
			{"Month", "GSV (PHP)", "Growth vs Baseline"},
			{"Jan", 1000, 0.1}, {"Feb", 1200, 0.2},
		}},
		{Sheet: "DASHBOARD", Cell: "AB4", Rows: [][]any{
			{"Month", "No. of Invoices", "Growth vs Baseline"},
			{"Jan", 10, 0.05},
		}},
		{Sheet: "DASHBOARD", Cell: "AF4", Rows: [][]any{
			{"Month", "Grew vs. Baseline", "Did not grow vs. Baseline"},
			{"Jan", 12, 8},
		}},
	}
}

// OutletRows is an outlet block whose second row is missing its name.
func OutletRows() [][]any {
	return [][]any{
		{"Outlet Code", "Outlet Name", "Amount Pending", "Ageing"},
		{"OUT-001", "Aling Nena Store", 1500.5, 3},
		{"OUT-002", "", 800, 7},
		{"OUT-003", "Mang Juan Sari-Sari", 2500, 9},
	}
}

// MultiSheetWorkbook builds the default multi-sheet fixture.
func MultiSheetWorkbook(t testing.TB) []byte {
	return BuildWorkbook(t, MultiSheetSheets, MultiSheetBlocks())
}

// WideWorkbook builds the default wide fixture.
func WideWorkbook(t testing.TB) []byte {
	return BuildWorkbook(t, WideSheets, WideBlocks())
}
