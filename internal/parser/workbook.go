package parser

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tindapay/dashboard/internal/cells"
	"github.com/tindapay/dashboard/internal/models"
)

// WorkbookParser applies the catalog's fixed cell windows to an xlsx workbook.
type WorkbookParser struct {
	catalog *Catalog
}

func NewWorkbookParser(catalog *Catalog) *WorkbookParser {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &WorkbookParser{catalog: catalog}
}

func (p *WorkbookParser) Name() string {
	return "workbook"
}

func (p *WorkbookParser) CanParse(fileName string) bool {
	return strings.Contains(strings.ToLower(fileName), "xls")
}

func (p *WorkbookParser) Parse(fileName string, data []byte) (*models.Extraction, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{File: fileName, Err: err}
	}
	defer f.Close()

	layout, ok := p.catalog.Match(f.GetSheetList())
	if !ok {
		return nil, &ParseError{File: fileName, Err: ErrNoLayout}
	}
	rules, err := layout.resolve()
	if err != nil {
		return nil, &ParseError{File: fileName, Err: err}
	}

	sheets := newSheetCache(f)
	headers, err := buildHeaders(fileName, sheets, rules)
	if err != nil {
		return nil, err
	}

	result := &models.Extraction{
		FileName: fileName,
		Layout:   layout.Name,
		Tables:   make([]models.NamedTable, 0, len(rules)),
	}

	for _, rule := range rules {
		rows, err := sheets.rows(rule.sheet)
		if err != nil {
			return nil, &ParseError{File: fileName, Sheet: rule.sheet, Table: rule.Table, Err: err}
		}
		table, err := readTable(rule, rows, headers[headerKey{rule.sheet, rule.skip}])
		if err != nil {
			return nil, &ParseError{File: fileName, Sheet: rule.sheet, Table: rule.Table, Err: err}
		}

		if rule.Outlet {
			outlets, err := toOutletRecords(table)
			if err != nil {
				return nil, &ParseError{File: fileName, Sheet: rule.sheet, Table: rule.Table, Err: err}
			}
			result.Outlets = outlets
			continue
		}
		result.Tables = append(result.Tables, table)
	}

	return result, nil
}

// sheetCache reads each sheet once per workbook.
type sheetCache struct {
	f     *excelize.File
	cache map[string][][]string
}

func newSheetCache(f *excelize.File) *sheetCache {
	return &sheetCache{f: f, cache: make(map[string][][]string)}
}

func (s *sheetCache) rows(sheet string) ([][]string, error) {
	if rows, ok := s.cache[sheet]; ok {
		return rows, nil
	}
	rows, err := s.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	s.cache[sheet] = rows
	return rows, nil
}

// headerKey identifies a header row shared by every rule on the same sheet
// with the same skip count.
type headerKey struct {
	sheet string
	skip  int
}

// columnHeader is a column's mangled name and the text in the sheet.
type columnHeader struct {
	name string
	raw  string
}

// buildHeaders names every column covered by the rules. Rules that share a
// header row are mangled together, left to right, which yields the ".1", ".2"
// suffixes of the wide layout.
func buildHeaders(fileName string, sheets *sheetCache, rules []resolvedRule) (map[headerKey]map[int]columnHeader, error) {
	groups := make(map[headerKey][]int)
	var order []headerKey
	for _, r := range rules {
		k := headerKey{r.sheet, r.skip}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		for c := r.cols.Start; c <= r.cols.End; c++ {
			groups[k] = append(groups[k], c)
		}
	}

	out := make(map[headerKey]map[int]columnHeader, len(groups))
	for _, k := range order {
		rows, err := sheets.rows(k.sheet)
		if err != nil {
			return nil, &ParseError{File: fileName, Sheet: k.sheet, Err: err}
		}
		if len(rows) <= k.skip {
			return nil, &ParseError{File: fileName, Sheet: k.sheet, Err: fmt.Errorf("header row %d not found", k.skip+1)}
		}
		header := rows[k.skip]

		cols := sortedUnique(groups[k])
		raw := make([]string, len(cols))
		for i, c := range cols {
			raw[i] = cellAt(header, c)
		}
		names := mangleWithPositions(raw, cols, rules, k)

		named := make(map[int]columnHeader, len(cols))
		for i, c := range cols {
			named[c] = columnHeader{name: names[i], raw: strings.TrimSpace(raw[i])}
		}
		out[k] = named
	}
	return out, nil
}

// mangleWithPositions names blank headers by their position inside their own
// rule, then makes the whole header row unique.
func mangleWithPositions(raw []string, cols []int, rules []resolvedRule, k headerKey) []string {
	filled := make([]string, len(raw))
	for i, c := range cols {
		filled[i] = strings.TrimSpace(raw[i])
		if filled[i] != "" {
			continue
		}
		for _, r := range rules {
			if r.sheet == k.sheet && r.skip == k.skip && c >= r.cols.Start && c <= r.cols.End {
				filled[i] = fmt.Sprintf("Unnamed: %d", c-r.cols.Start)
				break
			}
		}
	}
	return MangleHeaders(filled)
}

func readTable(rule resolvedRule, rows [][]string, header map[int]columnHeader) (models.NamedTable, error) {
	table := models.NamedTable{
		Name:    rule.Table,
		Columns: make([]string, 0, rule.cols.width()),
	}
	numeric := make(map[string]bool, len(rule.Numeric))
	for _, n := range rule.Numeric {
		numeric[n] = true
	}
	for c := rule.cols.Start; c <= rule.cols.End; c++ {
		table.Columns = append(table.Columns, header[c].name)
	}

	data := rows[rule.skip+1:]
	if rule.Rows > 0 && len(data) > rule.Rows {
		data = data[:rule.Rows]
	}

	for _, line := range data {
		row := make(models.Record, len(table.Columns))
		empty := true
		for c := rule.cols.Start; c <= rule.cols.End; c++ {
			v := cells.ParseValue(cellAt(line, c))
			if v != nil {
				empty = false
			}
			row[header[c].name] = v
		}
		if empty {
			continue
		}
		for c := rule.cols.Start; c <= rule.cols.End; c++ {
			h := header[c]
			if !numeric[h.raw] {
				continue
			}
			v := row[h.name]
			if v == nil || cells.IsNumeric(v) || cells.IsPlaceholder(v) {
				continue
			}
			return table, &cells.CoercionError{Column: h.name, Row: len(table.Rows), Value: v}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// toOutletRecords drops rows with any missing value and types the rest.
func toOutletRecords(table models.NamedTable) ([]models.OutletRecord, error) {
	if len(table.Columns) < 4 {
		return nil, fmt.Errorf("outlet table needs 4 columns, got %d", len(table.Columns))
	}
	codeCol, nameCol, amountCol, ageingCol := table.Columns[0], table.Columns[1], table.Columns[2], table.Columns[3]

	out := make([]models.OutletRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		if hasMissing(row, table.Columns) {
			continue
		}
		amount, err := cells.ToFloat(row[amountCol])
		if err != nil {
			return nil, &cells.CoercionError{Column: amountCol, Row: i, Value: row[amountCol]}
		}
		ageing, err := cells.ToFloat(row[ageingCol])
		if err != nil {
			return nil, &cells.CoercionError{Column: ageingCol, Row: i, Value: row[ageingCol]}
		}
		days := int(math.Round(ageing))
		out = append(out, models.OutletRecord{
			OutletCode:    cells.String(row[codeCol]),
			OutletName:    cells.String(row[nameCol]),
			AmountPending: amount,
			Ageing:        days,
			Status:        models.ClassifyAgeing(days),
		})
	}
	return out, nil
}

func hasMissing(row models.Record, cols []string) bool {
	for _, c := range cols {
		if row[c] == nil {
			return true
		}
	}
	return false
}

// cellAt returns the text of 1-based column c, or "" past the row's end.
func cellAt(row []string, c int) string {
	if c-1 < len(row) {
		return row[c-1]
	}
	return ""
}

func sortedUnique(cols []int) []int {
	seen := make(map[int]bool, len(cols))
	out := make([]int, 0, len(cols))
	for _, c := range cols {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}
