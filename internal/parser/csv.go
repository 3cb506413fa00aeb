package parser

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/tindapay/dashboard/internal/cells"
	"github.com/tindapay/dashboard/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads a delimited text export as one flat table named after the file.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Name() string {
	return "csv"
}

func (p *CSVParser) CanParse(fileName string) bool {
	return strings.Contains(strings.ToLower(fileName), "csv")
}

func (p *CSVParser) Parse(fileName string, data []byte) (*models.Extraction, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: fileName, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{File: fileName, Err: ErrEmptyFile}
	}

	table := models.NamedTable{
		Name:    fileName,
		Columns: MangleHeaders(records[0]),
		Rows:    make([]models.Record, 0, len(records)-1),
	}

	for _, rec := range records[1:] {
		row := make(models.Record, len(table.Columns))
		empty := true
		for i, col := range table.Columns {
			var v any
			if i < len(rec) {
				v = cells.ParseValue(rec[i])
			}
			if v != nil {
				empty = false
			}
			row[col] = v
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return &models.Extraction{
		FileName: fileName,
		Tables:   []models.NamedTable{table},
	}, nil
}
