// Package parser turns uploaded CSV and workbook files into named tables.
package parser

import (
	"github.com/tindapay/dashboard/internal/models"
)

// Parser defines the interface for upload parsers.
type Parser interface {
	// Name returns the unique name of the parser.
	Name() string
	// CanParse reports whether this parser handles files with the given name.
	CanParse(fileName string) bool
	// Parse extracts the tables held in data.
	Parse(fileName string, data []byte) (*models.Extraction, error)
}
