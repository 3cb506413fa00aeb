package parser

import (
	"fmt"

	"github.com/tindapay/dashboard/internal/models"
)

// DefaultMaxFileSize caps a single upload at 20 MB.
const DefaultMaxFileSize int64 = 20 << 20

// Registry holds all available parsers and picks one by file name.
type Registry struct {
	parsers     []Parser
	maxFileSize int64
}

// NewRegistry returns a registry with the CSV parser ahead of the workbook
// parser, so a name containing both "csv" and "xls" is read as CSV.
func NewRegistry(catalog *Catalog, maxFileSize int64) *Registry {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	r := &Registry{maxFileSize: maxFileSize}
	r.Register(NewCSVParser())
	r.Register(NewWorkbookParser(catalog))
	return r
}

// Register adds a new parser to the registry.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// FindParser detects the correct parser for a file name.
func (r *Registry) FindParser(fileName string) (Parser, error) {
	for _, p := range r.parsers {
		if p.CanParse(fileName) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
}

// Extract parses one uploaded file into named tables.
func (r *Registry) Extract(fileName string, data []byte) (*models.Extraction, error) {
	p, err := r.FindParser(fileName)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, &ParseError{File: fileName, Err: fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), r.maxFileSize)}
	}
	return p.Parse(fileName, data)
}
