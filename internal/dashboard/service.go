// Package dashboard turns an upload batch into display blocks, charts and
// the outlet summary.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tindapay/dashboard/internal/chart"
	"github.com/tindapay/dashboard/internal/models"
	"github.com/tindapay/dashboard/internal/parser"
)

// ErrorPolicy decides what a failing file does to the rest of its batch.
type ErrorPolicy string

const (
	// PolicyIsolate records the failure on the file and keeps going.
	PolicyIsolate ErrorPolicy = "isolate"
	// PolicyAbort discards the whole batch on the first failure.
	PolicyAbort ErrorPolicy = "abort"
)

// DefaultPageSize is the table widget page size.
const DefaultPageSize = 5

// GenericFileError is the only failure text shown to users.
const GenericFileError = "There was an error processing this file."

// ErrBatchFailed is returned under PolicyAbort when any file fails.
var ErrBatchFailed = errors.New(GenericFileError)

// ParsePolicy accepts "isolate" or "abort". Empty means isolate.
func ParsePolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyIsolate:
		return PolicyIsolate, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("unknown batch error policy %q", s)
}

// Extractor turns one file into named tables.
type Extractor interface {
	Extract(fileName string, data []byte) (*models.Extraction, error)
}

// Service processes upload batches.
type Service struct {
	extractor Extractor
	selector  *chart.Selector
	policy    ErrorPolicy
	maxFiles  int
	log       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the batch error policy.
func WithPolicy(p ErrorPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithMaxFiles caps the number of files per batch. Zero means no cap.
func WithMaxFiles(n int) Option {
	return func(s *Service) { s.maxFiles = n }
}

// WithLogger sets the logger used for per-file failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(extractor Extractor, selector *chart.Selector, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		selector:  selector,
		policy:    PolicyIsolate,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured error policy.
func (s *Service) Policy() ErrorPolicy {
	return s.policy
}

// Selector returns the chart selector.
func (s *Service) Selector() *chart.Selector {
	return s.selector
}

// TooManyFilesError is returned when a batch exceeds the file cap.
type TooManyFilesError struct {
	Count int
	Max   int
}

func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("batch has %d files, the limit is %d", e.Count, e.Max)
}

// Process extracts every file in order and builds the batch result.
func (s *Service) Process(ctx context.Context, files []models.UploadedFile) (*models.BatchResult, error) {
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, &TooManyFilesError{Count: len(files), Max: s.maxFiles}
	}

	result := &models.BatchResult{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now(),
		Blocks:           []models.DisplayBlock{},
		Outlets:          []models.OutletRow{},
		OutletFormatting: models.AgeingFormatRules(),
		Files:            make([]models.FileResult, 0, len(files)),
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr := models.FileResult{Index: i, Name: f.Name}
		ext, err := s.extractor.Extract(f.Name, f.Data)
		if err == nil {
			var blocks []models.DisplayBlock
			blocks, err = s.buildBlocks(i, f.Name, ext.Tables)
			if err == nil {
				result.Blocks = append(result.Blocks, blocks...)
				for _, o := range ext.Outlets {
					result.Outlets = append(result.Outlets, models.OutletRow{OutletRecord: o, FileIndex: i, FileName: f.Name})
				}
				fr.Status = models.FileStatusOK
				fr.Layout = ext.Layout
				fr.TableCount = len(blocks)
				s.log.Debug().Str("file", f.Name).Int("index", i).Int("tables", len(blocks)).Int("outlets", len(ext.Outlets)).Msg("file extracted")
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, parser.ErrUnsupportedFormat):
			fr.Status = models.FileStatusSkipped
			s.log.Info().Str("file", f.Name).Int("index", i).Msg("unsupported file skipped")
		default:
			s.log.Error().Err(err).Str("file", f.Name).Int("index", i).Msg("error processing file")
			if s.policy == PolicyAbort {
				return nil, fmt.Errorf("%w (%s)", ErrBatchFailed, f.Name)
			}
			fr.Status = models.FileStatusError
			fr.Error = GenericFileError
		}
		result.Files = append(result.Files, fr)
	}

	result.ShowOutletPanel = len(result.Outlets) > 0
	return result, nil
}

func (s *Service) buildBlocks(fileIndex int, fileName string, tables []models.NamedTable) ([]models.DisplayBlock, error) {
	blocks := make([]models.DisplayBlock, 0, len(tables))
	for _, t := range tables {
		table := t
		spec, err := s.selector.Select(&table, chart.Query{})
		if err != nil {
			return nil, fmt.Errorf("chart for %q: %w", table.Name, err)
		}
		blocks = append(blocks, models.DisplayBlock{
			ID:        BlockID(fileIndex, table.Name),
			FileIndex: fileIndex,
			FileName:  fileName,
			Title:     BlockTitle(fileName, table.Name),
			Table:     table,
			Columns:   columnDefs(table.Columns),
			PageSize:  DefaultPageSize,
			Chart:     spec,
		})
	}
	return blocks, nil
}

// BlockTitle is the heading shown above a table, "<file> - <table>".
func BlockTitle(fileName, tableName string) string {
	return fmt.Sprintf("%s - %s", fileName, tableName)
}

// Chart recomputes a block's chart for the table widget's current state.
func (s *Service) Chart(block *models.DisplayBlock, q chart.Query) (*models.ChartSpec, error) {
	if block == nil {
		return nil, nil
	}
	return s.selector.Select(&block.Table, q)
}

// BlockID identifies a table within a batch by file index and table name.
func BlockID(fileIndex int, tableName string) string {
	return fmt.Sprintf("%d-%s", fileIndex, slug(tableName))
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func columnDefs(columns []string) []models.ColumnDef {
	defs := make([]models.ColumnDef, len(columns))
	for i, c := range columns {
		defs[i] = models.ColumnDef{Name: c, ID: c, Selectable: true}
	}
	return defs
}
