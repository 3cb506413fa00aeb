package models

import "time"

// FileStatus is the outcome of processing one file in a batch.
type FileStatus string

const (
	FileStatusOK      FileStatus = "ok"
	FileStatusSkipped FileStatus = "skipped"
	FileStatusError   FileStatus = "error"
)

// ColumnDef describes a column of the interactive table widget.
type ColumnDef struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	Selectable bool   `json:"selectable"`
}

// DisplayBlock is a table plus its chart, rendered as one panel.
type DisplayBlock struct {
	ID        string      `json:"id"`
	FileIndex int         `json:"fileIndex"`
	FileName  string      `json:"fileName"`
	Title     string      `json:"title"`
	Table     NamedTable  `json:"table"`
	Columns   []ColumnDef `json:"columns"`
	PageSize  int         `json:"pageSize"`
	Chart     *ChartSpec  `json:"chart"`
}

// FileResult reports what happened to one uploaded file.
type FileResult struct {
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	Status     FileStatus `json:"status"`
	Layout     string     `json:"layout,omitempty"`
	TableCount int        `json:"tableCount"`
	Error      string     `json:"error,omitempty"`
}

// BatchResult is everything produced by one upload request.
type BatchResult struct {
	ID               string         `json:"id"`
	CreatedAt        time.Time      `json:"createdAt"`
	Blocks           []DisplayBlock `json:"blocks"`
	Outlets          []OutletRow    `json:"outlets"`
	ShowOutletPanel  bool           `json:"showOutletPanel"`
	OutletFormatting []FormatRule   `json:"outletFormatting"`
	Files            []FileResult   `json:"files"`
}

// Block returns the display block with the given ID.
func (b *BatchResult) Block(id string) (*DisplayBlock, bool) {
	for i := range b.Blocks {
		if b.Blocks[i].ID == id {
			return &b.Blocks[i], true
		}
	}
	return nil, false
}
