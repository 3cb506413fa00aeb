package models

import "time"

// UploadedFile is a single file from an upload batch.
type UploadedFile struct {
	Name         string
	Data         []byte
	LastModified time.Time
}

// Extraction is the result of extracting one uploaded file.
type Extraction struct {
	FileName string         `json:"fileName"`
	Layout   string         `json:"layout,omitempty"`
	Tables   []NamedTable   `json:"tables"`
	Outlets  []OutletRecord `json:"outlets,omitempty"`
}
