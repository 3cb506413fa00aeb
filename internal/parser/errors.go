package parser

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat means no parser recognises the file name.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge means the upload exceeds the configured size cap.
var ErrFileTooLarge = errors.New("file too large")

// ErrNoLayout means a workbook matches none of the catalog layouts.
var ErrNoLayout = errors.New("workbook matches no known layout")

// ErrEmptyFile means there was no header row to read.
var ErrEmptyFile = errors.New("empty file")

// ParseError wraps any failure while reading a file.
type ParseError struct {
	File  string
	Sheet string
	Table string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Table != "":
		return fmt.Sprintf("parse %s: sheet %q table %q: %v", e.File, e.Sheet, e.Table, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("parse %s: sheet %q: %v", e.File, e.Sheet, e.Err)
	default:
		return fmt.Sprintf("parse %s: %v", e.File, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
