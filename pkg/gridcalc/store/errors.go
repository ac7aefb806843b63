// Package store reads and writes sheet snapshots as JSON documents, CSV
// text and XLSX workbooks.
package store

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat indicates the input is not a valid document of its format.
var ErrInvalidFormat = errors.New("invalid sheet document")

// ErrUnsupportedFormat indicates a file extension with no reader or writer.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrUnsupportedEncoding indicates an unknown CSV text encoding name.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// FormatError records a failure reading or writing one file.
type FormatError struct {
	Path   string
	Format string // "json", "csv", "xlsx"
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s file %q: %v", e.Format, e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
