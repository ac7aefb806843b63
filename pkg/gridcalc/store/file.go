package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// FileOptions configures ReadFile and WriteFile.
type FileOptions struct {
	// Pretty indents JSON output.
	Pretty bool
	// CSV configures CSV files.
	CSV CSVOptions
	// SheetName selects the worksheet of an XLSX input. Empty means the
	// first worksheet.
	SheetName string
}

// Format returns the document format for a path, from its extension.
func Format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// ReadFile loads a sheet from a .json, .csv or .xlsx file. CSV and XLSX
// inputs are named after the file.
func ReadFile(path string, opts FileOptions) (*models.Sheet, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	var s *models.Sheet
	switch format {
	case "json":
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			s, err = FromJSON(data)
		}
	case "csv":
		var f *os.File
		if f, err = os.Open(path); err == nil {
			s, err = ReadCSV(f, opts.CSV)
			f.Close()
		}
		if err == nil {
			s.Name = baseName(path)
		}
	case "xlsx":
		s, err = OpenXLSX(path, opts.SheetName)
	}
	if err != nil {
		return nil, &FormatError{Path: path, Format: format, Err: err}
	}
	return s, nil
}

// WriteFile saves a sheet in the format given by the path's extension.
func WriteFile(path string, s *models.Sheet, opts FileOptions) error {
	format, err := Format(path)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		var data []byte
		if data, err = ToJSON(s, opts.Pretty); err == nil {
			err = os.WriteFile(path, data, 0644)
		}
	case "csv":
		err = writeCSVFile(path, s, opts.CSV)
	case "xlsx":
		err = SaveXLSX(path, s)
	}
	if err != nil {
		return &FormatError{Path: path, Format: format, Err: err}
	}
	return nil
}

func writeCSVFile(path string, s *models.Sheet, opts CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, s, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
