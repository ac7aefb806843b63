package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// CSVOptions configures CSV reading and writing.
type CSVOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Encoding names the text encoding ("shift_jis", "windows-1252", ...).
	// Empty means UTF-8.
	Encoding string
}

func (o CSVOptions) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// lookupEncoding resolves an encoding name. UTF-8 returns nil so callers
// can skip transcoding.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
	}
	return enc, nil
}

// csvWriter writes minimally quoted rows: only fields containing the
// delimiter, a double quote, CR or LF are quoted.
type csvWriter struct {
	w         io.Writer
	delimiter rune
	rows      int
}

func (cw *csvWriter) writeRow(fields []string) error {
	var buf bytes.Buffer
	if cw.rows > 0 {
		buf.WriteByte('\n')
	}
	for i, f := range fields {
		if i > 0 {
			buf.WriteRune(cw.delimiter)
		}
		buf.WriteString(cw.formatField(f))
	}
	cw.rows++
	_, err := cw.w.Write(buf.Bytes())
	return err
}

func (cw *csvWriter) formatField(f string) string {
	if !strings.ContainsRune(f, cw.delimiter) && !strings.ContainsAny(f, "\"\r\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// WriteCSV writes the effective value of every cell in the sheet's extent.
// Rows are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, s *models.Sheet, opts CSVOptions) error {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return err
	}

	var tw *transform.Writer
	if enc != nil {
		tw = transform.NewWriter(w, enc.NewEncoder())
		w = tw
	}

	cw := &csvWriter{w: w, delimiter: opts.delimiter()}
	rows, cols := s.Extent()
	fields := make([]string, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c, _ := s.Cell(row, col)
			fields[col] = c.Effective()
		}
		if err := cw.writeRow(fields); err != nil {
			return err
		}
	}

	if tw != nil {
		return tw.Close()
	}
	return nil
}

// ToCSV renders the sheet as UTF-8, comma separated text.
func ToCSV(s *models.Sheet) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s, CSVOptions{}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ReadCSV builds a sheet from CSV text. Every non-empty field becomes a
// cell; fields starting with "=" are stored as formulas awaiting
// recalculation. The sheet is at least the default size.
func ReadCSV(r io.Reader, opts CSVOptions) (*models.Sheet, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.FieldsPerRecord = -1

	s := models.NewSheet("", 0, 0)
	for row := 0; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		for col, field := range record {
			if field == "" {
				continue
			}
			id := ref.CoordinateToAddress(row, col)
			s.Cells[models.Coord{Row: row, Col: col}] = models.NewCell(id, row, col, field)
		}
	}

	rows, cols := s.Extent()
	s.RowCount, s.ColCount = rows, cols
	return s, nil
}
