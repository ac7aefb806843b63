package store

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/xuri/excelize/v2"
)

const (
	// maxSheetNameLength is the worksheet name limit in UTF-16 units.
	maxSheetNameLength = 31
	// maxFormulaScan caps the cells probed for formulas beyond GetRows.
	maxFormulaScan = 1 << 20
)

// SaveXLSX writes the sheet as the only worksheet of a new workbook.
func SaveXLSX(path string, s *models.Sheet) error {
	f, err := toWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// OpenXLSX reads one worksheet of a workbook. An empty sheetName selects
// the first worksheet.
func OpenXLSX(path, sheetName string) (*models.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fromWorkbook(f, sheetName)
}

// toWorkbook builds a workbook holding the sheet. Numeric values are
// written as numbers, formulas as cell formulas with the display value
// cached.
func toWorkbook(s *models.Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	name := worksheetName(s.Name)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		f.Close()
		return nil, err
	}

	var last models.Coord
	for _, coord := range s.Coords() {
		c := s.Cells[coord]
		cell, err := excelize.CoordinatesToCellName(coord.Col+1, coord.Row+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := writeCell(f, name, cell, c); err != nil {
			f.Close()
			return nil, fmt.Errorf("cell %s: %w", cell, err)
		}
		last.Row, last.Col = max(last.Row, coord.Row), max(last.Col, coord.Col)
	}

	// excelize leaves the dimension at A1; readers rely on it to find
	// formula cells that have no cached value.
	if err := f.SetSheetDimension(name, "A1:"+ref.Address(last)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// writeCell stores numbers as numeric cells only when the text reads back
// unchanged; "007" or "1e3" stay text.
func writeCell(f *excelize.File, sheet, cell string, c models.Cell) error {
	v := c.Effective()
	if n, ok := canonicalNumber(v); ok {
		if err := f.SetCellValue(sheet, cell, n); err != nil {
			return err
		}
	} else if v != "" {
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return err
		}
	}
	if c.IsFormula() {
		return f.SetCellFormula(sheet, cell, strings.TrimPrefix(c.Formula, "="))
	}
	return nil
}

// canonicalNumber parses v when it is exactly the plain decimal excelize
// writes for its value.
func canonicalNumber(v string) (float64, bool) {
	n, ok := formula.ParseNumber(v)
	if !ok || strconv.FormatFloat(n, 'f', -1, 64) != v {
		return 0, false
	}
	return n, true
}

// fromWorkbook converts a worksheet into a sheet. Cached values become
// display values, formulas are restored with a leading "=".
func fromWorkbook(f *excelize.File, sheetName string) (*models.Sheet, error) {
	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: workbook has no worksheets", ErrInvalidFormat)
		}
		sheetName = list[0]
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	s := models.NewSheet(sheetName, 0, 0)
	maxCols := 0
	for rowIdx, row := range rows {
		maxCols = max(maxCols, len(row))
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			id := ref.CoordinateToAddress(rowIdx, colIdx)
			s.Cells[models.Coord{Row: rowIdx, Col: colIdx}] = models.NewCell(id, rowIdx, colIdx, value)
		}
	}

	// Formula cells without a cached value are trimmed from GetRows, so
	// the declared dimension is scanned as well.
	lastRow, lastCol := len(rows), maxCols
	if r, c, ok := dimensionEnd(f, sheetName); ok && r*c <= maxFormulaScan {
		lastRow, lastCol = max(lastRow, r), max(lastCol, c)
	}
	for row := 0; row < lastRow; row++ {
		for col := 0; col < lastCol; col++ {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return nil, err
			}
			text, err := f.GetCellFormula(sheetName, cell)
			if err != nil {
				return nil, err
			}
			if text == "" {
				continue
			}
			coord := models.Coord{Row: row, Col: col}
			c, ok := s.Cells[coord]
			if !ok {
				c = models.NewCell(cell, row, col, "")
			}
			c.Formula = "=" + text
			c.Value = ""
			s.Cells[coord] = c
		}
	}

	rowCount, colCount := s.Extent()
	s.RowCount, s.ColCount = rowCount, colCount
	return s, nil
}

// dimensionEnd returns the 1-based bottom-right corner of the worksheet's
// declared dimension.
func dimensionEnd(f *excelize.File, sheetName string) (row, col int, ok bool) {
	dim, err := f.GetSheetDimension(sheetName)
	if err != nil || dim == "" {
		return 0, 0, false
	}
	_, end, found := strings.Cut(dim, ":")
	if !found {
		end = dim
	}
	col, row, err = excelize.CellNameToCoordinates(end)
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

// worksheetName makes a sheet name acceptable as a worksheet name.
func worksheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")

	var b strings.Builder
	units := 0
	for _, r := range name {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > maxSheetNameLength {
			break
		}
		units += n
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Sheet1"
	}
	return b.String()
}
