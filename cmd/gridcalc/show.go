package main

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

const (
	defaultCellWidth = 12
	ansiRed          = "\x1b[31m"
	ansiBold         = "\x1b[1m"
	ansiReset        = "\x1b[0m"
)

var flatten = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

type gridOptions struct {
	// Color highlights headers and error cells with ANSI escapes.
	Color bool
	// MaxWidth truncates cell text to this many columns.
	MaxWidth int
	// Formulas shows what was typed instead of display values.
	Formulas bool
	// Region limits output to a range. Nil shows the sheet's extent.
	Region *models.Range
}

// terminalWriter wraps w for ANSI output when it is a terminal.
func terminalWriter(w io.Writer) (io.Writer, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return w, false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return w, false
	}
	return colorable.NewColorable(f), true
}

// renderGrid writes a region of the sheet as an aligned table with column
// letters and row numbers. Widths count East Asian wide characters as two
// columns; numbers are right aligned.
func renderGrid(w io.Writer, s *models.Sheet, opts gridOptions) error {
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = defaultCellWidth
	}

	region := opts.Region
	if region == nil {
		rows, cols := s.Extent()
		region = &models.Range{End: models.Coord{Row: rows - 1, Col: cols - 1}}
	}
	r := region.Normalize()
	rows, cols := r.Rows(), r.Cols()

	text := make([][]string, rows)
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = runewidth.StringWidth(ref.ColumnName(r.Start.Col + i))
	}
	for i := 0; i < rows; i++ {
		text[i] = make([]string, cols)
		for j := 0; j < cols; j++ {
			c, _ := s.Cell(r.Start.Row+i, r.Start.Col+j)
			v := c.Effective()
			if opts.Formulas {
				v = c.Input()
			}
			v = flatten.Replace(v)
			v = runewidth.Truncate(v, maxWidth, "…")
			text[i][j] = v
			widths[j] = max(widths[j], runewidth.StringWidth(v))
		}
	}
	labelWidth := len(strconv.Itoa(r.End.Row + 1))

	bw := bufio.NewWriter(w)
	paint := func(s, color string) string {
		if !opts.Color {
			return s
		}
		return color + s + ansiReset
	}
	var line strings.Builder
	flush := func() {
		bw.WriteString(strings.TrimRight(line.String(), " "))
		bw.WriteString("\n")
		line.Reset()
	}

	line.WriteString(strings.Repeat(" ", labelWidth))
	for j, width := range widths {
		line.WriteString("  ")
		line.WriteString(paint(runewidth.FillRight(ref.ColumnName(r.Start.Col+j), width), ansiBold))
	}
	flush()

	for i := 0; i < rows; i++ {
		line.WriteString(paint(runewidth.FillLeft(strconv.Itoa(r.Start.Row+i+1), labelWidth), ansiBold))
		for j, v := range text[i] {
			line.WriteString("  ")
			var cell string
			if _, ok := formula.ParseNumber(v); ok {
				cell = runewidth.FillLeft(v, widths[j])
			} else {
				cell = runewidth.FillRight(v, widths[j])
			}
			if formula.IsError(v) {
				cell = paint(cell, ansiRed)
			}
			line.WriteString(cell)
		}
		flush()
	}
	return bw.Flush()
}
