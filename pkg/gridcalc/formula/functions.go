package formula

import (
	"math"
	"sort"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Aggregate computes a function over a rectangular range.
type Aggregate func(cells CellReader, r models.Range) float64

var functions = map[string]Aggregate{
	"SUM":     sum,
	"AVERAGE": average,
	"MAX":     maxOf,
	"MIN":     minOf,
	"COUNT":   count,
}

// Functions returns the names of the supported functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupFunction(name string) (Aggregate, bool) {
	fn, ok := functions[name]
	return fn, ok
}

// effective returns the effective text of the cell at c; missing cells
// are "".
func effective(cells CellReader, c models.Coord) string {
	if cells == nil {
		return ""
	}
	cell, ok := cells.Cell(c.Row, c.Col)
	if !ok {
		return ""
	}
	return cell.Effective()
}

// numericValue is the value a cell contributes to arithmetic: its
// effective value when numeric, else 0.
func numericValue(cells CellReader, c models.Coord) float64 {
	v, ok := ParseNumber(effective(cells, c))
	if !ok {
		return 0
	}
	return v
}

// cellLister is implemented by readers that can enumerate their
// populated cells, such as *models.Sheet.
type cellLister interface {
	Coords() []models.Coord
}

// eachCell calls fn for the coordinates of r in row-major order. When the
// reader holds fewer cells than r spans, only populated cells are visited.
func eachCell(cells CellReader, r models.Range, fn func(models.Coord)) {
	if l, ok := cells.(cellLister); ok {
		coords := l.Coords()
		if r.Cells() > len(coords) {
			for _, c := range coords {
				if r.Contains(c) {
					fn(c)
				}
			}
			return
		}
	}
	r.Each(fn)
}

// numbers collects the numeric effective values in r. Blank and
// non-numeric cells are skipped.
func numbers(cells CellReader, r models.Range) []float64 {
	var out []float64
	eachCell(cells, r, func(c models.Coord) {
		if v, ok := ParseNumber(effective(cells, c)); ok {
			out = append(out, v)
		}
	})
	return out
}

func sum(cells CellReader, r models.Range) float64 {
	total := 0.0
	for _, v := range numbers(cells, r) {
		total += v
	}
	return total
}

func average(cells CellReader, r models.Range) float64 {
	values := numbers(cells, r)
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func maxOf(cells CellReader, r models.Range) float64 {
	values := numbers(cells, r)
	if len(values) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

func minOf(cells CellReader, r models.Range) float64 {
	values := numbers(cells, r)
	if len(values) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}

// count counts cells whose effective text is non-blank, numeric or not.
func count(cells CellReader, r models.Range) float64 {
	n := 0
	eachCell(cells, r, func(c models.Coord) {
		if strings.TrimSpace(effective(cells, c)) != "" {
			n++
		}
	})
	return float64(n)
}
