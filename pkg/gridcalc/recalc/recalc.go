// Package recalc re-evaluates every formula of a sheet snapshot.
package recalc

import (
	"fmt"
	"time"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// Mode selects how formulas read each other during a recalculation.
type Mode string

const (
	// ModeSnapshot evaluates every formula against the input snapshot.
	// A formula reading another formula cell sees its previous display
	// value, so chains may need several passes to settle.
	ModeSnapshot Mode = "snapshot"
	// ModeOrdered evaluates formulas in dependency order so each one reads
	// freshly computed precedents. Cycles are evaluated once, never looped.
	ModeOrdered Mode = "ordered"
)

// ParseMode converts a mode name. The empty string selects ModeSnapshot.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSnapshot:
		return ModeSnapshot, nil
	case ModeOrdered:
		return ModeOrdered, nil
	}
	return "", fmt.Errorf("invalid recalc mode: %s (must be snapshot or ordered)", s)
}

// Stats summarizes one recalculation.
type Stats struct {
	Formulas int
	Errors   int
	Cycles   int // formula cells on or behind a reference cycle
	Elapsed  time.Duration
}

// Recalculate returns a new snapshot with every formula cell's display
// value recomputed. The input is not modified.
func Recalculate(s *models.Sheet, mode Mode) (*models.Sheet, Stats) {
	start := time.Now()
	var (
		out   *models.Sheet
		stats Stats
	)
	switch mode {
	case ModeOrdered:
		out, stats = ordered(s)
	default:
		out, stats = snapshot(s)
	}
	stats.Elapsed = time.Since(start)
	return out, stats
}

func snapshot(s *models.Sheet) (*models.Sheet, Stats) {
	var stats Stats
	out := s.Map(func(c models.Cell) (models.Cell, bool) {
		if c.IsFormula() {
			c.DisplayValue = formula.Evaluate(c.Formula, s)
			stats.count(c)
		}
		return c, true
	})
	return out, stats
}

func ordered(s *models.Sheet) (*models.Sheet, Stats) {
	var stats Stats
	work := s.Clone()
	formulas := work.FormulaCoords()
	sorted, cyclic := buildGraph(work, formulas).order(formulas)

	// work is private to this call; results land in place so later
	// formulas read them.
	eval := func(coord models.Coord) {
		c := work.Cells[coord]
		c.DisplayValue = formula.Evaluate(c.Formula, work)
		work.Cells[coord] = c
		stats.count(c)
	}
	for _, coord := range sorted {
		eval(coord)
	}
	for _, coord := range cyclic {
		eval(coord)
	}
	stats.Cycles = len(cyclic)
	return work, stats
}

func (st *Stats) count(c models.Cell) {
	st.Formulas++
	if formula.IsError(c.DisplayValue) {
		st.Errors++
	}
}
