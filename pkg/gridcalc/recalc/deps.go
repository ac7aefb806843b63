package recalc

import (
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
	"github.com/xuri/efp"
)

// References returns the cells and ranges a formula reads, in formula
// order. Single cells come back as one-cell ranges. References the
// evaluator cannot resolve (sheet-qualified, whole-column, malformed) are
// skipped.
func References(formula string) []models.Range {
	if !strings.HasPrefix(formula, "=") {
		return nil
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(formula[1:])

	var refs []models.Range
	for _, token := range tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		value := strings.ReplaceAll(token.TValue, "$", "")
		if strings.Contains(value, "!") {
			continue
		}
		if strings.Contains(value, ":") {
			r, err := ref.ParseRange(value)
			if err != nil {
				continue
			}
			refs = append(refs, r)
			continue
		}
		c, ok := ref.Coord(value)
		if !ok {
			continue
		}
		refs = append(refs, models.Range{Start: c, End: c})
	}
	return refs
}

// graph holds formula-to-formula edges of one snapshot.
type graph struct {
	precedents map[models.Coord][]models.Coord // formula -> formulas it reads
	dependents map[models.Coord][]models.Coord // formula -> formulas reading it
}

// buildGraph links each formula cell to the formula cells inside the
// ranges it references. Plain value cells never need ordering, so they
// are not part of the graph.
func buildGraph(s *models.Sheet, formulas []models.Coord) *graph {
	g := &graph{
		precedents: make(map[models.Coord][]models.Coord, len(formulas)),
		dependents: make(map[models.Coord][]models.Coord, len(formulas)),
	}

	isFormula := make(map[models.Coord]bool, len(formulas))
	for _, f := range formulas {
		isFormula[f] = true
	}

	for _, f := range formulas {
		seen := make(map[models.Coord]struct{})
		link := func(other models.Coord) {
			if _, dup := seen[other]; dup || !isFormula[other] {
				return
			}
			seen[other] = struct{}{}
			g.precedents[f] = append(g.precedents[f], other)
			g.dependents[other] = append(g.dependents[other], f)
		}
		for _, r := range References(s.Cells[f].Formula) {
			// probe whichever side is smaller
			if r.Cells() <= len(formulas) {
				r.Each(link)
				continue
			}
			for _, other := range formulas {
				if r.Contains(other) {
					link(other)
				}
			}
		}
	}
	return g
}

// order returns formulas in dependency order (Kahn's algorithm, seeded in
// row-major order) followed by the cells that sit on or behind a cycle.
func (g *graph) order(formulas []models.Coord) (sorted, cyclic []models.Coord) {
	indegree := make(map[models.Coord]int, len(formulas))
	for _, f := range formulas {
		indegree[f] = len(g.precedents[f])
	}

	var queue []models.Coord
	for _, f := range formulas {
		if indegree[f] == 0 {
			queue = append(queue, f)
		}
	}

	done := make(map[models.Coord]bool, len(formulas))
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		sorted = append(sorted, f)
		done[f] = true
		for _, d := range g.dependents[f] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	for _, f := range formulas {
		if !done[f] {
			cyclic = append(cyclic, f)
		}
	}
	return sorted, cyclic
}
