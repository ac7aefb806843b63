package recalc

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// sheetOf builds a snapshot from address/input pairs. Inputs starting with
// "=" become formulas with an empty display value.
func sheetOf(t *testing.T, inputs map[string]string) *models.Sheet {
	t.Helper()
	s := models.NewSheet("test", 0, 0)
	for addr, input := range inputs {
		c, ok := ref.Coord(addr)
		require.True(t, ok, "bad address %q", addr)
		cell := models.Cell{ID: addr, Row: c.Row, Col: c.Col, Style: models.DefaultStyle()}
		if len(input) > 0 && input[0] == '=' {
			cell.Formula = input
		} else {
			cell.Value = input
		}
		s = s.With(cell)
	}
	return s
}

func display(t *testing.T, s *models.Sheet, addr string) string {
	t.Helper()
	c, ok := ref.Coord(addr)
	require.True(t, ok)
	cell, ok := s.Cell(c.Row, c.Col)
	require.True(t, ok, "no cell at %s", addr)
	return cell.DisplayValue
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModeSnapshot, false},
		{"snapshot", ModeSnapshot, false},
		{"ordered", ModeOrdered, false},
		{"Ordered", "", true},
		{"fast", "", true},
	}

	for _, tt := range tests {
		mode, err := ParseMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		assert.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, mode)
	}
}

func TestRecalculateSnapshot(t *testing.T) {
	s := sheetOf(t, map[string]string{
		"A1": "10",
		"B1": "20",
		"C1": "=A1+B1",
		"D1": "=SUM(A1:B1)/0",
		"E1": "text",
	})

	out, stats := Recalculate(s, ModeSnapshot)
	assert.Equal(t, "30", display(t, out, "C1"))
	assert.Equal(t, "#ERROR", display(t, out, "D1"))
	assert.Equal(t, "", display(t, out, "E1"))
	assert.Equal(t, 2, stats.Formulas)
	assert.Equal(t, 1, stats.Errors)
	assert.Zero(t, stats.Cycles)

	// input untouched
	assert.Equal(t, "", display(t, s, "C1"))
	assert.Equal(t, s.Len(), out.Len())
}

func TestRecalculateSnapshotReadsStaleValues(t *testing.T) {
	s := sheetOf(t, map[string]string{
		"A1": "1",
		"A2": "=A1+1",
		"A3": "=A2+1",
	})

	out, _ := Recalculate(s, ModeSnapshot)
	assert.Equal(t, "2", display(t, out, "A2"))
	// A2 had no display value in the input snapshot, so it reads as 0.
	assert.Equal(t, "1", display(t, out, "A3"))

	out, _ = Recalculate(out, ModeSnapshot)
	assert.Equal(t, "3", display(t, out, "A3"))
}

func TestRecalculateOrderedChain(t *testing.T) {
	inputs := map[string]string{"A1": "1"}
	// declared bottom-up so row-major order alone would be wrong
	for i := 2; i <= 10; i++ {
		inputs[fmt.Sprintf("A%d", i)] = fmt.Sprintf("=A%d+1", i-1)
	}
	inputs["B1"] = "=A10*2"
	s := sheetOf(t, inputs)

	out, stats := Recalculate(s, ModeOrdered)
	assert.Equal(t, "10", display(t, out, "A10"))
	assert.Equal(t, "20", display(t, out, "B1"))
	assert.Equal(t, 10, stats.Formulas)
	assert.Zero(t, stats.Errors)
	assert.Zero(t, stats.Cycles)
	assert.Equal(t, "", display(t, s, "A10"))
}

func TestRecalculateOrderedRanges(t *testing.T) {
	s := sheetOf(t, map[string]string{
		"A1": "=SUM(B1:B3)",
		"B1": "1",
		"B2": "=B1*10",
		"B3": "=B2+B1",
	})

	out, _ := Recalculate(s, ModeOrdered)
	assert.Equal(t, "10", display(t, out, "B2"))
	assert.Equal(t, "11", display(t, out, "B3"))
	assert.Equal(t, "22", display(t, out, "A1"))
}

func TestRecalculateCycleTerminates(t *testing.T) {
	s := sheetOf(t, map[string]string{
		"A1": "=B1+1",
		"B1": "=A1+1",
		"C1": "=A1",
		"D1": "5",
		"E1": "=D1*2",
	})

	for _, mode := range []Mode{ModeSnapshot, ModeOrdered} {
		out, stats := Recalculate(s, mode)
		assert.Equal(t, 4, stats.Formulas, mode)
		assert.Equal(t, "10", display(t, out, "E1"), mode)
		if mode == ModeOrdered {
			assert.Equal(t, 3, stats.Cycles)
		}
	}
}

func TestRecalculateSelfReference(t *testing.T) {
	s := sheetOf(t, map[string]string{"A1": "=A1+1"})
	out, stats := Recalculate(s, ModeOrdered)
	assert.Equal(t, "1", display(t, out, "A1"))
	assert.Equal(t, 1, stats.Cycles)
}

func TestRecalculateOrderedHugeRange(t *testing.T) {
	s := sheetOf(t, map[string]string{
		"A1": "=FOO(A1:ZZZZZZZZZZZZZ4)",
		"B1": "=SUM(A1:ZZZZZZZZZZZZZ4)",
	})

	done := make(chan *models.Sheet, 1)
	go func() {
		out, _ := Recalculate(s, ModeOrdered)
		done <- out
	}()
	select {
	case out := <-done:
		assert.Equal(t, "#ERROR", display(t, out, "A1"))
	case <-time.After(5 * time.Second):
		t.Fatal("ordered recalculation did not finish")
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	s := sheetOf(t, map[string]string{
		"A1": "3",
		"A2": "4",
		"A3": "=SUM(A1:A2)",
		"A4": "=A1*A2",
	})

	once, _ := Recalculate(s, ModeSnapshot)
	twice, _ := Recalculate(once, ModeSnapshot)
	assert.Equal(t, once.Cells, twice.Cells)
}

func TestReferences(t *testing.T) {
	tests := []struct {
		formula  string
		expected []string
	}{
		{"=A1+B2", []string{"A1:A1", "B2:B2"}},
		{"=A1+SUM(B1:B3)", []string{"A1:A1", "B1:B3"}},
		{"=SUM(C3:A1)", []string{"A1:C3"}},
		{"=$A$1*2", []string{"A1:A1"}},
		{"=1+2", nil},
		{"A1", nil},
	}

	for _, tt := range tests {
		var got []string
		for _, r := range References(tt.formula) {
			got = append(got, ref.FormatRange(r))
		}
		assert.Equal(t, tt.expected, got, tt.formula)
	}
}
