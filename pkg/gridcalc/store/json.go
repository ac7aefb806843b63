package store

import (
	"encoding/json"
	"fmt"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/ref"
)

// ToJSON serializes a sheet document.
func ToJSON(s *models.Sheet, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(s, "", "  ")
	}
	return json.Marshal(s)
}

// FromJSON parses a sheet document. Fields missing from the document take
// the defaults of a new sheet, and cells without a style get the default
// style.
func FromJSON(data []byte) (*models.Sheet, error) {
	s := models.NewSheet("", 0, 0)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	for coord, c := range s.Cells {
		if coord.Row < 0 || coord.Col < 0 {
			return nil, fmt.Errorf("%w: cell at negative coordinate (%d, %d)", ErrInvalidFormat, coord.Row, coord.Col)
		}
		if c.ID == "" {
			c.ID = ref.Address(coord)
			s.Cells[coord] = c
		}
	}
	if s.SelectedCell == nil {
		s.SelectedCell = &models.Coord{}
	}
	return s, nil
}
