// Package models defines data structures for spreadsheet snapshots.
package models

import "strings"

// Style represents the presentation attributes of a cell.
// The calculation core never reads it; it is carried through persistence.
type Style struct {
	// BackgroundColor is the fill color (e.g., "#ffffff").
	BackgroundColor string `json:"backgroundColor"`
	// Color is the text color.
	Color string `json:"color"`
	// FontWeight is "normal" or "bold".
	FontWeight string `json:"fontWeight"`
	// FontStyle is "normal" or "italic".
	FontStyle string `json:"fontStyle"`
	// TextDecoration is "none" or "underline".
	TextDecoration string `json:"textDecoration"`
}

// DefaultStyle returns the style assigned to newly created cells.
func DefaultStyle() Style {
	return Style{
		BackgroundColor: "#ffffff",
		Color:           "#000000",
		FontWeight:      "normal",
		FontStyle:       "normal",
		TextDecoration:  "none",
	}
}

// Cell represents a single populated coordinate of a sheet.
type Cell struct {
	// ID is the cell address (e.g., "B12").
	ID string `json:"id"`
	// Row is the row index (0-based).
	Row int `json:"row"`
	// Col is the column index (0-based).
	Col int `json:"col"`
	// Value is the raw entered text; empty when Formula is set.
	Value string `json:"value"`
	// Formula is the entered formula including the leading "=".
	Formula string `json:"formula"`
	// DisplayValue is the cached, human-shown result.
	DisplayValue string `json:"displayValue"`
	// Style is the presentation style.
	Style Style `json:"style"`
}

// IsFormula reports whether the formula is the authoritative input.
func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

// Input returns what the user typed: the formula if present, else the value.
func (c Cell) Input() string {
	if c.IsFormula() {
		return c.Formula
	}
	return c.Value
}

// Effective returns the value used for computation: the display value if
// present, else the raw value. Empty cells return "".
func (c Cell) Effective() string {
	if c.DisplayValue != "" {
		return c.DisplayValue
	}
	return c.Value
}

// IsBlank reports whether the effective value is empty after trimming.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Effective()) == ""
}

// NewCell creates a cell from user input with the default style. Input
// starting with "=" is stored as a formula with no display value yet;
// anything else is a plain value that displays as entered.
func NewCell(id string, row, col int, input string) Cell {
	c := Cell{ID: id, Row: row, Col: col, Style: DefaultStyle()}
	if strings.HasPrefix(input, "=") {
		c.Formula = input
		return c
	}
	c.Value = input
	c.DisplayValue = input
	return c
}
