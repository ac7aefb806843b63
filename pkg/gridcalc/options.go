// Package gridcalc provides an editing session over spreadsheet snapshots:
// cell edits with automatic recalculation, clipboard, structural edits and
// undo/redo.
package gridcalc

import (
	"io"
	"log"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/recalc"
)

// DefaultHistoryLimit is the number of snapshots kept for undo.
const DefaultHistoryLimit = 100

// Options configures an Editor.
type Options struct {
	// Mode selects the recalculation strategy (snapshot, ordered).
	Mode recalc.Mode
	// HistoryLimit caps the undo timeline. Zero or less keeps everything.
	HistoryLimit int
	// RecalcOnPaste specifies whether a paste recalculates the sheet.
	// If nil, defaults to true.
	RecalcOnPaste *bool
	// RecalcOnLoad specifies whether Load recalculates the loaded sheet.
	// If nil, defaults to true for ordered mode, false otherwise.
	RecalcOnLoad *bool
	// Logger receives recalculation traces. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns default editor options.
func DefaultOptions() Options {
	return Options{
		Mode:         recalc.ModeSnapshot,
		HistoryLimit: DefaultHistoryLimit,
	}
}

// ShouldRecalcOnPaste returns whether a paste recalculates the sheet.
func (o Options) ShouldRecalcOnPaste() bool {
	if o.RecalcOnPaste != nil {
		return *o.RecalcOnPaste
	}
	return true
}

// ShouldRecalcOnLoad returns whether Load recalculates the loaded sheet.
func (o Options) ShouldRecalcOnLoad() bool {
	if o.RecalcOnLoad != nil {
		return *o.RecalcOnLoad
	}
	return o.Mode == recalc.ModeOrdered
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}
