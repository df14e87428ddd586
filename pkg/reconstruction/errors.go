package reconstruction

import (
	"fmt"
	"strings"
)

// ReconstructionError reports data that cannot be placed on the grid: an
// index outside the sized extents, an unusable step size, or an orientation
// that cannot be normalized. It is always fatal for the pass.
type ReconstructionError struct {
	// Record is the zero-based record index, -1 when not tied to a record
	Record int

	// Line is the 1-based source line of the record, if known
	Line int

	// X and Y are the physical coordinates of the record
	X, Y float64

	// GridX and GridY are the computed cell indices, if computed
	GridX, GridY int

	// Msg describes the problem
	Msg string

	// Err is the underlying cause, if any
	Err error
}

func (e *ReconstructionError) Error() string {
	var b strings.Builder
	b.WriteString("reconstruction error")
	if e.Record >= 0 {
		fmt.Fprintf(&b, " at record %d", e.Record)
		if e.Line > 0 {
			fmt.Fprintf(&b, " (line %d)", e.Line)
		}
		fmt.Fprintf(&b, " x=%g y=%g", e.X, e.Y)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ReconstructionError) Unwrap() error {
	return e.Err
}
