package reconstruction

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"ebsdgrid/pkg/scan"
)

// Sizing holds the grid extents derived from a complete scan. The scan is
// assumed to be a regular rectangular sampling, so the number of distinct
// coordinates along an axis is the number of cells along it.
type Sizing struct {
	Cols, Rows int
	XMin, YMin float64
	StepSize   float64
}

// SizeGrid computes the extents from the source coordinates of the whole
// scan. It must run before any cell is written since the extents never
// change afterwards. Coordinates are taken before carry-forward, so a scan
// line whose points were all replaced is still counted.
func SizeGrid(coords scan.Coordinates, stepSize float64) (Sizing, error) {
	if err := validateStepSize(stepSize); err != nil {
		return Sizing{}, err
	}
	if len(coords.X) == 0 || len(coords.Y) == 0 {
		return Sizing{}, &ReconstructionError{Record: -1, Msg: "scan has no coordinates to size a grid from"}
	}

	return Sizing{
		Cols:     countDistinct(coords.X),
		Rows:     countDistinct(coords.Y),
		XMin:     floats.Min(coords.X),
		YMin:     floats.Min(coords.Y),
		StepSize: stepSize,
	}, nil
}

func countDistinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Cell maps physical coordinates to grid indices. Offsets are rounded half
// to even, so an offset of exactly 0.5 steps lands on cell 0 and 1.5 steps
// on cell 2. ok is false when the index falls outside the extents.
func (s Sizing) Cell(x, y float64) (gridX, gridY int, ok bool) {
	fx := math.RoundToEven((x - s.XMin) / s.StepSize)
	fy := math.RoundToEven((y - s.YMin) / s.StepSize)
	if !(fx >= 0 && fx < float64(s.Cols) && fy >= 0 && fy < float64(s.Rows)) {
		// Indices are only reported, never used for a write
		return diagnosticIndex(fx), diagnosticIndex(fy), false
	}
	return int(fx), int(fy), true
}

func diagnosticIndex(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

func validateStepSize(stepSize float64) error {
	if !(stepSize > 0) || math.IsInf(stepSize, 0) {
		return &ReconstructionError{
			Record: -1,
			Msg:    fmt.Sprintf("step size must be a positive finite number, got %g", stepSize),
		}
	}
	return nil
}
