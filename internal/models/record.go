package models

import (
	"gonum.org/v1/gonum/num/quat"
)

// ScanRecord represents a single sample point of a microstructure scan
// after missing-data repair
type ScanRecord struct {
	// Index is the zero-based position of the record in the data section
	// of the source (the header is not counted)
	Index int

	// Line is the 1-based line number in the source file
	Line int

	// X and Y are the physical coordinates of the sample point
	X, Y float64

	// PhaseID is the material phase classification of the point
	PhaseID int

	// GrainID is the scan-local grain identifier as written in the source
	GrainID int

	// Orientation is the crystal orientation as a quaternion with
	// components (a, b, c, d) mapped to (Real, Imag, Jmag, Kmag)
	Orientation quat.Number

	// Substituted reports whether the record was carried forward from the
	// previous valid record because the source line held a missing value
	Substituted bool

	// Placeholder reports whether the record is the all-zero stand-in for a
	// leading missing row that had no predecessor. Its coordinates and
	// orientation are not real data.
	Placeholder bool
}

// StoredGrainID returns the identifier used in the pixel grid and the grain
// table. Zero is reserved for void pixels so every scan id is shifted by one.
func (r ScanRecord) StoredGrainID() int {
	return r.GrainID + 1
}

// Void is the grain id of a grid cell that no record was written to
const Void = 0
