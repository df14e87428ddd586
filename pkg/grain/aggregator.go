// Package grain aggregates per-grain statistics over the records of a scan.
//
// The representative orientation of a grain is a running mean of unit
// quaternions. Because q and -q describe the same rotation, each new
// observation is first flipped onto the hemisphere of the current mean and
// then added to a running sum, which is renormalized after every update.
// This gives the exact quaternion back for identical observations and an
// order-independent result (up to rounding) for observations that cluster
// around one orientation. No crystal symmetry reduction is applied: two
// symmetry-equivalent orientations of a cubic crystal are averaged as if
// they were different rotations.
package grain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/num/quat"
)

var (
	// ErrDegenerateOrientation is returned for an observation whose
	// quaternion has zero or non-finite length
	ErrDegenerateOrientation = errors.New("orientation quaternion cannot be normalized")

	// ErrReservedID is returned for a stored id that collides with void
	ErrReservedID = errors.New("grain id is reserved for void pixels")
)

// Record is the aggregate of every observation of one grain
type Record struct {
	// PhaseID is the phase of the first observation; later observations
	// do not change it
	PhaseID int

	// Orientation is the current unit quaternion estimate
	Orientation quat.Number

	// PixelCount is the number of observations
	PixelCount int

	// sum is the sign-aligned sum of unit observations
	sum quat.Number

	// oriented is the number of observations that contributed to sum
	oriented int
}

// HasOrientation reports whether any observation contributed an
// orientation. A grain seen only through ObserveUnoriented reports the
// identity quaternion.
func (r Record) HasOrientation() bool {
	return r.oriented > 0
}

// Table maps stored grain ids to their records
type Table map[int]*Record

// NewTable returns an empty table
func NewTable() Table {
	return make(Table)
}

// Observe folds one observation into the table
func (t Table) Observe(id, phaseID int, q quat.Number) error {
	if id <= 0 {
		return fmt.Errorf("grain %d: %w", id, ErrReservedID)
	}

	u, err := Normalize(q)
	if err != nil {
		return fmt.Errorf("grain %d: %w", id, err)
	}

	rec, ok := t[id]
	if !ok {
		t[id] = &Record{
			PhaseID:     phaseID,
			Orientation: u,
			PixelCount:  1,
			sum:         u,
			oriented:    1,
		}
		return nil
	}

	rec.PixelCount++
	if rec.oriented == 0 {
		rec.Orientation = u
		rec.sum = u
		rec.oriented = 1
		return nil
	}

	if Dot(u, rec.Orientation) < 0 {
		u = quat.Scale(-1, u)
	}
	rec.sum = quat.Add(rec.sum, u)
	rec.oriented++

	mean, err := Normalize(rec.sum)
	if err != nil {
		return fmt.Errorf("grain %d: %w", id, err)
	}
	rec.Orientation = mean
	return nil
}

// ObserveUnoriented counts a pixel of grain id without an orientation.
// It serves the all-zero placeholder that stands in for a leading missing
// row, whose zero quaternion cannot be normalized. The estimate stays the
// identity until the first oriented observation replaces it.
func (t Table) ObserveUnoriented(id, phaseID int) error {
	if id <= 0 {
		return fmt.Errorf("grain %d: %w", id, ErrReservedID)
	}

	rec, ok := t[id]
	if !ok {
		t[id] = &Record{
			PhaseID:     phaseID,
			Orientation: quat.Number{Real: 1},
			PixelCount:  1,
		}
		return nil
	}
	rec.PixelCount++
	return nil
}

// Get returns the record for id
func (t Table) Get(id int) (Record, bool) {
	rec, ok := t[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// IDs returns the stored ids in ascending order
func (t Table) IDs() []int {
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TotalPixels returns the sum of all pixel counts
func (t Table) TotalPixels() int {
	n := 0
	for _, rec := range t {
		n += rec.PixelCount
	}
	return n
}

// Dot returns the 4-D inner product of two quaternions
func Dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// Normalize scales q to unit length
func Normalize(q quat.Number) (quat.Number, error) {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return quat.Number{}, ErrDegenerateOrientation
	}
	return quat.Scale(1/n, q), nil
}
