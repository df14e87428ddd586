package scan

import (
	"errors"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/num/quat"

	"ebsdgrid/internal/models"
)

// Summary describes one complete read of a source
type Summary struct {
	// Records is the number of data rows read
	Records int

	// Substituted is the number of rows replaced by carry-forward
	Substituted int

	// PlaceholderUsed reports whether a leading missing row had no
	// predecessor and was replaced by the all-zero placeholder
	PlaceholderUsed bool

	// Coordinates holds the coordinates as written in the source, before
	// carry-forward replaced any row
	Coordinates Coordinates
}

// Coordinates are the source x and y values of every row. A coordinate
// field holding the missing-value sentinel contributes nothing.
type Coordinates struct {
	X, Y []float64
}

// add records the coordinate fields of a raw row
func (c *Coordinates) add(l Layout, row Row, sentinel string) error {
	if text := row.Fields[l.X]; text != sentinel {
		x, err := l.float(row, l.X)
		if err != nil {
			return err
		}
		c.X = append(c.X, x)
	}
	if text := row.Fields[l.Y]; text != sentinel {
		y, err := l.float(row, l.Y)
		if err != nil {
			return err
		}
		c.Y = append(c.Y, y)
	}
	return nil
}

// Parse converts a repaired row into a typed record
func (l Layout) Parse(row Row, index int) (models.ScanRecord, error) {
	rec := models.ScanRecord{Index: index, Line: row.Line}

	var err error
	if rec.X, err = l.float(row, l.X); err != nil {
		return rec, err
	}
	if rec.Y, err = l.float(row, l.Y); err != nil {
		return rec, err
	}
	if rec.PhaseID, err = l.integer(row, l.PhaseID); err != nil {
		return rec, err
	}
	if rec.GrainID, err = l.integer(row, l.GrainID); err != nil {
		return rec, err
	}

	var q [4]float64
	for i, col := range l.Orientation {
		if q[i], err = l.float(row, col); err != nil {
			return rec, err
		}
	}
	rec.Orientation = quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
	return rec, nil
}

func (l Layout) float(row Row, col int) (float64, error) {
	text := row.Fields[col]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &FormatError{Line: row.Line, Column: l.Name(col), Value: text, Msg: "field is not a number", Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FormatError{Line: row.Line, Column: l.Name(col), Value: text, Msg: "field is not a finite number"}
	}
	return v, nil
}

// integer accepts integral values written in float notation such as "3.0"
// since several exporters write every column as a float
func (l Layout) integer(row Row, col int) (int, error) {
	v, err := l.float(row, col)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, &FormatError{Line: row.Line, Column: l.Name(col), Value: row.Fields[col], Msg: "field is not an integer"}
	}
	return int(v), nil
}

// ReadRecords drains r, repairing missing rows with CarryForward and parsing
// each repaired row. The source coordinates of each row are collected in
// Summary.Coordinates before repair, so a scan line whose points are all
// missing still counts towards the grid extents. The first error stops the
// read and no records are returned with it.
func ReadRecords(r *Reader) ([]models.ScanRecord, Summary, error) {
	var (
		records []models.ScanRecord
		summary Summary
		carry   Carry
	)

	sentinel := r.opts.MissingValue
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Summary{}, err
		}

		if err := summary.Coordinates.add(r.layout, row, sentinel); err != nil {
			return nil, Summary{}, err
		}

		hadPredecessor := carry.Valid()
		var substituted bool
		carry, row, substituted = CarryForward(carry, row, sentinel)
		placeholder := substituted && !hadPredecessor
		if substituted {
			summary.Substituted++
		}
		if placeholder {
			summary.PlaceholderUsed = true
		}

		rec, err := r.layout.Parse(row, summary.Records)
		if err != nil {
			return nil, Summary{}, err
		}
		rec.Substituted = substituted
		rec.Placeholder = placeholder
		records = append(records, rec)
		summary.Records++
	}

	return records, summary, nil
}
