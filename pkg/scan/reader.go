// Package scan reads tabular microstructure-scan exports. A source starts
// with one comma-separated header line naming its columns, followed by one
// sample point per line. Columns are located by name, so their order in the
// file does not matter.
package scan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Columns names the header fields the reader needs
type Columns struct {
	X           string
	Y           string
	PhaseID     string
	GrainID     string
	Orientation [4]string
}

// DefaultColumns returns the column names written by the usual EBSD
// export tooling
func DefaultColumns() Columns {
	return Columns{
		X:       "x",
		Y:       "y",
		PhaseID: "phaseId",
		GrainID: "grainId",
		Orientation: [4]string{
			"orientations_a",
			"orientations_b",
			"orientations_c",
			"orientations_d",
		},
	}
}

// DefaultMissingValue is the literal that marks a field as missing
const DefaultMissingValue = "NaN"

// Options configures a Reader. The value is copied on construction and
// never changed afterwards.
type Options struct {
	Columns      Columns
	MissingValue string
}

// DefaultOptions returns the default column names and missing-value sentinel
func DefaultOptions() Options {
	return Options{
		Columns:      DefaultColumns(),
		MissingValue: DefaultMissingValue,
	}
}

// Layout holds the resolved position of every required column
type Layout struct {
	X, Y        int
	PhaseID     int
	GrainID     int
	Orientation [4]int

	// Width is the number of fields in the header
	Width int

	names []string
}

// Name returns the header name at position i
func (l Layout) Name(i int) string {
	if i < 0 || i >= len(l.names) {
		return ""
	}
	return l.names[i]
}

// Row is one raw data line of the source
type Row struct {
	// Line is the 1-based line number in the source
	Line int

	// Fields are the whitespace-trimmed field texts
	Fields []string
}

// Reader is a single-pass stream of rows. It cannot be rewound; reading the
// source again requires a new Reader on a fresh io.Reader.
type Reader struct {
	csv    *csv.Reader
	opts   Options
	layout Layout
}

// NewReader consumes the header line of src and resolves the required
// columns. A missing column is reported as a *FormatError.
func NewReader(src io.Reader, opts Options) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FormatError{Line: 1, Msg: "missing header line"}
	}
	if err != nil {
		return nil, csvError(err)
	}

	layout, err := resolveLayout(header, opts.Columns)
	if err != nil {
		return nil, err
	}

	return &Reader{csv: cr, opts: opts, layout: layout}, nil
}

// Layout returns the resolved column positions
func (r *Reader) Layout() Layout {
	return r.layout
}

// Options returns the options the reader was created with
func (r *Reader) Options() Options {
	return r.opts
}

// Next returns the next data row, or io.EOF once the source is exhausted.
// Blank lines are skipped. A row with a different number of fields than
// the header is a *FormatError.
func (r *Reader) Next() (Row, error) {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, csvError(err)
	}

	line, _ := r.csv.FieldPos(0)
	if len(fields) != r.layout.Width {
		return Row{}, &FormatError{
			Line: line,
			Msg:  fmt.Sprintf("row has %d fields, header declares %d", len(fields), r.layout.Width),
		}
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return Row{Line: line, Fields: fields}, nil
}

func resolveLayout(header []string, cols Columns) (Layout, error) {
	index := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		names[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := index[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	layout := Layout{
		X:       lookup(cols.X),
		Y:       lookup(cols.Y),
		PhaseID: lookup(cols.PhaseID),
		GrainID: lookup(cols.GrainID),
		Width:   len(header),
		names:   names,
	}
	for i, name := range cols.Orientation {
		layout.Orientation[i] = lookup(name)
	}

	if len(missing) > 0 {
		return Layout{}, &FormatError{
			Line:   1,
			Column: missing[0],
			Msg:    fmt.Sprintf("header is missing required columns: %s", strings.Join(missing, ", ")),
		}
	}
	return layout, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Line: pe.Line, Msg: "malformed delimited text", Err: pe.Err}
	}
	return fmt.Errorf("read scan source: %w", err)
}
