// Package reconstruction turns a microstructure scan into a grain label grid
// and a per-grain table in a single pass over the records.
//
// The pass runs in stages:
// 1. Reading every record, repairing missing rows by carry-forward
// 2. Sizing the grid from the distinct coordinates of the whole scan
// 3. Writing each record to its grid cell and folding it into its grain
//
// Any malformed or out-of-range record aborts the pass; no partial result
// is returned.
package reconstruction

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"ebsdgrid/internal/models"
	"ebsdgrid/pkg/grain"
	"ebsdgrid/pkg/grid"
	"ebsdgrid/pkg/scan"
)

// Params holds the reconstruction parameters
type Params struct {
	// StepSize is the physical distance covered by one grid cell. It is
	// supplied by the caller and never inferred from the data.
	StepSize float64

	// Scan configures column names and the missing-value sentinel
	Scan scan.Options
}

// Result is the output of one pass. The caller owns it; the reconstructor
// keeps no reference after Process returns.
type Result struct {
	Grid   *grid.PixelGrid
	Grains grain.Table
	Sizing Sizing

	// Read describes the parsed source
	Read scan.Summary

	// PlaceholderSkipped reports whether the all-zero placeholder fell
	// outside the grid and was left out of both the grid and the table
	PlaceholderSkipped bool
}

// Reconstructor runs the reconstruction pass
type Reconstructor struct {
	params *Params
	logger zerolog.Logger
}

// NewReconstructor creates a reconstructor with the given parameters
func NewReconstructor(params *Params, logger zerolog.Logger) *Reconstructor {
	return &Reconstructor{
		params: params,
		logger: logger.With().Str("component", "reconstruction").Logger(),
	}
}

// ProcessFile opens path and runs Process on it
func (r *Reconstructor) ProcessFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan file: %w", err)
	}
	defer file.Close()

	r.logger.Debug().Str("path", path).Msg("opened scan file")
	return r.Process(file)
}

// Process runs the complete pass over src
func (r *Reconstructor) Process(src io.Reader) (*Result, error) {
	if err := validateStepSize(r.params.StepSize); err != nil {
		return nil, err
	}

	// Stage 1: read and repair records
	start := time.Now()
	reader, err := scan.NewReader(src, r.params.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	records, summary, err := scan.ReadRecords(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	r.logger.Info().
		Int("records", summary.Records).
		Int("substituted", summary.Substituted).
		Dur("elapsed", time.Since(start)).
		Msg("read scan records")
	if summary.PlaceholderUsed {
		r.logger.Warn().Msg("first record is missing data and has no predecessor; substituted an all-zero placeholder")
	}

	// Stage 2: size the grid
	sizing, err := SizeGrid(summary.Coordinates, r.params.StepSize)
	if err != nil {
		return nil, err
	}
	if sizing.Rows*sizing.Cols != len(records) {
		r.logger.Warn().
			Int("cells", sizing.Rows*sizing.Cols).
			Int("records", len(records)).
			Msg("record count does not match grid size; scan is not a regular rectangular sampling")
	}
	r.logger.Info().
		Int("cols", sizing.Cols).
		Int("rows", sizing.Rows).
		Float64("xMin", sizing.XMin).
		Float64("yMin", sizing.YMin).
		Msg("sized grid")

	// Stage 3: fill grid and aggregate grains
	start = time.Now()
	pixels, err := grid.New(sizing.Rows, sizing.Cols)
	if err != nil {
		return nil, &ReconstructionError{Record: -1, Msg: "failed to allocate grid", Err: err}
	}
	grains := grain.NewTable()
	var placeholderSkipped bool
	for _, rec := range records {
		placed, err := place(pixels, grains, sizing, rec)
		if err != nil {
			return nil, err
		}
		if !placed {
			placeholderSkipped = true
			r.logger.Warn().
				Int("record", rec.Index).
				Int("line", rec.Line).
				Msg("placeholder record lies outside the grid; left out of grid and grain table")
		}
	}
	r.logger.Info().
		Int("grains", len(grains)).
		Int("void", pixels.VoidCount()).
		Dur("elapsed", time.Since(start)).
		Msg("filled grid")

	return &Result{
		Grid:   pixels,
		Grains: grains,
		Sizing: sizing,
		Read:   summary,

		PlaceholderSkipped: placeholderSkipped,
	}, nil
}

// place writes one record to its cell and updates its grain. The all-zero
// placeholder for a leading missing row is the only record that may be left
// out: it is not placed when its cell is outside the grid, and it counts as
// a pixel of its grain without contributing an orientation. placed is false
// only for a skipped placeholder.
func place(pixels *grid.PixelGrid, grains grain.Table, sizing Sizing, rec models.ScanRecord) (placed bool, err error) {
	gx, gy, ok := sizing.Cell(rec.X, rec.Y)
	fail := func(msg string, err error) error {
		return &ReconstructionError{
			Record: rec.Index,
			Line:   rec.Line,
			X:      rec.X,
			Y:      rec.Y,
			GridX:  gx,
			GridY:  gy,
			Msg:    msg,
			Err:    err,
		}
	}

	if !ok {
		if rec.Placeholder {
			return false, nil
		}
		return false, fail(fmt.Sprintf("cell (%d, %d) outside %d cols x %d rows", gx, gy, sizing.Cols, sizing.Rows), nil)
	}

	id := rec.StoredGrainID()
	if rec.Placeholder {
		err = grains.ObserveUnoriented(id, rec.PhaseID)
	} else {
		err = grains.Observe(id, rec.PhaseID, rec.Orientation)
	}
	if err != nil {
		if errors.Is(err, grain.ErrReservedID) {
			return false, fail(fmt.Sprintf("scan grain id %d maps to the void id", rec.GrainID), err)
		}
		return false, fail("invalid orientation", err)
	}
	if err := pixels.SetCell(gx, gy, id); err != nil {
		return false, fail("grid write failed", err)
	}
	return true, nil
}
