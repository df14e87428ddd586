// Package grid holds the dense 2-D grain label map produced by a scan
// reconstruction
package grid

import (
	"fmt"

	"ebsdgrid/internal/models"
)

// BoundsError reports a write outside the sized grid
type BoundsError struct {
	X, Y       int
	Cols, Rows int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("cell (%d, %d) is outside grid of %d cols x %d rows", e.X, e.Y, e.Cols, e.Rows)
}

// PixelGrid is a rows x cols array of grain ids stored row-major: cell (x, y)
// lives at index y*cols + x. Id 0 marks a void cell.
type PixelGrid struct {
	rows, cols int
	cells      []int
}

// New returns a grid of the given size with every cell void
func New(rows, cols int) (*PixelGrid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %d rows x %d cols", rows, cols)
	}
	return &PixelGrid{
		rows:  rows,
		cols:  cols,
		cells: make([]int, rows*cols),
	}, nil
}

// Rows returns the number of rows (distinct y positions)
func (g *PixelGrid) Rows() int { return g.rows }

// Cols returns the number of columns (distinct x positions)
func (g *PixelGrid) Cols() int { return g.cols }

// InBounds reports whether (x, y) addresses a cell of the grid
func (g *PixelGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// SetCell writes id at (x, y). A previous value is overwritten without any
// signal; the scan is assumed to sample each position once.
func (g *PixelGrid) SetCell(x, y, id int) error {
	if !g.InBounds(x, y) {
		return &BoundsError{X: x, Y: y, Cols: g.cols, Rows: g.rows}
	}
	g.cells[y*g.cols+x] = id
	return nil
}

// At returns the id at (x, y), or Void when the cell is out of bounds
func (g *PixelGrid) At(x, y int) int {
	if !g.InBounds(x, y) {
		return models.Void
	}
	return g.cells[y*g.cols+x]
}

// Row returns a copy of row y
func (g *PixelGrid) Row(y int) []int {
	if y < 0 || y >= g.rows {
		return nil
	}
	row := make([]int, g.cols)
	copy(row, g.cells[y*g.cols:(y+1)*g.cols])
	return row
}

// Cells returns a copy of the grid as [y][x]
func (g *PixelGrid) Cells() [][]int {
	out := make([][]int, g.rows)
	for y := range out {
		out[y] = g.Row(y)
	}
	return out
}

// Clone returns an independent copy of the grid
func (g *PixelGrid) Clone() *PixelGrid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return &PixelGrid{rows: g.rows, cols: g.cols, cells: cells}
}

// VoidCount returns the number of cells no record was written to
func (g *PixelGrid) VoidCount() int {
	n := 0
	for _, id := range g.cells {
		if id == models.Void {
			n++
		}
	}
	return n
}

// Counts returns the number of cells holding each non-void id
func (g *PixelGrid) Counts() map[int]int {
	counts := make(map[int]int)
	for _, id := range g.cells {
		if id != models.Void {
			counts[id]++
		}
	}
	return counts
}
