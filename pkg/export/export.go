// Package export writes reconstruction results in the formats consumed by
// the downstream meshing and simulation tools. Every writer iterates grains
// in ascending id order so repeated runs produce identical bytes.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"ebsdgrid/pkg/grain"
	"ebsdgrid/pkg/grid"
)

// WriteSPN writes the grid as whitespace-separated grain ids, one grid row
// per line, y then x. This is the voxel layout read by the mesher.
func WriteSPN(w io.Writer, g *grid.PixelGrid) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(g.At(x, y)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteGrainCSV writes one line per grain with its phase, pixel count,
// quaternion and Bunge Euler angles in degrees
func WriteGrainCSV(w io.Writer, grains grain.Table) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("grainId,phaseId,pixelCount,q_a,q_b,q_c,q_d,phi1,Phi,phi2\n")
	for _, id := range grains.IDs() {
		rec := grains[id]
		q := rec.Orientation
		phi1, Phi, phi2 := grain.BungeEuler(q)
		fmt.Fprintf(bw, "%d,%d,%d,%s,%s,%s,%s,%s,%s,%s\n",
			id, rec.PhaseID, rec.PixelCount,
			formatFloat(q.Real), formatFloat(q.Imag), formatFloat(q.Jmag), formatFloat(q.Kmag),
			formatFloat(degrees(phi1)), formatFloat(degrees(Phi)), formatFloat(degrees(phi2)))
	}
	return bw.Flush()
}

// WriteOrientations writes "phi1 Phi phi2" in degrees, one grain per line
// in id order. Line n describes the n-th grain of the mesh.
func WriteOrientations(w io.Writer, grains grain.Table) error {
	bw := bufio.NewWriter(w)
	for _, id := range grains.IDs() {
		phi1, Phi, phi2 := grain.BungeEuler(grains[id].Orientation)
		fmt.Fprintf(bw, "%s %s %s\n",
			formatFloat(degrees(phi1)), formatFloat(degrees(Phi)), formatFloat(degrees(phi2)))
	}
	return bw.Flush()
}

// WriteFile creates path, including missing parent directories, and fills
// it with write
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return file.Close()
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// formatFloat prints with fixed precision so output is stable across runs
// and platforms. Negative zero is printed as zero.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if s == "-0.000000" {
		return "0.000000"
	}
	return s
}
