package reconstruction

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Statistics summarises a reconstruction result
type Statistics struct {
	// Grains is the number of distinct grains
	Grains int

	// Cells is the total number of grid cells
	Cells int

	// VoidFraction is the share of cells no record was written to
	VoidFraction float64

	// MeanGrainSize and StdGrainSize are the mean and sample standard
	// deviation of grain pixel counts
	MeanGrainSize float64
	StdGrainSize  float64

	// MedianGrainSize is the median pixel count
	MedianGrainSize float64

	// MaxGrainSize is the largest pixel count
	MaxGrainSize int

	// PhaseFractions maps each phase id to its share of observed pixels
	PhaseFractions map[int]float64
}

// ComputeStatistics derives grain-size and phase statistics from res
func ComputeStatistics(res *Result) Statistics {
	s := Statistics{
		Grains:         len(res.Grains),
		Cells:          res.Grid.Rows() * res.Grid.Cols(),
		PhaseFractions: make(map[int]float64),
	}
	if s.Cells > 0 {
		s.VoidFraction = float64(res.Grid.VoidCount()) / float64(s.Cells)
	}
	if s.Grains == 0 {
		return s
	}

	// Iterate in id order so floating-point sums are reproducible
	sizes := make([]float64, 0, s.Grains)
	total := 0
	for _, id := range res.Grains.IDs() {
		rec := res.Grains[id]
		sizes = append(sizes, float64(rec.PixelCount))
		total += rec.PixelCount
		s.PhaseFractions[rec.PhaseID] += float64(rec.PixelCount)
		if rec.PixelCount > s.MaxGrainSize {
			s.MaxGrainSize = rec.PixelCount
		}
	}
	for phase := range s.PhaseFractions {
		s.PhaseFractions[phase] /= float64(total)
	}

	s.MeanGrainSize = stat.Mean(sizes, nil)
	if len(sizes) > 1 {
		s.StdGrainSize = stat.StdDev(sizes, nil)
	}

	sorted := slices.Clone(sizes)
	slices.Sort(sorted)
	s.MedianGrainSize = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return s
}
