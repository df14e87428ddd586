package reconstruction

import (
	"math"
	"strings"
	"testing"
)

// TestComputeStatistics verifies grain-size and phase statistics
func TestComputeStatistics(t *testing.T) {
	res, err := process(t, 1,
		"0,0,1,0,1,0,0,0",
		"1,0,1,0,1,0,0,0",
		"2,0,1,0,1,0,0,0",
		"0,1,2,1,0,1,0,0",
		"1,1,2,2,0,0,1,0",
		"2,1,2,2,0,0,1,0",
		"0,2,1,3,1,0,0,0",
		"1,2,1,3,1,0,0,0",
	)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	s := ComputeStatistics(res)

	if s.Grains != 4 {
		t.Errorf("Expected 4 grains, got %d", s.Grains)
	}
	if s.Cells != 9 {
		t.Errorf("Expected 9 cells, got %d", s.Cells)
	}
	if math.Abs(s.VoidFraction-1.0/9.0) > 1e-12 {
		t.Errorf("Expected void fraction 1/9, got %f", s.VoidFraction)
	}

	// Sizes are 3, 1, 2, 2
	if s.MeanGrainSize != 2 {
		t.Errorf("Expected mean grain size 2, got %f", s.MeanGrainSize)
	}
	if math.Abs(s.StdGrainSize-math.Sqrt(2.0/3.0)) > 1e-12 {
		t.Errorf("Expected std grain size %f, got %f", math.Sqrt(2.0/3.0), s.StdGrainSize)
	}
	if s.MedianGrainSize != 2 {
		t.Errorf("Expected median grain size 2, got %f", s.MedianGrainSize)
	}
	if s.MaxGrainSize != 3 {
		t.Errorf("Expected max grain size 3, got %d", s.MaxGrainSize)
	}

	if math.Abs(s.PhaseFractions[1]-5.0/8.0) > 1e-12 {
		t.Errorf("Expected phase 1 fraction 5/8, got %f", s.PhaseFractions[1])
	}
	if math.Abs(s.PhaseFractions[2]-3.0/8.0) > 1e-12 {
		t.Errorf("Expected phase 2 fraction 3/8, got %f", s.PhaseFractions[2])
	}
}

// TestComputeStatisticsSingleGrain verifies a lone grain has zero spread
func TestComputeStatisticsSingleGrain(t *testing.T) {
	src := writeRegularScan(2, 2, 1, func(x, y int) int { return 0 })
	res, err := newTestReconstructor(1).Process(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	s := ComputeStatistics(res)
	if s.Grains != 1 || s.MeanGrainSize != 4 || s.StdGrainSize != 0 {
		t.Errorf("Unexpected statistics: %+v", s)
	}
	if s.VoidFraction != 0 {
		t.Errorf("Expected no void, got %f", s.VoidFraction)
	}
	if s.PhaseFractions[1] != 1 {
		t.Errorf("Expected single phase fraction 1, got %f", s.PhaseFractions[1])
	}
}
