package grain

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
)

// TestBungeEuler verifies conversion for rotations about the principal axes
func TestBungeEuler(t *testing.T) {
	testCases := []struct {
		name            string
		q               quat.Number
		phi1, Phi, phi2 float64
	}{
		{"identity", quat.Number{Real: 1}, 0, 0, 0},
		{"negated identity", quat.Number{Real: -1}, 0, 0, 0},
		{"z 90", axisAngle(math.Pi/2, 0, 0, 1), math.Pi / 2, 0, 0},
		{"x 60", axisAngle(math.Pi/3, 1, 0, 0), 0, math.Pi / 3, 0},
		{"x 180", quat.Number{Imag: 1}, 0, math.Pi, 0},
	}

	for _, tc := range testCases {
		phi1, Phi, phi2 := BungeEuler(tc.q)
		if math.Abs(phi1-tc.phi1) > 1e-9 || math.Abs(Phi-tc.Phi) > 1e-9 || math.Abs(phi2-tc.phi2) > 1e-9 {
			t.Errorf("%s: expected (%f, %f, %f), got (%f, %f, %f)",
				tc.name, tc.phi1, tc.Phi, tc.phi2, phi1, Phi, phi2)
		}
	}
}

// TestBungeEulerRanges verifies the angle ranges for a spread of rotations
func TestBungeEulerRanges(t *testing.T) {
	for i := 0; i < 50; i++ {
		angle := float64(i) * 0.37
		q := axisAngle(angle, 0.48, -0.6, 0.64)
		phi1, Phi, phi2 := BungeEuler(q)

		if phi1 < 0 || phi1 >= 2*math.Pi {
			t.Errorf("phi1 out of range: %f", phi1)
		}
		if Phi < 0 || Phi > math.Pi {
			t.Errorf("Phi out of range: %f", Phi)
		}
		if phi2 < 0 || phi2 >= 2*math.Pi {
			t.Errorf("phi2 out of range: %f", phi2)
		}
	}
}
