package grain

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// BungeEuler converts a unit quaternion to Bunge (ZXZ) Euler angles in
// radians, using the passive convention with P = -1. phi1 and phi2 lie in
// [0, 2π) and Phi in [0, π].
func BungeEuler(q quat.Number) (phi1, Phi, phi2 float64) {
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	q0, q1, q2, q3 := q.Real, q.Imag, q.Jmag, q.Kmag

	q03 := q0*q0 + q3*q3
	q12 := q1*q1 + q2*q2
	chi := math.Sqrt(q03 * q12)

	switch {
	case chi == 0 && q12 == 0:
		phi1 = math.Atan2(2*q0*q3, q0*q0-q3*q3)
	case chi == 0:
		Phi = math.Pi
		phi1 = math.Atan2(2*q1*q2, q1*q1-q2*q2)
	default:
		phi1 = math.Atan2((q1*q3+q0*q2)/chi, (q0*q1-q2*q3)/chi)
		Phi = math.Atan2(2*chi, q03-q12)
		phi2 = math.Atan2((q1*q3-q0*q2)/chi, (q0*q1+q2*q3)/chi)
	}

	return wrap(phi1), Phi, wrap(phi2)
}

func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// Rounding can land exactly on 2π
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
