package astrometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SphericalToCartesian returns d times the unit vector toward (l, b).
func SphericalToCartesian(d, l, b float64) r3.Vec {
	return r3.Scale(d, NormalTriad(l, b).R)
}

// CartesianToSpherical inverts SphericalToCartesian. The longitude is wrapped
// to [0, 2π). The zero vector maps to d = l = b = 0.
func CartesianToSpherical(v r3.Vec) (d, l, b float64) {
	d = r3.Norm(v)
	if d == 0 {
		return 0, 0, 0
	}
	l = math.Atan2(v.Y, v.X)
	if l < 0 {
		l += 2 * math.Pi
	}
	b = math.Atan2(v.Z, math.Hypot(v.X, v.Y))
	return d, l, b
}

// ProperMotion converts a transverse velocity in km/s at distance d in kpc to
// mas/yr. A source at zero distance has no defined angular rate and reports 0.
func ProperMotion(v, d float64) float64 {
	if d == 0 {
		return 0
	}
	return v / (d * AUKmYearPerSec)
}

// TransverseVelocity is the inverse of ProperMotion.
func TransverseVelocity(pm, d float64) float64 {
	return pm * d * AUKmYearPerSec
}
