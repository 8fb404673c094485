// Package astrometry holds the sky-direction geometry used by the disk model:
// normal triads, spherical/Cartesian conversion and the proper motion scaling.
//
// Angles are radians, distances kpc and velocities km/s unless a name says
// otherwise.
package astrometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triad is the normal triad at a sky position. R points toward the source,
// P and Q are the unit vectors of increasing longitude and latitude.
type Triad struct {
	P, Q, R r3.Vec
}

// NormalTriad returns the triad for longitude l and latitude b in radians.
func NormalTriad(l, b float64) Triad {
	sl, cl := math.Sincos(l)
	sb, cb := math.Sincos(b)
	return Triad{
		P: r3.Vec{X: -sl, Y: cl, Z: 0},
		Q: r3.Vec{X: -sb * cl, Y: -sb * sl, Z: cb},
		R: r3.Vec{X: cb * cl, Y: cb * sl, Z: sb},
	}
}

// NormalTriads is the batched form of NormalTriad.
func NormalTriads(l, b []float64) ([]Triad, error) {
	if len(l) != len(b) {
		return nil, fmt.Errorf("%w: len(l)=%d len(b)=%d", ErrShapeMismatch, len(l), len(b))
	}
	out := make([]Triad, len(l))
	for i := range l {
		out[i] = NormalTriad(l[i], b[i])
	}
	return out, nil
}

// Project decomposes v onto the triad as (v.P, v.Q, v.R).
func (t Triad) Project(v r3.Vec) (p, q, r float64) {
	return r3.Dot(t.P, v), r3.Dot(t.Q, v), r3.Dot(t.R, v)
}
