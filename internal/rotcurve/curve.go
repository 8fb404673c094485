// Package rotcurve implements closed-form rotation curves for the disk model.
//
// These curves only answer the circular velocity question. They are stand-ins
// for a full gravitational potential, useful for toy models and teaching, and
// carry no density, force or energy. Use the potential package when a
// physically complete model is needed.
//
// Positions are galactocentric Cartesian in kpc, speeds are km/s. The speed
// depends only on the cylindrical radius R = sqrt(x² + y²).
package rotcurve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidParameter indicates a curve parameter outside its valid range.
var ErrInvalidParameter = errors.New("rotcurve: invalid parameter")

// Curve is a circular-velocity source. Every variant in this package and the
// potentials in the potential package satisfy it.
type Curve interface {
	CircularVelocity(pos r3.Vec) (float64, error)
}

// Sloped curves also report dV/dR.
type Sloped interface {
	Curve
	Slope(R float64) float64
}

// CylindricalRadius returns sqrt(x² + y²).
func CylindricalRadius(pos r3.Vec) float64 {
	return math.Hypot(pos.X, pos.Y)
}

// Sample evaluates c along the positive x axis at the given radii.
func Sample(c Curve, radii []float64) ([]float64, error) {
	out := make([]float64, len(radii))
	for i, R := range radii {
		v, err := c.CircularVelocity(r3.Vec{X: R})
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

// slopeStep is the central-difference half width in kpc.
const slopeStep = 1e-4

// SlopeAt returns dV/dR at radius R along the x axis, in closed form for
// Sloped curves and by central difference otherwise.
func SlopeAt(c Curve, R float64) (float64, error) {
	if s, ok := c.(Sloped); ok {
		return s.Slope(R), nil
	}
	lo := math.Max(0, R-slopeStep)
	hi := R + slopeStep
	vlo, err := c.CircularVelocity(r3.Vec{X: lo})
	if err != nil {
		return 0, err
	}
	vhi, err := c.CircularVelocity(r3.Vec{X: hi})
	if err != nil {
		return 0, err
	}
	return (vhi - vlo) / (hi - lo), nil
}
