// Package potential provides axisymmetric gravitational potentials that
// report circular velocities for the disk model.
//
// Units are kpc, km/s and solar masses. Each component returns R dΦ/dR at
// (R, z), the squared circular velocity of a test particle in the midplane
// approximation used by the disk model.
package potential

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// G is the gravitational constant in kpc (km/s)² / Msun.
const G = 4.300917270038e-6

// ErrNonFinitePosition is returned for positions with NaN or Inf coordinates.
var ErrNonFinitePosition = errors.New("potential: non-finite position")

// Component is one mass component of a composite potential.
type Component interface {
	Name() string
	// VcircSquared returns R dΦ/dR at cylindrical radius R and height z.
	VcircSquared(R, z float64) float64
}

// Composite sums the contributions of its components.
type Composite struct {
	Components []Component
}

func NewComposite(components ...Component) *Composite {
	return &Composite{Components: components}
}

// MilkyWay returns the four-component model of Bovy (2015) as shipped with
// gala's MilkyWayPotential: Hernquist nucleus and bulge, Miyamoto-Nagai disk
// and NFW halo.
func MilkyWay() *Composite {
	return NewComposite(
		&Hernquist{Label: "nucleus", M: 1.71e9, C: 0.07},
		&Hernquist{Label: "bulge", M: 5.0e9, C: 1.0},
		&MiyamotoNagai{Label: "disk", M: 6.8e10, A: 3.0, B: 0.28},
		&NFW{Label: "halo", M: 5.4e11, Rs: 15.62},
	)
}

// CircularVelocity returns sqrt(R dΦ/dR) in km/s. Positions on the rotation
// axis have zero circular velocity.
func (c *Composite) CircularVelocity(pos r3.Vec) (float64, error) {
	if !finite(pos) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinitePosition, pos)
	}
	R := math.Hypot(pos.X, pos.Y)
	if R == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, comp := range c.Components {
		sum += comp.VcircSquared(R, pos.Z)
	}
	if sum < 0 {
		return 0, nil
	}
	return math.Sqrt(sum), nil
}

func finite(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
