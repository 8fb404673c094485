// Package diskmodel implements a kinematic model of the Milky Way disk in
// which every star moves on a circular orbit about the galactic z axis. In
// galactocentric cylindrical coordinates the stellar velocity is
// (V_R, V_phi, V_z) = (0, V_phi(R), 0) and the field does not vary with z.
//
// The model turns that field into the observables seen from the Sun: proper
// motions in galactic longitude (pml, including cos b) and latitude (pmb) in
// mas/yr and the radial velocity in km/s.
//
// Conventions: positions are galactocentric Cartesian in kpc with the Sun at
// negative x, velocities are km/s and angles radians. Internally V_phi is
// negative in the direction of Galactic rotation (a left-handed azimuth), so a
// circular speed V gives V_phi = -V and the Sun moves toward +y. Flip the sign
// of VPhiSun before reporting v_phi.
package diskmodel

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Potential is the single capability the model needs from a gravitational
// potential or rotation curve: the circular speed at a position.
type Potential interface {
	CircularVelocity(pos r3.Vec) (float64, error)
}

// Model is immutable after New and safe for concurrent use.
type Model struct {
	pot      Potential
	sunPos   r3.Vec
	vSunPec  r3.Vec
	vcircSun float64
	vSun     r3.Vec
}

// New builds a model around pot with the Sun at sunPos (kpc) moving with
// peculiar velocity vSunPec (km/s) relative to its circular orbit. Errors
// from pot are returned as they are.
func New(pot Potential, sunPos, vSunPec r3.Vec) (*Model, error) {
	vc, err := pot.CircularVelocity(sunPos)
	if err != nil {
		return nil, err
	}
	return &Model{
		pot:      pot,
		sunPos:   sunPos,
		vSunPec:  vSunPec,
		vcircSun: vc,
		vSun:     solarVelocity(vc, vSunPec),
	}, nil
}

// solarVelocity places the rotation purely along y: (0, -V_phi, 0) + pec.
func solarVelocity(vcirc float64, pec r3.Vec) r3.Vec {
	vphi := -vcirc
	return r3.Add(r3.Vec{Y: -vphi}, pec)
}

// SunPosition is the Sun's galactocentric position in kpc.
func (m *Model) SunPosition() r3.Vec { return m.sunPos }

// PeculiarVelocity is the Sun's motion relative to circular rotation, km/s.
func (m *Model) PeculiarVelocity() r3.Vec { return m.vSunPec }

// SolarVelocity is the Sun's total galactocentric velocity.
func (m *Model) SolarVelocity() r3.Vec { return m.vSun }

// SolarCircularSpeed is the circular speed at the solar position.
func (m *Model) SolarCircularSpeed() float64 { return m.vcircSun }

// VPhiSun is the solar V_phi in the internal convention, i.e. negative for
// a Sun moving with Galactic rotation.
func (m *Model) VPhiSun() float64 { return -m.vcircSun }

// CircularVelocity evaluates the circular speed at each position.
func (m *Model) CircularVelocity(pos []r3.Vec) ([]float64, error) {
	out := make([]float64, len(pos))
	err := parallelFor(len(pos), func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := m.pot.CircularVelocity(pos[i])
			if err != nil {
				return err
			}
			out[i] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CircularVelocityGrid evaluates the circular speed over an (x, y) grid at
// height z.
func (m *Model) CircularVelocityGrid(xgrid, ygrid *mat.Dense, z float64) (*mat.Dense, error) {
	rows, cols, err := gridDims(xgrid, ygrid)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(rows, cols, nil)
	err = parallelFor(rows*cols, func(ctx context.Context, start, end int) error {
		for k := start; k < end; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			i, j := k/cols, k%cols
			v, err := m.pot.CircularVelocity(r3.Vec{X: xgrid.At(i, j), Y: ygrid.At(i, j), Z: z})
			if err != nil {
				return err
			}
			out.Set(i, j, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CircularOrbitVelocity is the Cartesian velocity of a circular orbit with
// the given speed through pos: (-V_phi sin φ, V_phi cos φ, 0) with V_phi = -speed
// and φ the galactocentric azimuth.
func CircularOrbitVelocity(pos r3.Vec, speed float64) r3.Vec {
	vphi := -speed
	sphi, cphi := math.Sincos(math.Atan2(pos.Y, pos.X))
	return r3.Vec{X: -vphi * sphi, Y: vphi * cphi, Z: 0}
}

// StarVelocity is the model velocity of a star at pos.
func (m *Model) StarVelocity(pos r3.Vec) (r3.Vec, error) {
	v, err := m.pot.CircularVelocity(pos)
	if err != nil {
		return r3.Vec{}, err
	}
	return CircularOrbitVelocity(pos, v), nil
}
