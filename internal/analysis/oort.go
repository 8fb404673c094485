package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/diskrot/internal/astrometry"
)

var (
	ErrInvalidDistance    = errors.New("analysis: distance must be positive")
	ErrNonUniformSampling = errors.New("analysis: longitudes must be evenly spaced over [0, 360)")
)

// spacingTol is the allowed deviation of a longitude from its even slot, in deg.
const spacingTol = 1e-9

// Oort holds local rotation parameters in km/s/kpc.
type Oort struct {
	A float64
	B float64
	// AFromVrad is A measured independently from the radial velocities.
	AFromVrad float64
}

// Omega is the local angular speed of rotation, A - B.
func (o Oort) Omega() float64 { return o.A - o.B }

// Slope is dV/dR at the Sun, -(A + B).
func (o Oort) Slope() float64 { return -(o.A + o.B) }

// EstimateOort fits the Oort constants to pml and vrad sampled at the
// longitudes lDeg, for stars at the given distance in kpc. lDeg must be
// 360*i/n for i in [0, n). Accuracy degrades as distance grows relative to
// the solar radius.
func EstimateOort(lDeg, pml, vrad []float64, distance float64) (Oort, error) {
	if len(pml) != len(lDeg) || len(vrad) != len(lDeg) {
		return Oort{}, fmt.Errorf("%w: %d longitudes, pml has %d samples, vrad %d",
			astrometry.ErrShapeMismatch, len(lDeg), len(pml), len(vrad))
	}
	n := float64(len(lDeg))
	for i, l := range lDeg {
		if want := 360 * float64(i) / n; math.Abs(l-want) > spacingTol {
			return Oort{}, fmt.Errorf("%w: sample %d at %v deg, want %v", ErrNonUniformSampling, i, l, want)
		}
	}
	if !(distance > 0) {
		return Oort{}, fmt.Errorf("%w: got %v", ErrInvalidDistance, distance)
	}

	pa, _, err := Harmonics(pml, 2)
	if err != nil {
		return Oort{}, err
	}
	_, vb, err := Harmonics(vrad, 2)
	if err != nil {
		return Oort{}, err
	}

	k := astrometry.AUKmYearPerSec
	return Oort{
		A:         pa[2] * k,
		B:         pa[0] * k,
		AFromVrad: vb[2] / distance,
	}, nil
}
