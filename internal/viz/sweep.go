package viz

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/diskrot/internal/astrometry"
	"github.com/san-kum/diskrot/internal/diskmodel"
)

var ErrInvalidSweep = errors.New("viz: invalid longitude sweep")

// SweepQuantities are the observables a longitude sweep can chart.
var SweepQuantities = []string{"pml", "pmb", "vrad"}

// Sweep holds observables for stars at a fixed distance and latitude spread
// evenly over longitude.
type Sweep struct {
	Distance float64
	BDeg     float64
	// StepDeg is the spacing actually used, 360/len(LDeg).
	StepDeg float64
	LDeg    []float64
	Obs     *diskmodel.Observables
}

// LongitudeSweep evaluates m at longitudes evenly spaced over [0, 360). A
// stepDeg that does not divide 360 is rounded to the nearest step that does.
func LongitudeSweep(m *diskmodel.Model, distance, bDeg, stepDeg float64) (*Sweep, error) {
	if !(stepDeg > 0) || stepDeg > 360 {
		return nil, fmt.Errorf("%w: step %v deg", ErrInvalidSweep, stepDeg)
	}
	if !(distance >= 0) || math.IsInf(distance, 0) {
		return nil, fmt.Errorf("%w: distance %v kpc", ErrInvalidSweep, distance)
	}

	n := max(int(math.Round(360/stepDeg)), 1)
	lDeg := make([]float64, n)
	l := make([]float64, n)
	b := make([]float64, n)
	d := make([]float64, n)
	for i := range lDeg {
		lDeg[i] = 360 * float64(i) / float64(n)
		l[i] = astrometry.Deg2Rad(lDeg[i])
		b[i] = astrometry.Deg2Rad(bDeg)
		d[i] = distance
	}

	obs, err := m.Observables(d, l, b)
	if err != nil {
		return nil, err
	}
	return &Sweep{Distance: distance, BDeg: bDeg, StepDeg: 360 / float64(n), LDeg: lDeg, Obs: obs}, nil
}

func (s *Sweep) Quantity(name string) ([]float64, error) {
	switch name {
	case "pml":
		return s.Obs.PML, nil
	case "pmb":
		return s.Obs.PMB, nil
	case "vrad":
		return s.Obs.VRad, nil
	}
	return nil, fmt.Errorf("%w: unknown quantity %q", ErrInvalidSweep, name)
}
