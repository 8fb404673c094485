package rotcurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BrunettiPfenniger is the rotation curve of Brunetti & Pfenniger (2010),
//
//	V(R) = V0 (R/h) (1 + (R/h)²)^((p-2)/4)
//
// with V0 fixed at construction so that V(Rsun) = VcircSun.
// See https://ui.adsabs.harvard.edu/abs/2010A%26A...510A..34B/abstract.
type BrunettiPfenniger struct {
	VcircSun float64
	Rsun     float64
	H        float64
	P        float64

	v0 float64
}

// NewBrunettiPfenniger takes the scale length h in the same unit as rsun.
func NewBrunettiPfenniger(vcircSun, rsun, h, p float64) (*BrunettiPfenniger, error) {
	if err := checkFinite("vcirc_sun", vcircSun); err != nil {
		return nil, err
	}
	if err := checkPositive("rsun", rsun); err != nil {
		return nil, err
	}
	if err := checkPositive("h", h); err != nil {
		return nil, err
	}
	if err := checkFinite("p", p); err != nil {
		return nil, err
	}
	bp := &BrunettiPfenniger{VcircSun: vcircSun, Rsun: rsun, H: h, P: p}
	bp.v0 = vcircSun / bp.shape(rsun)
	return bp, nil
}

// V0 is the amplitude solved from V(Rsun) = VcircSun.
func (bp *BrunettiPfenniger) V0() float64 { return bp.v0 }

func (bp *BrunettiPfenniger) shape(R float64) float64 {
	x := R / bp.H
	return x * math.Pow(1+x*x, (bp.P-2)/4)
}

// CircularVelocity is zero on the rotation axis.
func (bp *BrunettiPfenniger) CircularVelocity(pos r3.Vec) (float64, error) {
	return bp.v0 * bp.shape(CylindricalRadius(pos)), nil
}

// Slope is dV/dR in km/s/kpc.
func (bp *BrunettiPfenniger) Slope(R float64) float64 {
	h := bp.H
	u := 1 + (R/h)*(R/h)
	return bp.v0 * ((1/h)*math.Pow(u, (bp.P-2)/4) + (R*R/(h*h*h))*((bp.P-2)/2)*math.Pow(u, (bp.P-6)/4))
}
