package rotcurve

import "gonum.org/v1/gonum/spatial/r3"

// SolidBody rotates with the same angular velocity at all radii, so V grows
// linearly with R and passes through VcircSun at Rsun.
type SolidBody struct {
	VcircSun float64
	Rsun     float64
}

func NewSolidBody(vcircSun, rsun float64) (*SolidBody, error) {
	if err := checkFinite("vcirc_sun", vcircSun); err != nil {
		return nil, err
	}
	if err := checkPositive("rsun", rsun); err != nil {
		return nil, err
	}
	return &SolidBody{VcircSun: vcircSun, Rsun: rsun}, nil
}

// CircularVelocity is zero on the rotation axis.
func (s *SolidBody) CircularVelocity(pos r3.Vec) (float64, error) {
	return s.VcircSun * CylindricalRadius(pos) / s.Rsun, nil
}

func (s *SolidBody) Slope(R float64) float64 {
	return s.VcircSun / s.Rsun
}

// AngularVelocity is V/R in km/s/kpc.
func (s *SolidBody) AngularVelocity() float64 {
	return s.VcircSun / s.Rsun
}
