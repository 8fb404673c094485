package rotcurve

import "gonum.org/v1/gonum/spatial/r3"

// Flat has the same circular velocity at every radius.
type Flat struct {
	Vcirc float64
}

func NewFlat(vcirc float64) (*Flat, error) {
	if err := checkFinite("vcirc", vcirc); err != nil {
		return nil, err
	}
	return &Flat{Vcirc: vcirc}, nil
}

func (f *Flat) CircularVelocity(pos r3.Vec) (float64, error) {
	return f.Vcirc, nil
}

func (f *Flat) Slope(R float64) float64 { return 0 }
