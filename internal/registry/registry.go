package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/diskrot/internal/config"
	"github.com/san-kum/diskrot/internal/diskmodel"
	"github.com/san-kum/diskrot/internal/potential"
	"github.com/san-kum/diskrot/internal/rotcurve"
)

type curveFactory func(c config.CurveConfig, rsun float64) (rotcurve.Curve, error)

type Registry struct {
	curves map[string]curveFactory
}

func NewRegistry() *Registry {
	r := &Registry{curves: make(map[string]curveFactory)}

	r.curves[config.CurveFlat] = func(c config.CurveConfig, rsun float64) (rotcurve.Curve, error) {
		return rotcurve.NewFlat(c.Vcirc)
	}
	r.curves[config.CurveSolidBody] = func(c config.CurveConfig, rsun float64) (rotcurve.Curve, error) {
		return rotcurve.NewSolidBody(c.Vcirc, rsun)
	}
	r.curves[config.CurveBP] = func(c config.CurveConfig, rsun float64) (rotcurve.Curve, error) {
		return rotcurve.NewBrunettiPfenniger(c.Vcirc, rsun, c.ScaleLength, c.Exponent)
	}
	r.curves[config.CurveMWPotential] = func(c config.CurveConfig, rsun float64) (rotcurve.Curve, error) {
		return potential.MilkyWay(), nil
	}

	return r
}

// GetCurve builds the curve named by c.Kind. rsun is the solar radius in kpc
// used by curves normalised at the Sun.
func (r *Registry) GetCurve(c config.CurveConfig, rsun float64) (rotcurve.Curve, error) {
	fn, ok := r.curves[c.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown curve: %s (available: %v)", c.Kind, r.ListCurves())
	}
	return fn(c, rsun)
}

func (r *Registry) ListCurves() []string {
	names := make([]string, 0, len(r.curves))
	for name := range r.curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildModel assembles the disk model described by cfg.
func (r *Registry) BuildModel(cfg *config.Config) (*diskmodel.Model, rotcurve.Curve, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	curve, err := r.GetCurve(cfg.Curve, cfg.SolarRadius())
	if err != nil {
		return nil, nil, err
	}
	m, err := diskmodel.New(curve, cfg.SunPosition(), cfg.PeculiarVelocity())
	if err != nil {
		return nil, nil, err
	}
	return m, curve, nil
}
