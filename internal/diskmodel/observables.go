package diskmodel

import (
	"context"
	"fmt"

	"github.com/san-kum/diskrot/internal/astrometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// Observables holds per-star proper motions (mas/yr) and radial velocities
// (km/s), index-aligned with the inputs that produced them.
type Observables struct {
	PML  []float64
	PMB  []float64
	VRad []float64
}

func (o *Observables) Len() int { return len(o.VRad) }

type observeConfig struct {
	sunPos   r3.Vec
	vSunPec  r3.Vec
	vcircSun float64
}

// ObserveOption overrides one of the model's solar parameters for a single
// call. The model itself is never changed.
type ObserveOption func(*observeConfig)

// WithPeculiarVelocity replaces the solar peculiar velocity (km/s).
func WithPeculiarVelocity(v r3.Vec) ObserveOption {
	return func(c *observeConfig) { c.vSunPec = v }
}

// WithSunPosition replaces the solar position (kpc). The solar circular speed
// stays the one evaluated at construction unless WithSolarCircularSpeed is
// also given.
func WithSunPosition(p r3.Vec) ObserveOption {
	return func(c *observeConfig) { c.sunPos = p }
}

// WithSolarCircularSpeed replaces the solar circular speed (km/s).
func WithSolarCircularSpeed(v float64) ObserveOption {
	return func(c *observeConfig) { c.vcircSun = v }
}

// Observables computes pml, pmb and vrad for stars at the given distances
// (kpc), galactic longitudes and latitudes (radians). The three slices must
// have the same length.
func (m *Model) Observables(distance, l, b []float64, opts ...ObserveOption) (*Observables, error) {
	if len(distance) != len(l) || len(distance) != len(b) {
		return nil, fmt.Errorf("%w: len(distance)=%d len(l)=%d len(b)=%d",
			ErrShapeMismatch, len(distance), len(l), len(b))
	}

	cfg := observeConfig{sunPos: m.sunPos, vSunPec: m.vSunPec, vcircSun: m.vcircSun}
	for _, opt := range opts {
		opt(&cfg)
	}
	vsun := solarVelocity(cfg.vcircSun, cfg.vSunPec)

	n := len(distance)
	out := &Observables{
		PML:  make([]float64, n),
		PMB:  make([]float64, n),
		VRad: make([]float64, n),
	}
	err := parallelFor(n, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr := astrometry.NormalTriad(l[i], b[i])
			pos := r3.Add(cfg.sunPos, r3.Scale(distance[i], tr.R))
			vstar, err := m.StarVelocity(pos)
			if err != nil {
				return err
			}
			vp, vq, vr := tr.Project(r3.Sub(vstar, vsun))
			out.PML[i] = astrometry.ProperMotion(vp, distance[i])
			out.PMB[i] = astrometry.ProperMotion(vq, distance[i])
			out.VRad[i] = vr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
