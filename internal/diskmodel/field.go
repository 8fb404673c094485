package diskmodel

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/diskrot/internal/astrometry"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is the differential velocity field over an (x, y) grid: every cell's
// velocity relative to the Sun expressed as observables, plus the geometry
// used to derive them. All grids share the dimensions of the input grid.
type Field struct {
	PML  *mat.Dense // mas/yr
	PMB  *mat.Dense // mas/yr
	VRad *mat.Dense // km/s
	VTan *mat.Dense // km/s

	Distance *mat.Dense // kpc from the Sun
	L        *mat.Dense // rad
	B        *mat.Dense // rad

	// Normal triad per cell, indexed [row][col].
	P, Q, R [][]r3.Vec
}

func (f *Field) Dims() (r, c int) { return f.VRad.Dims() }

// DifferentialVelocityField evaluates the model on the grid of galactocentric
// x and y coordinates (kpc) at fixed height z. Each cell is treated as a star
// seen from the model's solar position.
func (m *Model) DifferentialVelocityField(xgrid, ygrid *mat.Dense, z float64) (*Field, error) {
	rows, cols, err := gridDims(xgrid, ygrid)
	if err != nil {
		return nil, err
	}

	f := &Field{
		PML:      mat.NewDense(rows, cols, nil),
		PMB:      mat.NewDense(rows, cols, nil),
		VRad:     mat.NewDense(rows, cols, nil),
		VTan:     mat.NewDense(rows, cols, nil),
		Distance: mat.NewDense(rows, cols, nil),
		L:        mat.NewDense(rows, cols, nil),
		B:        mat.NewDense(rows, cols, nil),
		P:        newVecGrid(rows, cols),
		Q:        newVecGrid(rows, cols),
		R:        newVecGrid(rows, cols),
	}

	err = parallelFor(rows*cols, func(ctx context.Context, start, end int) error {
		for k := start; k < end; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			i, j := k/cols, k%cols
			pos := r3.Vec{X: xgrid.At(i, j), Y: ygrid.At(i, j), Z: z}
			vstar, err := m.StarVelocity(pos)
			if err != nil {
				return err
			}
			vdiff := r3.Sub(vstar, m.vSun)

			dist, l, b := astrometry.CartesianToSpherical(r3.Sub(pos, m.sunPos))
			tr := astrometry.NormalTriad(l, b)
			vp, vq, vr := tr.Project(vdiff)

			f.PML.Set(i, j, astrometry.ProperMotion(vp, dist))
			f.PMB.Set(i, j, astrometry.ProperMotion(vq, dist))
			f.VRad.Set(i, j, vr)
			f.VTan.Set(i, j, tangentialSpeed(vdiff, vr))
			f.Distance.Set(i, j, dist)
			f.L.Set(i, j, l)
			f.B.Set(i, j, b)
			f.P[i][j], f.Q[i][j], f.R[i][j] = tr.P, tr.Q, tr.R
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// tangentialSpeed is sqrt(|v|² - vr²), clamped at zero against rounding.
func tangentialSpeed(v r3.Vec, vr float64) float64 {
	return math.Sqrt(math.Max(0, r3.Norm2(v)-vr*vr))
}

func gridDims(xgrid, ygrid *mat.Dense) (rows, cols int, err error) {
	if xgrid == nil || ygrid == nil {
		return 0, 0, fmt.Errorf("%w: nil grid", ErrShapeMismatch)
	}
	if xgrid.IsEmpty() || ygrid.IsEmpty() {
		return 0, 0, fmt.Errorf("%w: empty grid", ErrShapeMismatch)
	}
	rows, cols = xgrid.Dims()
	yr, yc := ygrid.Dims()
	if rows != yr || cols != yc {
		return 0, 0, fmt.Errorf("%w: xgrid is %dx%d, ygrid is %dx%d", ErrShapeMismatch, rows, cols, yr, yc)
	}
	return rows, cols, nil
}

func newVecGrid(rows, cols int) [][]r3.Vec {
	backing := make([]r3.Vec, rows*cols)
	g := make([][]r3.Vec, rows)
	for i := range g {
		g[i] = backing[i*cols : (i+1)*cols]
	}
	return g
}
