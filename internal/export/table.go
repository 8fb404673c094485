package export

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/diskrot/internal/astrometry"
	"github.com/san-kum/diskrot/internal/diskmodel"
	"github.com/san-kum/diskrot/internal/storage"
)

var ObservablesColumns = []string{"distance_kpc", "l_deg", "b_deg", "pml", "pmb", "vrad"}

// ObservablesTable lays out per-star inputs and results for the run store.
// Angles are given in radians and stored in degrees.
func ObservablesTable(distance, l, b []float64, obs *diskmodel.Observables) *storage.Table {
	t := &storage.Table{
		Columns: ObservablesColumns,
		Rows:    make([][]float64, obs.Len()),
	}
	for i := range t.Rows {
		t.Rows[i] = []float64{
			distance[i],
			astrometry.Rad2Deg(l[i]),
			astrometry.Rad2Deg(b[i]),
			obs.PML[i],
			obs.PMB[i],
			obs.VRad[i],
		}
	}
	return t
}

var FieldColumns = []string{"x", "y", "distance", "l_deg", "b_deg", "pml", "pmb", "vrad", "vtan"}

// FieldTable flattens a grid evaluation row by row.
func FieldTable(x, y *mat.Dense, f *diskmodel.Field) *storage.Table {
	nx, ny := f.Dims()
	t := &storage.Table{
		Columns: FieldColumns,
		Rows:    make([][]float64, 0, nx*ny),
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			t.Rows = append(t.Rows, []float64{
				x.At(i, j),
				y.At(i, j),
				f.Distance.At(i, j),
				astrometry.Rad2Deg(f.L.At(i, j)),
				astrometry.Rad2Deg(f.B.At(i, j)),
				f.PML.At(i, j),
				f.PMB.At(i, j),
				f.VRad.At(i, j),
				f.VTan.At(i, j),
			})
		}
	}
	return t
}
