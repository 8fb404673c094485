package diskmodel_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/diskrot/internal/diskmodel"
	"github.com/san-kum/diskrot/internal/rotcurve"
)

var _ = Describe("GridAxis and Meshgrid", func() {
	It("spans the closed interval", func() {
		Expect(diskmodel.GridAxis(-2, 2, 5)).To(Equal([]float64{-2, -1, 0, 1, 2}))
		Expect(diskmodel.GridAxis(3, 9, 1)).To(Equal([]float64{3}))
		Expect(diskmodel.GridAxis(0, 1, 0)).To(BeNil())
	})

	It("uses the mgrid layout", func() {
		x, y := diskmodel.Meshgrid([]float64{1, 2, 3}, []float64{10, 20})
		r, c := x.Dims()
		Expect(r).To(Equal(3))
		Expect(c).To(Equal(2))
		Expect(x.At(2, 1)).To(Equal(3.0))
		Expect(y.At(2, 1)).To(Equal(20.0))
	})
})

var _ = Describe("DifferentialVelocityField", func() {
	var (
		m      *diskmodel.Model
		xs, ys []float64
	)

	BeforeEach(func() {
		bp, err := rotcurve.NewBrunettiPfenniger(234, 8.277, 3, -0.55)
		Expect(err).NotTo(HaveOccurred())
		m, err = diskmodel.New(bp, sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())
		xs = diskmodel.GridAxis(-16, 0, 33)
		ys = diskmodel.GridAxis(-8, 8, 41)
	})

	It("returns grids with the input shape", func() {
		x, y := diskmodel.Meshgrid(xs, ys)
		f, err := m.DifferentialVelocityField(x, y, 0)
		Expect(err).NotTo(HaveOccurred())

		r, c := f.Dims()
		Expect(r).To(Equal(33))
		Expect(c).To(Equal(41))
		for _, g := range []*mat.Dense{f.PML, f.PMB, f.VTan, f.Distance, f.L, f.B} {
			gr, gc := g.Dims()
			Expect(gr).To(Equal(r))
			Expect(gc).To(Equal(c))
		}
		Expect(f.P).To(HaveLen(r))
		Expect(f.Q[0]).To(HaveLen(c))
		Expect(f.R[r-1]).To(HaveLen(c))
	})

	It("never lets vtan² + vrad² exceed |Δv|²", func() {
		x, y := diskmodel.Meshgrid(xs, ys)
		f, err := m.DifferentialVelocityField(x, y, 0.3)
		Expect(err).NotTo(HaveOccurred())

		r, c := f.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				vstar, err := m.StarVelocity(r3.Vec{X: x.At(i, j), Y: y.At(i, j), Z: 0.3})
				Expect(err).NotTo(HaveOccurred())
				dv2 := r3.Norm2(r3.Sub(vstar, m.SolarVelocity()))
				vt, vr := f.VTan.At(i, j), f.VRad.At(i, j)

				Expect(math.IsNaN(vt)).To(BeFalse())
				Expect(vt).To(BeNumerically(">=", 0))
				Expect(vt*vt + vr*vr).To(BeNumerically("<=", dv2*(1+1e-12)+1e-9))
			}
		}
	})

	It("agrees with the pointwise observables", func() {
		x, y := diskmodel.Meshgrid(xs, ys)
		f, err := m.DifferentialVelocityField(x, y, sunPos.Z)
		Expect(err).NotTo(HaveOccurred())

		for _, ij := range [][2]int{{0, 0}, {10, 20}, {32, 40}, {5, 33}} {
			i, j := ij[0], ij[1]
			obs, err := m.Observables(
				[]float64{f.Distance.At(i, j)},
				[]float64{f.L.At(i, j)},
				[]float64{f.B.At(i, j)},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.PML[0]).To(BeNumerically("~", f.PML.At(i, j), 1e-8))
			Expect(obs.PMB[0]).To(BeNumerically("~", f.PMB.At(i, j), 1e-8))
			Expect(obs.VRad[0]).To(BeNumerically("~", f.VRad.At(i, j), 1e-8))
		}
	})

	It("places the triad toward each cell", func() {
		x, y := diskmodel.Meshgrid(xs, ys)
		f, err := m.DifferentialVelocityField(x, y, 0)
		Expect(err).NotTo(HaveOccurred())

		i, j := 4, 7
		rel := r3.Sub(r3.Vec{X: x.At(i, j), Y: y.At(i, j)}, sunPos)
		Expect(r3.Norm(r3.Sub(r3.Scale(f.Distance.At(i, j), f.R[i][j]), rel))).To(BeNumerically("<", 1e-9))
		Expect(r3.Dot(f.P[i][j], f.R[i][j])).To(BeNumerically("~", 0, 1e-12))
	})

	It("shows no relative motion for a cell on the solar circle with the Sun's velocity", func() {
		flat, err := rotcurve.NewFlat(220)
		Expect(err).NotTo(HaveOccurred())
		still, err := diskmodel.New(flat, r3.Vec{X: -8}, r3.Vec{})
		Expect(err).NotTo(HaveOccurred())

		// The cell at the solar position itself, and one at the same radius
		// 90 degrees round the circle.
		x := mat.NewDense(1, 2, []float64{-8, 0})
		y := mat.NewDense(1, 2, []float64{0, -8})
		f, err := still.DifferentialVelocityField(x, y, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(f.VRad.At(0, 0)).To(BeNumerically("~", 0, 1e-9))
		Expect(f.VTan.At(0, 0)).To(BeNumerically("~", 0, 1e-6))
		Expect(f.PML.At(0, 0)).To(BeZero())

		// At (0, -8) the star moves along -x at 220 km/s while the Sun
		// moves along +y: |Δv| = 220√2, split between vrad and vtan.
		vr, vt := f.VRad.At(0, 1), f.VTan.At(0, 1)
		Expect(math.Hypot(vr, vt)).To(BeNumerically("~", 220*math.Sqrt2, 1e-9))
		// Line of sight from (-8, 0) to (0, -8) is (1, -1)/√2.
		Expect(vr).To(BeNumerically("~", 0, 1e-9))
		Expect(vt).To(BeNumerically("~", 220*math.Sqrt2, 1e-9))
	})

	It("rejects grids of different shapes", func() {
		x := mat.NewDense(2, 3, nil)
		y := mat.NewDense(3, 2, nil)
		_, err := m.DifferentialVelocityField(x, y, 0)
		Expect(err).To(MatchError(diskmodel.ErrShapeMismatch))

		_, err = m.DifferentialVelocityField(nil, y, 0)
		Expect(err).To(MatchError(diskmodel.ErrShapeMismatch))

		_, err = m.CircularVelocityGrid(x, y, 0)
		Expect(err).To(MatchError(diskmodel.ErrShapeMismatch))
	})

	It("evaluates the circular velocity over a grid", func() {
		x, y := diskmodel.Meshgrid([]float64{-8.277, 0}, []float64{0})
		v, err := m.CircularVelocityGrid(x, y, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.At(0, 0)).To(BeNumerically("~", 234, 1e-9))
		Expect(v.At(1, 0)).To(BeZero())
	})

	It("propagates potential failures", func() {
		fm, err := diskmodel.New(failingPotential{mustFlat(220)}, sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())
		x, y := diskmodel.Meshgrid(diskmodel.GridAxis(-4, 4, 30), diskmodel.GridAxis(-4, 4, 30))
		f, err := fm.DifferentialVelocityField(x, y, 0)
		Expect(err).To(BeIdenticalTo(errBoom))
		Expect(f).To(BeNil())
	})
})
