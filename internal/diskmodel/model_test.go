package diskmodel_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/diskrot/internal/astrometry"
	"github.com/san-kum/diskrot/internal/diskmodel"
	"github.com/san-kum/diskrot/internal/potential"
	"github.com/san-kum/diskrot/internal/rotcurve"
)

var (
	sunPos  = r3.Vec{X: -8.277, Y: 0, Z: 0.0208}
	sunPec  = r3.Vec{X: 11.1, Y: 12.24, Z: 7.25}
	errBoom = errors.New("potential exploded")
)

// failingPotential errors for every position with x > 0.
type failingPotential struct {
	inner diskmodel.Potential
}

func (f failingPotential) CircularVelocity(pos r3.Vec) (float64, error) {
	if pos.X > 0 {
		return 0, errBoom
	}
	return f.inner.CircularVelocity(pos)
}

func mustFlat(v float64) *rotcurve.Flat {
	c, err := rotcurve.NewFlat(v)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Model construction", func() {
	It("derives the solar velocity from the curve and the peculiar motion", func() {
		m, err := diskmodel.New(mustFlat(220), sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())

		Expect(m.SolarCircularSpeed()).To(Equal(220.0))
		Expect(m.VPhiSun()).To(Equal(-220.0))
		vsun := m.SolarVelocity()
		Expect(vsun.X).To(Equal(11.1))
		Expect(vsun.Y).To(BeNumerically("~", 232.24, 1e-12))
		Expect(vsun.Z).To(Equal(7.25))
		Expect(m.SunPosition()).To(Equal(sunPos))
		Expect(m.PeculiarVelocity()).To(Equal(sunPec))
	})

	It("passes a full potential through", func() {
		m, err := diskmodel.New(potential.MilkyWay(), sunPos, r3.Vec{})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.SolarCircularSpeed()).To(BeNumerically("~", 231.196, 0.01))
		Expect(m.SolarVelocity().Y).To(Equal(m.SolarCircularSpeed()))
	})

	It("returns potential errors unchanged", func() {
		_, err := diskmodel.New(failingPotential{mustFlat(220)}, r3.Vec{X: 8}, r3.Vec{})
		Expect(err).To(BeIdenticalTo(errBoom))
	})

	It("batches circular velocity queries", func() {
		sb, err := rotcurve.NewSolidBody(220, 8.277)
		Expect(err).NotTo(HaveOccurred())
		m, err := diskmodel.New(sb, sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())

		v, err := m.CircularVelocity([]r3.Vec{{X: 8.277}, {Y: 4}, {Z: 3}})
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(3))
		Expect(v[0]).To(BeNumerically("~", 220, 1e-9))
		Expect(v[1]).To(BeNumerically("~", 220*4/8.277, 1e-9))
		Expect(v[2]).To(BeZero())
	})
})

var _ = Describe("CircularOrbitVelocity", func() {
	It("moves the Sun toward +y", func() {
		v := diskmodel.CircularOrbitVelocity(r3.Vec{X: -8}, 200)
		Expect(v.X).To(BeNumerically("~", 0, 1e-12))
		Expect(v.Y).To(BeNumerically("~", 200, 1e-12))
		Expect(v.Z).To(BeZero())
	})

	It("is tangential with the requested speed", func() {
		pos := r3.Vec{X: 3, Y: -5, Z: 1}
		v := diskmodel.CircularOrbitVelocity(pos, 180)
		Expect(r3.Norm(v)).To(BeNumerically("~", 180, 1e-9))
		Expect(v.X*pos.X + v.Y*pos.Y).To(BeNumerically("~", 0, 1e-9))
	})
})

var _ = Describe("Observables", func() {
	var m *diskmodel.Model

	BeforeEach(func() {
		var err error
		m, err = diskmodel.New(mustFlat(220), sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reproduces the worked example at l=90, b=0, d=1 kpc", func() {
		obs, err := m.Observables([]float64{1}, []float64{math.Pi / 2}, []float64{0})
		Expect(err).NotTo(HaveOccurred())

		Expect(obs.PML[0]).To(BeNumerically("~", -3.2249519085105764, 1e-9))
		Expect(obs.PMB[0]).To(BeNumerically("~", -1.5293840676303156, 1e-9))
		Expect(obs.VRad[0]).To(BeNumerically("~", -13.828268223715979, 1e-9))

		// pmb is the Sun's vertical reflex motion alone.
		Expect(obs.PMB[0]).To(BeNumerically("~", -sunPec.Z/astrometry.AUKmYearPerSec, 1e-9))
	})

	It("matches a hand-built projection for the worked example", func() {
		R := math.Hypot(-8.277, 1)
		vstar := r3.Vec{X: 220 / R, Y: 220 * 8.277 / R}
		vdiff := r3.Sub(vstar, r3.Vec{X: 11.1, Y: 232.24, Z: 7.25})

		obs, err := m.Observables([]float64{1}, []float64{math.Pi / 2}, []float64{0})
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.VRad[0]).To(BeNumerically("~", vdiff.Y, 1e-9))
		Expect(obs.PML[0]).To(BeNumerically("~", -vdiff.X/astrometry.AUKmYearPerSec, 1e-9))
	})

	It("sees no motion for a star at the Sun without peculiar velocity", func() {
		obs, err := m.Observables([]float64{0}, []float64{1.3}, []float64{0.2},
			diskmodel.WithPeculiarVelocity(r3.Vec{}))
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.PML[0]).To(BeZero())
		Expect(obs.PMB[0]).To(BeZero())
		Expect(obs.VRad[0]).To(BeNumerically("~", 0, 1e-9))
	})

	It("sees no motion toward the centre and anticentre on a flat curve", func() {
		obs, err := m.Observables([]float64{2, 3}, []float64{0, math.Pi}, []float64{0, 0},
			diskmodel.WithPeculiarVelocity(r3.Vec{}), diskmodel.WithSunPosition(r3.Vec{X: -8.277}))
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 2; i++ {
			Expect(obs.PML[i]).To(BeNumerically("~", 0, 1e-9))
			Expect(obs.PMB[i]).To(BeNumerically("~", 0, 1e-9))
			Expect(obs.VRad[i]).To(BeNumerically("~", 0, 1e-9))
		}
	})

	It("subtracts the full reflex motion when the star does not move", func() {
		sb, err := rotcurve.NewSolidBody(220, 8.277)
		Expect(err).NotTo(HaveOccurred())
		still, err := diskmodel.New(sb, sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())

		// On the rotation axis the solid-body speed is zero.
		gc := r3.Sub(r3.Vec{Z: 0.0208}, sunPos)
		d, l, b := astrometry.CartesianToSpherical(gc)
		obs, err := still.Observables([]float64{d}, []float64{l}, []float64{b})
		Expect(err).NotTo(HaveOccurred())

		tr := astrometry.NormalTriad(l, b)
		vp, vq, vr := tr.Project(r3.Scale(-1, still.SolarVelocity()))
		Expect(obs.VRad[0]).To(BeNumerically("~", vr, 1e-9))
		Expect(obs.PML[0]).To(BeNumerically("~", astrometry.ProperMotion(vp, d), 1e-9))
		Expect(obs.PMB[0]).To(BeNumerically("~", astrometry.ProperMotion(vq, d), 1e-9))
	})

	It("is idempotent", func() {
		d := []float64{0.5, 1, 2, 4}
		l := []float64{0.1, 1.7, 3.3, 5.9}
		b := []float64{0, 0.1, -0.2, 0.05}
		first, err := m.Observables(d, l, b)
		Expect(err).NotTo(HaveOccurred())
		second, err := m.Observables(d, l, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("does not let per-call overrides leak into the model", func() {
		d, l, b := []float64{1.5}, []float64{2.1}, []float64{0.3}
		before, err := m.Observables(d, l, b)
		Expect(err).NotTo(HaveOccurred())

		overridden, err := m.Observables(d, l, b,
			diskmodel.WithPeculiarVelocity(r3.Vec{X: -50}),
			diskmodel.WithSunPosition(r3.Vec{X: -7}),
			diskmodel.WithSolarCircularSpeed(180))
		Expect(err).NotTo(HaveOccurred())
		Expect(overridden).NotTo(Equal(before))

		after, err := m.Observables(d, l, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(Equal(before))
		Expect(m.PeculiarVelocity()).To(Equal(sunPec))
		Expect(m.SunPosition()).To(Equal(sunPos))
		Expect(m.SolarCircularSpeed()).To(Equal(220.0))
	})

	It("does not modify caller slices", func() {
		d := []float64{1, 2}
		l := []float64{0.5, 1}
		b := []float64{0.1, 0.2}
		_, err := m.Observables(d, l, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal([]float64{1, 2}))
		Expect(l).To(Equal([]float64{0.5, 1}))
		Expect(b).To(Equal([]float64{0.1, 0.2}))
	})

	It("gives the same answer in bulk as star by star", func() {
		n := 3000
		d, l, b := make([]float64, n), make([]float64, n), make([]float64, n)
		for i := range d {
			d[i] = 0.1 + float64(i%37)*0.2
			l[i] = float64(i) * 2 * math.Pi / float64(n)
			b[i] = 0.4 * math.Sin(float64(i))
		}
		bulk, err := m.Observables(d, l, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(bulk.Len()).To(Equal(n))

		for _, i := range []int{0, 1, 255, 256, 1024, 2999} {
			one, err := m.Observables(d[i:i+1], l[i:i+1], b[i:i+1])
			Expect(err).NotTo(HaveOccurred())
			Expect(one.PML[0]).To(Equal(bulk.PML[i]))
			Expect(one.PMB[0]).To(Equal(bulk.PMB[i]))
			Expect(one.VRad[0]).To(Equal(bulk.VRad[i]))
		}
	})

	It("rejects mismatched batch lengths", func() {
		_, err := m.Observables([]float64{1, 2}, []float64{0}, []float64{0, 0})
		Expect(err).To(MatchError(diskmodel.ErrShapeMismatch))
	})

	It("propagates potential failures without partial results", func() {
		fm, err := diskmodel.New(failingPotential{mustFlat(220)}, sunPos, sunPec)
		Expect(err).NotTo(HaveOccurred())

		obs, err := fm.Observables([]float64{1, 10}, []float64{math.Pi / 2, 0}, []float64{0, 0})
		Expect(err).To(BeIdenticalTo(errBoom))
		Expect(obs).To(BeNil())
	})
})
