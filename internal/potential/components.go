package potential

import "math"

// Hernquist is Φ = -GM / (r + c).
type Hernquist struct {
	Label string
	M     float64
	C     float64
}

func (h *Hernquist) Name() string { return h.Label }

func (h *Hernquist) VcircSquared(R, z float64) float64 {
	r := math.Hypot(R, z)
	if r == 0 {
		return 0
	}
	return G * h.M * R * R / (r * (r + h.C) * (r + h.C))
}

// MiyamotoNagai is Φ = -GM / sqrt(R² + (a + sqrt(z² + b²))²).
type MiyamotoNagai struct {
	Label string
	M     float64
	A     float64
	B     float64
}

func (mn *MiyamotoNagai) Name() string { return mn.Label }

func (mn *MiyamotoNagai) VcircSquared(R, z float64) float64 {
	s := mn.A + math.Sqrt(z*z+mn.B*mn.B)
	d := R*R + s*s
	return G * mn.M * R * R / (d * math.Sqrt(d))
}

// NFW is Φ = -GM ln(1 + r/rs) / r with M the scale mass.
type NFW struct {
	Label string
	M     float64
	Rs    float64
}

func (n *NFW) Name() string { return n.Label }

func (n *NFW) VcircSquared(R, z float64) float64 {
	r := math.Hypot(R, z)
	if r == 0 {
		return 0
	}
	dPhidr := G * n.M * (math.Log1p(r/n.Rs)/(r*r) - 1/(r*(n.Rs+r)))
	return R * R / r * dPhidr
}
