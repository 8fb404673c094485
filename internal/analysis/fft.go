package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooFewSamples = errors.New("analysis: too few samples for requested harmonic")

// Harmonics returns coefficients such that, for samples taken at
// l_i = 2πi/N,
//
//	f(l) ≈ a[0] + Σ_{k=1..kmax} a[k] cos kl + b[k] sin kl
//
// b[0] is always zero.
func Harmonics(samples []float64, kmax int) (a, b []float64, err error) {
	n := len(samples)
	if kmax < 0 || 2*kmax >= n {
		return nil, nil, fmt.Errorf("%w: %d samples, harmonic %d", ErrTooFewSamples, n, kmax)
	}

	spectrum := fft.FFTReal(samples)
	a = make([]float64, kmax+1)
	b = make([]float64, kmax+1)
	norm := float64(n)

	a[0] = real(spectrum[0]) / norm
	for k := 1; k <= kmax; k++ {
		a[k] = 2 * real(spectrum[k]) / norm
		b[k] = -2 * imag(spectrum[k]) / norm
	}
	return a, b, nil
}

// PowerSpectrum returns |X_k| / N for k in [0, N/2).
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples)
	if n == 0 {
		return nil
	}
	spectrum := fft.FFTReal(samples)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i]) / float64(n)
	}
	return ps
}
