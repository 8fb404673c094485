// Package analysis extracts kinematic parameters from longitude sweeps.
//
// Observables sampled uniformly in galactic longitude are decomposed into
// Fourier harmonics:
//
//   - [Harmonics]: real Fourier coefficients of a periodic series
//   - [PowerSpectrum]: harmonic amplitudes for plotting
//   - [EstimateOort]: Oort constants from pml(l) and vrad(l)
//
// # Oort Constants
//
// For stars in the plane at small distance d, with k = AUKmYearPerSec,
//
//	pml(l)  = (A cos 2l + B) / k + reflex terms in l
//	vrad(l) = A d sin 2l         + reflex terms in l
//
// The solar reflex motion only contributes to the first harmonic, so the
// second harmonic and the mean isolate A and B.
package analysis
