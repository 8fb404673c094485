package astrometry

import "math"

// AUKmYearPerSec is one astronomical unit per Julian year expressed in km/s.
// A transverse speed of AUKmYearPerSec at 1 kpc corresponds to 1 mas/yr.
const AUKmYearPerSec = 149597870.7 / (365.25 * 86400.0)

// PcPerKpc converts catalogue distances in parsec to kpc.
const PcPerKpc = 1000.0

func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180.0 }

func Rad2Deg(rad float64) float64 { return rad * 180.0 / math.Pi }

func PcToKpc(pc float64) float64 { return pc / PcPerKpc }

// Degrees converts a slice of angles in degrees to a new slice in radians.
func Degrees(deg []float64) []float64 {
	out := make([]float64, len(deg))
	for i, d := range deg {
		out[i] = Deg2Rad(d)
	}
	return out
}
