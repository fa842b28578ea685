// Package window provides taper windows applied to seismic traces before
// filtering.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultTaperFraction is the total fraction of a trace tapered before
// band-pass filtering, split evenly between both ends.
const DefaultTaperFraction = 0.1

// CosineTaper returns a split cosine taper of the given length.
//
// fraction is the total tapered fraction of the trace; each end receives
// int(size*fraction/2 + 0.5) samples rising from 0 to 1 along a half cosine
// (fractions of exactly 0 or 1 truncate instead of rounding). The interior is
// flat at 1. This is the half-cosine taper used by common seismology
// toolkits, so filtered output matches their edge behaviour.
func CosineTaper(size int, fraction float64) ([]float64, error) {
	if err := validateFraction(size, fraction); err != nil {
		return nil, err
	}

	var frac int
	if fraction == 0 || fraction == 1 {
		frac = int(float64(size) * fraction / 2)
	} else {
		frac = int(float64(size)*fraction/2 + 0.5)
	}

	idx1 := 0
	idx2 := frac - 1
	idx3 := size - frac
	idx4 := size - 1

	// Very short traces collapse the ramps to a single index.
	if idx1 == idx2 {
		idx2++
	}
	if idx3 == idx4 {
		idx3--
	}

	out := make([]float64, size)

	for i := max(idx1, 0); i <= idx2 && i < size; i++ {
		out[i] = 0.5 * (1 - math.Cos(math.Pi*float64(i-idx1)/float64(idx2-idx1)))
	}

	for i := max(idx2+1, 0); i < idx3 && i < size; i++ {
		out[i] = 1
	}

	for i := max(idx3, 0); i <= idx4; i++ {
		out[i] = 0.5 * (1 + math.Cos(math.Pi*float64(idx3-i)/float64(idx4-idx3)))
	}

	return out, nil
}

// ApplyCosineTaper multiplies buf in-place by CosineTaper(len(buf), fraction).
func ApplyCosineTaper(buf []float64, fraction float64) error {
	coeffs, err := CosineTaper(len(buf), fraction)
	if err != nil {
		return err
	}

	return ApplyCoefficientsInPlace(buf, coeffs)
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}
