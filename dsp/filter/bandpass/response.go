package bandpass

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-onset/dsp/filter/biquad"
)

// MagnitudeDB returns the effective magnitude response of the two-pass
// filter at freqHz in dB. It is twice the single-pass response.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return 2 * biquad.NewChain(f.sections).MagnitudeDB(freqHz, f.sampleRate)
}

// ZeroPhaseMagnitude measures the linear magnitude spectrum of the two-pass
// filter from its impulse response. n is rounded up to a power of two; the
// result holds bins 0..n/2, bin k lying at k*SampleRate/n Hz.
//
// The impulse is placed mid-buffer without offset removal or tapering, so
// the result describes the filter alone.
func (f *Filter) ZeroPhaseMagnitude(n int) ([]float64, error) {
	if n <= 1 {
		return nil, fmt.Errorf("bandpass: spectrum size must be > 1: %d", n)
	}

	size := nextPow2(n)

	ir := make([]float64, size)
	ir[size/2] = 1
	f.twoPass(ir)

	in := make([]complex128, size)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("bandpass: fft plan: %w", err)
	}

	spec := make([]complex128, size)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("bandpass: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

func nextPow2(n int) int {
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
