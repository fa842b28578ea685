package band

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-onset/dsp/filter/biquad"
)

// ButterworthBandpass designs a digital Butterworth band-pass filter as a
// cascade of biquad sections.
//
// lowHz and highHz are the -3 dB corners and must satisfy
// 0 < lowHz < highHz < sampleRate/2. The corners are normalized as
// 2*f/sampleRate (Nyquist = 1) and pre-warped for the bilinear transform.
// order is the order of the low-pass prototype; the band-pass has 2*order
// poles and is returned as order sections, each with zeros at z = +1 and
// z = -1. The cascade has unity gain at the geometric band centre.
func ButterworthBandpass(lowHz, highHz, sampleRate float64, order int) ([]biquad.Coefficients, error) {
	w1, w2, err := bandpassParams(lowHz, highHz, sampleRate, order)
	if err != nil {
		return nil, err
	}

	// Analog band edges for a bilinear transform with T = 1.
	wa1 := 2 * math.Tan(w1/2)
	wa2 := 2 * math.Tan(w2/2)
	bw := wa2 - wa1
	w0sq := wa1 * wa2

	sections := make([]biquad.Coefficients, 0, order)

	// Upper-half-plane prototype poles; each maps to two conjugate pole
	// pairs in the band-pass.
	for k := range order / 2 {
		theta := math.Pi * float64(2*k+1) / float64(2*order)
		p := complex(-math.Sin(theta), math.Cos(theta))

		s1, s2 := lowpassToBandpass(p, bw, w0sq)
		for _, s := range [2]complex128{s1, s2} {
			z := bilinear(s)
			sections = append(sections, biquad.Coefficients{
				B0: 1,
				B2: -1,
				A1: -2 * real(z),
				A2: real(z)*real(z) + imag(z)*imag(z),
			})
		}
	}

	if order%2 != 0 {
		s1, s2 := lowpassToBandpass(-1, bw, w0sq)
		z1, z2 := bilinear(s1), bilinear(s2)
		sections = append(sections, biquad.Coefficients{
			B0: 1,
			B2: -1,
			A1: -real(z1 + z2),
			A2: real(z1 * z2),
		})
	}

	for i := range sections {
		if !sections[i].Stable() {
			return nil, ErrInvalidParams
		}
	}

	// Unity gain at the digital image of the analog centre frequency.
	wc := 2 * math.Atan(math.Sqrt(w0sq)/2)
	fc := wc / (2 * math.Pi)

	h := complex(1, 0)
	for i := range sections {
		h *= sections[i].Response(fc, 1)
	}

	mag := cmplx.Abs(h)
	if mag == 0 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return nil, ErrInvalidParams
	}

	g := math.Pow(1/mag, 1/float64(len(sections)))
	for i := range sections {
		sections[i].B0 *= g
		sections[i].B2 *= g
	}

	return sections, nil
}

// bandpassParams validates band-pass corners and converts them to
// rad/sample.
func bandpassParams(lowHz, highHz, sampleRate float64, order int) (float64, float64, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, 0, ErrInvalidParams
	}

	if !(lowHz > 0) || !(highHz > lowHz) || !(highHz < sampleRate/2) {
		return 0, 0, ErrInvalidParams
	}

	if order <= 0 {
		return 0, 0, ErrInvalidParams
	}

	wn1 := 2 * lowHz / sampleRate
	wn2 := 2 * highHz / sampleRate

	return math.Pi * wn1, math.Pi * wn2, nil
}

// lowpassToBandpass maps an analog low-pass prototype pole to the two
// band-pass poles solving s^2 - p*bw*s + w0^2 = 0.
func lowpassToBandpass(p complex128, bw, w0sq float64) (complex128, complex128) {
	pb := p * complex(bw, 0)
	d := cmplx.Sqrt(pb*pb - complex(4*w0sq, 0))

	return (pb + d) / 2, (pb - d) / 2
}

// bilinear maps an s-plane point to the z-plane with T = 1.
func bilinear(s complex128) complex128 {
	return (2 + s) / (2 - s)
}
