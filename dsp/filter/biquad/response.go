package biquad

import (
	"math"
	"math/cmplx"
)

// Response returns H(e^jw) of the section at freqHz for the given sample
// rate.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate) // z^-1
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return num / den
}

// MagnitudeSquared returns |H(f)|^2 in closed form, without complex
// arithmetic.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)

	num := (c.B0-c.B2)*(c.B0-c.B2) + c.B1*c.B1 + (c.B1*(c.B0+c.B2)+c.B0*c.B2*cw)*cw
	den := (1-c.A2)*(1-c.A2) + c.A1*c.A1 + (c.A1*(1+c.A2)+c.A2*cw)*cw

	return num / den
}

// MagnitudeDB returns the section magnitude in dB.
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Response returns the cascade response, the gain times the product of the
// section responses.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(c.gain, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freqHz, sampleRate)
	}

	return h
}

// MagnitudeDB returns the cascade magnitude in dB.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// GroupDelay estimates the group delay in samples at freqHz by a central
// difference of the unwrapped phase. A forward-backward application of the
// chain has zero group delay at every frequency.
func (c *Chain) GroupDelay(freqHz, sampleRate float64) float64 {
	const rel = 1e-4

	df := freqHz * rel
	if df == 0 {
		df = sampleRate * rel
	}

	dp := cmplx.Phase(c.Response(freqHz+df, sampleRate)) - cmplx.Phase(c.Response(freqHz-df, sampleRate))
	dp = math.Remainder(dp, 2*math.Pi)

	return -dp / (4 * math.Pi * df / sampleRate)
}

// ImpulseResponse returns the first n samples of the cascade impulse
// response. The running state is left as it was.
func (c *Chain) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	saved := c.State()
	defer c.SetState(saved)

	c.Reset()

	ir := make([]float64, n)
	ir[0] = 1
	c.ProcessBlock(ir)

	return ir
}
