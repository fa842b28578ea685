package band

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-onset/dsp/filter/biquad"
)

func bandpassMagnitude(sections []biquad.Coefficients, freq, sampleRate float64) float64 {
	h := complex(1, 0)
	for i := range sections {
		h *= sections[i].Response(freq, sampleRate)
	}

	return cmplx.Abs(h)
}

func TestButterworthBandpass_Corners(t *testing.T) {
	tests := []struct {
		low, high, sr float64
		order         int
	}{
		{2, 16, 100, 2},
		{2, 12, 100, 2},
		{1, 10, 50, 3},
		{0.5, 20, 200, 4},
		{5, 15, 100, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g-%gHz@%g/o%d", tt.low, tt.high, tt.sr, tt.order), func(t *testing.T) {
			sections, err := ButterworthBandpass(tt.low, tt.high, tt.sr, tt.order)
			if err != nil {
				t.Fatal(err)
			}
			if len(sections) != tt.order {
				t.Fatalf("sections = %d, want %d", len(sections), tt.order)
			}
			for i := range sections {
				if !sections[i].Stable() {
					t.Fatalf("section %d unstable: poles %v", i, sections[i].Poles())
				}
			}

			for _, f := range []float64{tt.low, tt.high} {
				got := bandpassMagnitude(sections, f, tt.sr)
				if math.Abs(got-1/math.Sqrt2) > 1e-9 {
					t.Errorf("|H(%g)| = %.12f, want %.12f", f, got, 1/math.Sqrt2)
				}
			}

			// Zeros at DC and Nyquist.
			if got := bandpassMagnitude(sections, 0, tt.sr); got > 1e-12 {
				t.Errorf("|H(0)| = %g, want 0", got)
			}
			if got := bandpassMagnitude(sections, tt.sr/2, tt.sr); got > 1e-9 {
				t.Errorf("|H(nyquist)| = %g, want 0", got)
			}
		})
	}
}

func TestButterworthBandpass_PassbandNeverExceedsUnity(t *testing.T) {
	sections, err := ButterworthBandpass(2, 16, 100, 2)
	if err != nil {
		t.Fatal(err)
	}

	for f := 0.1; f < 50; f += 0.1 {
		if got := bandpassMagnitude(sections, f, 100); got > 1+1e-9 {
			t.Fatalf("|H(%g)| = %v exceeds unity", f, got)
		}
	}
}

func TestButterworthBandpass_RolloffGrowsWithOrder(t *testing.T) {
	// Two octaves above the upper corner the attenuation of a Butterworth
	// band-pass grows with the prototype order.
	prev := math.Inf(1)
	for _, order := range []int{1, 2, 3, 4} {
		sections, err := ButterworthBandpass(1, 5, 100, order)
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		got := bandpassMagnitude(sections, 20, 100)
		if got >= prev {
			t.Fatalf("order %d: |H(20)| = %v, not below previous %v", order, got, prev)
		}
		prev = got
	}
}

func TestButterworthBandpass_InvalidParams(t *testing.T) {
	tests := []struct {
		name          string
		low, high, sr float64
		order         int
	}{
		{"zero low", 0, 10, 100, 2},
		{"negative low", -1, 10, 100, 2},
		{"low equals high", 10, 10, 100, 2},
		{"low above high", 12, 10, 100, 2},
		{"high at nyquist", 2, 50, 100, 2},
		{"high above nyquist", 2, 60, 100, 2},
		{"zero order", 2, 10, 100, 0},
		{"negative order", 2, 10, 100, -2},
		{"zero sample rate", 2, 10, 0, 2},
		{"nan corner", math.NaN(), 10, 100, 2},
		{"inf sample rate", 2, 10, math.Inf(1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ButterworthBandpass(tt.low, tt.high, tt.sr, tt.order)
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("err = %v, want ErrInvalidParams", err)
			}
		})
	}
}
