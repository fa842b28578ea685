package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced DF-II-T with B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04
	// and an impulse input.
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("n=%d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlock_MatchesProcessSample(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: -0.1, B2: 0.05, A1: -0.6, A2: 0.2}
	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, 0.1}

	ref := NewSection(c)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	blk := NewSection(c)
	buf := append([]float64(nil), input...)
	blk.ProcessBlock(buf)

	to := NewSection(c)
	dst := make([]float64, len(input))
	to.ProcessBlockTo(dst, input)

	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("ProcessBlock[%d] = %v, want %v", i, buf[i], want[i])
		}
		if dst[i] != want[i] {
			t.Fatalf("ProcessBlockTo[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
	if blk.State() != ref.State() {
		t.Fatalf("state mismatch: %v vs %v", blk.State(), ref.State())
	}
}

func TestSectionResetAndState(t *testing.T) {
	s := NewSection(Coefficients{B0: 1, B1: 1, A1: -0.5})
	s.ProcessSample(1)
	saved := s.State()
	if saved == [2]float64{} {
		t.Fatal("expected non-zero state after processing")
	}

	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("state after Reset = %v", s.State())
	}

	s.SetState(saved)
	if s.State() != saved {
		t.Fatalf("SetState: got %v, want %v", s.State(), saved)
	}
}

func TestStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"passthrough", Coefficients{B0: 1}, true},
		{"damped", Coefficients{B0: 1, A1: -0.5, A2: 0.25}, true},
		{"pole on circle", Coefficients{B0: 1, A2: 1}, false},
		{"pole outside", Coefficients{B0: 1, A1: -2.5, A2: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Stable(); got != tt.want {
				t.Fatalf("Stable() = %v, want %v (poles %v)", got, tt.want, tt.c.Poles())
			}
		})
	}
}
