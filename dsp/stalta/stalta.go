package stalta

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidWindow reports a window shorter than one sample or a negative
// window duration.
var ErrInvalidWindow = errors.New("stalta: invalid window")

// Mode selects the window alignment.
type Mode int

const (
	// Classic ends both windows at the output sample.
	Classic Mode = iota
	// Centred ends the long window at the output sample and starts the
	// short window right after it.
	Centred
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case Centred:
		return "centred"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts "classic" or "centred" into a Mode. An empty string
// selects Classic.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "classic", "":
		return Classic, nil
	case "centred", "centered":
		return Centred, nil
	default:
		return Classic, fmt.Errorf("stalta: unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Classic && m != Centred {
		return nil, fmt.Errorf("stalta: unknown mode %d", int(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = v

	return nil
}

// tiny is the smallest positive normal float64. Long-term averages below it
// are treated as silence.
const tiny = 0x1p-1022

// Ratio computes the STA/LTA ratio of a in the given mode.
func Ratio(mode Mode, a []float64, nsta, nlta int) ([]float64, error) {
	if nsta < 1 || nlta < 1 {
		return nil, fmt.Errorf("%w: nsta=%d nlta=%d", ErrInvalidWindow, nsta, nlta)
	}

	switch mode {
	case Classic:
		return ClassicRatio(a, nsta, nlta), nil
	case Centred:
		return CentredRatio(a, nsta, nlta), nil
	default:
		return nil, fmt.Errorf("stalta: unknown mode %d", int(mode))
	}
}

// ClassicRatio returns the trailing-window STA/LTA of a. The STA at sample i
// averages a^2 over [i-nsta+1, i] and the LTA over [i-nlta+1, i]. The first
// nlta-1 samples are zero. nsta and nlta must be at least 1.
func ClassicRatio(a []float64, nsta, nlta int) []float64 {
	n := len(a)
	csum := cumulativeEnergy(a)

	sta := make([]float64, n)
	lta := make([]float64, n)

	for i := range n {
		sta[i] = windowSum(csum, i, nsta) / float64(nsta)
		lta[i] = windowSum(csum, i, nlta) / float64(nlta)
	}

	clear(sta[:min(nlta-1, n)])

	return divide(sta, lta)
}

// CentredRatio returns the STA/LTA of a with the short window following the
// long window. The value at sample i is the mean of a^2 over
// [i+1, i+nsta] divided by the mean over [i-nlta+1, i]. The first nlta-1 and
// the last nsta samples are zero. nsta and nlta must be at least 1.
func CentredRatio(a []float64, nsta, nlta int) []float64 {
	n := len(a)
	csum := cumulativeEnergy(a)

	trailing := make([]float64, n)
	lta := make([]float64, n)

	for i := range n {
		trailing[i] = windowSum(csum, i, nsta)
		lta[i] = windowSum(csum, i, nlta) / float64(nlta)
	}

	// Shift the short window nsta samples earlier. Samples outside
	// [nsta, n-nsta) keep the trailing sum and are cleared below where they
	// lack history or lookahead.
	sta := make([]float64, n)
	copy(sta, trailing)

	for i := nsta; i < n-nsta; i++ {
		sta[i] = trailing[i+nsta]
	}

	floats.Scale(1/float64(nsta), sta)

	clear(sta[:min(nlta-1, n)])
	clear(sta[max(n-nsta, 0):])

	return divide(sta, lta)
}

// cumulativeEnergy returns csum[k] = sum(a[0..k]^2).
func cumulativeEnergy(a []float64) []float64 {
	if len(a) == 0 {
		return nil
	}

	sq := make([]float64, len(a))
	vecmath.MulBlock(sq, a, a)

	return floats.CumSum(sq, sq)
}

// windowSum returns the sum of the w samples ending at i, or of all samples
// up to i when fewer than w are available.
func windowSum(csum []float64, i, w int) float64 {
	if i >= w {
		return csum[i] - csum[i-w]
	}

	return csum[i]
}

// divide returns sta/lta element-wise. Where lta is below the smallest
// normal float64 the ratio is zero.
func divide(sta, lta []float64) []float64 {
	out := make([]float64, len(sta))

	for i := range sta {
		if lta[i] < tiny {
			continue
		}

		out[i] = sta[i] / lta[i]
	}

	return out
}
