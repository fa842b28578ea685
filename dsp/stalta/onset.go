package stalta

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ClipFloor is the lower bound applied to 1+ratio before the logarithm.
const ClipFloor = 0.8

// MinOnset is the smallest value an onset function can take, log10(0.8).
var MinOnset = math.Log10(ClipFloor)

// ErrEmptyWaveform reports an input without channels or samples.
var ErrEmptyWaveform = errors.New("stalta: empty waveform")

// Window holds short and long window durations in seconds.
type Window struct {
	Short float64 `yaml:"sta"`
	Long  float64 `yaml:"lta"`
}

// Samples converts the window durations into sample counts at rate Hz as
// int(seconds*rate) + 1.
func (w Window) Samples(rate int) (nsta, nlta int) {
	return int(w.Short*float64(rate)) + 1, int(w.Long*float64(rate)) + 1
}

// Validate reports negative or non-finite durations.
func (w Window) Validate() error {
	for _, v := range [2]float64{w.Short, w.Long} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidWindow, w)
		}
	}

	return nil
}

// String formats the window as [sta, lta].
func (w Window) String() string {
	return fmt.Sprintf("[%g, %g]", w.Short, w.Long)
}

// LogClip maps an STA/LTA ratio in place to log10(max(1+ratio, ClipFloor)).
func LogClip(ratio []float64) {
	for i, r := range ratio {
		ratio[i] = math.Log10(math.Max(1+r, ClipFloor))
	}
}

// ChannelOnset returns the onset function of one trace. A trace whose
// samples sum to exactly zero yields an all-zero onset.
func ChannelOnset(a []float64, nsta, nlta int, mode Mode) ([]float64, error) {
	if nsta < 1 || nlta < 1 {
		return nil, fmt.Errorf("%w: nsta=%d nlta=%d", ErrInvalidWindow, nsta, nlta)
	}

	if floats.Sum(a) == 0 {
		return make([]float64, len(a)), nil
	}

	ratio, err := Ratio(mode, a, nsta, nlta)
	if err != nil {
		return nil, err
	}

	LogClip(ratio)

	return ratio, nil
}

// Onset computes the onset function of every row of w and returns a new
// matrix of the same shape. w is not modified.
func Onset(w mat.Matrix, nsta, nlta int, mode Mode) (*mat.Dense, error) {
	r, c := w.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyWaveform, r, c)
	}

	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)

	for i := range r {
		mat.Row(row, i, w)

		o, err := ChannelOnset(row, nsta, nlta, mode)
		if err != nil {
			return nil, err
		}

		out.SetRow(i, o)
	}

	return out, nil
}
