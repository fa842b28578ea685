package bandpass

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-onset/dsp/filter/biquad"
	"github.com/cwbudde/algo-onset/dsp/filter/design/band"
	"github.com/cwbudde/algo-onset/dsp/window"
)

var (
	// ErrInvalidFilterSpec reports corner frequencies outside (0, Nyquist),
	// a low corner not below the high corner, or a non-positive order.
	ErrInvalidFilterSpec = errors.New("bandpass: invalid filter specification")

	// ErrEmptyWaveform reports an input without channels or samples.
	ErrEmptyWaveform = errors.New("bandpass: empty waveform")
)

// Spec describes a Butterworth band-pass filter.
type Spec struct {
	LowHz  float64 `yaml:"low_hz"`
	HighHz float64 `yaml:"high_hz"`

	// Order is the order of the Butterworth prototype. Because the filter
	// is applied twice (backwards and forwards) the effective attenuation
	// slope is that of order 2*Order.
	Order int `yaml:"order"`
}

// Validate checks the corners and order against a sample rate.
func (s Spec) Validate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidFilterSpec, sampleRate)
	}

	if s.Order <= 0 {
		return fmt.Errorf("%w: order %d must be > 0", ErrInvalidFilterSpec, s.Order)
	}

	if !(s.LowHz > 0) {
		return fmt.Errorf("%w: low corner %v Hz must be > 0", ErrInvalidFilterSpec, s.LowHz)
	}

	if !(s.HighHz > s.LowHz) {
		return fmt.Errorf("%w: high corner %v Hz must exceed low corner %v Hz", ErrInvalidFilterSpec, s.HighHz, s.LowHz)
	}

	if nyquist := sampleRate / 2; !(s.HighHz < nyquist) {
		return fmt.Errorf("%w: high corner %v Hz must be below Nyquist %v Hz", ErrInvalidFilterSpec, s.HighHz, nyquist)
	}

	return nil
}

// String formats s as [low, high, order].
func (s Spec) String() string {
	return fmt.Sprintf("[%g, %g, %d]", s.LowHz, s.HighHz, s.Order)
}

type config struct {
	taperFraction float64
}

// Option configures a Filter.
type Option func(*config)

// WithTaperFraction sets the total fraction of each trace tapered before
// filtering. Values outside [0,1] are ignored. Default is
// window.DefaultTaperFraction.
func WithTaperFraction(f float64) Option {
	return func(c *config) {
		if f >= 0 && f <= 1 {
			c.taperFraction = f
		}
	}
}

// Filter is a designed zero-phase band-pass filter bound to a sample rate.
// It holds no signal state and may be shared between goroutines.
type Filter struct {
	spec          Spec
	sampleRate    float64
	sections      []biquad.Coefficients
	taperFraction float64
}

// New designs a band-pass filter for spec at sampleRate.
func New(sampleRate float64, spec Spec, opts ...Option) (*Filter, error) {
	if err := spec.Validate(sampleRate); err != nil {
		return nil, err
	}

	cfg := config{taperFraction: window.DefaultTaperFraction}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	sections, err := band.ButterworthBandpass(spec.LowHz, spec.HighHz, sampleRate, spec.Order)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %v Hz: %w", ErrInvalidFilterSpec, spec, sampleRate, err)
	}

	return &Filter{
		spec:          spec,
		sampleRate:    sampleRate,
		sections:      sections,
		taperFraction: cfg.taperFraction,
	}, nil
}

// Apply is a convenience wrapper for New followed by Filter.Apply.
func Apply(w mat.Matrix, sampleRate float64, spec Spec) (*mat.Dense, error) {
	f, err := New(sampleRate, spec)
	if err != nil {
		return nil, err
	}

	return f.Apply(w)
}

// Spec returns the filter specification.
func (f *Filter) Spec() Spec { return f.spec }

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Sections returns a copy of the biquad cascade for one pass.
func (f *Filter) Sections() []biquad.Coefficients {
	return slices.Clone(f.sections)
}

// Apply filters every row of w and returns a new matrix of the same shape.
// w is not modified.
func (f *Filter) Apply(w mat.Matrix) (*mat.Dense, error) {
	r, c := w.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyWaveform, r, c)
	}

	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)

	for i := range r {
		mat.Row(row, i, w)

		filtered, err := f.ApplyChannel(row)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}

		out.SetRow(i, filtered)
	}

	return out, nil
}

// ApplyChannel filters a single trace and returns the result in a new slice.
func (f *Filter) ApplyChannel(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyWaveform
	}

	out := slices.Clone(x)

	// Removing the first sample avoids a step at the start of the trace.
	floats.AddConst(-out[0], out)

	if err := window.ApplyCosineTaper(out, f.taperFraction); err != nil {
		return nil, err
	}

	f.twoPass(out)

	return out, nil
}

// twoPass runs the cascade over the reversed trace, restores the order and
// runs the cascade forwards. Each pass starts from zero state.
func (f *Filter) twoPass(buf []float64) {
	chain := biquad.NewChain(f.sections)

	slices.Reverse(buf)
	chain.ProcessBlock(buf)
	slices.Reverse(buf)

	chain.Reset()
	chain.ProcessBlock(buf)
}
