package onset

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-onset/dsp/filter/bandpass"
	"github.com/cwbudde/algo-onset/dsp/stalta"
)

// STALTA computes P and S onset functions with band-pass filtering followed
// by a log STA/LTA transform. Configuration fields may be changed between
// runs. An STALTA is not safe for concurrent use because it keeps the
// filtered traces of the last run.
type STALTA struct {
	Config

	logger *zap.Logger

	filtZ *mat.Dense
	filtE *mat.Dense
	filtN *mat.Dense
}

// Option configures an STALTA.
type Option func(*STALTA)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *STALTA) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithMode selects the STA/LTA variant.
func WithMode(m stalta.Mode) Option {
	return func(o *STALTA) { o.Mode = m }
}

// WithFilters replaces the P and S band-pass specifications.
func WithFilters(p, s bandpass.Spec) Option {
	return func(o *STALTA) {
		o.PFilter = p
		o.SFilter = s
	}
}

// WithWindows replaces the P and S STA/LTA windows.
func WithWindows(p, s stalta.Window) Option {
	return func(o *STALTA) {
		o.PWindow = p
		o.SWindow = s
	}
}

// New returns a classic STA/LTA onset generator with default parameters
// for data sampled at samplingRate Hz.
func New(samplingRate int, opts ...Option) *STALTA {
	return newSTALTA(DefaultConfig(samplingRate), opts)
}

// NewCentred is New with the centred STA/LTA variant.
func NewCentred(samplingRate int, opts ...Option) *STALTA {
	return New(samplingRate, append([]Option{WithMode(stalta.Centred)}, opts...)...)
}

// NewFromConfig validates cfg and returns a generator using it.
func NewFromConfig(cfg Config, opts ...Option) (*STALTA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newSTALTA(cfg, opts), nil
}

func newSTALTA(cfg Config, opts []Option) *STALTA {
	o := &STALTA{
		Config: cfg,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// PrePad returns the seconds of data needed before an analysis window: the
// longest LTA window plus three of the longest STA windows, or the value
// given to SetPrePad.
func (o *STALTA) PrePad() float64 {
	if o.PrePadOverride != nil {
		return *o.PrePadOverride
	}

	return math.Max(o.PWindow.Long, o.SWindow.Long) +
		3*math.Max(o.PWindow.Short, o.SWindow.Short)
}

// SetPrePad fixes the pre-pad to v seconds.
func (o *STALTA) SetPrePad(v float64) {
	o.PrePadOverride = &v
}

// ClearPrePad returns PrePad to the value derived from the windows.
func (o *STALTA) ClearPrePad() {
	o.PrePadOverride = nil
}

// PostPad returns the whole seconds of data needed after an analysis window
// given the maximum travel time ttmax to any grid node.
func (o *STALTA) PostPad(ttmax float64) float64 {
	return math.Ceil(ttmax + 2*math.Max(o.PWindow.Long, o.SWindow.Long))
}

// POnset returns the P onset function of the vertical component traces z,
// one row per station.
func (o *STALTA) POnset(z mat.Matrix) (*mat.Dense, error) {
	out, filtered, err := o.phaseOnset("P", z, o.PFilter, o.PWindow)
	if err != nil {
		return nil, fmt.Errorf("P onset: %w", err)
	}

	o.filtZ = filtered

	return out, nil
}

// SOnset returns the S onset function of the horizontal component traces e
// and n. The onsets of both components are combined by root mean square.
func (o *STALTA) SOnset(e, n mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(e, n); err != nil {
		return nil, fmt.Errorf("S onset: %w", err)
	}

	onsetE, filtE, err := o.phaseOnset("S", e, o.SFilter, o.SWindow)
	if err != nil {
		return nil, fmt.Errorf("S onset (E): %w", err)
	}

	onsetN, filtN, err := o.phaseOnset("S", n, o.SFilter, o.SWindow)
	if err != nil {
		return nil, fmt.Errorf("S onset (N): %w", err)
	}

	o.filtE, o.filtN = filtE, filtN

	return CombineRMS(onsetE, onsetN)
}

// CombineRMS returns sqrt((e^2 + n^2) / 2) element by element.
func CombineRMS(e, n mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(e, n); err != nil {
		return nil, err
	}

	r, c := e.Dims()
	out := mat.NewDense(r, c, nil)

	for i := range r {
		for j := range c {
			a, b := e.At(i, j), n.At(i, j)
			out.Set(i, j, math.Sqrt((float64(a*a)+float64(b*b))/2))
		}
	}

	return out, nil
}

// FilteredZ returns a copy of the vertical traces filtered by the last
// POnset call, or nil.
func (o *STALTA) FilteredZ() *mat.Dense { return copyOrNil(o.filtZ) }

// FilteredE returns a copy of the east traces filtered by the last SOnset
// call, or nil.
func (o *STALTA) FilteredE() *mat.Dense { return copyOrNil(o.filtE) }

// FilteredN returns a copy of the north traces filtered by the last SOnset
// call, or nil.
func (o *STALTA) FilteredN() *mat.Dense { return copyOrNil(o.filtN) }

// String summarises the configuration.
func (o *STALTA) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "\tOnset parameters - using the %s STA/LTA onset\n", o.Mode)
	fmt.Fprintf(&b, "\t\tData sampling rate = %d\n\n", o.SamplingRate)
	fmt.Fprintf(&b, "\t\tBandpass filter P  = %s\n", o.PFilter)
	fmt.Fprintf(&b, "\t\tBandpass filter S  = %s\n\n", o.SFilter)
	fmt.Fprintf(&b, "\t\tOnset P [STA, LTA] = %s\n", o.PWindow)
	fmt.Fprintf(&b, "\t\tOnset S [STA, LTA] = %s\n", o.SWindow)

	return b.String()
}

// phaseOnset filters every row of w and returns the onset and the filtered
// traces. Rows whose raw samples sum to exactly zero are left at zero in
// both.
func (o *STALTA) phaseOnset(phase string, w mat.Matrix, spec bandpass.Spec, win stalta.Window) (onset, filtered *mat.Dense, err error) {
	if o.SamplingRate <= 0 {
		return nil, nil, fmt.Errorf("%w: sampling rate %d must be > 0", ErrInvalidConfig, o.SamplingRate)
	}

	r, c := w.Dims()
	if r == 0 || c == 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrEmptyWaveform, r, c)
	}

	if err := win.Validate(); err != nil {
		return nil, nil, err
	}

	f, err := bandpass.New(float64(o.SamplingRate), spec)
	if err != nil {
		return nil, nil, err
	}

	nsta, nlta := win.Samples(o.SamplingRate)

	onset = mat.NewDense(r, c, nil)
	filtered = mat.NewDense(r, c, nil)
	row := make([]float64, c)

	for i := range r {
		mat.Row(row, i, w)

		if floats.Sum(row) == 0 {
			o.logger.Debug("skipping silent channel",
				zap.String("phase", phase),
				zap.Int("channel", i))

			continue
		}

		fr, err := f.ApplyChannel(row)
		if err != nil {
			return nil, nil, err
		}

		or, err := stalta.ChannelOnset(fr, nsta, nlta, o.Mode)
		if err != nil {
			return nil, nil, err
		}

		filtered.SetRow(i, fr)
		onset.SetRow(i, or)
	}

	o.logger.Debug("onset computed",
		zap.String("phase", phase),
		zap.Int("channels", r),
		zap.Int("samples", c),
		zap.Stringer("mode", o.Mode),
		zap.Stringer("filter", spec),
		zap.Int("nsta", nsta),
		zap.Int("nlta", nlta))

	return onset, filtered, nil
}

func sameShape(a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()

	if ar != br || ac != bc {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}

	return nil
}

func copyOrNil(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}

	return mat.DenseCopyOf(m)
}
