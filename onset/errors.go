package onset

import (
	"errors"

	"github.com/cwbudde/algo-onset/dsp/filter/bandpass"
)

var (
	// ErrShapeMismatch reports channel arrays of differing shape passed
	// together.
	ErrShapeMismatch = errors.New("onset: shape mismatch")

	// ErrEmptyWaveform reports an input without channels or samples.
	ErrEmptyWaveform = errors.New("onset: empty waveform")

	// ErrInvalidConfig reports a configuration that cannot be used.
	ErrInvalidConfig = errors.New("onset: invalid configuration")

	// ErrInvalidFilterSpec is returned when a band-pass specification does
	// not fit the sampling rate.
	ErrInvalidFilterSpec = bandpass.ErrInvalidFilterSpec
)
