package onset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-onset/dsp/filter/bandpass"
	"github.com/cwbudde/algo-onset/dsp/stalta"
)

// Config holds the onset parameters. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// SamplingRate is the rate in Hz that input traces have been
	// resampled to.
	SamplingRate int `yaml:"sampling_rate"`

	PFilter bandpass.Spec `yaml:"p_bp_filter"`
	SFilter bandpass.Spec `yaml:"s_bp_filter"`

	PWindow stalta.Window `yaml:"p_onset_win"`
	SWindow stalta.Window `yaml:"s_onset_win"`

	Mode stalta.Mode `yaml:"mode"`

	// PrePadOverride replaces the pre-pad derived from the windows when
	// non-nil.
	PrePadOverride *float64 `yaml:"pre_pad,omitempty"`
}

// DefaultConfig returns the default parameters at samplingRate Hz.
func DefaultConfig(samplingRate int) Config {
	return Config{
		SamplingRate: samplingRate,
		PFilter:      bandpass.Spec{LowHz: 2, HighHz: 16, Order: 2},
		SFilter:      bandpass.Spec{LowHz: 2, HighHz: 12, Order: 2},
		PWindow:      stalta.Window{Short: 0.2, Long: 1.0},
		SWindow:      stalta.Window{Short: 0.2, Long: 1.0},
		Mode:         stalta.Classic,
	}
}

// Validate checks the configuration as a whole.
func (c Config) Validate() error {
	if c.SamplingRate <= 0 {
		return fmt.Errorf("%w: sampling rate %d must be > 0", ErrInvalidConfig, c.SamplingRate)
	}

	rate := float64(c.SamplingRate)
	if err := c.PFilter.Validate(rate); err != nil {
		return fmt.Errorf("P filter: %w", err)
	}

	if err := c.SFilter.Validate(rate); err != nil {
		return fmt.Errorf("S filter: %w", err)
	}

	if err := c.PWindow.Validate(); err != nil {
		return fmt.Errorf("P window: %w", err)
	}

	if err := c.SWindow.Validate(); err != nil {
		return fmt.Errorf("S window: %w", err)
	}

	if c.Mode != stalta.Classic && c.Mode != stalta.Centred {
		return fmt.Errorf("%w: mode %v", ErrInvalidConfig, c.Mode)
	}

	if c.PrePadOverride != nil && !(*c.PrePadOverride >= 0) {
		return fmt.Errorf("%w: pre_pad %v must be >= 0", ErrInvalidConfig, *c.PrePadOverride)
	}

	return nil
}

// ReadConfig decodes a YAML document over DefaultConfig(0) and validates
// the result. Unknown keys are rejected.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig(0)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParseConfig is ReadConfig over a byte slice.
func ParseConfig(data []byte) (Config, error) {
	return ReadConfig(bytes.NewReader(data))
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
