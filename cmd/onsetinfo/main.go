// Command onsetinfo prints the parameters of an STA/LTA onset generator,
// the data padding it needs, the effective response of its band-pass
// filters and, optionally, the onset of a synthetic event.
//
// Usage:
//
//	onsetinfo [flags]
//
// Examples:
//
//	onsetinfo -rate 100
//	onsetinfo -rate 50 -centred -ttmax 30
//	onsetinfo -config onset.yaml -demo
//	onsetinfo -rate 100 -dump-config > onset.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-onset/dsp/filter/bandpass"
	"github.com/cwbudde/algo-onset/dsp/stalta"
	"github.com/cwbudde/algo-onset/onset"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("onsetinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	rate := fs.Int("rate", 100, "sampling rate in Hz (ignored with -config)")
	centred := fs.Bool("centred", false, "use the centred STA/LTA")
	ttmax := fs.Float64("ttmax", 10, "maximum travel time in seconds for the post-pad")
	demo := fs.Bool("demo", false, "run the onset on a synthetic three-component event")
	dump := fs.Bool("dump-config", false, "print the effective configuration as YAML and exit")
	level := fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: onsetinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints onset parameters, padding and filter response.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(*level, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := onset.DefaultConfig(*rate)
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return err
		}
		cfg, err = onset.ReadConfig(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", *configPath, err)
		}
		logger.Info("loaded configuration", zap.String("path", *configPath))
	}
	if *centred {
		cfg.Mode = stalta.Centred
	}

	o, err := onset.NewFromConfig(cfg, onset.WithLogger(logger))
	if err != nil {
		return err
	}

	if *dump {
		data, err := o.Config.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	fmt.Fprintln(stdout, o)
	printPads(stdout, o, *ttmax)

	if err := printResponse(stdout, o); err != nil {
		return err
	}

	if *demo {
		return printDemo(stdout, o)
	}

	return nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)

	return zap.New(core), nil
}

func printPads(w io.Writer, o *onset.STALTA, ttmax float64) {
	nstaP, nltaP := o.PWindow.Samples(o.SamplingRate)
	nstaS, nltaS := o.SWindow.Samples(o.SamplingRate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Quantity\tValue\n")
	fmt.Fprintf(tw, "--------\t-----\n")
	fmt.Fprintf(tw, "P window samples [STA, LTA]\t[%d, %d]\n", nstaP, nltaP)
	fmt.Fprintf(tw, "S window samples [STA, LTA]\t[%d, %d]\n", nstaS, nltaS)
	fmt.Fprintf(tw, "Pre-pad (s)\t%.3f\n", o.PrePad())
	fmt.Fprintf(tw, "Post-pad for ttmax=%g s (s)\t%.0f\n", ttmax, o.PostPad(ttmax))
	tw.Flush()
	fmt.Fprintln(w)
}

func printResponse(w io.Writer, o *onset.STALTA) error {
	rate := float64(o.SamplingRate)

	p, err := bandpass.New(rate, o.PFilter)
	if err != nil {
		return fmt.Errorf("P filter: %w", err)
	}
	s, err := bandpass.New(rate, o.SFilter)
	if err != nil {
		return fmt.Errorf("S filter: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Freq (Hz)\tP two-pass (dB)\tS two-pass (dB)\t\n")
	for _, f := range responseFrequencies(o) {
		fmt.Fprintf(tw, "%.2f\t%.2f\t%.2f\t\n", f, p.MagnitudeDB(f), s.MagnitudeDB(f))
	}
	tw.Flush()
	fmt.Fprintln(w)

	return nil
}

// responseFrequencies returns the filter corners plus a few octaves around
// them, limited to below Nyquist.
func responseFrequencies(o *onset.STALTA) []float64 {
	nyquist := float64(o.SamplingRate) / 2
	cand := []float64{
		o.PFilter.LowHz / 4, o.PFilter.LowHz / 2, o.PFilter.LowHz,
		math.Sqrt(o.PFilter.LowHz * o.PFilter.HighHz),
		o.SFilter.HighHz, o.PFilter.HighHz, 2 * o.PFilter.HighHz,
	}

	out := cand[:0]
	for _, f := range cand {
		if f > 0 && f < nyquist {
			out = append(out, f)
		}
	}

	return out
}

// printDemo builds a 60 s event with a P arrival at 20 s on the vertical
// and an S arrival at 30 s on the horizontals, then reports where each
// onset peaks.
func printDemo(w io.Writer, o *onset.STALTA) error {
	rate := float64(o.SamplingRate)
	n := int(60 * rate)
	rng := rand.New(rand.NewSource(1))

	z := synthetic(rng, n, int(20*rate), 8, rate, 1.0)
	e := synthetic(rng, n, int(30*rate), 4, rate, 1.5)
	nn := synthetic(rng, n, int(30*rate), 5, rate, 1.2)

	pOnset, err := o.POnset(z)
	if err != nil {
		return err
	}
	sOnset, err := o.SOnset(e, nn)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Phase\tArrival (s)\tPeak (s)\tPeak onset\n")
	fmt.Fprintf(tw, "-----\t-----------\t--------\t----------\n")
	for _, row := range []struct {
		phase   string
		arrival float64
		onset   *mat.Dense
	}{
		{"P", 20, pOnset},
		{"S", 30, sOnset},
	} {
		data := row.onset.RawRowView(0)
		peak := floats.MaxIdx(data)
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.3f\n", row.phase, row.arrival, float64(peak)/rate, data[peak])
	}
	tw.Flush()

	return nil
}

func synthetic(rng *rand.Rand, n, arrival int, freqHz, rate, amplitude float64) *mat.Dense {
	data := make([]float64, n)
	for i := range data {
		data[i] = 0.02 * (2*rng.Float64() - 1)
	}

	decay := rate / 2
	for i := arrival; i < n; i++ {
		k := float64(i - arrival)
		data[i] += amplitude * math.Exp(-k/decay) * math.Sin(2*math.Pi*freqHz*k/rate)
	}

	return mat.NewDense(1, n, data)
}
