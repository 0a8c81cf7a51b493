package configs

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aouyang1/go-celebrimbor/calerrors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBreaks = "0.05,0.95"
)

var (
	ErrInvalidBreakpoint = fmt.Errorf("%w: breakpoints must be strictly between 0 and 1", calerrors.InvalidParameters)
	ErrEqualBreakpoints  = fmt.Errorf("%w: breakpoints must differ", calerrors.InvalidParameters)
	ErrInvalidBreaks     = fmt.Errorf("%w: breaks must be two comma separated values", calerrors.InvalidParameters)
	ErrInvalidErrorBound = fmt.Errorf("%w: error bound must be in (0, 1]", calerrors.InvalidParameters)
	ErrInvalidNumSamples = fmt.Errorf("%w: number of samples must be at least 1", calerrors.InvalidParameters)
	ErrInvalidShape      = fmt.Errorf("%w: beta shape parameters must be positive", calerrors.InvalidParameters)
)

// Breakpoints are the latent frequency cutoffs. Low separates rare candidates from the
// rest and High separates core candidates from the rest.
type Breakpoints struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// NewBreakpoints orders the two values so that the pair is independent of input order
func NewBreakpoints(a, b float64) Breakpoints {
	return Breakpoints{Low: math.Min(a, b), High: math.Max(a, b)}
}

// ParseBreakpoints reads a "x,y" string such as the default "0.05,0.95"
func ParseBreakpoints(s string) (Breakpoints, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Breakpoints{}, fmt.Errorf("%w, got %q", ErrInvalidBreaks, s)
	}
	vals := make([]float64, 0, 2)
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Breakpoints{}, fmt.Errorf("%w, got %q: %v", ErrInvalidBreaks, s, err)
		}
		vals = append(vals, v)
	}
	return NewBreakpoints(vals[0], vals[1]), nil
}

func (b Breakpoints) String() string {
	return fmt.Sprintf("%g,%g", b.Low, b.High)
}

// Validate returns an error if either breakpoint falls outside of (0, 1) or both are equal
func (b Breakpoints) Validate() error {
	for _, v := range []float64{b.Low, b.High} {
		if math.IsNaN(v) || v <= 0 || v >= 1 {
			return fmt.Errorf("%w, got %g", ErrInvalidBreakpoint, v)
		}
	}
	if b.Low == b.High {
		return ErrEqualBreakpoints
	}
	return nil
}

// CalibrationConfigs represents the set of parameters that drive threshold calibration
type CalibrationConfigs struct {
	Breaks     Breakpoints `yaml:"breaks"`
	ErrorBound float64     `yaml:"error"`       // tolerated misclassification probability
	NumSamples int         `yaml:"n_samples"`   // monte carlo draws per scenario
	Alpha      float64     `yaml:"beta_param1"` // first beta shape parameter of the latent frequency prior
	Beta       float64     `yaml:"beta_param2"` // second beta shape parameter of the latent frequency prior
	Seed       int64       `yaml:"seed"`        // 0 seeds from the clock
}

// NewDefaultCalibrationConfigs returns the default set of calibration parameters
func NewDefaultCalibrationConfigs() *CalibrationConfigs {
	return &CalibrationConfigs{
		Breaks:     Breakpoints{Low: 0.05, High: 0.95},
		ErrorBound: 0.05,
		NumSamples: 10000,
		Alpha:      0.1, // alpha = beta < 1 gives a u-shaped prior favoring frequencies near 0 or 1
		Beta:       0.1,
	}
}

// Load overlays the yaml file at path on top of the default configs
func Load(path string) (*CalibrationConfigs, error) {
	cfg := NewDefaultCalibrationConfigs()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Breaks = NewBreakpoints(cfg.Breaks.Low, cfg.Breaks.High)
	return cfg, nil
}

// Validate returns an error if any of the calibration configs are invalid
func (c *CalibrationConfigs) Validate() error {
	if err := c.Breaks.Validate(); err != nil {
		return err
	}

	if math.IsNaN(c.ErrorBound) || c.ErrorBound <= 0 || c.ErrorBound > 1 {
		return fmt.Errorf("%w, got %g", ErrInvalidErrorBound, c.ErrorBound)
	}

	if c.NumSamples < 1 {
		return ErrInvalidNumSamples
	}

	if !(c.Alpha > 0) || !(c.Beta > 0) {
		return fmt.Errorf("%w, got alpha %g and beta %g", ErrInvalidShape, c.Alpha, c.Beta)
	}

	return nil
}
