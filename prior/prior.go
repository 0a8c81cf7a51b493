package prior

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aouyang1/go-celebrimbor/calerrors"
	"github.com/aouyang1/go-celebrimbor/configs"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidShape      = fmt.Errorf("%w: beta shape parameters must be positive", calerrors.InvalidParameters)
	ErrInvalidBreakpoint = fmt.Errorf("%w: breakpoint must be strictly between 0 and 1", calerrors.InvalidParameters)
	ErrInvalidCount      = fmt.Errorf("%w: sample count must not be negative", calerrors.InvalidParameters)
	ErrUnknownKind       = fmt.Errorf("%w: unknown scenario kind", calerrors.InvalidParameters)
)

// Kind identifies one of the four latent frequency scenarios
type Kind int

const (
	Core Kind = iota
	NotCore
	Rare
	NotRare
)

// Kinds lists every scenario in a stable order
var Kinds = []Kind{Core, NotCore, Rare, NotRare}

func (k Kind) String() string {
	switch k {
	case Core:
		return "core"
	case NotCore:
		return "not-core"
	case Rare:
		return "rare"
	case NotRare:
		return "not-rare"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Breakpoint returns the cutoff the scenario is restricted by and whether samples are
// kept above it
func (k Kind) Breakpoint(b configs.Breakpoints) (float64, bool, error) {
	switch k {
	case Core:
		return b.High, true, nil
	case NotCore:
		return b.High, false, nil
	case Rare:
		return b.Low, false, nil
	case NotRare:
		return b.Low, true, nil
	}
	return 0, false, fmt.Errorf("%w, %d", ErrUnknownKind, int(k))
}

// Sample draws count latent frequencies from a Beta(alpha, beta) distribution truncated to
// one side of the breakpoint. Uniform draws over [cdf(breakpoint), 1) when keepUpper is
// set, otherwise over [0, cdf(breakpoint)), are mapped through the beta quantile function.
func Sample(alpha, beta float64, count int, breakpoint float64, keepUpper bool, rng *rand.Rand) ([]float64, error) {
	if !(alpha > 0) || !(beta > 0) {
		return nil, fmt.Errorf("%w, got alpha %g and beta %g", ErrInvalidShape, alpha, beta)
	}
	if math.IsNaN(breakpoint) || breakpoint <= 0 || breakpoint >= 1 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidBreakpoint, breakpoint)
	}
	if count < 0 {
		return nil, ErrInvalidCount
	}

	b := distuv.Beta{Alpha: alpha, Beta: beta}
	c := b.CDF(breakpoint)

	lb, ub := 0.0, c
	if keepUpper {
		lb, ub = c, 1.0
	}

	samples := make([]float64, count)
	for i := range samples {
		samples[i] = b.Quantile(lb + (ub-lb)*rng.Float64())
	}
	return samples, nil
}

// SampleKind draws the prior sample set of the given scenario
func SampleKind(k Kind, cfg *configs.CalibrationConfigs, rng *rand.Rand) ([]float64, error) {
	brk, keepUpper, err := k.Breakpoint(cfg.Breaks)
	if err != nil {
		return nil, err
	}
	samples, err := Sample(cfg.Alpha, cfg.Beta, cfg.NumSamples, brk, keepUpper, rng)
	if err != nil {
		return nil, fmt.Errorf("%s prior: %w", k, err)
	}
	return samples, nil
}
