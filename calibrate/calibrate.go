package calibrate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/aouyang1/go-celebrimbor/configs"
	"github.com/aouyang1/go-celebrimbor/ecdf"
	"github.com/aouyang1/go-celebrimbor/observe"
	"github.com/aouyang1/go-celebrimbor/prior"
	"github.com/aouyang1/go-celebrimbor/results"
	"github.com/aouyang1/go-celebrimbor/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Calibrator simulates how genes of known latent frequency would be observed across the
// genome collection and derives the count thresholds separating core and rare genes.
type Calibrator struct {
	Cfg *configs.CalibrationConfigs

	logger *zap.Logger
}

// Scenario is the paired prior and observed sample sets of one scenario
type Scenario struct {
	Kind     prior.Kind
	Priors   []float64
	Observed []int
}

// ObservedSets groups the observed sample sets the thresholds are calibrated from
type ObservedSets struct {
	Core    []int
	NotCore []int
	Rare    []int
	NotRare []int
}

// New returns a calibrator ready to run. A nil logger disables logging.
func New(cfg *configs.CalibrationConfigs, logger *zap.Logger) (*Calibrator, error) {
	if cfg == nil {
		cfg = configs.NewDefaultCalibrationConfigs()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calibrator{Cfg: cfg, logger: logger}, nil
}

// Run calibrates the core and rare thresholds for the completeness vector
func (c *Calibrator) Run(ctx context.Context, completeness []float64) (*results.Thresholds, error) {
	sim, err := observe.New(completeness)
	if err != nil {
		return nil, err
	}

	scenarios, err := c.Simulate(ctx, sim)
	if err != nil {
		return nil, err
	}

	sets := ObservedSets{
		Core:    scenarios[prior.Core].Observed,
		NotCore: scenarios[prior.NotCore].Observed,
		Rare:    scenarios[prior.Rare].Observed,
		NotRare: scenarios[prior.NotRare].Observed,
	}
	th, err := Calibrate(sets, sim.NumGenomes(), c.Cfg.ErrorBound)
	if err != nil {
		return nil, err
	}

	th.Stats = stats.New(completeness)
	for _, s := range scenarios {
		th.Stats.Scenarios = append(th.Stats.Scenarios, stats.NewScenario(s.Kind.String(), s.Priors, s.Observed))
	}

	c.logger.Info("calibrated thresholds",
		zap.Int("core", th.Core),
		zap.Int("rare", th.Rare),
		zap.Int("genomes", th.NumGenomes),
		zap.Float64("error_bound", th.ErrorBound))
	return th, nil
}

// Simulate draws the prior and observed sample sets of every scenario, indexed by kind. The
// scenarios run concurrently, each with its own generator seeded from the configured seed.
func (c *Calibrator) Simulate(ctx context.Context, sim *observe.Simulator) ([]Scenario, error) {
	seed := c.Cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c.logger.Debug("simulating scenarios",
		zap.Int64("seed", seed),
		zap.Int("samples", c.Cfg.NumSamples),
		zap.Int("genomes", sim.NumGenomes()))

	scenarios := make([]Scenario, len(prior.Kinds))
	g, ctx := errgroup.WithContext(ctx)
	for _, k := range prior.Kinds {
		g.Go(func() error {
			start := time.Now()
			rng := rand.New(rand.NewSource(seed + int64(k)))

			priors, err := prior.SampleKind(k, c.Cfg, rng)
			if err != nil {
				return err
			}
			observed, err := sim.ObserveAll(ctx, priors, rng)
			if err != nil {
				return fmt.Errorf("%s observations: %w", k, err)
			}

			// each goroutine owns a distinct index
			scenarios[k] = Scenario{Kind: k, Priors: priors, Observed: observed}
			c.logger.Debug("simulated scenario",
				zap.Stringer("scenario", k),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// Calibrate builds the misclassification curves of the observed sample sets over thresholds
// 0..n and selects, for both core and rare, the first threshold whose error rate exceeds the
// bound
func Calibrate(sets ObservedSets, n int, bound float64) (*results.Thresholds, error) {
	var curves results.Curves
	var err error
	curveSpecs := []struct {
		name     string
		observed []int
		cmp      ecdf.Comparator
		dst      *ecdf.Curve
	}{
		{"core", sets.Core, ecdf.Less, &curves.CoreAsNotCore},
		{"not-core", sets.NotCore, ecdf.GreaterEqual, &curves.NotCoreAsCore},
		{"rare", sets.Rare, ecdf.Greater, &curves.RareAsNotRare},
		{"not-rare", sets.NotRare, ecdf.LessEqual, &curves.NotRareAsRare},
	}
	for _, cs := range curveSpecs {
		*cs.dst, err = ecdf.New(cs.observed, n, cs.cmp)
		if err != nil {
			return nil, fmt.Errorf("%s curve: %w", cs.name, err)
		}
	}

	core, err := curves.CoreAsNotCore.FirstExceeding(bound)
	if err != nil {
		return nil, fmt.Errorf("core threshold from core scenario over %d genomes: %w", n, err)
	}
	rare, err := curves.NotRareAsRare.FirstExceeding(bound)
	if err != nil {
		return nil, fmt.Errorf("rare threshold from not-rare scenario over %d genomes: %w", n, err)
	}

	return &results.Thresholds{
		Core:       core,
		Rare:       rare,
		NumGenomes: n,
		ErrorBound: bound,
		Curves:     curves,
	}, nil
}
