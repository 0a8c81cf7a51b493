package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aouyang1/go-celebrimbor/calerrors"
	"github.com/aouyang1/go-celebrimbor/calibrate"
	"github.com/aouyang1/go-celebrimbor/configs"
	"github.com/aouyang1/go-celebrimbor/labels"
	"github.com/aouyang1/go-celebrimbor/tsvio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultOutputFile = "celebrimbor_output.tsv"

type cliOptions struct {
	configPath         string
	outputFile         string
	curvesFile         string
	completenessColumn int
	breaks             string
	errorBound         float64
	numSamples         int
	alpha              float64
	beta               float64
	seed               int64
	strict             bool
	verbose            bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	defaults := configs.NewDefaultCalibrationConfigs()

	cmd := &cobra.Command{
		Use:   "celebrimbor [completeness] [matrix]",
		Short: "Label pangenome genes as core, middle or rare",
		Long: `Calibrates core and rare gene count thresholds by simulating how genes of known
frequency would be observed across genomes of the given assembly completeness, then
labels every gene of the count matrix.

The completeness table is whitespace delimited with a header line and percentages in
--completeness-column. The matrix has a header line, a gene name in the first column and
per-genome counts in the remaining columns.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			opts.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML file with calibration parameters, overridden by explicit flags")
	f.StringVar(&opts.outputFile, "output-file", defaultOutputFile, "TSV file to write gene labels to")
	f.StringVar(&opts.curvesFile, "curves", "", "optional TSV file to write the misclassification curves to")
	f.IntVar(&opts.completenessColumn, "completeness-column", 1, "1-based column of the completeness percentage")
	f.StringVar(&opts.breaks, "breaks", configs.DefaultBreaks, "latent frequency breakpoints for rare and core genes")
	f.Float64Var(&opts.errorBound, "error", defaults.ErrorBound, "tolerated misclassification probability")
	f.IntVar(&opts.numSamples, "n-samples", defaults.NumSamples, "monte carlo samples per scenario")
	f.Float64Var(&opts.alpha, "beta-param1", defaults.Alpha, "first shape parameter of the beta prior")
	f.Float64Var(&opts.beta, "beta-param2", defaults.Beta, "second shape parameter of the beta prior")
	f.Int64Var(&opts.seed, "seed", 0, "random seed, 0 seeds from the clock")
	f.BoolVar(&opts.strict, "strict", false, "fail when the rare threshold is not below the core threshold")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// calibrationConfigs resolves the config file and the explicitly set flags into one config
func calibrationConfigs(cmd *cobra.Command, opts *cliOptions) (*configs.CalibrationConfigs, error) {
	cfg := configs.NewDefaultCalibrationConfigs()
	if opts.configPath != "" {
		var err error
		if cfg, err = configs.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("breaks") || opts.configPath == "" {
		b, err := configs.ParseBreakpoints(opts.breaks)
		if err != nil {
			return nil, err
		}
		cfg.Breaks = b
	}
	if f.Changed("error") {
		cfg.ErrorBound = opts.errorBound
	}
	if f.Changed("n-samples") {
		cfg.NumSamples = opts.numSamples
	}
	if f.Changed("beta-param1") {
		cfg.Alpha = opts.alpha
	}
	if f.Changed("beta-param2") {
		cfg.Beta = opts.beta
	}
	if f.Changed("seed") {
		cfg.Seed = opts.seed
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *cliOptions, completenessPath, matrixPath string) error {
	logger := opts.logger
	start := time.Now()

	cfg, err := calibrationConfigs(cmd, opts)
	if err != nil {
		return err
	}

	completeness, err := tsvio.LoadCompleteness(completenessPath, opts.completenessColumn)
	if err != nil {
		return err
	}
	logger.Info("loaded completeness", zap.String("path", completenessPath), zap.Int("genomes", len(completeness)))

	table, err := tsvio.LoadCounts(matrixPath)
	if err != nil {
		return err
	}
	logger.Info("loaded counts", zap.String("path", matrixPath), zap.Int("genes", table.Size()))

	c, err := calibrate.New(cfg, logger)
	if err != nil {
		return err
	}
	th, err := c.Run(cmd.Context(), completeness)
	if err != nil {
		return err
	}
	logger.Debug("calibration statistics", zap.Any("stats", th.Stats), zap.Any("errors", th.Errors()))

	if err := th.Validate(); err != nil {
		if opts.strict {
			return err
		}
		logger.Warn("thresholds overlap, core takes precedence", zap.Error(err))
	}

	idx := labels.NewIndex(th.Core, th.Rare)
	idx.LabelAll(table.Genes())
	if err := tsvio.CreateAndWrite(opts.outputFile, func(w io.Writer) error {
		return tsvio.WriteLabels(w, table, idx)
	}); err != nil {
		return err
	}
	counts := idx.Counts()
	logger.Info("wrote labels",
		zap.String("path", opts.outputFile),
		zap.Uint64("core", counts[labels.Core]),
		zap.Uint64("middle", counts[labels.Middle]),
		zap.Uint64("rare", counts[labels.Rare]))

	if opts.curvesFile != "" {
		if err := tsvio.CreateAndWrite(opts.curvesFile, func(w io.Writer) error {
			return tsvio.WriteCurves(w, th.Curves)
		}); err != nil {
			return err
		}
		logger.Info("wrote curves", zap.String("path", opts.curvesFile))
	}

	for _, line := range th.Summary() {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		if errors.Is(err, calerrors.InvalidParameters) {
			code = 2
		}
		stop()
		os.Exit(code)
	}
}
