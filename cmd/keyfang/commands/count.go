// Package commands implements CLI command handlers for keyfang.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/keyfang/internal/config"
	"github.com/Sumatoshi-tech/keyfang/internal/keyspace"
	"github.com/Sumatoshi-tech/keyfang/internal/observability"
	"github.com/Sumatoshi-tech/keyfang/internal/pathcount"
)

const (
	algoDFS   = "dfs"
	algoPaths = "paths"
)

// ErrUnknownAlgo is returned when --algo names an unsupported counting algorithm.
var ErrUnknownAlgo = errors.New("unknown algorithm (supported: dfs, paths)")

// ErrSamplingNeedsDFS is returned when sampling is requested together with
// the paths algorithm, which counts without enumerating.
var ErrSamplingNeedsDFS = errors.New("sampling requires --algo dfs")

// CountCommand holds configuration for the count command.
type CountCommand struct {
	configPath string

	positions  int
	depths     int
	macs       int
	sampleSize int
	workers    int
	seed       uint64

	algo        string
	format      string
	metricsAddr string
	noColor     bool
	verbose     bool
}

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	cc := &CountCommand{}

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count legal key bittings, optionally drawing a uniform sample",
		Long: `Count enumerates every key bitting that satisfies the EN 1303 structural
rules (depth frequency bound, no three consecutive identical cuts) and the
MACS adjacent-cut tolerance, reports the exact count, and can draw a
uniform random sample of the legal population without storing it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cc.run(cmd.Context(), cmd.OutOrStdout(), cmd.Flags())
		},
	}

	cmd.Flags().StringVarP(&cc.configPath, "config", "c", "", "config file path")
	cmd.Flags().IntVarP(&cc.positions, "positions", "n", config.DefaultPositions, "number of cut positions per key")
	cmd.Flags().IntVarP(&cc.depths, "depths", "k", config.DefaultDepths, "number of cut depths")
	cmd.Flags().IntVarP(&cc.macs, "macs", "m", config.DefaultMACS, "maximum adjacent cut difference")
	cmd.Flags().IntVarP(&cc.sampleSize, "sample-size", "s", config.DefaultSampleSize, "uniform sample size (0 disables sampling)")
	cmd.Flags().IntVarP(&cc.workers, "workers", "w", config.DefaultWorkers, "concurrent partitions (0 = one per first cut)")
	cmd.Flags().Uint64Var(&cc.seed, "seed", config.DefaultSeed, "base sampling seed")
	cmd.Flags().StringVar(&cc.algo, "algo", algoDFS, "counting algorithm: dfs or paths")
	cmd.Flags().StringVarP(&cc.format, "format", "f", "text", "output format: text, table, or json")
	cmd.Flags().StringVar(&cc.metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address during the search")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&cc.verbose, "verbose", "v", false, "verbose diagnostics on stderr")

	return cmd
}

// run executes the count: config resolution, the search or DP count, and
// report rendering.
func (cc *CountCommand) run(ctx context.Context, w io.Writer, flags *pflag.FlagSet) error {
	cfg, err := cc.resolveConfig(flags)
	if err != nil {
		return err
	}

	if cc.noColor {
		color.NoColor = true
	}

	logger := cc.logger()

	report := Report{
		Positions: cfg.Positions,
		Depths:    cfg.Depths,
		MACS:      cfg.MACS,
	}

	switch cc.algo {
	case algoPaths:
		if cfg.SampleSize > 0 {
			return ErrSamplingNeedsDFS
		}

		report.Legal, err = pathcount.Count(cfg.Spec())
		if err != nil {
			return err
		}
	case algoDFS:
		result, runErr := cc.enumerate(ctx, cfg, logger)
		if runErr != nil {
			return runErr
		}

		report.Legal = result.Legal
		if cfg.SampleSize > 0 {
			report.Samples = result.Samples
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgo, cc.algo)
	}

	return report.Render(w, cc.format)
}

// enumerate runs the partitioned DFS, serving metrics while it runs when
// requested.
func (cc *CountCommand) enumerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*keyspace.Result, error) {
	params := keyspace.Params{
		Spec:       cfg.Spec(),
		SampleSize: cfg.SampleSize,
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
	}

	if cfg.MetricsAddr != "" {
		metrics := observability.NewSearchMetrics()
		params.Observer = metrics

		server, err := observability.StartMetricsServer(cfg.MetricsAddr, metrics.Handler(), logger)
		if err != nil {
			return nil, err
		}

		defer func() {
			closeErr := server.Close()
			if closeErr != nil {
				logger.Warn("metrics server close", "error", closeErr)
			}
		}()
	}

	result, err := keyspace.Enumerate(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, p := range result.Partitions {
		logger.Debug("partition done",
			"first_cut", p.FirstCut,
			"legal", p.Legal,
			"visited", p.Visited,
			"offered", p.Seen,
		)
	}

	logger.Debug("search complete", "legal", result.Legal.String(), "elapsed", result.Elapsed)

	return result, nil
}

// resolveConfig loads the layered config and applies explicit flag
// overrides on top.
func (cc *CountCommand) resolveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig(cc.configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("positions") {
		cfg.Positions = cc.positions
	}

	if flags.Changed("depths") {
		cfg.Depths = cc.depths
	}

	if flags.Changed("macs") {
		cfg.MACS = cc.macs
	}

	if flags.Changed("sample-size") {
		cfg.SampleSize = cc.sampleSize
	}

	if flags.Changed("workers") {
		cfg.Workers = cc.workers
	}

	if flags.Changed("seed") {
		cfg.Seed = cc.seed
	}

	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = cc.metricsAddr
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// logger returns a stderr text logger at debug level when verbose,
// warn level otherwise.
func (cc *CountCommand) logger() *slog.Logger {
	level := slog.LevelWarn
	if cc.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
