// Package main provides the sicsim CLI for running decentralized
// multi-player bandit simulations.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalnine/sicmmab/config"
	"github.com/signalnine/sicmmab/simulation"
	"github.com/signalnine/sicmmab/strategy"
	"github.com/signalnine/sicmmab/wire"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, envFile string

	root := &cobra.Command{
		Use:           "sicsim",
		Short:         "Simulate decentralized multi-player multi-armed bandits",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, toml, json)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load (default .env if present)")
	config.RegisterFlags(root.PersistentFlags())

	loadConfig := func(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
		if err := config.LoadEnvFile(envFile); err != nil {
			return config.Config{}, nil, err
		}
		v, err := config.NewViper(cmd.Flags(), configFile)
		if err != nil {
			return config.Config{}, nil, err
		}
		cfg, err := config.FromViper(v)
		if err != nil {
			return config.Config{}, nil, err
		}
		if err := cfg.Validate(); err != nil {
			return config.Config{}, nil, err
		}
		if cfg.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		logger, err := buildLogger(cfg)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, logger, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run a single simulation and print its regret",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				defer logger.Sync()
				return runSingle(cmd.OutOrStdout(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "batch",
			Short: "Run independent simulations in parallel and aggregate their regret",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				defer logger.Sync()

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return runBatch(ctx, cmd.OutOrStdout(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "sicsim %s (built %s)\n", Version, BuildTime)
			},
		},
	)
	return root
}

func buildLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Verbose {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func runSingle(out io.Writer, cfg config.Config, logger *zap.Logger) error {
	batch, err := cfg.Batch()
	if err != nil {
		return err
	}
	factory, err := strategy.NewFactory(batch.Kind, batch.Strategy, logger)
	if err != nil {
		return err
	}

	printBanner(out, cfg, batch)
	start := time.Now()
	sim, err := simulation.New(batch.Means, batch.Players, factory,
		rand.New(rand.NewSource(cfg.Seed)), simulation.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := sim.Simulate(batch.Horizon)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Final regret:    %.2f\n", res.FinalRegret())
	fmt.Fprintf(out, "Collisions:      %d\n", res.TotalCollisions())
	fmt.Fprintf(out, "Last plays:      %v\n", res.Plays[len(res.Plays)-1])
	fmt.Fprintf(out, "Time:            %s\n", formatDuration(time.Since(start)))

	if cfg.Output == "" {
		return nil
	}
	if err := simulation.SaveResult(cfg.Output, res); err != nil {
		return err
	}
	fmt.Fprintf(out, "Output:          %s\n", cfg.Output)
	return nil
}

func runBatch(ctx context.Context, out io.Writer, cfg config.Config, logger *zap.Logger) error {
	batch, err := cfg.Batch()
	if err != nil {
		return err
	}
	batch.Logger = logger
	seed := uint64(cfg.Seed)

	printBanner(out, cfg, batch)
	start := time.Now()
	stats, err := simulation.RunBatchParallel(ctx, batch, seed, cfg.Workers)
	if err != nil {
		return err
	}
	logger.Info("batch complete",
		zap.Int("runs", stats.Runs),
		zap.Int("errors", stats.Errors),
		zap.Duration("elapsed", time.Since(start)))

	printSummary(out, stats, time.Since(start))

	if cfg.Output == "" {
		return nil
	}
	switch cfg.Format {
	case config.FormatFlatBuffers:
		err = simulation.WriteFileAtomic(cfg.Output, wire.EncodeResult(seed, stats, nil))
	default:
		err = simulation.SaveReport(cfg.Output, simulation.NewReport(batch, seed, stats))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Output:          %s\n", cfg.Output)
	return nil
}

func printBanner(out io.Writer, cfg config.Config, batch simulation.BatchConfig) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "╔════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║           SIC-MMAB Multi-Player Bandit Simulator           ║")
	fmt.Fprintln(out, "╚════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration:\n")
	fmt.Fprintf(out, "  Strategy:       %s\n", batch.Kind)
	fmt.Fprintf(out, "  Arms:           %d\n", len(batch.Means))
	fmt.Fprintf(out, "  Players:        %d\n", batch.Players)
	fmt.Fprintf(out, "  Horizon:        %d\n", batch.Horizon)
	fmt.Fprintf(out, "  Runs:           %d\n", batch.Runs)
	fmt.Fprintf(out, "  Workers:        %d (0=auto)\n", cfg.Workers)
	fmt.Fprintf(out, "  Seed:           %d\n", cfg.Seed)
	fmt.Fprintln(out)
}

func printSummary(out io.Writer, stats simulation.AggregatedStats, total time.Duration) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "                        BATCH SUMMARY")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "  Total Time:      %s\n", formatDuration(total))
	fmt.Fprintf(out, "  Runs:            %d (%d failed)\n", stats.Runs, stats.Errors)
	fmt.Fprintf(out, "  Final Regret:    %.2f ± %.2f\n", stats.FinalRegretMean, stats.FinalRegretStd)
	fmt.Fprintf(out, "  95%% CI:          [%.2f, %.2f]\n", stats.FinalRegretCI95[0], stats.FinalRegretCI95[1])
	fmt.Fprintf(out, "  Collisions/Run:  %.1f\n", stats.MeanCollisions)
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
