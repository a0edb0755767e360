package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/pgn-clockscore/internal/clockbuilder"
	"github.com/park285/pgn-clockscore/internal/config"
	"github.com/park285/pgn-clockscore/internal/obslog"
	"github.com/park285/pgn-clockscore/internal/service/analysis"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var input, output, configPath, metricsFile, logLevel string

	cmd := &cobra.Command{
		Use:           "clockscore",
		Short:         "Reconstruct per-move clock usage from a PGN and write a time-management report",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := obslog.OptionsFromEnv()
			if logLevel != "" {
				opts.Level = logLevel
			}
			return obslog.Init(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			obslog.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pgn, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			deps, err := build(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			defer deps.Close()
			defer writeMetrics(deps, metricsFile)

			out, err := deps.Service.Analyze(cmd.Context(), pgn)
			if errors.Is(err, analysis.ErrNoGame) {
				fmt.Fprintln(cmd.OutOrStdout(), "No game found in the PGN file.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := deps.Presenter.Deliver(output, out.Report); err != nil {
				return err
			}
			obslog.L().Info("report_written",
				zap.String("path", output),
				zap.String("hash", out.InputHash),
				zap.Bool("cached", out.Cached),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Game score, detailed move statistics, and analysis written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to the input PGN file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to the output text file")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	cmd.AddCommand(historyCmd(&configPath))
	return cmd
}

func build(ctx context.Context, configPath string) (*clockbuilder.Deps, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	deps, err := clockbuilder.New(ctx, cfg, obslog.L())
	if err != nil {
		return nil, fmt.Errorf("init error: %w", err)
	}
	return deps, nil
}

func writeMetrics(deps *clockbuilder.Deps, path string) {
	if err := deps.Metrics.WriteTextfile(path); err != nil {
		obslog.L().Warn("metrics_write_failed", zap.String("path", path), zap.Error(err))
	}
}
