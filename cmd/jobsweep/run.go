package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/aggregator"
	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run once and write the dataset",
	Long:  "Fetches every enabled source once, writes jobs.json and last_run.txt, and notifies Slack if configured.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	resultStore, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := executeRun(ctx, cfg, resultStore, runNotifier(cfg, logger), logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	return nil
}

// runNotifier returns the notifier for scheduled and one-shot runs. The
// log notifier is reserved for check mode, so runs only notify via Slack.
func runNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	if cfg.Notification.Type != "slack" {
		return nil
	}
	return setupNotifier(cfg, newHTTPClient(cfg), logger)
}

// executeRun performs one full run, saves its output and notifies n when
// non-nil. A notification failure is logged and does not fail the run.
func executeRun(ctx context.Context, cfg *config.Config, resultStore model.ResultStore, n model.Notifier, logger *slog.Logger) (aggregator.Result, error) {
	sources := buildSources(cfg, newHTTPClient(cfg), logger)
	res, err := newAggregator(cfg, sources, logger).Run(ctx)
	if err != nil {
		return res, err
	}

	if err := resultStore.Save(ctx, res.Snapshot()); err != nil {
		return res, fmt.Errorf("save output: %w", err)
	}
	logger.Info("wrote output", "run_id", res.RunID, "dir", cfg.Output.Dir, "jobs", res.Count)

	if n != nil {
		if err := n.Notify(res.Jobs); err != nil {
			logger.Error("notification failed", "run_id", res.RunID, "error", err)
		}
	}
	return res, nil
}
