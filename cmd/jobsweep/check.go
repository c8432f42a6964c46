package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/notifier"
	"github.com/amishk599/jobsweep/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run once, print matches, exit",
	Long:  "One-shot dry run: fetches every enabled source, logs matched jobs, writes nothing.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no output will be written")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := executeRun(ctx, cfg, store.NewNopStore(), notifier.NewLogNotifier(logger), logger)
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	for _, s := range res.Sources {
		if s.Skipped {
			logger.Info("source summary", "source", s.Name, "skipped", s.Reason)
			continue
		}
		logger.Info("source summary", "source", s.Name, "jobs", s.Jobs, "duration", s.Duration)
	}
	logger.Info("check complete", "fetched", res.Fetched, "unique", len(res.Unique), "matched", res.Count)
	return nil
}
