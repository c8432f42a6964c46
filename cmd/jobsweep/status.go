package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run",
	Long:  "Reads last_run.txt and jobs.json from the output directory and prints when the last run finished and how many jobs it kept.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	js := store.NewJSONStore(cfg.Output.Dir)
	last, err := js.LastRun(context.Background())
	if errors.Is(err, model.ErrNoRun) {
		fmt.Printf("No run recorded in %s yet.\n", cfg.Output.Dir)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Last run: %s (%s)\n", last.Format("2006-01-02 15:04:05 MST"), humanize.Time(last))

	out, err := js.Load()
	switch {
	case errors.Is(err, model.ErrNoRun):
		fmt.Println("Jobs:     no jobs.json")
	case err != nil:
		return err
	default:
		fmt.Printf("Jobs:     %s in %s\n", humanize.Comma(int64(out.Count)), js.JobsPath())
	}

	fmt.Printf("Next due: %s (polling every %s)\n", humanize.Time(last.Add(cfg.PollingInterval)), cfg.PollingInterval)
	return nil
}
