package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/aggregator"
	"github.com/amishk599/jobsweep/internal/browse"
	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse a run interactively (TUI)",
	Long: "Shows the source picker, runs the pipeline for the chosen source, then opens the split-pane view of unique and matched jobs. Nothing is written.\n" +
		"With --saved, browses the dataset of the last run instead: search, source toggles and sorting.",
	RunE: runBrowseCmd,
}

var (
	browseSaved  bool
	browseSQLite bool
)

func init() {
	browseCmd.Flags().BoolVar(&browseSaved, "saved", false, "browse the saved dataset of the last run")
	browseCmd.Flags().BoolVar(&browseSQLite, "sqlite", false, "with --saved, read the snapshot database instead of jobs.json")
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if browseSaved {
		return runBrowseSaved(cfg)
	}
	runBrowse(cfg)
	return nil
}

func runBrowseSaved(cfg *config.Config) error {
	saved, err := loadSaved(context.Background(), cfg, browseSQLite)
	if errors.Is(err, model.ErrNoRun) {
		fmt.Printf("No run recorded in %s yet.\n", cfg.Output.Dir)
		return nil
	}
	if err != nil {
		return err
	}
	return browse.RunSavedTUI(saved.Jobs, saved.LastRun)
}

func runBrowse(cfg *config.Config) {
	logger := silentLogger()

	var available []model.Source
	for _, src := range buildSources(cfg, newHTTPClient(cfg), logger) {
		if ok, _ := src.Available(); ok {
			available = append(available, src)
		}
	}
	if len(available) == 0 {
		fmt.Println("No available sources in config.")
		return
	}

	names := make([]string, len(available))
	for i, src := range available {
		names[i] = src.Name()
	}

	for {
		choice, err := browse.RunSourcePicker(names)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice == "" {
			return
		}

		selected := available
		if choice != browse.AllSources {
			selected = nil
			for _, src := range available {
				if src.Name() == choice {
					selected = append(selected, src)
				}
			}
		}

		agg := newAggregator(cfg, selected, logger)
		res, err := browse.RunLoader(context.Background(), choice, func(ctx context.Context) (aggregator.Result, error) {
			return agg.Run(ctx)
		})
		if errors.Is(err, browse.ErrCancelled) {
			continue
		}
		if err != nil {
			fmt.Printf("Error running %s: %v\n", choice, err)
			continue
		}

		wantQuit, err := browse.RunBrowseTUI(res.Unique, res.Jobs)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
	}
}
