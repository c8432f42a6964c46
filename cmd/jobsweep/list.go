package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/dataset"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/normalize"
)

var (
	listSearch  string
	listSources []string
	listSort    string
	listSQLite  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs from the last run",
	Long:  "Prints the saved dataset of the last run, optionally searched by title or company, limited to sources and sorted.",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "case-insensitive search over title and company")
	listCmd.Flags().StringSliceVar(&listSources, "source", nil, "only show these sources (repeatable or comma-separated)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort by posted_date (newest first), company or title")
	listCmd.Flags().BoolVar(&listSQLite, "sqlite", false, "read the snapshot database instead of jobs.json")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	sortKey, err := dataset.ParseSort(listSort)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	saved, err := loadSaved(context.Background(), cfg, listSQLite)
	if errors.Is(err, model.ErrNoRun) {
		fmt.Printf("No run recorded in %s yet.\n", cfg.Output.Dir)
		return nil
	}
	if err != nil {
		return err
	}

	printJobs(os.Stdout, saved, dataset.Query{Search: listSearch, Sources: listSources, Sort: sortKey})
	return nil
}

func printJobs(w io.Writer, saved savedRun, q dataset.Query) {
	jobs := dataset.Apply(saved.Jobs, q)

	fmt.Fprintln(w, dataset.Header(saved.LastRun, len(saved.Jobs)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-22s %-36s %-18s %-13s %-12s %s\n", "Company", "Title", "Location", "Posted", "Source", "URL")
	fmt.Fprintln(w, strings.Repeat("─", 120))
	for _, j := range jobs {
		fmt.Fprintf(w, "%-22s %-36s %-18s %-13s %-12s %s\n",
			fit(j.Company, 22), fit(j.Title, 36), fit(normalize.Value(j.Location), 18),
			fit(dataset.FormatPosted(j), 13), fit(j.Source, 12), j.URL)
	}
	fmt.Fprintf(w, "\nShowing %d of %d jobs\n", len(jobs), len(saved.Jobs))
}

// fit shortens s to at most n runes, marking a cut with "…".
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
