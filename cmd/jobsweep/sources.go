package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/filter"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources",
	Long:  "Reads the config and prints a table of every source, what it iterates over and whether it will run.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-8s %-10s %s\n", "Source", "Items", "Delay", "Status")
	fmt.Println(strings.Repeat("─", 56))

	ready := 0
	sources := buildSources(cfg, newHTTPClient(cfg), silentLogger())
	for _, src := range sources {
		status := "ready"
		if ok, reason := src.Available(); !ok {
			status = "skipped: " + reason
		} else {
			ready++
		}
		fmt.Printf("%-12s %-8d %-10s %s\n", src.Name(), itemCount(cfg, src.Name()), cfg.RateLimit.MinDelayFor(src.Name()), status)
	}

	fmt.Printf("\nTotal: %d sources (%d ready)\n", len(sources), ready)
	fmt.Println(keywordSummary(cfg))
	return nil
}

// keywordSummary describes the keywords the filter will actually match on.
func keywordSummary(cfg *config.Config) string {
	kw := filter.NewKeywordFilter(cfg.Keywords).Keywords()
	if len(kw) == 0 {
		return "Keywords: none, every job is kept"
	}
	return "Keywords: " + strings.Join(kw, ", ")
}

// itemCount is the number of boards, feeds or search terms a source
// iterates over.
func itemCount(cfg *config.Config, name string) int {
	s := cfg.Sources
	switch name {
	case "greenhouse":
		return len(s.Greenhouse.Boards)
	case "lever":
		return len(s.Lever.Boards)
	case "ashby":
		return len(s.Ashby.Boards)
	case "feeds":
		return len(s.Feeds.Boards)
	case "jobspy":
		return len(s.JobSpy.SearchTerms)
	}
	return 0
}
