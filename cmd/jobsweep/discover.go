package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/discover"
	"github.com/amishk599/jobsweep/internal/ratelimit"
)

var discoverOnly string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find live Greenhouse and Lever boards",
	Long:  "Probes the seed identifiers listed in discovery.*.seed_file and appends the live boards to the source's slug file.",
	RunE:  runDiscover,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverOnly, "only", "", "limit discovery to one target (greenhouse or lever)")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	targets := discoveryTargets(cfg, discoverOnly)
	if len(targets) == 0 {
		fmt.Println("No discovery targets configured.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: discover.ProbeTimeout}
	d := discover.New(client, ratelimit.NewLimiter(discover.ProbeDelay, nil), logger)

	for _, t := range targets {
		report, err := d.Discover(ctx, t)
		fmt.Printf("%-12s candidates: %d  found: %d  total: %d\n", report.Target, report.Candidates, len(report.Found), report.Total)
		if err != nil {
			logger.Error("discovery failed", "target", t.Name, "error", err)
			os.Exit(1)
		}
	}
	return nil
}

// discoveryTargets returns the targets with a seed file, optionally limited
// to one name.
func discoveryTargets(cfg *config.Config, only string) []discover.Target {
	all := []discover.Target{
		discover.Greenhouse(cfg.Discovery.Greenhouse.SeedFile, cfg.Discovery.Greenhouse.OutputFile),
		discover.Lever(cfg.Discovery.Lever.SeedFile, cfg.Discovery.Lever.OutputFile),
	}
	var out []discover.Target
	for _, t := range all {
		if t.SeedFile == "" {
			continue
		}
		if only != "" && t.Name != only {
			continue
		}
		out = append(out, t)
	}
	return out
}
