package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/adapter"
	"github.com/amishk599/jobsweep/internal/aggregator"
	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/filter"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/notifier"
	"github.com/amishk599/jobsweep/internal/ratelimit"
	"github.com/amishk599/jobsweep/internal/store"
)

const defaultConfigPath = "config/config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsweep",
	Short: "Job posting aggregator",
	Long:  "jobsweep pulls postings from job boards and feeds, drops duplicates, keeps keyword matches and writes one dataset.",
	// `jobsweep` with no subcommand performs a single run.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSWEEP_CONFIG env var or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env if present, resolves the config path and parses it.
// Priority: explicit path arg > JOBSWEEP_CONFIG env var > "./config/config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path == "" {
		if env := os.Getenv("JOBSWEEP_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// silentLogger is used while a TUI owns the terminal; any log output would
// corrupt the display.
func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.RequestTimeout}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// openStore returns the output boundary for cfg and a function releasing it.
func openStore(cfg *config.Config) (model.ResultStore, func(), error) {
	jsonStore := store.NewJSONStore(cfg.Output.Dir)
	if cfg.Output.SQLitePath == "" {
		return jsonStore, func() {}, nil
	}

	sqliteStore, err := store.NewSQLiteStore(cfg.Output.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot db: %w", err)
	}
	return store.Multi(jsonStore, sqliteStore), func() { sqliteStore.Close() }, nil
}

// disabledSource keeps a source switched off in config visible in reports.
type disabledSource struct {
	model.Source
}

func (disabledSource) Available() (bool, string) { return false, "disabled in config" }

func toBoards(in []config.Board) []adapter.Board {
	out := make([]adapter.Board, len(in))
	for i, b := range in {
		out[i] = adapter.Board{ID: b.ID, Name: b.Name}
	}
	return out
}

// buildSources creates every source in run order: greenhouse, lever,
// ashby, feeds, jobspy.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Source {
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.Overrides)
	s := cfg.Sources

	js := s.JobSpy
	candidates := []struct {
		enabled bool
		src     model.Source
	}{
		{s.Greenhouse.Enabled, adapter.NewGreenhouseSource(toBoards(s.Greenhouse.Boards), httpClient, limiter, logger)},
		{s.Lever.Enabled, adapter.NewLeverSource(toBoards(s.Lever.Boards), httpClient, limiter, logger)},
		{s.Ashby.Enabled, adapter.NewAshbySource(toBoards(s.Ashby.Boards), httpClient, limiter, logger)},
		{s.Feeds.Enabled, adapter.NewFeedSource(toBoards(s.Feeds.Boards), httpClient, limiter, logger)},
		{js.Enabled, adapter.NewJobSpySource(adapter.JobSpyOptions{
			Endpoint:      js.Endpoint,
			SearchTerms:   js.SearchTerms,
			Sites:         js.Sites,
			ResultsWanted: js.ResultsWanted,
			HoursOld:      js.HoursOld,
		}, httpClient, limiter, logger)},
	}

	sources := make([]model.Source, 0, len(candidates))
	for _, c := range candidates {
		if !c.enabled {
			sources = append(sources, disabledSource{c.src})
			continue
		}
		sources = append(sources, c.src)
	}
	return sources
}

func newAggregator(cfg *config.Config, sources []model.Source, logger *slog.Logger) *aggregator.Aggregator {
	kf := filter.NewKeywordFilter(cfg.Keywords)
	if !kf.Active() {
		logger.Info("no keywords configured, keeping every job")
	}
	return aggregator.New(sources, kf, aggregator.Options{Concurrency: cfg.Concurrency}, logger)
}
