package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobsweep/internal/slugfile"
)

// Config is the root configuration for a jobsweep run.
type Config struct {
	Keywords        []string // raw, normalized by the keyword filter
	RequestTimeout  time.Duration
	Concurrency     int // sources fetched at once
	PollingInterval time.Duration
	RateLimit       RateLimitConfig
	Output          OutputConfig
	Notification    NotificationConfig
	Sources         SourcesConfig
	Discovery       DiscoveryConfig
}

// RateLimitConfig controls the minimum gap between calls to one source.
type RateLimitConfig struct {
	MinDelay  time.Duration
	Overrides map[string]time.Duration // keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.Overrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// OutputConfig says where run results are written.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"` // optional snapshot database
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// Board is one configured item of a board source.
type Board struct {
	ID   string // slug, site id or feed URL
	Name string
}

// BoardSourceConfig configures a source that iterates over boards.
// Boards holds the YAML entries followed by the slug file entries.
type BoardSourceConfig struct {
	Enabled   bool
	SlugsFile string
	Boards    []Board
}

// JobSpyConfig configures the optional JobSpy-compatible service.
type JobSpyConfig struct {
	Enabled       bool
	Endpoint      string
	SearchTerms   []string
	Sites         []string
	ResultsWanted int
	HoursOld      int
}

// SourcesConfig holds every source in run order.
type SourcesConfig struct {
	Greenhouse BoardSourceConfig
	Lever      BoardSourceConfig
	Ashby      BoardSourceConfig
	Feeds      BoardSourceConfig
	JobSpy     JobSpyConfig
}

// DiscoveryTarget pairs a seed list with the slug file discovery appends to.
type DiscoveryTarget struct {
	SeedFile   string
	OutputFile string
}

// DiscoveryConfig configures board discovery.
type DiscoveryConfig struct {
	Greenhouse DiscoveryTarget
	Lever      DiscoveryTarget
}

const (
	defaultRequestTimeout  = 15 * time.Second
	defaultPollingInterval = 6 * time.Hour
	defaultOutputDir       = "data"
	defaultResultsWanted   = 40
	slackWebhookPrefix     = "https://hooks.slack.com/"
)

var (
	defaultSearchTerms = []string{"blockchain", "crypto", "web3"}
	defaultSites       = []string{"linkedin", "indeed"}
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Keywords        []string           `yaml:"keywords"`
	KeywordsFile    string             `yaml:"keywords_file"`
	RequestTimeout  string             `yaml:"request_timeout"`
	Concurrency     int                `yaml:"concurrency"`
	PollingInterval string             `yaml:"polling_interval"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Output          OutputConfig       `yaml:"output"`
	Notification    NotificationConfig `yaml:"notification"`
	Sources         rawSources         `yaml:"sources"`
	Discovery       rawDiscovery       `yaml:"discovery"`
}

type rawRateLimitConfig struct {
	MinDelay  string            `yaml:"min_delay"`
	Overrides map[string]string `yaml:"overrides"`
}

type rawBoard struct {
	Slug string `yaml:"slug"`
	ID   string `yaml:"id"`
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type rawBoardSource struct {
	Enabled   *bool      `yaml:"enabled"`
	SlugsFile string     `yaml:"slugs_file"`
	SitesFile string     `yaml:"sites_file"`
	Boards    []rawBoard `yaml:"boards"`
}

type rawJobSpy struct {
	Enabled       bool     `yaml:"enabled"`
	Endpoint      string   `yaml:"endpoint"`
	SearchTerms   []string `yaml:"search_terms"`
	Sites         []string `yaml:"sites"`
	ResultsWanted int      `yaml:"results_wanted"`
	HoursOld      int      `yaml:"hours_old"`
}

type rawSources struct {
	Greenhouse rawBoardSource `yaml:"greenhouse"`
	Lever      rawBoardSource `yaml:"lever"`
	Ashby      rawBoardSource `yaml:"ashby"`
	Feeds      rawBoardSource `yaml:"feeds"`
	JobSpy     rawJobSpy      `yaml:"jobspy"`
}

type rawDiscoveryTarget struct {
	SeedFile string `yaml:"seed_file"`
}

type rawDiscovery struct {
	Greenhouse rawDiscoveryTarget `yaml:"greenhouse"`
	Lever      rawDiscoveryTarget `yaml:"lever"`
}

// Load reads and parses the YAML config file at path, resolves the keyword
// and slug files it names, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	requestTimeout, err := parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	interval, err := parseDuration("polling_interval", raw.PollingInterval, defaultPollingInterval)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, 0)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]time.Duration)
	for source, v := range raw.RateLimit.Overrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.overrides[%q]: %w", source, err)
		}
		overrides[source] = d
	}

	keywords := append([]string(nil), raw.Keywords...)
	if raw.KeywordsFile != "" {
		fromFile, err := loadKeywordsFile(raw.KeywordsFile)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, fromFile...)
	}

	concurrency := raw.Concurrency
	if concurrency == 0 {
		concurrency = 1
	}

	output := raw.Output
	if output.Dir == "" {
		output.Dir = defaultOutputDir
	}

	greenhouse, err := boardSource("greenhouse", raw.Sources.Greenhouse, raw.Sources.Greenhouse.SlugsFile)
	if err != nil {
		return nil, err
	}
	lever, err := boardSource("lever", raw.Sources.Lever, raw.Sources.Lever.SitesFile)
	if err != nil {
		return nil, err
	}
	ashby, err := boardSource("ashby", raw.Sources.Ashby, raw.Sources.Ashby.SlugsFile)
	if err != nil {
		return nil, err
	}
	feeds, err := boardSource("feeds", raw.Sources.Feeds, "")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Keywords:        keywords,
		RequestTimeout:  requestTimeout,
		Concurrency:     concurrency,
		PollingInterval: interval,
		RateLimit: RateLimitConfig{
			MinDelay:  minDelay,
			Overrides: overrides,
		},
		Output:       output,
		Notification: raw.Notification,
		Sources: SourcesConfig{
			Greenhouse: greenhouse,
			Lever:      lever,
			Ashby:      ashby,
			Feeds:      feeds,
			JobSpy:     jobSpy(raw.Sources.JobSpy),
		},
		Discovery: DiscoveryConfig{
			Greenhouse: DiscoveryTarget{SeedFile: raw.Discovery.Greenhouse.SeedFile, OutputFile: greenhouse.SlugsFile},
			Lever:      DiscoveryTarget{SeedFile: raw.Discovery.Lever.SeedFile, OutputFile: lever.SlugsFile},
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

// loadKeywordsFile accepts either a plain YAML list or a mapping with a
// "keywords" list.
func loadKeywordsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords_file: %w", err)
	}

	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse keywords_file %s: %w", path, err)
	}
	return wrapped.Keywords, nil
}

func boardSource(name string, raw rawBoardSource, slugsFile string) (BoardSourceConfig, error) {
	out := BoardSourceConfig{
		Enabled:   raw.Enabled == nil || *raw.Enabled,
		SlugsFile: slugsFile,
	}
	for _, b := range raw.Boards {
		id := firstNonEmpty(b.Slug, b.ID, b.URL)
		if id == "" {
			return BoardSourceConfig{}, fmt.Errorf("sources.%s: board %q has no slug, id or url", name, b.Name)
		}
		out.Boards = append(out.Boards, Board{ID: id, Name: strings.TrimSpace(b.Name)})
	}

	if slugsFile != "" {
		ids, err := slugfile.Read(slugsFile)
		if err != nil {
			return BoardSourceConfig{}, fmt.Errorf("sources.%s: %w", name, err)
		}
		for _, id := range ids {
			out.Boards = append(out.Boards, Board{ID: id, Name: id})
		}
	}
	return out, nil
}

func jobSpy(raw rawJobSpy) JobSpyConfig {
	out := JobSpyConfig{
		Enabled:       raw.Enabled,
		Endpoint:      strings.TrimSpace(raw.Endpoint),
		SearchTerms:   raw.SearchTerms,
		Sites:         raw.Sites,
		ResultsWanted: raw.ResultsWanted,
		HoursOld:      raw.HoursOld,
	}
	if len(out.SearchTerms) == 0 {
		out.SearchTerms = defaultSearchTerms
	}
	if len(out.Sites) == 0 {
		out.Sites = defaultSites
	}
	if out.ResultsWanted == 0 {
		out.ResultsWanted = defaultResultsWanted
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func validate(cfg *Config) error {
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}

	s := cfg.Sources
	if !s.Greenhouse.Enabled && !s.Lever.Enabled && !s.Ashby.Enabled && !s.Feeds.Enabled && !s.JobSpy.Enabled {
		return errors.New("at least one source must be enabled")
	}
	if s.JobSpy.ResultsWanted < 0 || s.JobSpy.HoursOld < 0 {
		return errors.New("sources.jobspy.results_wanted and hours_old must not be negative")
	}

	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
