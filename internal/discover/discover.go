// Package discover finds new Greenhouse and Lever boards by probing seed
// identifiers and appends the live ones to the configured slug files.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/jobsweep/internal/adapter"
	"github.com/amishk599/jobsweep/internal/slugfile"
)

const (
	// ProbeDelay spaces consecutive probes against one API.
	ProbeDelay = 500 * time.Millisecond
	// ProbeTimeout bounds a single probe.
	ProbeTimeout = 10 * time.Second

	progressEvery = 50
)

// Prober reports whether id names a live board.
type Prober func(ctx context.Context, client *http.Client, id string) (bool, error)

// Target is one board API to discover against.
type Target struct {
	Name       string
	SeedFile   string
	OutputFile string
	Probe      Prober
}

// Greenhouse returns a target probing the Greenhouse boards API.
func Greenhouse(seedFile, outputFile string) Target {
	return Target{Name: "greenhouse", SeedFile: seedFile, OutputFile: outputFile, Probe: adapter.ProbeGreenhouse}
}

// Lever returns a target probing the Lever postings API.
func Lever(seedFile, outputFile string) Target {
	return Target{Name: "lever", SeedFile: seedFile, OutputFile: outputFile, Probe: adapter.ProbeLever}
}

// Report summarizes one target's discovery.
type Report struct {
	Target     string
	Candidates int // seed identifiers not already known
	Found      []string
	Total      int // identifiers in the output file afterwards
}

// Discoverer probes seed identifiers one at a time.
type Discoverer struct {
	client  *http.Client
	limiter adapter.Waiter
	logger  *slog.Logger
}

// New creates a discoverer. limiter spaces the probes of each target.
func New(client *http.Client, limiter adapter.Waiter, logger *slog.Logger) *Discoverer {
	return &Discoverer{client: client, limiter: limiter, logger: logger}
}

// Discover probes every seed identifier not yet in the target's output file
// and appends the live ones to it. Probe failures count as "not a board".
func (d *Discoverer) Discover(ctx context.Context, t Target) (Report, error) {
	report := Report{Target: t.Name}
	if t.OutputFile == "" {
		return report, fmt.Errorf("discover %s: no output slug file configured", t.Name)
	}

	seeds, err := readLower(t.SeedFile)
	if err != nil {
		return report, fmt.Errorf("discover %s: %w", t.Name, err)
	}
	if len(seeds) == 0 {
		d.logger.Info("no seed file or empty", "source", t.Name, "file", t.SeedFile)
		return report, nil
	}

	existing, err := readLower(t.OutputFile)
	if err != nil {
		return report, fmt.Errorf("discover %s: %w", t.Name, err)
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	for i, id := range seeds {
		if ctx.Err() != nil {
			break
		}
		if known[id] {
			continue
		}
		report.Candidates++

		if d.limiter != nil {
			if err := d.limiter.Wait(ctx, t.Name); err != nil {
				break
			}
		}

		ok, err := d.probe(ctx, t, id)
		if err != nil {
			d.logger.Debug("probe failed", "source", t.Name, "item", id, "error", err)
			continue
		}
		if !ok {
			continue
		}

		known[id] = true
		report.Found = append(report.Found, id)
		if len(report.Found)%progressEvery == 0 {
			d.logger.Info("discovery progress", "source", t.Name, "valid", len(report.Found), "checked", i+1)
		}
	}

	// Boards found before an interrupt are still worth keeping.
	if err := slugfile.Append(t.OutputFile, report.Found); err != nil {
		return report, fmt.Errorf("discover %s: %w", t.Name, err)
	}
	report.Total = len(known)

	d.logger.Info("discovery complete", "source", t.Name, "new", len(report.Found), "total", report.Total)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("discover %s interrupted: %w", t.Name, err)
	}
	return report, nil
}

func (d *Discoverer) probe(ctx context.Context, t Target, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	return t.Probe(ctx, d.client, id)
}

// readLower reads a slug file lower-cased and without duplicates.
func readLower(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	ids, err := slugfile.Read(path)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
