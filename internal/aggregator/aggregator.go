package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobsweep/internal/dedup"
	"github.com/amishk599/jobsweep/internal/model"
)

// Options tunes how sources are run.
type Options struct {
	// Concurrency is the number of sources fetched at once. Values below
	// two run the sources strictly one after another.
	Concurrency int
}

// SourceReport describes what one source contributed to a run.
type SourceReport struct {
	Name     string
	Jobs     int
	Skipped  bool
	Reason   string
	Duration time.Duration
}

// Result is everything a run produced.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int         // records returned by all sources together
	Unique     []model.Job // after dedup, before the keyword filter
	Jobs       []model.Job // final list
	Count      int
	Sources    []SourceReport
}

// Output returns the run's final list in its serialized shape.
func (r Result) Output() model.Output {
	return model.NewOutput(r.Jobs)
}

// Snapshot returns the run as handed to a ResultStore.
func (r Result) Snapshot() model.Snapshot {
	return model.Snapshot{
		RunID:      r.RunID,
		FinishedAt: r.FinishedAt,
		Output:     r.Output(),
	}
}

// Aggregator owns the run pipeline: fetch every source in order,
// concatenate, dedup, then filter.
type Aggregator struct {
	sources []model.Source
	filter  model.JobFilter
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

// New creates an aggregator over sources in their configured order.
// A nil filter keeps every job.
func New(sources []model.Source, filter model.JobFilter, opts Options, logger *slog.Logger) *Aggregator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Aggregator{
		sources: sources,
		filter:  filter,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// slot holds one source's output; slots are indexed by configured order so
// the concatenation never depends on completion order.
type slot struct {
	jobs   []model.Job
	report SourceReport
}

// Run executes one full run. A failing or unavailable source contributes
// zero jobs; the only error is ctx being cancelled before every source
// finished.
func (a *Aggregator) Run(ctx context.Context) (Result, error) {
	res := Result{
		RunID:     uuid.NewString(),
		StartedAt: a.now(),
	}
	logger := a.logger.With("run_id", res.RunID)

	slots := make([]slot, len(a.sources))
	if a.opts.Concurrency == 1 || len(a.sources) < 2 {
		for i, src := range a.sources {
			if ctx.Err() != nil {
				break
			}
			slots[i] = a.runSource(ctx, src, logger)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(a.opts.Concurrency)
		for i, src := range a.sources {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				slots[i] = a.runSource(ctx, src, logger)
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("run interrupted: %w", err)
	}

	var all []model.Job
	for _, s := range slots {
		all = append(all, s.jobs...)
		res.Sources = append(res.Sources, s.report)
	}
	res.Fetched = len(all)

	res.Unique = dedup.Deduplicate(all)
	logger.Info("after dedupe", "fetched", res.Fetched, "jobs", len(res.Unique))

	res.Jobs = res.Unique
	if a.filter != nil {
		res.Jobs = a.filter.Apply(res.Unique)
	}
	res.Count = len(res.Jobs)
	logger.Info("after keyword filter", "jobs", res.Count)

	res.FinishedAt = a.now()
	return res, nil
}

func (a *Aggregator) runSource(ctx context.Context, src model.Source, logger *slog.Logger) slot {
	name := src.Name()
	if ok, reason := src.Available(); !ok {
		logger.Info("source skipped", "source", name, "reason", reason)
		return slot{report: SourceReport{Name: name, Skipped: true, Reason: reason}}
	}

	start := a.now()
	jobs := src.Fetch(ctx)
	elapsed := a.now().Sub(start)
	logger.Info("source fetched", "source", name, "jobs", len(jobs), "duration", elapsed)

	return slot{
		jobs:   jobs,
		report: SourceReport{Name: name, Jobs: len(jobs), Duration: elapsed},
	}
}
