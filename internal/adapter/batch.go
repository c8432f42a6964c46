package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobsweep/internal/model"
)

// Waiter spaces outbound calls to a source. *ratelimit.Limiter implements it.
type Waiter interface {
	Wait(ctx context.Context, source string) error
}

// outcome is the result of fetching one configured item of a source:
// either its jobs or the reason it failed.
type outcome struct {
	item string
	jobs []model.Job
	err  error
}

// collect fetches every item in order, one at a time, and returns the jobs
// of the items that succeeded. A failing item is logged and skipped; it
// never stops the remaining items.
func collect[T any](
	ctx context.Context,
	source string,
	items []T,
	name func(T) string,
	limiter Waiter,
	logger *slog.Logger,
	fetch func(context.Context, T) ([]model.Job, error),
) []model.Job {
	var jobs []model.Job
	for _, item := range items {
		if ctx.Err() != nil {
			logger.Warn("source interrupted", "source", source, "error", ctx.Err())
			break
		}

		res := fetchItem(ctx, source, name(item), item, limiter, fetch)
		if res.err != nil {
			logger.Warn("source item failed", "source", source, "item", res.item, "error", res.err)
			continue
		}
		logger.Debug("source item fetched", "source", source, "item", res.item, "jobs", len(res.jobs))
		jobs = append(jobs, res.jobs...)
	}
	return jobs
}

func fetchItem[T any](
	ctx context.Context,
	source, name string,
	item T,
	limiter Waiter,
	fetch func(context.Context, T) ([]model.Job, error),
) (res outcome) {
	res.item = name
	defer func() {
		if r := recover(); r != nil {
			res.jobs = nil
			res.err = fmt.Errorf("panic: %v", r)
		}
	}()

	if limiter != nil {
		if err := limiter.Wait(ctx, source); err != nil {
			res.err = err
			return res
		}
	}
	res.jobs, res.err = fetch(ctx, item)
	return res
}
