package usecases

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Pass names used for logs and metrics.
const (
	PassReminder   = "reminder"
	PassExpiration = "expiration"
	PassQuotaHeal  = "quota_heal"
)

// Item outcomes.
const (
	OutcomeDone    = "done"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Options tunes the worker pool shared by the passes.
type Options struct {
	Workers     int
	ItemTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.ItemTimeout <= 0 {
		o.ItemTimeout = 30 * time.Second
	}
	return o
}

// PassResult summarizes one run of a pass.
type PassResult struct {
	Pass       string        `json:"pass"`
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	Candidates int           `json:"candidates"`
	Done       int           `json:"done"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

type passCounters struct {
	done, skipped, failed atomic.Int64
}

func (c *passCounters) add(outcome string) {
	switch outcome {
	case OutcomeDone:
		c.done.Add(1)
	case OutcomeSkipped:
		c.skipped.Add(1)
	default:
		c.failed.Add(1)
	}
}

func newPassResult(pass string, startedAt time.Time) *PassResult {
	return &PassResult{
		Pass:      pass,
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
	}
}

func (r *PassResult) finish(c *passCounters, began time.Time) {
	r.Done = int(c.done.Load())
	r.Skipped = int(c.skipped.Load())
	r.Failed = int(c.failed.Load())
	r.Duration = time.Since(began)
}

// forEachBounded runs fn for every item with at most opts.Workers in flight.
// Each call gets its own timeout; one item's outcome never stops the others.
// Items not yet started when ctx is cancelled are counted as failed.
func forEachBounded[T any](ctx context.Context, opts Options, items []T, fn func(ctx context.Context, item T) string) *passCounters {
	counters := &passCounters{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, item := range items {
		item := item
		if gctx.Err() != nil {
			counters.add(OutcomeFailed)
			continue
		}
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, opts.ItemTimeout)
			defer cancel()
			counters.add(fn(itemCtx, item))
			return nil
		})
	}

	_ = g.Wait()
	return counters
}
