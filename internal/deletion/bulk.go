package deletion

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"dupesweep/internal/catalog"
	"dupesweep/internal/observability"
)

// DefaultConcurrency bounds in-flight deletes when no limit is given.
const DefaultConcurrency = 5

// Deleter removes a single product from the backing store.
type Deleter interface {
	DeleteProduct(ctx context.Context, id string) error
}

// Recorder receives every outcome. A failing Recorder never changes the
// outcome itself.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

type Status string

const (
	StatusDeleted        Status = "deleted"
	StatusAlreadyRemoved Status = "already_removed"
	StatusFailed         Status = "failed"
)

// Outcome is the result of one delete attempt.
type Outcome struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attemptedAt"`

	Err error `json:"-"`
}

// Result aggregates a batch. Outcomes follow the order of first appearance
// of each id in the request.
type Result struct {
	Outcomes       []Outcome `json:"outcomes"`
	Deleted        int       `json:"deleted"`
	AlreadyRemoved int       `json:"alreadyRemoved"`
	Failed         int       `json:"failed"`
}

// Succeeded counts outcomes where the product is gone from the store.
func (r Result) Succeeded() int {
	return r.Deleted + r.AlreadyRemoved
}

// FailedIDs lists the ids whose delete failed, in request order.
func (r Result) FailedIDs() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o.ID)
		}
	}
	return out
}

// Options tune DeleteAll.
type Options struct {
	Concurrency int
	Recorder    Recorder
}

// DeleteAll attempts one delete per distinct id, concurrently, and waits for
// every attempt. Individual failures are recorded in the result and never
// abort the rest of the batch; DeleteAll itself does not fail. Nothing is
// retried. The batch is detached from ctx cancellation so it always runs to
// completion.
func DeleteAll(ctx context.Context, d Deleter, ids []string, opts Options) Result {
	ctx = context.WithoutCancel(ctx)
	unique := distinct(ids)
	outcomes := make([]Outcome, len(unique))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	log.Printf("[Delete] Deleting %d products (concurrency %d)", len(unique), limit)

	var g errgroup.Group
	g.SetLimit(limit)
	for i, id := range unique {
		g.Go(func() error {
			outcomes[i] = attempt(ctx, d, id, opts.Recorder)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusDeleted:
			res.Deleted++
		case StatusAlreadyRemoved:
			res.AlreadyRemoved++
		case StatusFailed:
			res.Failed++
		}
	}

	log.Printf("[Delete] Batch finished: %d deleted, %d already removed, %d failed",
		res.Deleted, res.AlreadyRemoved, res.Failed)
	return res
}

// attempt runs a single delete and classifies its outcome.
func attempt(ctx context.Context, d Deleter, id string, rec Recorder) Outcome {
	o := Outcome{ID: id, AttemptedAt: time.Now().UTC()}

	err := d.DeleteProduct(ctx, id)
	switch {
	case err == nil:
		o.Status = StatusDeleted
		log.Printf("[Delete] Product %s deleted", id)
	case errors.Is(err, catalog.ErrNotFound):
		o.Status = StatusAlreadyRemoved
		log.Printf("[Delete] Product %s was already removed", id)
	default:
		o.Status = StatusFailed
		o.Err = err
		o.Error = err.Error()
		log.Printf("[Delete] Failed to delete product %s: %v", id, err)
	}

	observability.DeleteAttempts.WithLabelValues(string(o.Status)).Inc()

	if rec != nil {
		if err := rec.Record(ctx, o); err != nil {
			log.Printf("[Delete] Failed to record outcome for %s: %v", id, err)
		}
	}
	return o
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
