package download

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/bcdl/internal/fsutil"
	"github.com/handiism/bcdl/internal/httpclient"
	"github.com/handiism/bcdl/internal/model"
)

// Orchestrator fetches batches of asset jobs concurrently.
//
// One Orchestrator (and its underlying client/connection pool) is shared
// by all jobs of a batch. Destination paths within a batch are unique by
// construction, so jobs never contend for the same file and no locking
// is needed beyond the pre-dispatch existence check.
type Orchestrator struct {
	client *httpclient.Client
	limit  int
	log    *zap.Logger

	// OnOutcome, when set, is invoked once per job as its outcome is
	// determined, including pre-dispatch skips. Called from worker
	// goroutines; the hook must be safe for concurrent use.
	OnOutcome func(Outcome)
}

// NewOrchestrator creates an Orchestrator with the given concurrency
// cap. A non-positive limit falls back to 10; setting the limit at or
// above the batch size makes the fan-out effectively unbounded.
func NewOrchestrator(client *httpclient.Client, limit int, log *zap.Logger) *Orchestrator {
	if limit <= 0 {
		limit = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{client: client, limit: limit, log: log}
}

// Run executes the batch and returns one outcome per job, in job order.
//
// Jobs whose destination already exists are reported as skipped and
// never dispatched; existence is the sole deduplication check, so a
// corrupt pre-existing file is never repaired. Each remaining job is an
// independent unit of work: its failure is recorded in its outcome and
// does not cancel siblings. Run returns only after every dispatched job
// has completed.
func (o *Orchestrator) Run(ctx context.Context, jobs []model.AssetJob) Report {
	outcomes := make([]Outcome, len(jobs))

	group := new(errgroup.Group)
	group.SetLimit(o.limit)

	for i, job := range jobs {
		if fsutil.Exists(job.Destination) {
			outcomes[i] = Outcome{Job: job, Kind: OutcomeSkipped}
			o.note(outcomes[i])
			continue
		}

		i, job := i, job
		group.Go(func() error {
			outcomes[i] = o.runJob(ctx, job)
			o.note(outcomes[i])
			return nil
		})
	}

	_ = group.Wait()
	return Report{Outcomes: outcomes}
}

// runJob performs a single fetch+write. The whole body is held in memory
// before anything touches disk, so the destination is either absent or
// fully written.
func (o *Orchestrator) runJob(ctx context.Context, job model.AssetJob) Outcome {
	body, err := o.client.Fetch(ctx, job.SourceURL)
	if err != nil {
		o.log.Warn("fetch failed",
			zap.String("destination", job.Destination),
			zap.Error(err))
		return Outcome{Job: job, Kind: OutcomeFailed, Err: err}
	}

	if len(body) == 0 {
		o.log.Warn("empty response body, nothing to write",
			zap.String("destination", job.Destination))
		return Outcome{Job: job, Kind: OutcomeSkipped}
	}

	if err := fsutil.EnsureDir(filepath.Dir(job.Destination)); err != nil {
		return Outcome{Job: job, Kind: OutcomeFailed, Err: err}
	}
	if err := fsutil.WriteFile(job.Destination, body); err != nil {
		return Outcome{Job: job, Kind: OutcomeFailed, Err: err}
	}

	o.log.Debug("downloaded", zap.String("destination", job.Destination), zap.Int("bytes", len(body)))
	return Outcome{Job: job, Kind: OutcomeSucceeded, Bytes: int64(len(body))}
}

func (o *Orchestrator) note(outcome Outcome) {
	if o.OnOutcome != nil {
		o.OnOutcome(outcome)
	}
}
