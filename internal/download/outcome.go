package download

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/handiism/bcdl/internal/model"
)

// OutcomeKind classifies the result of one asset job.
type OutcomeKind int

const (
	// OutcomeSucceeded: the asset was fetched and fully written.
	OutcomeSucceeded OutcomeKind = iota

	// OutcomeSkipped: the destination already existed, or the source
	// returned an empty body ("nothing available"). Storage untouched.
	OutcomeSkipped

	// OutcomeFailed: the fetch or write failed; Err carries the cause.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the per-job result of a batch run.
type Outcome struct {
	// Job is the asset job this outcome belongs to.
	Job model.AssetJob

	// Kind classifies the result.
	Kind OutcomeKind

	// Bytes is the number of bytes written (succeeded outcomes only).
	Bytes int64

	// Err is the failure cause (failed outcomes only).
	Err error
}

// Report aggregates a batch's outcomes. Outcomes appear in the same
// order as the jobs that produced them.
type Report struct {
	Outcomes []Outcome
}

// Counts returns the number of succeeded, skipped and failed outcomes.
func (r Report) Counts() (succeeded, skipped, failed int) {
	for _, outcome := range r.Outcomes {
		switch outcome.Kind {
		case OutcomeSucceeded:
			succeeded++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return
}

// Bytes returns the total bytes written by the batch.
func (r Report) Bytes() int64 {
	var total int64
	for _, outcome := range r.Outcomes {
		total += outcome.Bytes
	}
	return total
}

// Err returns nil when no job failed, otherwise an aggregate error
// naming each failed destination.
func (r Report) Err() error {
	var result *multierror.Error
	for _, outcome := range r.Outcomes {
		if outcome.Kind == OutcomeFailed {
			result = multierror.Append(result, multierror.Prefix(outcome.Err,
				fmt.Sprintf("[%s]", outcome.Job.Destination)))
		}
	}
	return result.ErrorOrNil()
}
