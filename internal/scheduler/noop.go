package scheduler

import (
	"context"
	"time"

	"github.com/goliatone/go-publisher/pkg/interfaces"
)

// NewNoOp returns a scheduler that accepts jobs but never runs them. Used when
// scheduling is disabled so callers can stay nil-safe.
func NewNoOp() interfaces.Scheduler {
	return noopScheduler{}
}

type noopScheduler struct{}

func (noopScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	return &interfaces.Job{JobSpec: spec, Status: interfaces.JobStatusPending}, nil
}

func (noopScheduler) Cancel(context.Context, string) error {
	return nil
}

func (noopScheduler) CancelByKey(context.Context, string) error {
	return nil
}

func (noopScheduler) Get(context.Context, string) (*interfaces.Job, error) {
	return nil, interfaces.ErrJobNotFound
}

func (noopScheduler) GetByKey(context.Context, string) (*interfaces.Job, error) {
	return nil, interfaces.ErrJobNotFound
}

func (noopScheduler) ListDue(context.Context, time.Time, int) ([]*interfaces.Job, error) {
	return nil, nil
}

func (noopScheduler) MarkDone(context.Context, string) error {
	return nil
}

func (noopScheduler) MarkFailed(context.Context, string, error) error {
	return nil
}
