package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-publisher/internal/content"
	"github.com/goliatone/go-publisher/internal/logging"
	"github.com/goliatone/go-publisher/internal/permissions"
	pubscheduler "github.com/goliatone/go-publisher/internal/scheduler"
	"github.com/goliatone/go-publisher/pkg/interfaces"
	"github.com/google/uuid"
)

// Workflow is the slice of the content service the worker drives.
type Workflow interface {
	Publish(ctx context.Context, req content.PublishContentRequest) (*content.Content, error)
	Archive(ctx context.Context, req content.ArchiveContentRequest) (*content.Content, error)
}

// Worker drains due scheduler jobs and runs the matching workflow pipeline
// under a system capability context.
type Worker struct {
	scheduler interfaces.Scheduler
	workflow  Workflow
	logger    interfaces.Logger
	now       func() time.Time
	batchSize int
}

type Option func(*Worker)

// WithClock overrides the clock used to determine due jobs.
func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

// WithBatchSize bounds how many due jobs a single Process call drains.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

// WithLogger injects the worker logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewWorker(scheduler interfaces.Scheduler, workflow Workflow, opts ...Option) *Worker {
	w := &Worker{
		scheduler: scheduler,
		workflow:  workflow,
		logger:    logging.NoOp(),
		now:       time.Now,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process drains one batch of due jobs. Failed jobs are reported back to the
// scheduler so its retry policy decides their fate.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	if w.workflow == nil {
		return errors.New("jobs: workflow is nil")
	}

	deadline := w.now()
	due, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}

	for _, job := range due {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job); err != nil {
			logging.WithFields(w.logger, map[string]any{
				"job_id":   job.ID,
				"job_type": job.Type,
			}).Error("jobs.process.failed", "error", err)
			_ = w.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		_ = w.scheduler.MarkDone(ctx, job.ID)
	}
	return nil
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job) error {
	// Scheduled jobs run on behalf of the system, not the original caller.
	ctx = permissions.WithSystemActor(ctx)

	id, triggeredBy, err := parseJobIdentifiers(job.Payload)
	if err != nil {
		return err
	}

	switch job.Type {
	case pubscheduler.JobTypeContentPublish:
		req := content.PublishContentRequest{ContentID: id}
		if !job.RunAt.IsZero() {
			runAt := job.RunAt
			req.PublishedAt = &runAt
		}
		if triggeredBy != nil {
			req.PublishedBy = *triggeredBy
		}
		_, err := w.workflow.Publish(ctx, req)
		return err
	case pubscheduler.JobTypeContentArchive:
		req := content.ArchiveContentRequest{ContentID: id}
		if triggeredBy != nil {
			req.ArchivedBy = *triggeredBy
		}
		_, err := w.workflow.Archive(ctx, req)
		return err
	default:
		return nil
	}
}

func parseJobIdentifiers(payload map[string]any) (uuid.UUID, *uuid.UUID, error) {
	if payload == nil {
		return uuid.Nil, nil, fmt.Errorf("jobs: missing payload")
	}
	rawID, ok := payload["content_id"]
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("jobs: payload missing content_id")
	}
	idStr, ok := rawID.(string)
	if !ok {
		return uuid.Nil, nil, fmt.Errorf("jobs: invalid content_id payload")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, nil, err
	}
	var triggeredBy *uuid.UUID
	if rawScheduledBy, ok := payload["scheduled_by"]; ok {
		if str, ok := rawScheduledBy.(string); ok {
			if parsed, err := uuid.Parse(str); err == nil {
				triggeredBy = &parsed
			}
		}
	}
	return id, triggeredBy, nil
}
