package content

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-publisher/internal/domain"
	"github.com/goliatone/go-publisher/internal/format"
	"github.com/goliatone/go-publisher/internal/logging"
	"github.com/goliatone/go-publisher/internal/permissions"
	pubscheduler "github.com/goliatone/go-publisher/internal/scheduler"
	"github.com/goliatone/go-publisher/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the content publication workflow.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*Content, error)
	List(ctx context.Context) ([]*Content, error)
	Publish(ctx context.Context, req PublishContentRequest) (*Content, error)
	Archive(ctx context.Context, req ArchiveContentRequest) (*Content, error)
	PublishMany(ctx context.Context, req BatchRequest) []BatchResult
	ArchiveMany(ctx context.Context, req BatchRequest) []BatchResult
	Schedule(ctx context.Context, req ScheduleContentRequest) (*Content, error)
}

// PublishContentRequest captures the information required to publish content.
type PublishContentRequest struct {
	ContentID   uuid.UUID
	PublishedBy uuid.UUID
	PublishedAt *time.Time
}

// ArchiveContentRequest captures the information required to archive content.
type ArchiveContentRequest struct {
	ContentID  uuid.UUID
	ArchivedBy uuid.UUID
}

// BatchRequest targets a set of independent content entities.
type BatchRequest struct {
	ContentIDs  []uuid.UUID
	TriggeredBy uuid.UUID
	// Concurrency bounds the parallel pipelines; zero uses the service default.
	Concurrency int
}

// BatchResult reports the per-item outcome of a batch operation.
type BatchResult struct {
	ContentID uuid.UUID
	Content   *Content
	Err       error
}

// ScheduleContentRequest captures details to schedule publish/archive events.
type ScheduleContentRequest struct {
	ContentID   uuid.UUID
	PublishAt   *time.Time
	ArchiveAt   *time.Time
	ScheduledBy uuid.UUID
}

// Repository abstracts storage operations for content entities.
type Repository interface {
	Create(ctx context.Context, record *Content) (*Content, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Content, error)
	List(ctx context.Context) ([]*Content, error)
	Update(ctx context.Context, record *Content) (*Content, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithValidator overrides the format validator applied on the publish path.
func WithValidator(validator format.Validator) ServiceOption {
	return func(s *service) {
		if validator != nil {
			s.validator = validator
		}
	}
}

// WithNotifier overrides the notification dispatcher.
func WithNotifier(notifier interfaces.Notifier) ServiceOption {
	return func(s *service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithLogger injects the workflow logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScheduler overrides the scheduler used to register publish/archive jobs.
func WithScheduler(scheduler interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// WithSchedulingEnabled toggles scheduling-related workflows.
func WithSchedulingEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.schedulingEnabled = enabled
	}
}

// WithBatchConcurrency sets the default bound for batch operations.
func WithBatchConcurrency(limit int) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.batchConcurrency = limit
		}
	}
}

const defaultBatchConcurrency = 4

// service implements Service.
type service struct {
	contents          Repository
	validator         format.Validator
	notifier          interfaces.Notifier
	logger            interfaces.Logger
	scheduler         interfaces.Scheduler
	schedulingEnabled bool
	batchConcurrency  int
	now               func() time.Time
}

// NewService constructs the content workflow with the required dependencies.
func NewService(contents Repository, opts ...ServiceOption) Service {
	s := &service{
		contents:         contents,
		validator:        format.AcceptAll(),
		logger:           logging.NoOp(),
		scheduler:        pubscheduler.NewNoOp(),
		batchConcurrency: defaultBatchConcurrency,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get fetches content by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Content, error) {
	if id == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if err := permissions.Require(ctx, permissions.ContentRead); err != nil {
		return nil, err
	}
	return s.contents.GetByID(ctx, id)
}

// List returns all content entries.
func (s *service) List(ctx context.Context) ([]*Content, error) {
	if err := permissions.Require(ctx, permissions.ContentRead); err != nil {
		return nil, err
	}
	return s.contents.List(ctx)
}

// Publish runs the publication pipeline: capability check, load, format
// validation, mutation, persistence, then best-effort notification. The
// capability check happens before any load so unauthorized callers learn
// nothing about the entity, and format validation precedes mutation so a
// rejection leaves no partial state.
func (s *service) Publish(ctx context.Context, req PublishContentRequest) (*Content, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if err := permissions.Require(ctx, permissions.ContentPublish); err != nil {
		return nil, err
	}

	record, err := s.contents.GetByID(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	// Published never reverts within this workflow, so re-publishing is a no-op.
	if record.Published {
		return record, nil
	}

	media, err := s.validator.Validate(ctx, record.FileRef)
	if err != nil {
		return nil, err
	}

	now := s.now()
	publishedAt := now
	if req.PublishedAt != nil && !req.PublishedAt.IsZero() {
		publishedAt = *req.PublishedAt
	}

	record.Published = true
	record.Status = string(domain.StatusPublished)
	record.PublishedAt = &publishedAt
	record.PublishAt = nil
	record.UpdatedAt = now
	if media != "" {
		record.MediaType = &media
	}
	if actor := s.resolveActor(ctx, req.PublishedBy); actor != uuid.Nil {
		publishedBy := actor
		record.PublishedBy = &publishedBy
		record.UpdatedBy = publishedBy
	}

	updated, err := s.contents.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, "Content published", updated, now)
	return updated, nil
}

// Archive follows the publish pipeline shape without the format check.
func (s *service) Archive(ctx context.Context, req ArchiveContentRequest) (*Content, error) {
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if err := permissions.Require(ctx, permissions.ContentArchive); err != nil {
		return nil, err
	}

	record, err := s.contents.GetByID(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if domain.NormalizeStatus(record.Status).IsTerminal() {
		return record, nil
	}

	now := s.now()
	record.Status = string(domain.StatusArchived)
	record.ArchivedAt = &now
	record.ArchiveAt = nil
	record.UpdatedAt = now
	if actor := s.resolveActor(ctx, req.ArchivedBy); actor != uuid.Nil {
		record.UpdatedBy = actor
	}

	updated, err := s.contents.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, "Content archived", updated, now)
	return updated, nil
}

// Schedule registers publish and archive windows for a content entry and
// enqueues keyed scheduler jobs so repeat calls stay idempotent.
func (s *service) Schedule(ctx context.Context, req ScheduleContentRequest) (*Content, error) {
	if !s.schedulingEnabled {
		return nil, ErrSchedulingDisabled
	}
	if req.ContentID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if err := permissions.Require(ctx, permissions.ContentManage); err != nil {
		return nil, err
	}
	if req.PublishAt != nil && req.ArchiveAt != nil && req.ArchiveAt.Before(*req.PublishAt) {
		return nil, ErrScheduleWindowInvalid
	}
	if req.PublishAt != nil && req.PublishAt.IsZero() {
		return nil, ErrScheduleTimestampInvalid
	}
	if req.ArchiveAt != nil && req.ArchiveAt.IsZero() {
		return nil, ErrScheduleTimestampInvalid
	}

	record, err := s.contents.GetByID(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record.PublishAt = cloneTimePtr(req.PublishAt)
	record.ArchiveAt = cloneTimePtr(req.ArchiveAt)
	record.UpdatedAt = now
	if req.ScheduledBy != uuid.Nil {
		record.UpdatedBy = req.ScheduledBy
	}

	if record.PublishAt != nil && !record.Published {
		record.Status = string(domain.StatusScheduled)
	}

	if s.scheduler != nil {
		if record.PublishAt != nil {
			payload := map[string]any{"content_id": record.ID.String()}
			if req.ScheduledBy != uuid.Nil {
				payload["scheduled_by"] = req.ScheduledBy.String()
			}
			if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
				Key:     pubscheduler.ContentPublishJobKey(record.ID),
				Type:    pubscheduler.JobTypeContentPublish,
				RunAt:   *record.PublishAt,
				Payload: payload,
			}); err != nil {
				return nil, err
			}
		} else if cancelErr := s.scheduler.CancelByKey(ctx, pubscheduler.ContentPublishJobKey(record.ID)); cancelErr != nil && !errors.Is(cancelErr, interfaces.ErrJobNotFound) {
			return nil, cancelErr
		}

		if record.ArchiveAt != nil {
			payload := map[string]any{"content_id": record.ID.String()}
			if req.ScheduledBy != uuid.Nil {
				payload["scheduled_by"] = req.ScheduledBy.String()
			}
			if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
				Key:     pubscheduler.ContentArchiveJobKey(record.ID),
				Type:    pubscheduler.JobTypeContentArchive,
				RunAt:   *record.ArchiveAt,
				Payload: payload,
			}); err != nil {
				return nil, err
			}
		} else if cancelErr := s.scheduler.CancelByKey(ctx, pubscheduler.ContentArchiveJobKey(record.ID)); cancelErr != nil && !errors.Is(cancelErr, interfaces.ErrJobNotFound) {
			return nil, cancelErr
		}
	}

	return s.contents.Update(ctx, record)
}

// dispatch delivers a workflow notification. Delivery happens after the state
// change was committed, so a failure is logged and never surfaced: the
// committed outcome stands.
func (s *service) dispatch(ctx context.Context, label string, record *Content, occurredAt time.Time) {
	if s.notifier == nil {
		return
	}
	event := interfaces.NotificationEvent{
		Label:      label,
		Subject:    record.Title,
		ContentID:  record.ID.String(),
		OccurredAt: occurredAt,
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		logging.WithFields(s.logger, map[string]any{
			"content_id": record.ID.String(),
			"label":      label,
		}).Warn("workflow.notify.failed", "error", err)
	}
}

func (s *service) resolveActor(ctx context.Context, explicit uuid.UUID) uuid.UUID {
	if explicit != uuid.Nil {
		return explicit
	}
	if actor, ok := permissions.ActorFromContext(ctx); ok {
		return actor.ID
	}
	return uuid.Nil
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
