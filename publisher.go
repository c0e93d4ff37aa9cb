package publisher

import (
	"context"

	"github.com/goliatone/go-publisher/internal/content"
	"github.com/goliatone/go-publisher/internal/di"
	"github.com/goliatone/go-publisher/internal/format"
	"github.com/goliatone/go-publisher/internal/jobs"
	"github.com/goliatone/go-publisher/internal/permissions"
	"github.com/goliatone/go-publisher/pkg/interfaces"
)

// ContentService exports the content workflow contract for consumers of the publisher package.
type ContentService = content.Service

// Content exports the content entity.
type Content = content.Content

// PublishRequest exports the publish operation input.
type PublishRequest = content.PublishContentRequest

// ArchiveRequest exports the archive operation input.
type ArchiveRequest = content.ArchiveContentRequest

// ScheduleRequest exports the scheduled publication input.
type ScheduleRequest = content.ScheduleContentRequest

// BatchRequest exports the batch operation input.
type BatchRequest = content.BatchRequest

// BatchResult exports the per-item batch outcome.
type BatchResult = content.BatchResult

// NotFoundError exports the missing-entity error type.
type NotFoundError = content.NotFoundError

// Notifier exports the notification contract.
type Notifier = interfaces.Notifier

// NotificationEvent exports the notification payload.
type NotificationEvent = interfaces.NotificationEvent

// Scheduler exports the delayed-execution contract.
type Scheduler = interfaces.Scheduler

// Logger exports the leveled logging contract.
type Logger = interfaces.Logger

// LoggerProvider exports the named logger factory contract.
type LoggerProvider = interfaces.LoggerProvider

// Worker exports the scheduled-job worker.
type Worker = jobs.Worker

// Checker exports the capability checker contract.
type Checker = permissions.Checker

// Actor exports the acting principal carried on contexts.
type Actor = permissions.Actor

// Workflow error identities, usable with errors.Is.
var (
	ErrPermissionDenied = permissions.ErrPermissionDenied
	ErrInvalidFormat    = format.ErrInvalidFormat
	ErrFileRefRequired  = format.ErrFileRefRequired
)

// Capability tokens enforced by the workflow.
const (
	CapabilityContentRead    = permissions.ContentRead
	CapabilityContentPublish = permissions.ContentPublish
	CapabilityContentArchive = permissions.ContentArchive
	CapabilityContentManage  = permissions.ContentManage
)

// WithPermissions attaches a static capability set to the context.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	return permissions.WithPermissions(ctx, perms...)
}

// WithChecker attaches a host-supplied capability checker to the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	return permissions.WithChecker(ctx, checker)
}

// WithActor attaches the acting principal to the context for checks and attribution.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return permissions.WithActor(ctx, actor)
}

// IsNotFound reports whether the error marks a missing content entity.
func IsNotFound(err error) bool {
	return content.IsNotFound(err)
}

// Module represents the top level publisher runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a publisher module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured content workflow service.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Scheduler returns the configured scheduler.
func (m *Module) Scheduler() Scheduler {
	return m.container.Scheduler()
}

// Worker returns the scheduled-job worker, nil unless scheduling is enabled.
func (m *Module) Worker() *Worker {
	return m.container.Worker()
}

// Notifier returns the configured notifier.
func (m *Module) Notifier() Notifier {
	return m.container.Notifier()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
