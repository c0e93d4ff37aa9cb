package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-publisher/internal/domain"
	"github.com/goliatone/go-publisher/internal/format"
	"github.com/goliatone/go-publisher/internal/notify"
	"github.com/goliatone/go-publisher/internal/permissions"
	"github.com/goliatone/go-publisher/pkg/interfaces"
	"github.com/google/uuid"
)

func fixedNow() time.Time {
	return time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
}

type trackingValidator struct {
	mu    sync.Mutex
	calls []string
	media string
	err   error
}

func (v *trackingValidator) Validate(_ context.Context, fileRef string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, fileRef)
	if v.err != nil {
		return "", v.err
	}
	return v.media, nil
}

func (v *trackingValidator) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.calls)
}

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Fatal(string, ...any) {}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}
func (l *recordingLogger) warningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

func publishContext() context.Context {
	return permissions.WithPermissions(context.Background(), permissions.ContentPublish)
}

func archiveContext() context.Context {
	return permissions.WithPermissions(context.Background(), permissions.ContentArchive)
}

func seedContent(t *testing.T, repo *MemoryContentRepository, title string) *Content {
	t.Helper()
	record := &Content{
		ID:        uuid.New(),
		Title:     title,
		FileRef:   "assets/" + title + ".bin",
		Status:    string(domain.StatusDraft),
		CreatedAt: fixedNow().Add(-time.Hour),
		UpdatedAt: fixedNow().Add(-time.Hour),
	}
	created, err := repo.Create(context.Background(), record)
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
	return created
}

func TestPublishSuccess(t *testing.T) {
	repo := NewMemoryContentRepository()
	validator := &trackingValidator{media: "image/png"}
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(validator),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "spring-launch")
	actor := uuid.New()

	published, err := svc.Publish(publishContext(), PublishContentRequest{
		ContentID:   record.ID,
		PublishedBy: actor,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if !published.Published {
		t.Fatal("expected published flag set")
	}
	if published.Status != string(domain.StatusPublished) {
		t.Fatalf("expected status published, got %q", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(fixedNow()) {
		t.Fatalf("expected published_at %v, got %v", fixedNow(), published.PublishedAt)
	}
	if published.PublishedBy == nil || *published.PublishedBy != actor {
		t.Fatalf("expected published_by %s, got %v", actor, published.PublishedBy)
	}
	if published.MediaType == nil || *published.MediaType != "image/png" {
		t.Fatalf("expected detected media type recorded, got %v", published.MediaType)
	}

	stored, err := repo.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.Published {
		t.Fatal("expected persisted record to be published")
	}

	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(events))
	}
	if events[0].Subject != "spring-launch" {
		t.Fatalf("expected notification subject to carry the title, got %q", events[0].Subject)
	}
	if events[0].ContentID != record.ID.String() {
		t.Fatalf("expected notification content id %s, got %s", record.ID, events[0].ContentID)
	}
}

func TestPublishDeniedWithoutCapability(t *testing.T) {
	repo := NewMemoryContentRepository()
	validator := &trackingValidator{media: "image/png"}
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(validator),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "locked-down")

	cases := map[string]context.Context{
		"no checker":       context.Background(),
		"empty set":        permissions.WithPermissions(context.Background()),
		"wrong capability": permissions.WithPermissions(context.Background(), permissions.ContentRead),
	}

	for name, ctx := range cases {
		_, err := svc.Publish(ctx, PublishContentRequest{ContentID: record.ID})
		if !errors.Is(err, permissions.ErrPermissionDenied) {
			t.Fatalf("%s: expected ErrPermissionDenied, got %v", name, err)
		}
	}

	if validator.callCount() != 0 {
		t.Fatalf("expected validator untouched on denial, got %d calls", validator.callCount())
	}
	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no notifications on denial, got %d", len(recorder.Events()))
	}

	stored, err := repo.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Published || stored.Status != string(domain.StatusDraft) {
		t.Fatal("expected record unchanged after denied publish")
	}
}

func TestPublishNotFoundSkipsValidatorAndNotifier(t *testing.T) {
	repo := NewMemoryContentRepository()
	validator := &trackingValidator{media: "image/png"}
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(validator),
		WithNotifier(recorder),
	)

	_, err := svc.Publish(publishContext(), PublishContentRequest{ContentID: uuid.New()})
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if validator.callCount() != 0 {
		t.Fatalf("expected validator untouched for missing content, got %d calls", validator.callCount())
	}
	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no notifications for missing content, got %d", len(recorder.Events()))
	}
}

func TestPublishInvalidFormatLeavesRecordUntouched(t *testing.T) {
	repo := NewMemoryContentRepository()
	validator := &trackingValidator{err: &format.InvalidFormatError{Detected: "application/x-msdownload"}}
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(validator),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "suspicious-upload")

	_, err := svc.Publish(publishContext(), PublishContentRequest{ContentID: record.ID})
	if !errors.Is(err, format.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}

	stored, reloadErr := repo.GetByID(context.Background(), record.ID)
	if reloadErr != nil {
		t.Fatalf("reload: %v", reloadErr)
	}
	if stored.Published || stored.PublishedAt != nil {
		t.Fatal("expected no mutation after format rejection")
	}
	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no notifications after format rejection, got %d", len(recorder.Events()))
	}
}

func TestPublishSaveFailurePropagatesWithoutNotification(t *testing.T) {
	repo := NewMemoryContentRepository()
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(&trackingValidator{media: "text/plain"}),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "flaky-storage")

	saveErr := errors.New("disk full")
	repo.FailSaves(saveErr)

	_, err := svc.Publish(publishContext(), PublishContentRequest{ContentID: record.ID})
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected save error to propagate, got %v", err)
	}
	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no notification when save fails, got %d", len(recorder.Events()))
	}
}

func TestPublishNotifierFailureDoesNotFailOperation(t *testing.T) {
	repo := NewMemoryContentRepository()
	recorder := notify.NewRecorder()
	recorder.Fail(errors.New("webhook down"))
	logger := &recordingLogger{}

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(&trackingValidator{media: "text/plain"}),
		WithNotifier(recorder),
		WithLogger(logger),
	)

	record := seedContent(t, repo, "resilient")

	published, err := svc.Publish(publishContext(), PublishContentRequest{ContentID: record.ID})
	if err != nil {
		t.Fatalf("publish should succeed despite notifier failure, got %v", err)
	}
	if !published.Published {
		t.Fatal("expected published flag set")
	}

	stored, reloadErr := repo.GetByID(context.Background(), record.ID)
	if reloadErr != nil {
		t.Fatalf("reload: %v", reloadErr)
	}
	if !stored.Published {
		t.Fatal("expected committed state to stand")
	}
	if logger.warningCount() == 0 {
		t.Fatal("expected a warning log for the failed notification")
	}
}

func TestPublishAlreadyPublishedIsNoOp(t *testing.T) {
	repo := NewMemoryContentRepository()
	validator := &trackingValidator{media: "text/plain"}
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(validator),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "steady-state")

	first, err := svc.Publish(publishContext(), PublishContentRequest{ContentID: record.ID})
	if err != nil {
		t.Fatalf("first publish: %v", err)
	}

	second, err := svc.Publish(publishContext(), PublishContentRequest{ContentID: record.ID})
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}

	if second.PublishedAt == nil || !second.PublishedAt.Equal(*first.PublishedAt) {
		t.Fatal("expected re-publish to preserve the original timestamp")
	}
	if validator.callCount() != 1 {
		t.Fatalf("expected validator invoked once, got %d", validator.callCount())
	}
	if len(recorder.Events()) != 1 {
		t.Fatalf("expected a single notification, got %d", len(recorder.Events()))
	}
}

func TestPublishHonoursExplicitTimestamp(t *testing.T) {
	repo := NewMemoryContentRepository()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(&trackingValidator{media: "text/plain"}),
	)

	record := seedContent(t, repo, "backdated")
	when := fixedNow().Add(-48 * time.Hour)

	published, err := svc.Publish(publishContext(), PublishContentRequest{
		ContentID:   record.ID,
		PublishedAt: &when,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(when) {
		t.Fatalf("expected published_at %v, got %v", when, published.PublishedAt)
	}
	if !published.UpdatedAt.Equal(fixedNow()) {
		t.Fatalf("expected updated_at stamped with the clock, got %v", published.UpdatedAt)
	}
}

func TestPublishRequiresContentID(t *testing.T) {
	svc := NewService(NewMemoryContentRepository())
	if _, err := svc.Publish(publishContext(), PublishContentRequest{}); !errors.Is(err, ErrContentIDRequired) {
		t.Fatalf("expected ErrContentIDRequired, got %v", err)
	}
}

func TestArchiveSuccessSkipsFormatValidation(t *testing.T) {
	repo := NewMemoryContentRepository()
	validator := &trackingValidator{err: errors.New("validator must not run")}
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithValidator(validator),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "sunset")
	actor := uuid.New()

	archived, err := svc.Archive(archiveContext(), ArchiveContentRequest{
		ContentID:  record.ID,
		ArchivedBy: actor,
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	if archived.Status != string(domain.StatusArchived) {
		t.Fatalf("expected status archived, got %q", archived.Status)
	}
	if archived.ArchivedAt == nil || !archived.ArchivedAt.Equal(fixedNow()) {
		t.Fatalf("expected archived_at %v, got %v", fixedNow(), archived.ArchivedAt)
	}
	if archived.UpdatedBy != actor {
		t.Fatalf("expected updated_by %s, got %s", actor, archived.UpdatedBy)
	}
	if validator.callCount() != 0 {
		t.Fatalf("archive must not invoke format validation, got %d calls", validator.callCount())
	}

	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("expected one notification, got %d", len(events))
	}
	if events[0].Label != "Content archived" {
		t.Fatalf("expected archive label, got %q", events[0].Label)
	}
}

func TestArchiveDeniedWithoutCapability(t *testing.T) {
	repo := NewMemoryContentRepository()
	svc := NewService(repo, WithClock(fixedNow))

	record := seedContent(t, repo, "guarded")

	ctx := permissions.WithPermissions(context.Background(), permissions.ContentPublish)
	if _, err := svc.Archive(ctx, ArchiveContentRequest{ContentID: record.ID}); !errors.Is(err, permissions.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestArchiveAlreadyArchivedIsNoOp(t *testing.T) {
	repo := NewMemoryContentRepository()
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "twice-archived")

	if _, err := svc.Archive(archiveContext(), ArchiveContentRequest{ContentID: record.ID}); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	if _, err := svc.Archive(archiveContext(), ArchiveContentRequest{ContentID: record.ID}); err != nil {
		t.Fatalf("second archive: %v", err)
	}

	if len(recorder.Events()) != 1 {
		t.Fatalf("expected a single notification, got %d", len(recorder.Events()))
	}
}

func TestArchiveNormalizesStoredStatus(t *testing.T) {
	repo := NewMemoryContentRepository()
	recorder := notify.NewRecorder()

	svc := NewService(repo,
		WithClock(fixedNow),
		WithNotifier(recorder),
	)

	record := seedContent(t, repo, "imported archive")
	record.Status = "  Archived "
	if _, err := repo.Update(context.Background(), record); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	if _, err := svc.Archive(archiveContext(), ArchiveContentRequest{ContentID: record.ID}); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no-op for imported archived status, got %d events", len(recorder.Events()))
	}
	stored, err := repo.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ArchivedAt != nil {
		t.Fatal("expected no archive timestamp for a no-op")
	}
}

func TestArchiveNotFound(t *testing.T) {
	svc := NewService(NewMemoryContentRepository(), WithClock(fixedNow))

	_, err := svc.Archive(archiveContext(), ArchiveContentRequest{ContentID: uuid.New()})
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetRequiresReadCapability(t *testing.T) {
	repo := NewMemoryContentRepository()
	svc := NewService(repo)

	record := seedContent(t, repo, "readable")

	if _, err := svc.Get(context.Background(), record.ID); !errors.Is(err, permissions.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	ctx := permissions.WithPermissions(context.Background(), permissions.ContentRead)
	got, err := svc.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != record.ID {
		t.Fatalf("expected record %s, got %s", record.ID, got.ID)
	}
}

func TestListRequiresReadCapability(t *testing.T) {
	repo := NewMemoryContentRepository()
	svc := NewService(repo)
	seedContent(t, repo, "one")
	seedContent(t, repo, "two")

	if _, err := svc.List(context.Background()); !errors.Is(err, permissions.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	ctx := permissions.WithPermissions(context.Background(), permissions.ContentRead)
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected two records, got %d", len(all))
	}
}

func TestScheduleDisabledByDefault(t *testing.T) {
	svc := NewService(NewMemoryContentRepository())

	_, err := svc.Schedule(context.Background(), ScheduleContentRequest{ContentID: uuid.New()})
	if !errors.Is(err, ErrSchedulingDisabled) {
		t.Fatalf("expected ErrSchedulingDisabled, got %v", err)
	}
}

func TestScheduleValidatesWindow(t *testing.T) {
	repo := NewMemoryContentRepository()
	svc := NewService(repo,
		WithClock(fixedNow),
		WithSchedulingEnabled(true),
	)

	record := seedContent(t, repo, "windowed")

	publishAt := fixedNow().Add(2 * time.Hour)
	archiveAt := fixedNow().Add(time.Hour)

	ctx := permissions.WithPermissions(context.Background(), permissions.ContentManage)
	_, err := svc.Schedule(ctx, ScheduleContentRequest{
		ContentID: record.ID,
		PublishAt: &publishAt,
		ArchiveAt: &archiveAt,
	})
	if !errors.Is(err, ErrScheduleWindowInvalid) {
		t.Fatalf("expected ErrScheduleWindowInvalid, got %v", err)
	}
}

func TestScheduleMarksContentScheduled(t *testing.T) {
	repo := NewMemoryContentRepository()
	svc := NewService(repo,
		WithClock(fixedNow),
		WithSchedulingEnabled(true),
	)

	record := seedContent(t, repo, "upcoming")
	publishAt := fixedNow().Add(24 * time.Hour)

	ctx := permissions.WithPermissions(context.Background(), permissions.ContentManage)
	scheduled, err := svc.Schedule(ctx, ScheduleContentRequest{
		ContentID:   record.ID,
		PublishAt:   &publishAt,
		ScheduledBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if scheduled.Status != string(domain.StatusScheduled) {
		t.Fatalf("expected status scheduled, got %q", scheduled.Status)
	}
	if scheduled.PublishAt == nil || !scheduled.PublishAt.Equal(publishAt) {
		t.Fatalf("expected publish_at %v, got %v", publishAt, scheduled.PublishAt)
	}
}
