package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-publisher/internal/content"
	"github.com/goliatone/go-publisher/internal/format"
	"github.com/goliatone/go-publisher/internal/notify"
	"github.com/goliatone/go-publisher/internal/permissions"
	"github.com/goliatone/go-publisher/internal/runtimeconfig"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

func TestNewContainerDefaults(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.ContentService() == nil {
		t.Fatal("expected content service to be wired")
	}
	if container.ContentRepository() == nil {
		t.Fatal("expected content repository to be wired")
	}
	if container.DB() != nil {
		t.Fatal("expected no database for memory storage")
	}
	if container.Scheduler() == nil {
		t.Fatal("expected a scheduler binding even when scheduling is disabled")
	}
	if container.Worker() != nil {
		t.Fatal("expected no worker when scheduling is disabled")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "mongo"

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestNewContainerSQLiteStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "sqlite"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.DB() == nil {
		t.Fatal("expected sqlite-backed database handle")
	}
	if _, ok := container.ContentRepository().(*content.BunContentRepository); !ok {
		t.Fatalf("expected bun repository, got %T", container.ContentRepository())
	}
}

func TestNewContainerSchedulingWiresWorker(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Scheduling = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.Worker() == nil {
		t.Fatal("expected worker when scheduling is enabled")
	}
}

func TestNewContainerSurfacesCacheInitFailure(t *testing.T) {
	original := newCacheService
	t.Cleanup(func() { newCacheService = original })

	backendDown := errors.New("cache backend unavailable")
	newCacheService = func(time.Duration) (repocache.CacheService, error) {
		return nil, backendDown
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true

	if _, err := NewContainer(cfg); !errors.Is(err, backendDown) {
		t.Fatalf("expected cache failure surfaced, got %v", err)
	}
}

func TestNewContainerCacheDisabledSkipsBackend(t *testing.T) {
	original := newCacheService
	t.Cleanup(func() { newCacheService = original })

	newCacheService = func(time.Duration) (repocache.CacheService, error) {
		t.Fatal("cache backend must not be built when cache is disabled")
		return nil, nil
	}

	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	container.Close()
}

func TestNewContainerOptionOverrides(t *testing.T) {
	repo := content.NewMemoryContentRepository()
	recorder := notify.NewRecorder()

	cfg := runtimeconfig.DefaultConfig()
	container, err := NewContainer(cfg,
		WithContentRepository(repo),
		WithNotifier(recorder),
		WithValidator(format.ValidatorFunc(func(context.Context, string) (string, error) {
			return "text/plain", nil
		})),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.ContentRepository() != content.Repository(repo) {
		t.Fatal("expected injected repository binding")
	}
	if container.Notifier() != recorder {
		t.Fatal("expected injected notifier binding")
	}

	record := &content.Content{
		ID:      uuid.New(),
		Title:   "Launch notes",
		FileRef: "",
	}
	if _, err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("seed content: %v", err)
	}

	ctx := permissions.WithPermissions(context.Background(), permissions.ContentPublish)
	published, err := container.ContentService().Publish(ctx, content.PublishContentRequest{
		ContentID:   record.ID,
		PublishedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("publish via container wiring: %v", err)
	}
	if !published.Published {
		t.Fatal("expected content to be marked published")
	}

	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("expected one notification, got %d", len(events))
	}
	if events[0].Subject != "Launch notes" {
		t.Fatalf("expected notification subject to carry the title, got %q", events[0].Subject)
	}
}
