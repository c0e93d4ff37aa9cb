package di

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-publisher/internal/content"
	"github.com/goliatone/go-publisher/internal/format"
	"github.com/goliatone/go-publisher/internal/jobs"
	"github.com/goliatone/go-publisher/internal/logging"
	"github.com/goliatone/go-publisher/internal/logging/console"
	"github.com/goliatone/go-publisher/internal/logging/gologger"
	"github.com/goliatone/go-publisher/internal/notify"
	"github.com/goliatone/go-publisher/internal/runtimeconfig"
	"github.com/goliatone/go-publisher/internal/scheduler"
	"github.com/goliatone/go-publisher/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const defaultSQLiteDSN = "file::memory:?cache=shared"

// Container wires module dependencies from configuration, with option hooks so
// host applications can override any binding.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	contentRepo content.Repository

	validator format.Validator
	notifier  interfaces.Notifier
	scheduler interfaces.Scheduler

	clock func() time.Time

	contentSvc content.Service
	worker     *jobs.Worker
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB injects an externally managed database handle. The container will
// not close handles it does not own.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
		c.ownsDB = false
	}
}

// WithCache overrides the default repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithContentRepository overrides the default content repository binding.
func WithContentRepository(repo content.Repository) Option {
	return func(c *Container) {
		c.contentRepo = repo
	}
}

// WithValidator overrides the default format validator binding.
func WithValidator(validator format.Validator) Option {
	return func(c *Container) {
		c.validator = validator
	}
}

// WithNotifier overrides the default notifier binding.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithScheduler overrides the default scheduler binding.
func WithScheduler(sched interfaces.Scheduler) Option {
	return func(c *Container) {
		c.scheduler = sched
	}
}

// WithContentService overrides the default content service binding.
func WithContentService(svc content.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithClock overrides the clock shared by the wired components.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	if err := c.configureCacheDefaults(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureValidator()
	if err := c.configureNotifier(); err != nil {
		return nil, err
	}
	c.configureScheduler()

	if c.contentSvc == nil {
		serviceOpts := []content.ServiceOption{
			content.WithClock(c.clock),
			content.WithValidator(c.validator),
			content.WithNotifier(c.notifier),
			content.WithLogger(logging.WorkflowLogger(c.loggerProvider)),
			content.WithScheduler(c.scheduler),
			content.WithSchedulingEnabled(cfg.Features.Scheduling),
		}
		if cfg.Workflow.BatchConcurrency > 0 {
			serviceOpts = append(serviceOpts, content.WithBatchConcurrency(cfg.Workflow.BatchConcurrency))
		}
		c.contentSvc = content.NewService(c.contentRepo, serviceOpts...)
	}

	if cfg.Features.Scheduling {
		workerOpts := []jobs.Option{
			jobs.WithClock(c.clock),
			jobs.WithLogger(logging.SchedulerLogger(c.loggerProvider)),
		}
		if cfg.Workflow.WorkerBatchSize > 0 {
			workerOpts = append(workerOpts, jobs.WithBatchSize(cfg.Workflow.WorkerBatchSize))
		}
		c.worker = jobs.NewWorker(c.scheduler, c.contentSvc, workerOpts...)
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		minLevel := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &minLevel})
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) {
	case "sqlite":
		dsn := strings.TrimSpace(c.Config.Storage.DSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("storage: open sqlite: %w", err)
		}
		c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
		c.ownsDB = true
	case "postgres":
		sqlDB, err := sql.Open("postgres", c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("storage: open postgres: %w", err)
		}
		c.bunDB = bun.NewDB(sqlDB, pgdialect.New())
		c.ownsDB = true
	}
	return nil
}

// newCacheService builds the default repository cache backend.
var newCacheService = func(ttl time.Duration) (repocache.CacheService, error) {
	cfg := repocache.DefaultConfig()
	if ttl > 0 {
		cfg.TTL = ttl
	}
	return repocache.NewCacheService(cfg)
}

func (c *Container) configureCacheDefaults() error {
	if !c.Config.Cache.Enabled {
		return nil
	}

	if c.cacheService == nil {
		service, err := newCacheService(c.cacheTTL)
		if err != nil {
			return fmt.Errorf("cache: initialise service: %w", err)
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.contentRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.contentRepo = content.NewBunContentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.contentRepo = content.NewMemoryContentRepository()
}

func (c *Container) configureValidator() {
	if c.validator != nil {
		return
	}
	formatOpts := []format.Option{}
	if limit := c.Config.Formats.ReadLimit; limit > 0 {
		formatOpts = append(formatOpts, format.WithReadLimit(limit))
	}
	c.validator = format.NewValidator(c.Config.Formats.AcceptedMediaTypes, formatOpts...)
}

func (c *Container) configureNotifier() error {
	if c.notifier != nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Notifications.Provider)) {
	case "", "none":
		c.notifier = notify.NewNoOp()
	case "webhook":
		webhookOpts := []notify.WebhookOption{}
		for key, value := range c.Config.Notifications.Headers {
			webhookOpts = append(webhookOpts, notify.WithHeader(key, value))
		}
		notifier, err := notify.NewWebhookNotifier(c.Config.Notifications.URL, webhookOpts...)
		if err != nil {
			return err
		}
		c.notifier = notifier
	default:
		c.notifier = notify.NewLogNotifier(logging.NotifyLogger(c.loggerProvider))
	}
	return nil
}

func (c *Container) configureScheduler() {
	if c.scheduler != nil {
		return
	}
	if !c.Config.Features.Scheduling {
		c.scheduler = scheduler.NewNoOp()
		return
	}
	c.scheduler = scheduler.NewInMemory(scheduler.WithClock(c.clock))
}

// LoggerProvider exposes the configured logging provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB exposes the configured database handle, nil for memory storage.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// ContentRepository exposes the configured content repository.
func (c *Container) ContentRepository() content.Repository {
	return c.contentRepo
}

// ContentService returns the configured content service.
func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

// Validator returns the configured format validator.
func (c *Container) Validator() format.Validator {
	return c.validator
}

// Notifier returns the configured notifier.
func (c *Container) Notifier() interfaces.Notifier {
	return c.notifier
}

// Scheduler returns the configured scheduler.
func (c *Container) Scheduler() interfaces.Scheduler {
	return c.scheduler
}

// Worker returns the scheduled-job worker, nil unless scheduling is enabled.
func (c *Container) Worker() *jobs.Worker {
	return c.worker
}

// Close releases resources owned by the container.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		return c.bunDB.Close()
	}
	return nil
}
