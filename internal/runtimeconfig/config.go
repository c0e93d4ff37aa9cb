package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageProviderRequired = errors.New("publisher config: storage provider is required")
var ErrStorageProviderUnknown = errors.New("publisher config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("publisher config: storage dsn is required for database providers")
var ErrNotificationProviderUnknown = errors.New("publisher config: notification provider is invalid")
var ErrNotificationURLRequired = errors.New("publisher config: webhook notifications require a url")
var ErrBatchConcurrencyInvalid = errors.New("publisher config: batch concurrency must be zero or positive")
var ErrWorkerBatchSizeInvalid = errors.New("publisher config: worker batch size must be zero or positive")
var ErrLoggingProviderRequired = errors.New("publisher config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("publisher config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("publisher config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("publisher config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the publisher module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	Storage       StorageConfig
	Cache         CacheConfig
	Formats       FormatConfig
	Notifications NotificationConfig
	Workflow      WorkflowConfig
	Features      Features
	Commands      CommandsConfig
	Logging       LoggingConfig
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// FormatConfig lists the media types accepted by the publication pipeline.
// Entries support family wildcards such as `image/*`.
type FormatConfig struct {
	AcceptedMediaTypes []string
	ReadLimit          uint32
}

// NotificationConfig selects the downstream notifier.
type NotificationConfig struct {
	Provider string
	URL      string
	Headers  map[string]string
}

// WorkflowConfig tunes the publication workflow itself.
type WorkflowConfig struct {
	BatchConcurrency int
	WorkerBatchSize  int
}

// Features toggles module functionality.
type Features struct {
	Scheduling bool
	Logger     bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Formats: FormatConfig{
			AcceptedMediaTypes: []string{
				"image/*",
				"video/*",
				"audio/*",
				"application/pdf",
				"text/plain",
				"text/markdown",
			},
		},
		Notifications: NotificationConfig{
			Provider: "log",
		},
		Workflow: WorkflowConfig{
			BatchConcurrency: 4,
			WorkerBatchSize:  50,
		},
		Features: Features{},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := normalizeToken(cfg.Storage.Provider)
	if provider == "" {
		return ErrStorageProviderRequired
	}
	if !isSupportedStorageProvider(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if requiresDSN(provider) && strings.TrimSpace(cfg.Storage.DSN) == "" {
		return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
	}
	if notifier := normalizeToken(cfg.Notifications.Provider); notifier != "" {
		if !isSupportedNotificationProvider(notifier) {
			return fmt.Errorf("%w: %s", ErrNotificationProviderUnknown, notifier)
		}
		if notifier == "webhook" && strings.TrimSpace(cfg.Notifications.URL) == "" {
			return ErrNotificationURLRequired
		}
	}
	if cfg.Workflow.BatchConcurrency < 0 {
		return ErrBatchConcurrencyInvalid
	}
	if cfg.Workflow.WorkerBatchSize < 0 {
		return ErrWorkerBatchSizeInvalid
	}
	if cfg.Features.Logger {
		logProvider := normalizeToken(cfg.Logging.Provider)
		if logProvider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(logProvider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logProvider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if logProvider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedStorageProvider(provider string) bool {
	switch provider {
	case "memory", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func requiresDSN(provider string) bool {
	return provider == "postgres"
}

func isSupportedNotificationProvider(provider string) bool {
	switch provider {
	case "none", "log", "webhook":
		return true
	default:
		return false
	}
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
