package publisher

import "github.com/goliatone/go-publisher/internal/runtimeconfig"

var (
	ErrStorageProviderRequired     = runtimeconfig.ErrStorageProviderRequired
	ErrStorageProviderUnknown      = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
	ErrNotificationProviderUnknown = runtimeconfig.ErrNotificationProviderUnknown
	ErrNotificationURLRequired     = runtimeconfig.ErrNotificationURLRequired
	ErrBatchConcurrencyInvalid     = runtimeconfig.ErrBatchConcurrencyInvalid
	ErrWorkerBatchSizeInvalid      = runtimeconfig.ErrWorkerBatchSizeInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config             = runtimeconfig.Config
	StorageConfig      = runtimeconfig.StorageConfig
	CacheConfig        = runtimeconfig.CacheConfig
	FormatConfig       = runtimeconfig.FormatConfig
	NotificationConfig = runtimeconfig.NotificationConfig
	WorkflowConfig     = runtimeconfig.WorkflowConfig
	Features           = runtimeconfig.Features
	CommandsConfig     = runtimeconfig.CommandsConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
