package credits

import "github.com/goliatone/go-credits/internal/runtimeconfig"

var (
	ErrStorageDriverRequired  = runtimeconfig.ErrStorageDriverRequired
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrTagNameRequired        = runtimeconfig.ErrTagNameRequired
	ErrTagNameInvalid         = runtimeconfig.ErrTagNameInvalid
	ErrCSSClassRequired       = runtimeconfig.ErrCSSClassRequired
	ErrUserNamespaceInvalid   = runtimeconfig.ErrUserNamespaceInvalid
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	CreditsConfig  = runtimeconfig.CreditsConfig
	ProfilesConfig = runtimeconfig.ProfilesConfig
	CacheConfig    = runtimeconfig.CacheConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
