package storefront

import "github.com/goliatone/go-storefront/internal/runtimeconfig"

var (
	ErrDefaultThemeRequired       = runtimeconfig.ErrDefaultThemeRequired
	ErrThemesBasePathRequired     = runtimeconfig.ErrThemesBasePathRequired
	ErrPlatformRootDomainRequired = runtimeconfig.ErrPlatformRootDomainRequired
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	PlatformConfig       = runtimeconfig.PlatformConfig
	ThemeConfig          = runtimeconfig.ThemeConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
