package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrDefaultThemeRequired indicates the theme fallback chain has no terminal tier.
var ErrDefaultThemeRequired = errors.New("storefront config: default theme is required")

// ErrThemesBasePathRequired indicates the themes root location is missing.
var ErrThemesBasePathRequired = errors.New("storefront config: themes base path is required")

var ErrPlatformRootDomainRequired = errors.New("storefront config: at least one platform root domain is required")
var ErrStorageProviderUnknown = errors.New("storefront config: storage provider is invalid")
var ErrLoggingProviderRequired = errors.New("storefront config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("storefront config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("storefront config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("storefront config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the storefront
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled    bool
	Platform   PlatformConfig
	Themes     ThemeConfig
	Navigation NavigationConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Features   Features
	Logging    LoggingConfig
}

// PlatformConfig identifies the platform's own surfaces during tenant
// resolution.
type PlatformConfig struct {
	// RootDomains are hosts served by the platform landing site instead of a
	// tenant storefront.
	RootDomains []string
	// LocalAliases extend the built-in development hosts (localhost,
	// 127.0.0.1).
	LocalAliases []string
	// BaseURL is where unresolved hosts are redirected. Empty disables the
	// redirect and unresolved requests render as platform landing.
	BaseURL string
}

// ThemeConfig captures configuration for template resolution.
type ThemeConfig struct {
	// BasePath is the root below which theme directories live.
	BasePath string
	// DefaultTheme is the terminal fallback theme key.
	DefaultTheme string
	// DefaultVariant selects the manifest variant used when a shop does not
	// pick one.
	DefaultVariant string
	// CatalogCacheTTL bounds how stale a cached theme scan may be. Zero
	// disables caching and every check hits the filesystem.
	CatalogCacheTTL time.Duration
}

// NavigationConfig captures routing configuration for menu URL resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	Group     string
	PageRoute string
	SlugParam string
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles module functionality.
type Features struct {
	Markdown bool
	Logger   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a single-node deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Platform: PlatformConfig{
			RootDomains: []string{},
		},
		Themes: ThemeConfig{
			BasePath:        "themes",
			DefaultTheme:    "default",
			CatalogCacheTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			URLKit: URLKitResolverConfig{
				SlugParam: "slug",
			},
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Themes.DefaultTheme) == "" {
		return ErrDefaultThemeRequired
	}
	if strings.TrimSpace(cfg.Themes.BasePath) == "" {
		return ErrThemesBasePathRequired
	}
	if strings.TrimSpace(cfg.Platform.BaseURL) == "" && len(cfg.Platform.RootDomains) == 0 {
		return ErrPlatformRootDomainRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case "", "memory", "bun-sqlite", "bun-postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedProvider(provider string) bool {
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
