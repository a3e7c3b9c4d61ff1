package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

var (
	ErrThemesFeatureRequired             = runtimeconfig.ErrThemesFeatureRequired
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrMarkdownFeatureRequired           = runtimeconfig.ErrMarkdownFeatureRequired
	ErrMarkdownContentDirRequired        = runtimeconfig.ErrMarkdownContentDirRequired
	ErrGeneratorOutputDirRequired        = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrCatalogStorageRequired            = runtimeconfig.ErrCatalogStorageRequired
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
	ErrValidationTagBoundsInvalid        = runtimeconfig.ErrValidationTagBoundsInvalid
	ErrServerDebounceInvalid             = runtimeconfig.ErrServerDebounceInvalid
)

type (
	Config               = runtimeconfig.Config
	ContentConfig        = runtimeconfig.ContentConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	ThemeConfig          = runtimeconfig.ThemeConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	ValidationConfig     = runtimeconfig.ValidationConfig
	Features             = runtimeconfig.Features
	CommandsConfig       = runtimeconfig.CommandsConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	ServerConfig         = runtimeconfig.ServerConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the runtime defaults for an embedded engine.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
