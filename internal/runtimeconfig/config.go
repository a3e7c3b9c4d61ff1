package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrThemesFeatureRequired indicates inconsistent theme configuration.
var ErrThemesFeatureRequired = errors.New("sitegen config: themes feature must be enabled to configure themes")

// ErrAdvancedCacheRequiresEnabledCache ensures advanced cache builds only when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("sitegen config: advanced cache feature requires cache to be enabled")

var ErrMarkdownFeatureRequired = errors.New("sitegen config: markdown feature must be enabled to configure markdown")
var ErrMarkdownContentDirRequired = errors.New("sitegen config: markdown content directory is required when markdown is enabled")
var ErrGeneratorOutputDirRequired = errors.New("sitegen config: generator output directory is required when generator is enabled")
var ErrCatalogStorageRequired = errors.New("sitegen config: catalog feature requires a storage driver")
var ErrLoggingProviderRequired = errors.New("sitegen config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitegen config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitegen config: logging format is invalid")
var ErrValidationTagBoundsInvalid = errors.New("sitegen config: validation tag bounds are invalid")
var ErrServerDebounceInvalid = errors.New("sitegen config: server watch debounce must be zero or positive")

// Config aggregates feature flags and adapter bindings for the engine.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	SourceDir     string
	DefaultLocale string
	Content       ContentConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Navigation    NavigationConfig
	Themes        ThemeConfig
	Validation    ValidationConfig
	Features      Features
	Commands      CommandsConfig
	Markdown      MarkdownConfig
	Generator     GeneratorConfig
	Server        ServerConfig
	Logging       LoggingConfig
}

// ContentConfig captures the layout of the content source tree. Paths are
// relative to Markdown.ContentDir; an empty PagesDir treats every document
// outside PostsDir as a page.
type ContentConfig struct {
	PostsDir      string
	PagesDir      string
	DataDir       string
	DefaultAuthor string
}

// StorageConfig describes the database used by the content catalog.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for nav URL resolution.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	URLKit      URLKitResolverConfig
}

// ThemeConfig captures configuration for the themes module.
type ThemeConfig struct {
	BasePath     string
	DefaultTheme string
	OverridesDir string
}

// URLKitResolverConfig configures the go-urlkit based resolver.
type URLKitResolverConfig struct {
	DefaultGroup string
	DefaultRoute string
	SlugParam    string
	RouteField   string
	ParamsField  string
	QueryField   string
}

// ValidationConfig captures the front-matter contract enforced on posts.
type ValidationConfig struct {
	AllowedTags        []string
	MinTags            int
	MaxTags            int
	RequireComments    bool
	RequireDescription bool
}

// Features toggles module functionality.
type Features struct {
	Themes        bool
	Markdown      bool
	Catalog       bool
	AdvancedCache bool
	Validation    bool
	Linkcheck     bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown ingestion.
type MarkdownConfig struct {
	Enabled        bool
	ContentDir     string
	Pattern        string
	Recursive      bool
	LocalePatterns map[string]string
	DefaultLocale  string
	Locales        []string
	Parser         MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// GeneratorConfig captures behaviour for the site build.
type GeneratorConfig struct {
	Enabled          bool
	OutputDir        string
	BaseURL          string
	CleanBuild       bool
	Incremental      bool
	CopyAssets       bool
	GenerateSitemap  bool
	GenerateRobots   bool
	GenerateFeeds    bool
	PostsPerIndex    int
	TagIndexes       bool
	ArchiveIndexes   bool
	Workers          int
	RenderTimeout    time.Duration
	AssetCopyTimeout time.Duration
}

// ServerConfig captures behaviour for the local preview server.
type ServerConfig struct {
	Addr          string
	WatchDebounce time.Duration
	NoCache       bool
}

// DefaultConfig returns opinionated defaults for a single-locale blog layout.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Content: ContentConfig{
			PostsDir: "blog/posts",
			PagesDir: "",
			DataDir:  "data",
		},
		Storage: StorageConfig{},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{},
		Themes: ThemeConfig{
			BasePath: "themes",
		},
		Validation: ValidationConfig{
			MinTags:            2,
			MaxTags:            4,
			RequireComments:    true,
			RequireDescription: true,
		},
		Features: Features{},
		Commands: CommandsConfig{},
		Markdown: MarkdownConfig{
			ContentDir:     "docs",
			Pattern:        "*.md",
			Recursive:      true,
			LocalePatterns: map[string]string{},
		},
		Generator: GeneratorConfig{
			OutputDir:        "site",
			CleanBuild:       true,
			Incremental:      false,
			CopyAssets:       true,
			GenerateSitemap:  true,
			GenerateRobots:   false,
			GenerateFeeds:    true,
			PostsPerIndex:    10,
			TagIndexes:       true,
			ArchiveIndexes:   true,
			Workers:          0,
			RenderTimeout:    0,
			AssetCopyTimeout: 0,
		},
		Server: ServerConfig{
			Addr:          ":8000",
			WatchDebounce: 500 * time.Millisecond,
			NoCache:       true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Features.Themes {
		if strings.TrimSpace(cfg.Themes.DefaultTheme) != "" {
			return ErrThemesFeatureRequired
		}
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Markdown.Enabled {
		if !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrMarkdownContentDirRequired
		}
	}
	if cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
	}
	if cfg.Features.Catalog && strings.TrimSpace(cfg.Storage.Driver) == "" {
		return ErrCatalogStorageRequired
	}
	if cfg.Validation.MinTags < 0 || cfg.Validation.MaxTags < cfg.Validation.MinTags {
		return fmt.Errorf("%w: min=%d max=%d", ErrValidationTagBoundsInvalid, cfg.Validation.MinTags, cfg.Validation.MaxTags)
	}
	if cfg.Server.WatchDebounce < 0 {
		return ErrServerDebounceInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
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

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
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
