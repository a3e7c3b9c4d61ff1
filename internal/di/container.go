// Package di wires the engine services from one runtime configuration:
// markdown loading, content classification, routing, themes, the catalog,
// the generator, validation, and the link checker.
package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-sitegen/internal/catalog"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/fsstore"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/linkcheck"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/console"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/nav"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/siteconfig"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/internal/validate"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	"github.com/uptrace/bun"
)

// SiteConfigFileName is the declarative configuration file looked up at the
// source root.
const SiteConfigFileName = "site.yaml"

var errSourceDirRequired = errors.New("di: source directory is required")

// Container wires engine dependencies from runtime configuration. Services
// are constructed eagerly so misconfiguration surfaces at startup rather
// than mid-build.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	site           *siteconfig.Config
	markdownSvc    interfaces.MarkdownService
	contentSvc     *content.Service
	routes         *nav.Routes
	themeSvc       themes.Service
	renderer       interfaces.TemplateRenderer
	storage        interfaces.StorageProvider
	generatorSvc   generator.Service
	validateSvc    *validate.Service
	linkcheckSvc   *linkcheck.Service
	catalogSvc     *catalog.Service

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
}

// Option mutates the container before services are finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logging provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithSiteConfig injects a pre-loaded site configuration instead of reading
// site.yaml from the source directory.
func WithSiteConfig(site *siteconfig.Config) Option {
	return func(c *Container) {
		c.site = site
	}
}

// WithMarkdownService overrides the default filesystem-backed markdown service.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithStorageProvider overrides the artifact storage the generator writes to.
func WithStorageProvider(provider interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = provider
	}
}

// WithRenderer overrides the theme-derived template renderer.
func WithRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithThemeService overrides the default theme discovery service.
func WithThemeService(svc themes.Service) Option {
	return func(c *Container) {
		c.themeSvc = svc
	}
}

// WithBunDB injects an existing database handle for the catalog instead of
// opening one from Storage config. The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used by catalog repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// NewContainer validates the configuration and builds every enabled service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.SourceDir) == "" {
		return nil, errSourceDirRequired
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureSiteConfig(); err != nil {
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	if err := c.configureContent(); err != nil {
		return nil, err
	}
	c.configureRoutes()
	if err := c.configureThemes(); err != nil {
		return nil, err
	}
	if err := c.configureCatalog(); err != nil {
		return nil, err
	}
	if err := c.configureGenerator(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureValidation(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureLinkcheck()

	return c, nil
}

// Close releases resources owned by the container, currently the catalog
// database handle when the container opened it.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		c.ownsDB = false
		return err
	}
	return nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "", "console":
		c.loggerProvider = console.NewProvider(console.Options{})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("di: unknown logging provider %q", logCfg.Provider)
	}
	return nil
}

func (c *Container) configureSiteConfig() error {
	if c.site != nil {
		return nil
	}
	path := filepath.Join(c.Config.SourceDir, SiteConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			c.site = siteconfig.Defaults()
			return nil
		}
		return err
	}
	site, err := siteconfig.Load(path)
	if err != nil {
		return err
	}
	c.site = site
	return nil
}

func (c *Container) configureMarkdown() error {
	if c.markdownSvc != nil {
		return nil
	}
	mdCfg := c.Config.Markdown
	svc, err := markdown.NewService(markdown.Config{
		BasePath:       c.contentRoot(),
		DefaultLocale:  c.defaultLocale(),
		Locales:        mdCfg.Locales,
		LocalePatterns: mdCfg.LocalePatterns,
		Pattern:        mdCfg.Pattern,
		Recursive:      mdCfg.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: mdCfg.Parser.Extensions,
			Sanitize:   mdCfg.Parser.Sanitize,
			HardWraps:  mdCfg.Parser.HardWraps,
			SafeMode:   mdCfg.Parser.SafeMode,
		},
	}, nil)
	if err != nil {
		return err
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureContent() error {
	dataDir := strings.TrimSpace(c.Config.Content.DataDir)
	var dataFS fs.FS
	if dataDir != "" {
		dataFS = os.DirFS(filepath.Join(c.contentRoot(), dataDir))
	}

	svc, err := content.NewService(content.Config{
		PostsDir:      c.Config.Content.PostsDir,
		DataDir:       dataDir,
		DefaultLocale: c.defaultLocale(),
	}, c.markdownSvc, dataFS, logging.ContentLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.contentSvc = svc
	return nil
}

func (c *Container) configureRoutes() {
	baseURL := c.Config.Generator.BaseURL
	if strings.TrimSpace(baseURL) == "" && c.site != nil {
		baseURL = c.site.BaseURL()
	}
	c.routes = nav.NewRoutes(baseURL, c.defaultLocale(), c.Config.Markdown.Locales)
}

func (c *Container) configureThemes() error {
	if c.themeSvc == nil {
		if !c.Config.Features.Themes {
			c.themeSvc = themes.NewNoOpService()
		} else {
			c.themeSvc = themes.NewService(themes.Config{
				Root:         c.themesRoot(),
				DefaultTheme: c.Config.Themes.DefaultTheme,
			}, themes.WithLogger(logging.ModuleLogger(c.loggerProvider, "sitegen.themes")))
		}
	}

	if c.renderer != nil || !c.Config.Features.Themes {
		return nil
	}

	theme, err := c.themeSvc.Theme(context.Background(), c.themeName())
	if err != nil {
		return fmt.Errorf("di: resolve theme: %w", err)
	}

	rendererOpts := []themes.RendererOption{
		themes.WithBaseURL(c.Config.Generator.BaseURL),
	}
	if overrides := strings.TrimSpace(c.Config.Themes.OverridesDir); overrides != "" {
		rendererOpts = append(rendererOpts, themes.WithOverrides(filepath.Join(c.Config.SourceDir, overrides)))
	}
	renderer, err := themes.NewRenderer(theme.TemplateRoot(), rendererOpts...)
	if err != nil {
		return err
	}
	c.renderer = renderer
	return nil
}

func (c *Container) configureCatalog() error {
	if !c.Config.Features.Catalog {
		return nil
	}

	entries, builds, err := c.catalogRepositories()
	if err != nil {
		return err
	}
	c.catalogSvc = catalog.NewService(entries, builds,
		catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) catalogRepositories() (catalog.EntryRepository, catalog.BuildRepository, error) {
	driver := strings.TrimSpace(c.Config.Storage.Driver)
	if driver == "" || driver == "memory" {
		return catalog.NewMemoryEntryRepository(), catalog.NewMemoryBuildRepository(), nil
	}

	if c.bunDB == nil {
		db, err := catalog.Open(catalog.OpenConfig{
			Driver: driver,
			DSN:    c.Config.Storage.DSN,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := catalog.EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	c.configureCacheDefaults()
	if c.cacheService != nil && c.keySerializer != nil {
		return catalog.NewBunEntryRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer),
			catalog.NewBunBuildRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer), nil
	}
	return catalog.NewBunEntryRepository(c.bunDB), catalog.NewBunBuildRepository(c.bunDB), nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cacheCfg.TTL = ttl
		} else {
			cacheCfg.TTL = time.Minute
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureGenerator() error {
	genCfg := c.Config.Generator
	if !genCfg.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return nil
	}

	if c.storage == nil {
		outputDir := genCfg.OutputDir
		if !filepath.IsAbs(outputDir) {
			outputDir = filepath.Join(c.Config.SourceDir, outputDir)
		}
		store, err := fsstore.New(outputDir)
		if err != nil {
			return err
		}
		c.storage = store
	}

	locales := c.Config.Markdown.Locales
	if len(locales) == 0 {
		locales = []string{c.defaultLocale()}
	}

	feedLimit := 0
	if c.site != nil {
		feedLimit = c.site.Feeds.Limit
	}

	c.generatorSvc = generator.NewService(generator.Config{
		// The storage provider is rooted at the output directory, so paths
		// written through it are relative to that root.
		OutputDir:       "",
		BaseURL:         c.baseURL(),
		CleanBuild:      genCfg.CleanBuild,
		Incremental:     genCfg.Incremental,
		CopyAssets:      genCfg.CopyAssets,
		GenerateSitemap: genCfg.GenerateSitemap,
		GenerateRobots:  genCfg.GenerateRobots,
		GenerateFeeds:   genCfg.GenerateFeeds,
		FeedLimit:       feedLimit,
		PostsPerIndex:   c.postsPerIndex(),
		TagIndexes:      genCfg.TagIndexes,
		ArchiveIndexes:  genCfg.ArchiveIndexes,
		Workers:         genCfg.Workers,
		DefaultLocale:   c.defaultLocale(),
		Locales:         locales,
		StaticDir:       c.staticDir(),
	}, generator.Dependencies{
		Content:  c.contentSvc,
		Site:     c.site,
		Themes:   c.themeSvc,
		Renderer: c.renderer,
		Storage:  c.storage,
		Routes:   c.routes,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
	return nil
}

func (c *Container) configureValidation() error {
	if !c.Config.Features.Validation {
		return nil
	}

	rules := validate.Rules{
		AllowedTags:        c.Config.Validation.AllowedTags,
		MinTags:            c.Config.Validation.MinTags,
		MaxTags:            c.Config.Validation.MaxTags,
		RequireComments:    c.Config.Validation.RequireComments,
		RequireDescription: c.Config.Validation.RequireDescription,
	}
	if c.site != nil && len(c.site.Validation.AllowedTags) > 0 {
		rules.AllowedTags = c.site.Validation.AllowedTags
	}

	svc, err := validate.NewService(validate.Config{
		PostsDir: c.Config.Content.PostsDir,
		Rules:    rules,
	}, c.markdownSvc, logging.ValidateLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.validateSvc = svc
	return nil
}

func (c *Container) configureLinkcheck() {
	if !c.Config.Features.Linkcheck {
		return
	}
	c.linkcheckSvc = linkcheck.NewService(logging.LinkcheckLogger(c.loggerProvider))
}

// LoggerProvider returns the logging provider backing every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Site returns the declarative site configuration.
func (c *Container) Site() *siteconfig.Config {
	return c.site
}

// Markdown returns the document loading service.
func (c *Container) Markdown() interfaces.MarkdownService {
	return c.markdownSvc
}

// Content returns the content classification service.
func (c *Container) Content() *content.Service {
	return c.contentSvc
}

// Routes returns the site route table.
func (c *Container) Routes() *nav.Routes {
	return c.routes
}

// Themes returns the theme discovery service.
func (c *Container) Themes() themes.Service {
	return c.themeSvc
}

// Renderer returns the template renderer, nil when themes are disabled and
// no override was supplied.
func (c *Container) Renderer() interfaces.TemplateRenderer {
	return c.renderer
}

// Storage returns the artifact storage provider.
func (c *Container) Storage() interfaces.StorageProvider {
	return c.storage
}

// Generator returns the site build service.
func (c *Container) Generator() generator.Service {
	return c.generatorSvc
}

// Validator returns the front matter validation service, nil when the
// feature is disabled.
func (c *Container) Validator() *validate.Service {
	return c.validateSvc
}

// Linkcheck returns the link checker, nil when the feature is disabled.
func (c *Container) Linkcheck() *linkcheck.Service {
	return c.linkcheckSvc
}

// Catalog returns the catalog service, nil when the feature is disabled.
func (c *Container) Catalog() *catalog.Service {
	return c.catalogSvc
}

// DB returns the catalog database handle, nil for memory-backed catalogs.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// SourceFS returns the content source tree as a filesystem for link checking.
func (c *Container) SourceFS() fs.FS {
	return os.DirFS(c.contentRoot())
}

// OutputDir resolves the generator output directory against the source dir.
func (c *Container) OutputDir() string {
	out := c.Config.Generator.OutputDir
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(c.Config.SourceDir, out)
}

func (c *Container) contentRoot() string {
	contentDir := c.Config.Markdown.ContentDir
	if filepath.IsAbs(contentDir) {
		return contentDir
	}
	return filepath.Join(c.Config.SourceDir, contentDir)
}

func (c *Container) themesRoot() string {
	base := c.Config.Themes.BasePath
	if filepath.IsAbs(base) {
		return base
	}
	return filepath.Join(c.Config.SourceDir, base)
}

func (c *Container) staticDir() string {
	static := filepath.Join(c.Config.SourceDir, "static")
	if info, err := os.Stat(static); err == nil && info.IsDir() {
		return static
	}
	return ""
}

func (c *Container) defaultLocale() string {
	if locale := strings.TrimSpace(c.Config.Markdown.DefaultLocale); locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(c.Config.DefaultLocale); locale != "" {
		return locale
	}
	return "en"
}

func (c *Container) baseURL() string {
	if url := strings.TrimSpace(c.Config.Generator.BaseURL); url != "" {
		return url
	}
	if c.site != nil {
		return c.site.BaseURL()
	}
	return ""
}

func (c *Container) postsPerIndex() int {
	if c.site != nil && c.site.Blog.PostsPerIndex > 0 {
		return c.site.Blog.PostsPerIndex
	}
	if c.Config.Generator.PostsPerIndex > 0 {
		return c.Config.Generator.PostsPerIndex
	}
	return 10
}

func (c *Container) themeName() string {
	if c.site != nil && strings.TrimSpace(c.site.Theme.Name) != "" {
		return c.site.Theme.Name
	}
	return c.Config.Themes.DefaultTheme
}
