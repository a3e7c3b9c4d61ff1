// Package sitegen is a library-first static site engine: it loads Markdown
// content from a source tree, enforces the front-matter contract, checks
// internal links, and builds a deployable HTML tree with feeds, sitemaps,
// and an incremental-build manifest.
package sitegen

import (
	"io/fs"

	"github.com/goliatone/go-sitegen/internal/catalog"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/linkcheck"
	"github.com/goliatone/go-sitegen/internal/nav"
	"github.com/goliatone/go-sitegen/internal/siteconfig"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/internal/validate"
	"github.com/goliatone/go-sitegen/pkg/generator"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// GeneratorService exports the site build contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the aggregated build result.
type BuildResult = generator.BuildResult

// ContentService exports the content classification service.
type ContentService = content.Service

// ValidateService exports the front-matter validation service.
type ValidateService = validate.Service

// LinkcheckService exports the internal link checker.
type LinkcheckService = linkcheck.Service

// CatalogService exports the content catalog service.
type CatalogService = catalog.Service

// ThemeService exports the theme discovery contract.
type ThemeService = themes.Service

// SiteConfig exports the declarative site configuration.
type SiteConfig = siteconfig.Config

// Routes exports the site route table.
type Routes = nav.Routes

// Option re-exports the DI container option type so hosts can override
// individual services.
type Option = di.Option

// WithLoggerProvider overrides the logging provider derived from configuration.
var WithLoggerProvider = di.WithLoggerProvider

// WithSiteConfig injects a pre-loaded site configuration.
var WithSiteConfig = di.WithSiteConfig

// WithMarkdownService overrides the filesystem-backed markdown service.
var WithMarkdownService = di.WithMarkdownService

// WithStorageProvider overrides the artifact storage the generator writes to.
var WithStorageProvider = di.WithStorageProvider

// WithRenderer overrides the theme-derived template renderer.
var WithRenderer = di.WithRenderer

// WithThemeService overrides the theme discovery service.
var WithThemeService = di.WithThemeService

// WithBunDB injects an existing catalog database handle.
var WithBunDB = di.WithBunDB

// WithCache overrides the repository cache used by catalog repositories.
var WithCache = di.WithCache

// Module is the top level engine facade over the DI container.
type Module struct {
	container *di.Container
}

// New validates the configuration and constructs every enabled service.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Generator returns the site build service.
func (m *Module) Generator() GeneratorService {
	return m.container.Generator()
}

// Content returns the content classification service.
func (m *Module) Content() *ContentService {
	return m.container.Content()
}

// Markdown returns the document loading service.
func (m *Module) Markdown() interfaces.MarkdownService {
	return m.container.Markdown()
}

// Validator returns the front-matter validation service, nil when the
// feature is disabled.
func (m *Module) Validator() *ValidateService {
	return m.container.Validator()
}

// Linkcheck returns the link checker, nil when the feature is disabled.
func (m *Module) Linkcheck() *LinkcheckService {
	return m.container.Linkcheck()
}

// Catalog returns the catalog service, nil when the feature is disabled.
func (m *Module) Catalog() *CatalogService {
	return m.container.Catalog()
}

// Themes returns the theme discovery service.
func (m *Module) Themes() ThemeService {
	return m.container.Themes()
}

// Site returns the declarative site configuration.
func (m *Module) Site() *SiteConfig {
	return m.container.Site()
}

// SiteRoutes returns the site route table.
func (m *Module) SiteRoutes() *Routes {
	return m.container.Routes()
}

// Logger returns the logging provider backing every module logger.
func (m *Module) Logger() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// SourceFS returns the content source tree as a filesystem.
func (m *Module) SourceFS() fs.FS {
	return m.container.SourceFS()
}

// OutputDir returns the resolved build output directory.
func (m *Module) OutputDir() string {
	return m.container.OutputDir()
}
