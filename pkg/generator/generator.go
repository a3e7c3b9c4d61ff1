// Package generator exposes the static site build API for go-sitegen hosts.
// Use NewService with Config and Dependencies to render pages, copy assets,
// and write feeds, sitemaps, and robots files.
package generator

import internal "github.com/goliatone/go-sitegen/internal/generator"

type (
	Service            = internal.Service
	Config             = internal.Config
	BuildOptions       = internal.BuildOptions
	BuildResult        = internal.BuildResult
	RenderedPage       = internal.RenderedPage
	RenderDiagnostic   = internal.RenderDiagnostic
	Dependencies       = internal.Dependencies
	DependencyMetadata = internal.DependencyMetadata
	PageKind           = internal.PageKind
)

const (
	KindPost    = internal.KindPost
	KindPage    = internal.KindPage
	KindIndex   = internal.KindIndex
	KindTag     = internal.KindTag
	KindArchive = internal.KindArchive
	KindListing = internal.KindListing
)

var (
	ErrServiceDisabled = internal.ErrServiceDisabled
	ErrPageNotFound    = internal.ErrPageNotFound
)

// NewService wires a site build service with the supplied configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}
