// Package generator builds the deployable site tree: rendered pages, feeds,
// sitemap, robots, copied assets, and the incremental-build manifest.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/nav"
	"github.com/goliatone/go-sitegen/internal/siteconfig"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	// ErrPageNotFound indicates no planned page matches the requested id.
	ErrPageNotFound     = errors.New("generator: page not found")
	errRendererRequired = errors.New("generator: template renderer is required")
	errContentRequired  = errors.New("generator: content service is required")
	errRoutesRequired   = errors.New("generator: route table is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildPage(ctx context.Context, pageID uuid.UUID) (*RenderedPage, error)
	BuildAssets(ctx context.Context) error
	BuildSitemap(ctx context.Context) error
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	FeedLimit       int
	PostsPerIndex   int
	TagIndexes      bool
	ArchiveIndexes  bool
	Workers         int
	DefaultLocale   string
	Locales         []string
	StaticDir       string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	Locales []string
	Tags    []string
	DryRun  bool
	Force   bool
}

// RenderedPage captures one rendered output page.
type RenderedPage struct {
	PageID   uuid.UUID
	Kind     PageKind
	Locale   string
	Route    string
	Template string
	HTML     string
	Output   string
	Checksum string
	Metadata DependencyMetadata
	Duration time.Duration
}

// RenderDiagnostic reports the outcome of rendering one page.
type RenderDiagnostic struct {
	PageID   uuid.UUID
	Kind     PageKind
	Locale   string
	Route    string
	Template string
	Skipped  bool
	Duration time.Duration
	Err      error
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	FeedsWritten  int
	Locales       []string
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// Routes returns the site-relative routes of every rendered page.
func (r *BuildResult) Routes() []string {
	routes := make([]string, 0, len(r.Rendered))
	for _, page := range r.Rendered {
		routes = append(routes, page.Route)
	}
	return routes
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Content  *content.Service
	Site     *siteconfig.Config
	Themes   themes.Service
	Renderer interfaces.TemplateRenderer
	Storage  interfaces.StorageProvider
	Routes   *nav.Routes
	Logger   interfaces.Logger
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// NewDisabledService returns a Service failing all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	skipped    bool
	err        error
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Content == nil {
		return nil, errContentRequired
	}
	if s.deps.Routes == nil {
		return nil, errRoutesRequired
	}

	start := time.Now()
	buildCtx, err := s.loadContext(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Locales:     append([]string(nil), buildCtx.Locales...),
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(buildCtx.Pages)),
	}

	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")

	manifest := newBuildManifest()
	var errorsSlice []error
	if s.cfg.Incremental && !opts.Force {
		loaded, manifestErr := s.loadManifest(ctx)
		if manifestErr != nil {
			errorsSlice = append(errorsSlice, manifestErr)
		} else if loaded != nil {
			manifest = loaded
		}
	}

	if s.cfg.CleanBuild && !opts.DryRun && !s.cfg.Incremental {
		if err := s.Clean(ctx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	var (
		mu       sync.Mutex
		rendered = make([]RenderedPage, 0, len(buildCtx.Pages))
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	workerCount := s.effectiveWorkerCount(len(buildCtx.Pages))
	if workerCount <= 1 || len(buildCtx.Pages) <= 1 {
		for _, page := range buildCtx.Pages {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
				collect(s.renderPage(ctx, buildCtx, page, manifest, baseDir))
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, buildCtx, workerCount, manifest, baseDir, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	writer := newArtifactWriter(s.deps.Storage)
	if err := s.persistPages(ctx, writer, buildCtx, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if s.cfg.CopyAssets {
		summary, err := s.copyAssets(ctx, writer, buildCtx, manifest, baseDir)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.AssetsBuilt += summary.Built
			result.AssetsSkipped += summary.Skipped
		}
	}

	if s.cfg.GenerateFeeds {
		written, err := s.writeFeeds(ctx, writer, buildCtx)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.FeedsWritten = written
		}
	}

	if s.cfg.GenerateSitemap {
		sitemapPages := s.mergeRenderedForSitemap(buildCtx, rendered, manifest)
		if err := s.writeSitemap(ctx, writer, buildCtx, sitemapPages); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, buildCtx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = buildCtx.GeneratedAt
		for _, page := range rendered {
			if strings.TrimSpace(page.Checksum) == "" {
				continue
			}
			manifest.setPage(manifestPage{
				PageID:       page.PageID.String(),
				Locale:       page.Locale,
				Route:        page.Route,
				Output:       page.Output,
				Template:     page.Template,
				Hash:         page.Metadata.Hash,
				Checksum:     page.Checksum,
				LastModified: page.Metadata.LastModified,
				RenderedAt:   buildCtx.GeneratedAt,
			})
		}
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)

	s.deps.Logger.Info("generator.build.finished",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"feeds", result.FeedsWritten,
		"duration_ms", result.Duration.Milliseconds(),
		"errors", len(errorsSlice),
	)

	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	buildCtx *BuildContext,
	workers int,
	manifest *buildManifest,
	baseDir string,
	collect func(renderOutcome),
) error {
	jobs := make(chan *PageData)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{
						diagnostic: RenderDiagnostic{
							PageID: page.ID,
							Kind:   page.Kind,
							Locale: page.Locale,
							Route:  page.Route,
							Err:    ctx.Err(),
						},
						err: ctx.Err(),
					})
					return
				default:
					collect(s.renderPage(ctx, buildCtx, page, manifest, baseDir))
				}
			}
		}()
	}

	var sendErr error
	for _, page := range buildCtx.Pages {
		select {
		case <-ctx.Done():
			sendErr = ctx.Err()
		case jobs <- page:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()
	return sendErr
}

func (s *service) renderPage(
	ctx context.Context,
	buildCtx *BuildContext,
	data *PageData,
	manifest *buildManifest,
	baseDir string,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			PageID:   data.ID,
			Kind:     data.Kind,
			Locale:   data.Locale,
			Route:    data.Route,
			Template: data.Template,
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	if s.cfg.Incremental && !buildCtx.Options.Force {
		destRel := buildOutputPath(data.Route, data.Locale, buildCtx.DefaultLocale)
		expectedOutput := joinOutputPath(baseDir, destRel)
		if manifest.shouldSkipPage(data.ID, data.Locale, data.Metadata.Hash, expectedOutput) {
			outcome.skipped = true
			outcome.diagnostic.Skipped = true
			return outcome
		}
	}

	templateCtx := TemplateContext{
		Site: buildCtx.Site,
		Page: PageRenderingContext{
			Kind:        data.Kind,
			Route:       data.Route,
			Title:       data.Title,
			Description: data.Description,
			Post:        data.Post,
			Page:        data.Page,
			Listing:     data.Listing,
			Posts:       data.Posts,
			Pagination:  data.Pagination,
			Tag:         data.Tag,
			Year:        data.Year,
			Locale:      data.Locale,
			Metadata:    data.Metadata,
		},
		Build: BuildMetadata{
			GeneratedAt: buildCtx.GeneratedAt,
			Options:     buildCtx.Options,
		},
		Helpers: newTemplateHelpers(buildCtx.DefaultLocale, data.Locale, buildCtx.Site.BaseURL),
	}
	if s.deps.Site != nil {
		templateCtx.Nav = nav.BuildMenu(s.deps.Site.Nav, data.Route)
	}

	start := time.Now()
	html, err := s.deps.Renderer.RenderTemplate(data.Template, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render template %q for %s (%s): %w", data.Template, data.Route, data.Locale, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.page = RenderedPage{
		PageID:   data.ID,
		Kind:     data.Kind,
		Locale:   data.Locale,
		Route:    data.Route,
		Template: data.Template,
		HTML:     html,
		Metadata: data.Metadata,
		Duration: duration,
	}
	return outcome
}

func (s *service) persistPages(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
	pages []RenderedPage,
) error {
	if len(pages) == 0 {
		return nil
	}
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}
	for i := range pages {
		destRel := buildOutputPath(pages[i].Route, pages[i].Locale, buildCtx.DefaultLocale)
		if strings.TrimSpace(destRel) == "" {
			destRel = "index.html"
		}
		fullPath := joinOutputPath(baseDir, destRel)
		if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
			return err
		}
		checksum := computeHashFromString(pages[i].HTML)
		pages[i].Output = fullPath
		pages[i].Checksum = checksum

		req := writeFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Locale:      pages[i].Locale,
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
			Metadata: map[string]string{
				"kind":     string(pages[i].Kind),
				"route":    pages[i].Route,
				"template": pages[i].Template,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) mergeRenderedForSitemap(
	buildCtx *BuildContext,
	rendered []RenderedPage,
	manifest *buildManifest,
) []RenderedPage {
	renderedByKey := make(map[string]RenderedPage, len(rendered))
	for _, page := range rendered {
		renderedByKey[manifest.pageKey(page.PageID, page.Locale)] = page
	}

	sitemap := make([]RenderedPage, 0, len(buildCtx.Pages))
	for _, data := range buildCtx.Pages {
		key := manifest.pageKey(data.ID, data.Locale)
		if page, ok := renderedByKey[key]; ok {
			sitemap = append(sitemap, page)
			continue
		}
		if entry, ok := manifest.lookupPage(data.ID, data.Locale); ok {
			sitemap = append(sitemap, RenderedPage{
				PageID:   data.ID,
				Kind:     data.Kind,
				Locale:   data.Locale,
				Route:    entry.Route,
				Output:   entry.Output,
				Template: entry.Template,
				Checksum: entry.Checksum,
				Metadata: DependencyMetadata{
					Hash:         entry.Hash,
					LastModified: entry.LastModified,
				},
			})
			continue
		}
		sitemap = append(sitemap, RenderedPage{
			PageID:   data.ID,
			Kind:     data.Kind,
			Locale:   data.Locale,
			Route:    data.Route,
			Template: data.Template,
			Metadata: data.Metadata,
		})
	}
	return sitemap
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if s.deps.Storage == nil {
		return newBuildManifest(), nil
	}
	target := s.manifestTargetPath()
	rows, err := s.deps.Storage.Query(ctx, storageOpRead, target)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return newBuildManifest(), nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("generator: scan manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	base := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return joinOutputPath(base, manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := s.manifestTargetPath()
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     strings.NewReader(string(data)),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	})
}

func (s *service) writeSitemap(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
	pages []RenderedPage,
) error {
	content := buildSitemap(buildCtx.Site.BaseURL, pages, buildCtx.GeneratedAt)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	fullPath := joinOutputPath(baseDir, "sitemap.xml")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": buildCtx.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
) error {
	content := buildRobots(buildCtx.Site.BaseURL, s.cfg.GenerateSitemap)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	fullPath := joinOutputPath(baseDir, "robots.txt")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": s.now().UTC().Format(time.RFC3339),
		},
	})
}

// BuildPage renders and persists one planned page by id, bypassing the
// incremental manifest.
func (s *service) BuildPage(ctx context.Context, pageID uuid.UUID) (*RenderedPage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Content == nil {
		return nil, errContentRequired
	}
	if s.deps.Routes == nil {
		return nil, errRoutesRequired
	}

	buildCtx, err := s.loadContext(ctx, BuildOptions{Force: true})
	if err != nil {
		return nil, err
	}

	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	for _, data := range buildCtx.Pages {
		if data.ID != pageID {
			continue
		}
		outcome := s.renderPage(ctx, buildCtx, data, newBuildManifest(), baseDir)
		if outcome.err != nil {
			return nil, outcome.err
		}
		pages := []RenderedPage{outcome.page}
		if err := s.persistPages(ctx, newArtifactWriter(s.deps.Storage), buildCtx, pages); err != nil {
			return nil, err
		}
		page := pages[0]
		return &page, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
}

// BuildAssets copies theme and static assets without rendering pages.
func (s *service) BuildAssets(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	buildCtx, err := s.loadContext(ctx, BuildOptions{})
	if err != nil {
		return err
	}
	writer := newArtifactWriter(s.deps.Storage)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	_, err = s.copyAssets(ctx, writer, buildCtx, newBuildManifest(), baseDir)
	return err
}

// BuildSitemap renders only the sitemap from the planned page set.
func (s *service) BuildSitemap(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	buildCtx, err := s.loadContext(ctx, BuildOptions{})
	if err != nil {
		return err
	}
	pages := s.mergeRenderedForSitemap(buildCtx, nil, newBuildManifest())
	return s.writeSitemap(ctx, newArtifactWriter(s.deps.Storage), buildCtx, pages)
}

// Clean removes the output directory contents.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	writer := newArtifactWriter(s.deps.Storage)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return writer.Remove(ctx, baseDir)
}

func (s *service) effectiveWorkerCount(pageCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildPage(context.Context, uuid.UUID) (*RenderedPage, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildAssets(context.Context) error { return ErrServiceDisabled }

func (disabledService) BuildSitemap(context.Context) error { return ErrServiceDisabled }

func (disabledService) Clean(context.Context) error { return ErrServiceDisabled }
