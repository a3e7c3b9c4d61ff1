package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/nav"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/google/uuid"
)

// PageKind classifies what a planned output page renders.
type PageKind string

const (
	KindPost    PageKind = "post"
	KindPage    PageKind = "page"
	KindIndex   PageKind = "index"
	KindTag     PageKind = "tag"
	KindArchive PageKind = "archive"
	KindListing PageKind = "listing"
)

// defaultTemplate maps a page kind to the template rendered when the source
// document does not override one.
func defaultTemplate(kind PageKind) string {
	switch kind {
	case KindPost:
		return "post"
	case KindIndex:
		return "index"
	case KindTag:
		return "tag"
	case KindArchive:
		return "archive"
	case KindListing:
		return "listing"
	default:
		return "page"
	}
}

// SiteMetadata exposes the site-wide information templates and feeds render.
type SiteMetadata struct {
	Name          string
	BaseURL       string
	Description   string
	Author        string
	Language      string
	DefaultLocale string
	Comments      string
	Metadata      map[string]any
}

// Pagination describes one page of a paginated index.
type Pagination struct {
	Page       int
	TotalPages int
	PerPage    int
	PrevRoute  string
	NextRoute  string
}

// DependencyMetadata fingerprints the inputs of one output page so
// incremental builds can skip unchanged work.
type DependencyMetadata struct {
	Hash         string
	LastModified time.Time
	Sources      []string
}

// PageData is one planned output page with every dependency resolved.
type PageData struct {
	ID          uuid.UUID
	Kind        PageKind
	Route       string
	Locale      string
	Title       string
	Description string
	Template    string
	Post        *content.Post
	Page        *content.Page
	Listing     *content.Listing
	Posts       []*content.Post
	Pagination  *Pagination
	Tag         string
	Year        int
	Metadata    DependencyMetadata
}

// BuildContext carries everything one build run needs.
type BuildContext struct {
	Tree          *content.Tree
	Site          SiteMetadata
	Theme         *themes.Theme
	Pages         []*PageData
	DefaultLocale string
	Locales       []string
	GeneratedAt   time.Time
	Options       BuildOptions
}

// BuildMetadata surfaces build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageRenderingContext is the per-page slice of the template contract.
type PageRenderingContext struct {
	Kind        PageKind
	Route       string
	Title       string
	Description string
	Post        *content.Post
	Page        *content.Page
	Listing     *content.Listing
	Posts       []*content.Post
	Pagination  *Pagination
	Tag         string
	Year        int
	Locale      string
	Metadata    DependencyMetadata
}

// TemplateContext is the data contract passed to TemplateRenderer
// implementations for every output page.
type TemplateContext struct {
	Site    SiteMetadata
	Page    PageRenderingContext
	Nav     []nav.Item
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	locale        string
	defaultLocale string
	baseURL       string
}

func newTemplateHelpers(defaultLocale, locale, baseURL string) TemplateHelpers {
	return TemplateHelpers{
		locale:        locale,
		defaultLocale: defaultLocale,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// Locale returns the active locale code.
func (h TemplateHelpers) Locale() string { return h.locale }

// IsDefaultLocale reports whether the page renders in the default locale.
func (h TemplateHelpers) IsDefaultLocale() bool {
	return strings.EqualFold(h.locale, h.defaultLocale)
}

// BaseURL returns the configured site base URL.
func (h TemplateHelpers) BaseURL() string { return h.baseURL }

// WithBaseURL prefixes a site-relative path with the base URL. Absolute URLs
// pass through untouched.
func (h TemplateHelpers) WithBaseURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return h.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if h.baseURL == "" {
		return path
	}
	return h.baseURL + path
}

// loadContext loads the content tree, resolves the theme, and plans the full
// set of output pages for this run.
func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*BuildContext, error) {
	tree, err := s.deps.Content.LoadTree(ctx)
	if err != nil {
		return nil, err
	}

	var theme *themes.Theme
	if s.deps.Themes != nil {
		theme, err = s.deps.Themes.Theme(ctx, s.themeName())
		if err != nil {
			return nil, fmt.Errorf("generator: resolve theme: %w", err)
		}
	}

	buildCtx := &BuildContext{
		Tree:          tree,
		Site:          s.siteMetadata(),
		Theme:         theme,
		DefaultLocale: s.cfg.DefaultLocale,
		Locales:       s.effectiveLocales(opts),
		GeneratedAt:   s.now().UTC(),
		Options:       opts,
	}

	pages, err := s.planPages(buildCtx, opts)
	if err != nil {
		return nil, err
	}
	buildCtx.Pages = pages
	return buildCtx, nil
}

func (s *service) siteMetadata() SiteMetadata {
	meta := SiteMetadata{
		BaseURL:       strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"),
		DefaultLocale: s.cfg.DefaultLocale,
		Metadata:      map[string]any{},
	}
	if site := s.deps.Site; site != nil {
		meta.Name = site.Site.Name
		meta.Description = site.Site.Description
		meta.Author = site.Site.Author
		meta.Language = site.Site.Language
		meta.Comments = site.Comments.Provider
		if meta.BaseURL == "" {
			meta.BaseURL = site.BaseURL()
		}
	}
	return meta
}

func (s *service) themeName() string {
	if s.deps.Site != nil && strings.TrimSpace(s.deps.Site.Theme.Name) != "" {
		return s.deps.Site.Theme.Name
	}
	return ""
}

func (s *service) effectiveLocales(opts BuildOptions) []string {
	locales := s.cfg.Locales
	if len(locales) == 0 {
		locales = []string{s.cfg.DefaultLocale}
	}
	if len(opts.Locales) == 0 {
		return append([]string(nil), locales...)
	}
	allowed := map[string]struct{}{}
	for _, code := range opts.Locales {
		allowed[strings.ToLower(strings.TrimSpace(code))] = struct{}{}
	}
	filtered := make([]string, 0, len(locales))
	for _, code := range locales {
		if _, ok := allowed[strings.ToLower(code)]; ok {
			filtered = append(filtered, code)
		}
	}
	return filtered
}

// planPages turns the loaded tree into the concrete page set: posts, pages,
// paginated blog indexes, tag indexes, year archives, and listing pages.
func (s *service) planPages(buildCtx *BuildContext, opts BuildOptions) ([]*PageData, error) {
	localeAllowed := func(code string) bool {
		if code == "" {
			code = buildCtx.DefaultLocale
		}
		for _, locale := range buildCtx.Locales {
			if strings.EqualFold(locale, code) {
				return true
			}
		}
		return false
	}

	tagFilter := map[string]struct{}{}
	for _, tag := range opts.Tags {
		tagFilter[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	tagSelected := func(tags []string) bool {
		if len(tagFilter) == 0 {
			return true
		}
		for _, tag := range tags {
			if _, ok := tagFilter[strings.ToLower(tag)]; ok {
				return true
			}
		}
		return false
	}

	var planned []*PageData

	published := buildCtx.Tree.Published()
	for _, post := range published {
		if !localeAllowed(post.Locale) || !tagSelected(post.Tags) {
			continue
		}
		route, err := s.deps.Routes.PostPath(post)
		if err != nil {
			return nil, fmt.Errorf("generator: route post %s: %w", post.SourcePath, err)
		}
		data := &PageData{
			Kind:        KindPost,
			Route:       route,
			Locale:      localeOrDefault(post.Locale, buildCtx.DefaultLocale),
			Title:       post.Title,
			Description: post.Description,
			Template:    templateOrDefault(post.Template, KindPost),
			Post:        post,
		}
		finalizePage(data, buildCtx, hex.EncodeToString(post.Checksum))
		planned = append(planned, data)
	}

	if len(tagFilter) == 0 {
		for _, page := range buildCtx.Tree.Pages {
			if page.Draft || !localeAllowed(page.Locale) {
				continue
			}
			route, err := s.deps.Routes.PagePath(page)
			if err != nil {
				return nil, fmt.Errorf("generator: route page %s: %w", page.SourcePath, err)
			}
			data := &PageData{
				Kind:        KindPage,
				Route:       route,
				Locale:      localeOrDefault(page.Locale, buildCtx.DefaultLocale),
				Title:       page.Title,
				Description: page.Description,
				Template:    templateOrDefault(page.Template, KindPage),
				Page:        page,
			}
			finalizePage(data, buildCtx, hex.EncodeToString(page.Checksum))
			planned = append(planned, data)
		}

		planned = append(planned, s.planIndexes(buildCtx, published)...)

		listings, err := s.planListings(buildCtx)
		if err != nil {
			return nil, err
		}
		planned = append(planned, listings...)
	}

	if s.cfg.TagIndexes {
		tags, err := s.planTagIndexes(buildCtx, tagFilter)
		if err != nil {
			return nil, err
		}
		planned = append(planned, tags...)
	}

	if s.cfg.ArchiveIndexes && len(tagFilter) == 0 {
		archives, err := s.planArchives(buildCtx)
		if err != nil {
			return nil, err
		}
		planned = append(planned, archives...)
	}

	sort.SliceStable(planned, func(i, j int) bool {
		if planned[i].Locale == planned[j].Locale {
			return planned[i].Route < planned[j].Route
		}
		return planned[i].Locale < planned[j].Locale
	})
	return planned, nil
}

// planIndexes paginates the published posts into the blog index: page one at
// the site root, further pages under /page/N/.
func (s *service) planIndexes(buildCtx *BuildContext, published []*content.Post) []*PageData {
	perPage := s.cfg.PostsPerIndex
	if perPage <= 0 {
		perPage = len(published)
		if perPage == 0 {
			perPage = 1
		}
	}
	total := (len(published) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}

	indexRoute := func(page int) string {
		if page <= 1 {
			return "/"
		}
		return fmt.Sprintf("/page/%d/", page)
	}

	var planned []*PageData
	for page := 1; page <= total; page++ {
		start := (page - 1) * perPage
		end := start + perPage
		if end > len(published) {
			end = len(published)
		}
		slice := published[start:end]

		pagination := &Pagination{
			Page:       page,
			TotalPages: total,
			PerPage:    perPage,
		}
		if page > 1 {
			pagination.PrevRoute = indexRoute(page - 1)
		}
		if page < total {
			pagination.NextRoute = indexRoute(page + 1)
		}

		data := &PageData{
			Kind:        KindIndex,
			Route:       indexRoute(page),
			Locale:      buildCtx.DefaultLocale,
			Title:       buildCtx.Site.Name,
			Description: buildCtx.Site.Description,
			Template:    defaultTemplate(KindIndex),
			Posts:       slice,
			Pagination:  pagination,
		}
		finalizePage(data, buildCtx, postsFingerprint(slice))
		planned = append(planned, data)
	}
	return planned
}

func (s *service) planTagIndexes(buildCtx *BuildContext, tagFilter map[string]struct{}) ([]*PageData, error) {
	grouped := buildCtx.Tree.PostsByTag()
	tags := make([]string, 0, len(grouped))
	for tag := range grouped {
		if len(tagFilter) > 0 {
			if _, ok := tagFilter[strings.ToLower(tag)]; !ok {
				continue
			}
		}
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var planned []*PageData
	for _, tag := range tags {
		route, err := s.deps.Routes.TagPath(tag)
		if err != nil {
			return nil, fmt.Errorf("generator: route tag %q: %w", tag, err)
		}
		posts := grouped[tag]
		data := &PageData{
			Kind:     KindTag,
			Route:    route,
			Locale:   buildCtx.DefaultLocale,
			Title:    tag,
			Template: defaultTemplate(KindTag),
			Posts:    posts,
			Tag:      tag,
		}
		finalizePage(data, buildCtx, postsFingerprint(posts))
		planned = append(planned, data)
	}
	return planned, nil
}

func (s *service) planArchives(buildCtx *BuildContext) ([]*PageData, error) {
	grouped := buildCtx.Tree.PostsByYear()
	years := make([]int, 0, len(grouped))
	for year := range grouped {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	var planned []*PageData
	for _, year := range years {
		route, err := s.deps.Routes.ArchivePath(year)
		if err != nil {
			return nil, fmt.Errorf("generator: route archive %d: %w", year, err)
		}
		posts := grouped[year]
		data := &PageData{
			Kind:     KindArchive,
			Route:    route,
			Locale:   buildCtx.DefaultLocale,
			Title:    fmt.Sprintf("%d", year),
			Template: defaultTemplate(KindArchive),
			Posts:    posts,
			Year:     year,
		}
		finalizePage(data, buildCtx, postsFingerprint(posts))
		planned = append(planned, data)
	}
	return planned, nil
}

func (s *service) planListings(buildCtx *BuildContext) ([]*PageData, error) {
	var planned []*PageData
	for _, listing := range buildCtx.Tree.Listings {
		route := "/" + strings.Trim(listing.Key, "/") + "/"
		data := &PageData{
			Kind:        KindListing,
			Route:       route,
			Locale:      buildCtx.DefaultLocale,
			Title:       listing.Title,
			Description: listing.Description,
			Template:    defaultTemplate(KindListing),
			Listing:     listing,
		}
		finalizePage(data, buildCtx, listingFingerprint(listing))
		planned = append(planned, data)
	}
	return planned, nil
}

// finalizePage assigns the deterministic page ID and dependency metadata.
// The hash covers the content fingerprint plus everything else that changes
// the rendered output: template, route, and base URL.
func finalizePage(data *PageData, buildCtx *BuildContext, contentFingerprint string) {
	data.ID = identity.RouteUUID(data.Locale, data.Route)

	parts := []string{
		"content:" + contentFingerprint,
		"template:" + data.Template,
		"route:" + data.Route,
		"base_url:" + buildCtx.Site.BaseURL,
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	data.Metadata.Hash = hex.EncodeToString(sum[:])

	data.Metadata.LastModified = pageLastModified(data)
	data.Metadata.Sources = pageSources(data)
}

func pageLastModified(data *PageData) time.Time {
	var latest time.Time
	consider := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}
	if data.Post != nil {
		consider(data.Post.LastModified)
	}
	if data.Page != nil {
		consider(data.Page.LastModified)
	}
	for _, post := range data.Posts {
		consider(post.LastModified)
	}
	return latest
}

func pageSources(data *PageData) []string {
	var sources []string
	if data.Post != nil {
		sources = append(sources, data.Post.SourcePath)
	}
	if data.Page != nil {
		sources = append(sources, data.Page.SourcePath)
	}
	if data.Listing != nil {
		sources = append(sources, data.Listing.SourcePath)
	}
	for _, post := range data.Posts {
		sources = append(sources, post.SourcePath)
	}
	sort.Strings(sources)
	return sources
}

func postsFingerprint(posts []*content.Post) string {
	parts := make([]string, 0, len(posts))
	for _, post := range posts {
		parts = append(parts, post.SourcePath+":"+hex.EncodeToString(post.Checksum))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}

func listingFingerprint(listing *content.Listing) string {
	parts := make([]string, 0, len(listing.Entries)+1)
	parts = append(parts, listing.Key+":"+listing.Title)
	for _, entry := range listing.Entries {
		parts = append(parts, entry.Name+"|"+entry.Link+"|"+entry.Description+"|"+entry.Date+"|"+entry.Venue)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}

func localeOrDefault(locale, fallback string) string {
	if strings.TrimSpace(locale) == "" {
		return fallback
	}
	return locale
}

func templateOrDefault(explicit string, kind PageKind) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	return defaultTemplate(kind)
}
