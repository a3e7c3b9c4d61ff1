package nav

import (
	"fmt"
	"strings"

	slugpkg "github.com/goliatone/go-slug"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-sitegen/internal/content"
)

// Route names inside the site group.
const (
	RoutePost    = "post"
	RoutePage    = "page"
	RouteTag     = "tag"
	RouteArchive = "archive"
)

const siteGroup = "site"

// Routes builds every public URL of the site from one urlkit route table,
// so templates, feeds, and the link checker agree on the URL scheme.
type Routes struct {
	manager       *urlkit.RouteManager
	baseURL       string
	defaultLocale string
	locales       []string
}

// NewRoutes configures the route manager for a site served at baseURL.
// Locales beyond the default get a path-prefixed child group.
func NewRoutes(baseURL, defaultLocale string, locales []string) *Routes {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	paths := map[string]string{
		RoutePost:    "/blog/:year/:month/:day/:slug/",
		RoutePage:    "/:slug/",
		RouteTag:     "/tags/:tag/",
		RouteArchive: "/archive/:year/",
	}

	group := urlkit.GroupConfig{
		Name:    siteGroup,
		BaseURL: base,
		Paths:   paths,
	}
	for _, locale := range locales {
		if locale == "" || locale == defaultLocale {
			continue
		}
		group.Groups = append(group.Groups, urlkit.GroupConfig{
			Name:  locale,
			Path:  "/" + locale,
			Paths: paths,
		})
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{group},
	})

	return &Routes{
		manager:       manager,
		baseURL:       base,
		defaultLocale: defaultLocale,
		locales:       locales,
	}
}

// BaseURL returns the configured site base URL without a trailing slash.
func (r *Routes) BaseURL() string {
	return r.baseURL
}

// PostURL returns the absolute URL for a post. Undated posts live under the
// page scheme.
func (r *Routes) PostURL(post *content.Post) (string, error) {
	if post == nil {
		return "", fmt.Errorf("nav: nil post")
	}
	if !post.Dated {
		return r.build(post.Locale, RoutePage, map[string]any{"slug": post.Slug})
	}
	return r.build(post.Locale, RoutePost, map[string]any{
		"year":  post.Date.Format("2006"),
		"month": post.Date.Format("01"),
		"day":   post.Date.Format("02"),
		"slug":  post.Slug,
	})
}

// PostPath returns the site-relative path for a post.
func (r *Routes) PostPath(post *content.Post) (string, error) {
	url, err := r.PostURL(post)
	if err != nil {
		return "", err
	}
	return r.relative(url), nil
}

// PageURL returns the absolute URL for a standalone page.
func (r *Routes) PageURL(page *content.Page) (string, error) {
	if page == nil {
		return "", fmt.Errorf("nav: nil page")
	}
	return r.build(page.Locale, RoutePage, map[string]any{"slug": page.Slug})
}

// PagePath returns the site-relative path for a standalone page.
func (r *Routes) PagePath(page *content.Page) (string, error) {
	url, err := r.PageURL(page)
	if err != nil {
		return "", err
	}
	return r.relative(url), nil
}

// TagURL returns the absolute URL for a tag index.
func (r *Routes) TagURL(tag string) (string, error) {
	return r.build("", RouteTag, map[string]any{"tag": TagSlug(tag)})
}

// TagPath returns the site-relative path for a tag index.
func (r *Routes) TagPath(tag string) (string, error) {
	url, err := r.TagURL(tag)
	if err != nil {
		return "", err
	}
	return r.relative(url), nil
}

// ArchiveURL returns the absolute URL for a year archive.
func (r *Routes) ArchiveURL(year int) (string, error) {
	return r.build("", RouteArchive, map[string]any{"year": fmt.Sprintf("%04d", year)})
}

// ArchivePath returns the site-relative path for a year archive.
func (r *Routes) ArchivePath(year int) (string, error) {
	url, err := r.ArchiveURL(year)
	if err != nil {
		return "", err
	}
	return r.relative(url), nil
}

// AbsoluteURL joins a site-relative path onto the base URL.
func (r *Routes) AbsoluteURL(path string) string {
	if path == "" {
		return r.baseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.baseURL + path
}

func (r *Routes) relative(absolute string) string {
	rel := strings.TrimPrefix(absolute, r.baseURL)
	if rel == "" {
		return "/"
	}
	return rel
}

func (r *Routes) build(locale, route string, params map[string]any) (string, error) {
	group, err := r.groupFor(locale)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("nav: build %s route: %w", route, err)
	}
	return url, nil
}

func (r *Routes) groupFor(locale string) (*urlkit.Group, error) {
	root, err := lookupGroup(r.manager, siteGroup)
	if err != nil {
		return nil, err
	}
	if locale == "" || locale == r.defaultLocale {
		return root, nil
	}
	return lookupChildGroup(root, locale)
}

// Group lookups panic inside urlkit when the name is unknown; recover into
// an error so a misconfigured route table cannot take the build down.
func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("nav: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("nav: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("nav: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("nav: locale group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("nav: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("nav: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

// TagSlug normalizes a display tag into its URL form.
func TagSlug(tag string) string {
	normalized, err := slugpkg.Normalize(tag)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.TrimSpace(tag))
	}
	return normalized
}
