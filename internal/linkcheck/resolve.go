package linkcheck

import (
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

type linkKind int

const (
	kindInternal linkKind = iota
	kindExternal
	kindAnchor
	kindMalformed
)

func classify(dest string) linkKind {
	trimmed := strings.TrimSpace(dest)
	if trimmed == "" {
		return kindMalformed
	}
	if strings.HasPrefix(trimmed, "#") {
		return kindAnchor
	}
	if strings.HasPrefix(trimmed, "//") {
		return kindExternal
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return kindMalformed
	}
	if parsed.Scheme != "" {
		return kindExternal
	}
	return kindInternal
}

// resolver answers whether an internal destination maps to a known route or
// a file in the source tree.
type resolver struct {
	routes map[string]struct{}
	files  fs.FS
}

func newResolver(routes []string, files fs.FS) *resolver {
	set := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		set[normalizeRoute(route)] = struct{}{}
	}
	return &resolver{routes: set, files: files}
}

// normalizeRoute canonicalizes a route for comparison: directory routes end
// with a slash, index.html collapses onto its directory, and file routes
// (anything with an extension) stay verbatim.
func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	route = path.Clean(route)
	if route == "/" {
		return "/"
	}
	if strings.HasSuffix(route, "/index.html") {
		route = strings.TrimSuffix(route, "index.html")
		return route
	}
	if path.Ext(route) != "" {
		return route
	}
	return route + "/"
}

// resolve reports whether dest is reachable from a document rendered at
// docRoute whose Markdown source lives at sourcePath.
func (r *resolver) resolve(docRoute, sourcePath, dest string) bool {
	parsed, err := url.Parse(strings.TrimSpace(dest))
	if err != nil {
		return false
	}
	target := parsed.Path
	if target == "" {
		// Fragment-only destinations are handled by the anchor check.
		return true
	}

	var candidates []string
	if strings.HasPrefix(target, "/") {
		candidates = append(candidates, target)
	} else {
		if docRoute != "" {
			candidates = append(candidates, path.Join(docRoute, target))
		}
		if sourceDir := path.Dir(filepath.ToSlash(sourcePath)); sourceDir != "" {
			candidates = append(candidates, "/"+path.Join(sourceDir, target))
		}
	}

	for _, candidate := range candidates {
		if _, ok := r.routes[normalizeRoute(candidate)]; ok {
			return true
		}
		if r.fileExists(candidate) {
			return true
		}
	}
	return false
}

func (r *resolver) fileExists(candidate string) bool {
	if r.files == nil {
		return false
	}
	rel := strings.TrimPrefix(path.Clean(candidate), "/")
	if rel == "" || rel == "." {
		return false
	}
	info, err := fs.Stat(r.files, rel)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
