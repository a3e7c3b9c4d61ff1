package nav

import (
	"strings"

	"github.com/goliatone/go-sitegen/internal/siteconfig"
)

// Item is one rendered navigation entry.
type Item struct {
	Title    string
	Path     string
	Active   bool
	InTrail  bool
	Children []Item
}

// BuildMenu renders the configured navigation against the current route.
// Active marks an exact match; InTrail marks entries whose subtree contains
// the current route.
func BuildMenu(entries []siteconfig.NavEntry, currentRoute string) []Item {
	current := normalizeMenuRoute(currentRoute)
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, buildItem(entry, current))
	}
	return items
}

func buildItem(entry siteconfig.NavEntry, current string) Item {
	item := Item{
		Title: entry.Title,
		Path:  entry.Path,
	}

	path := normalizeMenuRoute(entry.Path)
	item.Active = path == current
	item.InTrail = inTrail(path, current)

	for _, child := range entry.Children {
		childItem := buildItem(child, current)
		if childItem.Active || childItem.InTrail {
			item.InTrail = true
		}
		item.Children = append(item.Children, childItem)
	}
	return item
}

// inTrail reports whether current lives under path. The root path matches
// only itself, otherwise every route would carry the home trail.
func inTrail(path, current string) bool {
	if path == "/" {
		return current == "/"
	}
	return strings.HasPrefix(current, path)
}

func normalizeMenuRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if !strings.HasSuffix(route, "/") {
		route += "/"
	}
	return route
}
