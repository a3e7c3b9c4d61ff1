package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a site route to the relative file path inside the
// output directory. Routes become directories with an index.html inside so
// the deployed site serves clean URLs. Non-default locales are nested under
// their locale code.
func buildOutputPath(route, locale, defaultLocale string) string {
	trimmed := strings.Trim(strings.TrimSpace(route), "/")

	var rel string
	switch {
	case trimmed == "":
		rel = "index.html"
	case strings.Contains(path.Base(trimmed), "."):
		// Routes that already name a file (feed.xml, 404.html) pass through.
		rel = trimmed
	default:
		rel = path.Join(trimmed, "index.html")
	}

	locale = strings.TrimSpace(locale)
	if locale == "" || strings.EqualFold(locale, defaultLocale) {
		return rel
	}
	return path.Join(strings.ToLower(locale), rel)
}
