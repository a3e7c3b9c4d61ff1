package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// buildSitemap renders the sitemap.xml body from the full planned page set.
// Pages the incremental build skipped still appear; their last build metadata
// supplies the lastmod value.
func buildSitemap(baseURL string, pages []RenderedPage, generatedAt time.Time) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	entries := make([]RenderedPage, 0, len(pages))
	entries = append(entries, pages...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Locale == entries[j].Locale {
			return entries[i].Route < entries[j].Route
		}
		return entries[i].Locale < entries[j].Locale
	})

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, page := range entries {
		loc := base + ensureLeadingSlash(page.Route)
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", xmlEscape(loc))
		lastmod := page.Metadata.LastModified
		if lastmod.IsZero() {
			lastmod = generatedAt
		}
		fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", lastmod.UTC().Format("2006-01-02"))
		if freq := changeFrequency(page.Kind); freq != "" {
			fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", freq)
		}
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")
	return b.String()
}

func changeFrequency(kind PageKind) string {
	switch kind {
	case KindIndex, KindTag, KindArchive:
		return "daily"
	case KindPost:
		return "monthly"
	case KindPage, KindListing:
		return "yearly"
	default:
		return ""
	}
}

// buildRobots renders robots.txt, referencing the sitemap when one is
// generated alongside.
func buildRobots(baseURL string, includeSitemap bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	if includeSitemap {
		base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", base)
	}
	return b.String()
}

func ensureLeadingSlash(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}
