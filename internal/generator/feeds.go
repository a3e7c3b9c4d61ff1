package generator

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
)

const defaultFeedLimit = 20

// writeFeeds renders the RSS and Atom feeds for each built locale. The
// default locale publishes at the site root as feed.xml and atom.xml; other
// locales nest under their locale code.
func (s *service) writeFeeds(ctx context.Context, writer artifactWriter, buildCtx *BuildContext) (int, error) {
	limit := s.cfg.FeedLimit
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	written := 0
	for _, locale := range buildCtx.Locales {
		posts := feedPosts(buildCtx.Tree, locale, buildCtx.DefaultLocale, limit)

		prefix := ""
		if !strings.EqualFold(locale, buildCtx.DefaultLocale) {
			prefix = strings.ToLower(locale)
		}

		rss := s.buildRSS(buildCtx, locale, posts)
		rssPath := joinOutputPath(baseDir, path.Join(prefix, "feed.xml"))
		if err := s.writeFeedFile(ctx, writer, rssPath, locale, rss); err != nil {
			return written, err
		}
		written++

		atom := s.buildAtom(buildCtx, locale, posts)
		atomPath := joinOutputPath(baseDir, path.Join(prefix, "atom.xml"))
		if err := s.writeFeedFile(ctx, writer, atomPath, locale, atom); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (s *service) writeFeedFile(ctx context.Context, writer artifactWriter, target, locale, body string) error {
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     strings.NewReader(body),
		Size:        int64(len(body)),
		Locale:      locale,
		Category:    categoryFeed,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(body),
	})
}

// feedPosts returns the newest published posts for the locale, capped at
// limit.
func feedPosts(tree *content.Tree, locale, defaultLocale string, limit int) []*content.Post {
	published := tree.Published()
	filtered := make([]*content.Post, 0, len(published))
	for _, post := range published {
		code := post.Locale
		if code == "" {
			code = defaultLocale
		}
		if strings.EqualFold(code, locale) {
			filtered = append(filtered, post)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func (s *service) buildRSS(buildCtx *BuildContext, locale string, posts []*content.Post) string {
	site := buildCtx.Site
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", xmlEscape(site.Name))
	fmt.Fprintf(&b, "    <link>%s</link>\n", xmlEscape(site.BaseURL))
	fmt.Fprintf(&b, "    <description>%s</description>\n", xmlEscape(site.Description))
	if site.Language != "" {
		fmt.Fprintf(&b, "    <language>%s</language>\n", xmlEscape(site.Language))
	}
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", buildCtx.GeneratedAt.Format(time.RFC1123Z))
	fmt.Fprintf(&b, `    <atom:link href="%s" rel="self" type="application/rss+xml"/>`+"\n",
		xmlEscape(feedSelfURL(site.BaseURL, locale, buildCtx.DefaultLocale, "feed.xml")))

	for _, post := range posts {
		link := s.postAbsoluteURL(post)
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", xmlEscape(post.Title))
		fmt.Fprintf(&b, "      <link>%s</link>\n", xmlEscape(link))
		fmt.Fprintf(&b, `      <guid isPermaLink="true">%s</guid>`+"\n", xmlEscape(link))
		if !post.Date.IsZero() {
			fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", post.Date.Format(time.RFC1123Z))
		}
		if post.Description != "" {
			fmt.Fprintf(&b, "      <description>%s</description>\n", xmlEscape(post.Description))
		}
		for _, tag := range post.Tags {
			fmt.Fprintf(&b, "      <category>%s</category>\n", xmlEscape(tag))
		}
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

func (s *service) buildAtom(buildCtx *BuildContext, locale string, posts []*content.Post) string {
	site := buildCtx.Site
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", xmlEscape(site.Name))
	fmt.Fprintf(&b, `  <link href="%s"/>`+"\n", xmlEscape(site.BaseURL))
	fmt.Fprintf(&b, `  <link href="%s" rel="self"/>`+"\n",
		xmlEscape(feedSelfURL(site.BaseURL, locale, buildCtx.DefaultLocale, "atom.xml")))
	fmt.Fprintf(&b, "  <id>%s</id>\n", xmlEscape(strings.TrimRight(site.BaseURL, "/")+"/"))
	fmt.Fprintf(&b, "  <updated>%s</updated>\n", buildCtx.GeneratedAt.Format(time.RFC3339))
	if site.Author != "" {
		fmt.Fprintf(&b, "  <author><name>%s</name></author>\n", xmlEscape(site.Author))
	}

	for _, post := range posts {
		link := s.postAbsoluteURL(post)
		b.WriteString("  <entry>\n")
		fmt.Fprintf(&b, "    <title>%s</title>\n", xmlEscape(post.Title))
		fmt.Fprintf(&b, `    <link href="%s"/>`+"\n", xmlEscape(link))
		fmt.Fprintf(&b, "    <id>%s</id>\n", xmlEscape(link))
		updated := post.LastModified
		if updated.IsZero() {
			updated = post.Date
		}
		fmt.Fprintf(&b, "    <updated>%s</updated>\n", updated.Format(time.RFC3339))
		if !post.Date.IsZero() {
			fmt.Fprintf(&b, "    <published>%s</published>\n", post.Date.Format(time.RFC3339))
		}
		if post.Description != "" {
			fmt.Fprintf(&b, `    <summary type="text">%s</summary>`+"\n", xmlEscape(post.Description))
		}
		for _, tag := range post.Tags {
			fmt.Fprintf(&b, `    <category term="%s"/>`+"\n", xmlEscape(tag))
		}
		b.WriteString("  </entry>\n")
	}

	b.WriteString("</feed>\n")
	return b.String()
}

func (s *service) postAbsoluteURL(post *content.Post) string {
	if s.deps.Routes != nil {
		if url, err := s.deps.Routes.PostURL(post); err == nil {
			return url
		}
	}
	return ""
}

func feedSelfURL(baseURL, locale, defaultLocale, file string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.EqualFold(locale, defaultLocale) {
		return base + "/" + file
	}
	return base + "/" + strings.ToLower(locale) + "/" + file
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(value string) string {
	return xmlReplacer.Replace(value)
}
