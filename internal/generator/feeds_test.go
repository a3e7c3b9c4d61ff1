package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/nav"
)

func feedTestService() (*service, *BuildContext) {
	svc := &service{
		cfg: Config{
			BaseURL:       "https://example.test",
			DefaultLocale: "en",
		},
		deps: Dependencies{
			Routes: nav.NewRoutes("https://example.test", "en", []string{"en"}),
		},
		now: time.Now,
	}
	buildCtx := &BuildContext{
		Site: SiteMetadata{
			Name:        "Test Blog",
			BaseURL:     "https://example.test",
			Description: "Notes",
			Author:      "Tester",
			Language:    "en",
		},
		DefaultLocale: "en",
		GeneratedAt:   time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC),
	}
	return svc, buildCtx
}

func feedTestPosts() []*content.Post {
	return []*content.Post{
		{
			Slug:        "newer",
			Title:       "Newer & Better",
			Description: "second",
			Tags:        []string{"go"},
			Date:        time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
			Dated:       true,
			Locale:      "en",
		},
		{
			Slug:        "older",
			Title:       "Older",
			Description: "first",
			Date:        time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			Dated:       true,
			Locale:      "en",
		},
	}
}

func TestBuildRSS(t *testing.T) {
	svc, buildCtx := feedTestService()
	rss := svc.buildRSS(buildCtx, "en", feedTestPosts())

	if !strings.Contains(rss, "<title>Test Blog</title>") {
		t.Fatalf("missing channel title:\n%s", rss)
	}
	if !strings.Contains(rss, "<title>Newer &amp; Better</title>") {
		t.Fatalf("title not escaped:\n%s", rss)
	}
	if !strings.Contains(rss, "<link>https://example.test/blog/2025/05/02/newer/</link>") {
		t.Fatalf("missing post link:\n%s", rss)
	}
	if !strings.Contains(rss, `<atom:link href="https://example.test/feed.xml"`) {
		t.Fatalf("missing self link:\n%s", rss)
	}
	if !strings.Contains(rss, "<category>go</category>") {
		t.Fatalf("missing category:\n%s", rss)
	}
}

func TestBuildAtom(t *testing.T) {
	svc, buildCtx := feedTestService()
	atom := svc.buildAtom(buildCtx, "en", feedTestPosts())

	if !strings.Contains(atom, `<feed xmlns="http://www.w3.org/2005/Atom">`) {
		t.Fatalf("missing feed element:\n%s", atom)
	}
	if !strings.Contains(atom, "<updated>2025-06-01T08:00:00Z</updated>") {
		t.Fatalf("missing feed updated stamp:\n%s", atom)
	}
	if !strings.Contains(atom, "<published>2025-05-02T00:00:00Z</published>") {
		t.Fatalf("missing entry published stamp:\n%s", atom)
	}
	if !strings.Contains(atom, "<author><name>Tester</name></author>") {
		t.Fatalf("missing author:\n%s", atom)
	}
}

func TestFeedPostsNewestFirstCapped(t *testing.T) {
	tree := &content.Tree{
		Posts: []*content.Post{
			{Slug: "a", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Dated: true},
			{Slug: "b", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Dated: true},
			{Slug: "c", Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Dated: true},
			{Slug: "draft", Draft: true, Dated: true},
		},
	}
	posts := feedPosts(tree, "en", "en", 2)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Slug != "b" || posts[1].Slug != "c" {
		t.Fatalf("unexpected order: %s, %s", posts[0].Slug, posts[1].Slug)
	}
}

func TestBuildRobots(t *testing.T) {
	robots := buildRobots("https://example.test/", true)
	if !strings.Contains(robots, "User-agent: *") {
		t.Fatalf("missing user-agent:\n%s", robots)
	}
	if !strings.Contains(robots, "Sitemap: https://example.test/sitemap.xml") {
		t.Fatalf("missing sitemap line:\n%s", robots)
	}
	bare := buildRobots("https://example.test", false)
	if strings.Contains(bare, "Sitemap:") {
		t.Fatalf("unexpected sitemap line:\n%s", bare)
	}
}
