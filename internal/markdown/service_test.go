package markdown

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "en/about.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Locale != "en" {
		t.Fatalf("expected locale en, got %s", doc.Locale)
	}
	if doc.FrontMatter.Title != "About" {
		t.Fatalf("unexpected title %q", doc.FrontMatter.Title)
	}
	if doc.FrontMatter.Description == "" {
		t.Fatalf("expected description to be populated")
	}
	if len(doc.BodyHTML) == 0 {
		t.Fatalf("expected BodyHTML to be populated")
	}
	if len(doc.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
}

func TestServiceLoadDirectory_MixedLocales(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	locales := map[string]int{}
	var blog *interfaces.Document
	for _, doc := range docs {
		locales[doc.Locale]++
		if filepath.Ext(doc.FilePath) != ".md" {
			t.Fatalf("expected markdown file, got %s", doc.FilePath)
		}
		if len(doc.Checksum) == 0 {
			t.Fatalf("expected checksum set for %s", doc.FilePath)
		}
		if doc.FilePath == "en/blog/post.md" {
			blog = doc
		}
	}

	if locales["en"] != 2 || locales["es"] != 1 {
		t.Fatalf("unexpected locale distribution: %#v", locales)
	}
	if blog == nil {
		t.Fatalf("expected to include en/blog/post.md")
	}
	if blog.FrontMatter.Title != "Iterators All The Way Down" {
		t.Fatalf("unexpected blog title %q", blog.FrontMatter.Title)
	}
	if len(blog.FrontMatter.Tags) != 2 || blog.FrontMatter.Tags[0] != "Python" {
		t.Fatalf("unexpected blog tags: %#v", blog.FrontMatter.Tags)
	}
	if blog.FrontMatter.Comments == nil || !*blog.FrontMatter.Comments {
		t.Fatalf("expected comments enabled on blog post")
	}
}

func TestServiceLoadDirectory_NonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, true)

	no := false
	docs, err := svc.LoadDirectory(context.Background(), "en", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].FilePath != "en/about.md" {
		t.Fatalf("expected en/about.md, got %s", docs[0].FilePath)
	}
}

func TestServiceLoadDirectory_PatternOverride(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{
		Pattern: "**/post.md",
	})
	if err != nil {
		t.Fatalf("LoadDirectory pattern override: %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].FilePath != "en/blog/post.md" {
		t.Fatalf("expected en/blog/post.md, got %s", docs[0].FilePath)
	}
}

func TestServiceRender_MergesParseOptions(t *testing.T) {
	svc := newTestService(t, true)

	html, err := svc.Render(context.Background(), []byte("~~old~~ new"), interfaces.ParseOptions{
		Extensions: []string{"strikethrough"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "<del>old</del>") {
		t.Fatalf("expected strikethrough markup, got %q", string(html))
	}
}

func TestServiceRenderDocument(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "en/about.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	doc.BodyHTML = nil

	html, err := svc.RenderDocument(context.Background(), doc, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if len(html) == 0 || len(doc.BodyHTML) == 0 {
		t.Fatalf("expected HTML to be produced and cached on the document")
	}
}

func TestServiceRenderDocument_NilDocument(t *testing.T) {
	svc := newTestService(t, true)

	if _, err := svc.RenderDocument(context.Background(), nil, interfaces.ParseOptions{}); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestServiceLoad_CancelledContext(t *testing.T) {
	svc := newTestService(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Load(ctx, "en/about.md", interfaces.LoadOptions{}); err == nil {
		t.Fatalf("expected context cancellation error")
	}
	if _, err := svc.Render(ctx, []byte("# hi"), interfaces.ParseOptions{}); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

func newTestService(tb testing.TB, recursive bool) *Service {
	tb.Helper()

	baseCfg := Config{
		BasePath:      filepath.Join("testdata", "site"),
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		LocalePatterns: map[string]string{
			"es": "es/*.md",
		},
		Pattern:   "*.md",
		Recursive: recursive,
	}

	svc, err := NewService(baseCfg, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}
