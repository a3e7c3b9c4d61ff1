package themes

import (
	"context"
	"errors"
	"html/template"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type rendererPage struct {
	Title     string
	Published time.Time
	Body      template.HTML
	Route     string
}

func testPage() rendererPage {
	return rendererPage{
		Title:     "Hello",
		Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Body:      "<p>body</p>",
		Route:     "/blog/2024/03/01/hello/",
	}
}

func TestRendererResolvesBareTemplateName(t *testing.T) {
	renderer, err := NewRenderer(filepath.Join("testdata", "themes", "aurora", "templates"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	html, err := renderer.RenderTemplate("post", testPage())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1>Hello</h1>") {
		t.Fatalf("expected rendered title, got %q", html)
	}
	if !strings.Contains(html, `datetime="2024-03-01"`) {
		t.Fatalf("expected dateISO output, got %q", html)
	}
	if !strings.Contains(html, "<p>body</p>") {
		t.Fatalf("expected safeHTML passthrough, got %q", html)
	}
}

func TestRendererSafeHTMLAcceptsByteSlices(t *testing.T) {
	renderer, err := NewRenderer(filepath.Join("testdata", "themes", "aurora", "templates"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := struct {
		Title     string
		Published time.Time
		Body      []byte
		Route     string
	}{
		Title:     "Hello",
		Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Body:      []byte("<p>rendered body</p>"),
		Route:     "/blog/2024/03/01/hello/",
	}

	html, err := renderer.RenderTemplate("post", page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<p>rendered body</p>") {
		t.Fatalf("expected byte-slice body as markup, got %q", html)
	}
}

func TestRendererBaseURLFeedsAbsURL(t *testing.T) {
	renderer, err := NewRenderer(
		filepath.Join("testdata", "themes", "aurora", "templates"),
		WithBaseURL("https://example.test"),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	html, err := renderer.RenderTemplate("post", testPage())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `href="https://example.test/blog/2024/03/01/hello"`) {
		t.Fatalf("expected absolute permalink, got %q", html)
	}
}

func TestRendererOverridesReplaceThemeTemplates(t *testing.T) {
	renderer, err := NewRenderer(
		filepath.Join("testdata", "themes", "aurora", "templates"),
		WithOverrides(filepath.Join("testdata", "overrides")),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	html, err := renderer.RenderTemplate("post", testPage())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `class="override"`) {
		t.Fatalf("expected override template to win, got %q", html)
	}
}

func TestRendererUnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer(filepath.Join("testdata", "themes", "aurora", "templates"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if _, err := renderer.RenderTemplate("nope", testPage()); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestRendererRejectsMissingDirectory(t *testing.T) {
	if _, err := NewRenderer(filepath.Join("testdata", "missing")); err == nil {
		t.Fatalf("expected error for missing template directory")
	}
}

func TestServiceDiscoverFindsManifests(t *testing.T) {
	svc := NewService(Config{Root: filepath.Join("testdata", "themes")})

	themes, err := svc.Themes(context.Background())
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	if len(themes) != 2 {
		t.Fatalf("expected 2 themes with manifests, got %d", len(themes))
	}
}

func TestServiceThemeLookupFallsBackToDefault(t *testing.T) {
	svc := NewService(Config{Root: filepath.Join("testdata", "themes"), DefaultTheme: "plain"})

	theme, err := svc.Theme(context.Background(), "")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if theme.Name != "plain" {
		t.Fatalf("expected default theme, got %q", theme.Name)
	}

	if _, err := svc.Theme(context.Background(), "missing"); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestServiceDuplicateThemeNames(t *testing.T) {
	svc := NewService(Config{Root: filepath.Join("testdata", "dup")})

	if _, err := svc.Themes(context.Background()); err == nil {
		t.Fatalf("expected error for duplicate theme names")
	}
}
