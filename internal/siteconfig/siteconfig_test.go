package siteconfig

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_MinimalAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: Example\n  url: https://example.dev\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Site.Language != "en" {
		t.Fatalf("expected default language en, got %q", cfg.Site.Language)
	}
	if cfg.Theme.Name != "default" {
		t.Fatalf("expected default theme, got %q", cfg.Theme.Name)
	}
	if cfg.Blog.PostsPerIndex != 10 {
		t.Fatalf("expected default posts per index 10, got %d", cfg.Blog.PostsPerIndex)
	}
	if !cfg.Sitemap || !cfg.Robots {
		t.Fatalf("expected sitemap and robots enabled by default")
	}
	if !cfg.Feeds.RSS || !cfg.Feeds.Atom || cfg.Feeds.Limit != 20 {
		t.Fatalf("unexpected default feeds config: %#v", cfg.Feeds)
	}
	if cfg.Validation.MinTags != 2 || cfg.Validation.MaxTags != 4 || !cfg.Validation.RequireComments {
		t.Fatalf("unexpected default validation config: %#v", cfg.Validation)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Site.Name != "Example Dev Blog" {
		t.Fatalf("unexpected site name %q", cfg.Site.Name)
	}
	if len(cfg.Nav) != 4 {
		t.Fatalf("expected 4 nav entries, got %d", len(cfg.Nav))
	}
	if len(cfg.Nav[1].Children) != 1 || cfg.Nav[1].Children[0].Path != "/uses/" {
		t.Fatalf("unexpected nav children: %#v", cfg.Nav[1].Children)
	}
	if cfg.Blog.PostsPerIndex != 5 {
		t.Fatalf("expected posts per index override, got %d", cfg.Blog.PostsPerIndex)
	}
	// Explicit false must win over the enabled-by-default value.
	if cfg.Feeds.Atom {
		t.Fatalf("expected atom feed disabled")
	}
	if cfg.Feeds.Limit != 15 {
		t.Fatalf("expected feed limit override, got %d", cfg.Feeds.Limit)
	}
	if cfg.Comments.Provider != "giscus" {
		t.Fatalf("unexpected comments provider %q", cfg.Comments.Provider)
	}
	if len(cfg.Validation.AllowedTags) != 6 {
		t.Fatalf("unexpected allowed tags: %#v", cfg.Validation.AllowedTags)
	}
}

func TestParse_UnknownTopLevelKey(t *testing.T) {
	_, err := Parse([]byte("site:\n  name: Example\n  url: https://example.dev\nplugins: []\n"))
	if err == nil {
		t.Fatalf("expected schema violation for unknown key")
	}
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) == 0 {
		t.Fatalf("expected at least one issue")
	}
}

func TestParse_MissingSiteSection(t *testing.T) {
	_, err := Parse([]byte("nav:\n  - title: Blog\n    path: /blog/\n"))
	if err == nil || !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected schema violation for missing site section, got %v", err)
	}
}

func TestParse_NestedChildrenRejected(t *testing.T) {
	data := []byte(`site:
  name: Example
  url: https://example.dev
nav:
  - title: About
    path: /about/
    children:
      - title: Uses
        path: /uses/
        children:
          - title: Deep
            path: /deep/
`)
	_, err := Parse(data)
	if err == nil || !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected schema violation for double-nested nav, got %v", err)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("site:\n  name: [unclosed\n"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !strings.Contains(err.Error(), "line") {
		t.Fatalf("expected line context in error, got %v", err)
	}
}

func TestValidate_RejectsRelativeBaseURL(t *testing.T) {
	_, err := Parse([]byte("site:\n  name: Example\n  url: example.dev\n"))
	if !errors.Is(err, ErrBaseURLInvalid) {
		t.Fatalf("expected ErrBaseURLInvalid, got %v", err)
	}
}

func TestValidate_RejectsRelativeNavPath(t *testing.T) {
	_, err := Parse([]byte("site:\n  name: Example\n  url: https://example.dev\nnav:\n  - title: Blog\n    path: blog/\n"))
	if !errors.Is(err, ErrNavPathInvalid) {
		t.Fatalf("expected ErrNavPathInvalid, got %v", err)
	}
}

func TestValidate_RejectsInvertedTagBounds(t *testing.T) {
	_, err := Parse([]byte("site:\n  name: Example\n  url: https://example.dev\nvalidation:\n  min_tags: 4\n  max_tags: 2\n"))
	if !errors.Is(err, ErrTagBoundsInvalid) {
		t.Fatalf("expected ErrTagBoundsInvalid, got %v", err)
	}
}

func TestBaseURL_TrimsTrailingSlash(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.BaseURL(); got != "https://example.dev" {
		t.Fatalf("unexpected base URL %q", got)
	}
}

func TestTagAllowed(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.TagAllowed("Python") {
		t.Fatalf("expected Python to be allowed")
	}
	if !cfg.TagAllowed("python") {
		t.Fatalf("expected tag match to be case-insensitive")
	}
	if cfg.TagAllowed("Gardening") {
		t.Fatalf("expected Gardening to be rejected")
	}

	open := Defaults()
	if !open.TagAllowed("Anything") {
		t.Fatalf("expected empty vocabulary to allow every tag")
	}
}

func TestSchemaError_FormatsIssues(t *testing.T) {
	err := &SchemaError{Issues: []SchemaIssue{
		{Location: "/site/url", Message: "minLength: must be >= 1"},
		{Location: "", Message: "missing site"},
	}}

	got := err.Error()
	if !strings.Contains(got, "#/site/url: minLength") {
		t.Fatalf("expected location-prefixed issue, got %q", got)
	}
	if !strings.Contains(got, "#: missing site") {
		t.Fatalf("expected root location fallback, got %q", got)
	}
}
