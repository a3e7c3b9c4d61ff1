package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/fsstore"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

func newSourceDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	postsDir := filepath.Join(dir, "docs", "blog", "posts", "2024", "03")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		t.Fatalf("mkdir posts dir: %v", err)
	}

	post := `---
title: Hello
date: 2024-03-01
tags: [go, notes]
---
First post body.
`
	if err := os.WriteFile(filepath.Join(postsDir, "2024-03-01-hello.md"), []byte(post), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}

	return dir
}

func addDefaultTheme(t *testing.T, sourceDir string) {
	t.Helper()

	themeDir := filepath.Join(sourceDir, "themes", "default")
	if err := os.MkdirAll(filepath.Join(themeDir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir theme dir: %v", err)
	}

	manifest := `{
  "name": "default",
  "version": "0.1.0",
  "engine": "html/template",
  "templates": "templates"
}
`
	if err := os.WriteFile(filepath.Join(themeDir, "theme.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write theme manifest: %v", err)
	}
}

func TestContainerDefaultsKeepOptionalServicesOff(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = newSourceDir(t)

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.Markdown() == nil {
		t.Fatalf("expected markdown service")
	}
	if container.Content() == nil {
		t.Fatalf("expected content service")
	}
	if container.Routes() == nil {
		t.Fatalf("expected route table")
	}
	if container.Site() == nil {
		t.Fatalf("expected site config defaults")
	}
	if container.Renderer() != nil {
		t.Fatalf("expected no renderer when themes are disabled")
	}
	if container.Validator() != nil {
		t.Fatalf("expected validator to be nil when feature is disabled")
	}
	if container.Linkcheck() != nil {
		t.Fatalf("expected linkcheck to be nil when feature is disabled")
	}
	if container.Catalog() != nil {
		t.Fatalf("expected catalog to be nil when feature is disabled")
	}

	_, err = container.Generator().Build(context.Background(), generator.BuildOptions{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected disabled generator, got %v", err)
	}
}

func TestContainerGeneratorEnabledWiresStorageAndRenderer(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = newSourceDir(t)
	cfg.Generator.Enabled = true
	cfg.Features.Themes = true
	addDefaultTheme(t, cfg.SourceDir)

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.Storage() == nil {
		t.Fatalf("expected storage provider for enabled generator")
	}
	if container.Renderer() == nil {
		t.Fatalf("expected renderer for enabled themes")
	}
	if err := container.Generator().Clean(context.Background()); err != nil {
		t.Fatalf("expected enabled generator, clean failed: %v", err)
	}
}

func TestContainerThemesEnabledRequiresTheme(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = newSourceDir(t)
	cfg.Features.Themes = true

	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatalf("expected error when theme directory is missing")
	}
}

func TestContainerFeatureFlagsEnableServices(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = newSourceDir(t)
	cfg.Features.Validation = true
	cfg.Features.Linkcheck = true
	cfg.Features.Catalog = true
	cfg.Storage.Driver = "memory"

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.Validator() == nil {
		t.Fatalf("expected validator service")
	}
	if container.Linkcheck() == nil {
		t.Fatalf("expected linkcheck service")
	}
	if container.Catalog() == nil {
		t.Fatalf("expected catalog service")
	}
	if container.DB() != nil {
		t.Fatalf("expected no database handle for memory catalog")
	}
}

func TestContainerLoadsSiteConfigFromSourceDir(t *testing.T) {
	sourceDir := newSourceDir(t)
	siteYAML := `site:
  name: Example Site
  url: https://example.test
`
	if err := os.WriteFile(filepath.Join(sourceDir, di.SiteConfigFileName), []byte(siteYAML), 0o644); err != nil {
		t.Fatalf("write site config: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = sourceDir

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if got := container.Site().Site.Name; got != "Example Site" {
		t.Fatalf("expected site name from site.yaml, got %q", got)
	}
	if got := container.Site().BaseURL(); got != "https://example.test" {
		t.Fatalf("expected base url from site.yaml, got %q", got)
	}
}

func TestContainerStorageOverride(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = newSourceDir(t)
	cfg.Generator.Enabled = true

	store, err := fsstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	container, err := di.NewContainer(cfg, di.WithStorageProvider(store))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.Storage() != store {
		t.Fatalf("expected injected storage provider to be used")
	}
}

func TestContainerUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.SourceDir = newSourceDir(t)
	cfg.Logging.Provider = "bogus"

	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatalf("expected error for unknown logging provider")
	}
}

func TestContainerRequiresSourceDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatalf("expected error for missing source directory")
	}
}
