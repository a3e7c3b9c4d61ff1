package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

func TestConfigValidate_AllowsDisabledGeneratorWithoutOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.OutputDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresOutputDirWhenGeneratorEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected ErrGeneratorOutputDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresMarkdownFeatureWhenEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Enabled = true
	cfg.Features.Markdown = false

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrMarkdownFeatureRequired) {
		t.Fatalf("expected ErrMarkdownFeatureRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresContentDirWhenMarkdownEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Enabled = true
	cfg.Features.Markdown = true
	cfg.Markdown.ContentDir = "  "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrMarkdownContentDirRequired) {
		t.Fatalf("expected ErrMarkdownContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresStorageDriverForCatalog(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Catalog = true
	cfg.Storage.Driver = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrCatalogStorageRequired) {
		t.Fatalf("expected ErrCatalogStorageRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsThemeSelectionWithoutFeature(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Themes = false
	cfg.Themes.DefaultTheme = "minimal"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrThemesFeatureRequired) {
		t.Fatalf("expected ErrThemesFeatureRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsInvertedTagBounds(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Validation.MinTags = 4
	cfg.Validation.MaxTags = 2

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrValidationTagBoundsInvalid) {
		t.Fatalf("expected ErrValidationTagBoundsInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestDefaultConfigMatchesBlogLayout(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	if cfg.Content.PostsDir != "blog/posts" {
		t.Fatalf("expected posts dir blog/posts, got %q", cfg.Content.PostsDir)
	}
	if cfg.Markdown.ContentDir != "docs" {
		t.Fatalf("expected content dir docs, got %q", cfg.Markdown.ContentDir)
	}
	if cfg.Validation.MinTags != 2 || cfg.Validation.MaxTags != 4 {
		t.Fatalf("expected tag bounds 2..4, got %d..%d", cfg.Validation.MinTags, cfg.Validation.MaxTags)
	}
	if !cfg.Validation.RequireComments || !cfg.Validation.RequireDescription {
		t.Fatalf("expected comments and description to be required by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}
