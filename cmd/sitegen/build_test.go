package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	sitegen "github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/catalog"
	"github.com/goliatone/go-sitegen/internal/generator"
)

func newCatalogModule(t *testing.T) *sitegen.Module {
	t.Helper()

	source := t.TempDir()
	if err := os.MkdirAll(filepath.Join(source, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}

	cfg := sitegen.DefaultConfig()
	cfg.SourceDir = source
	cfg.Features.Catalog = true
	cfg.Storage.Driver = "memory"

	module, err := sitegen.New(cfg)
	if err != nil {
		t.Fatalf("sitegen.New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestRecordBuildPersistsRun(t *testing.T) {
	ctx := context.Background()
	module := newCatalogModule(t)

	finish := recordBuild(ctx, module, false)
	finish(&generator.BuildResult{
		PagesBuilt:  3,
		AssetsBuilt: 2,
		Duration:    125 * time.Millisecond,
	}, nil)

	runs, err := module.Catalog().RecentBuilds(ctx, 1)
	if err != nil {
		t.Fatalf("recent builds: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one recorded build, got %d", len(runs))
	}
	run := runs[0]
	if run.Status != catalog.BuildStatusSucceeded {
		t.Fatalf("expected succeeded status, got %q", run.Status)
	}
	if run.Pages != 3 || run.Assets != 2 {
		t.Fatalf("unexpected counts %+v", run)
	}
	if run.OutputDir != module.OutputDir() {
		t.Fatalf("expected output dir %s, got %s", module.OutputDir(), run.OutputDir)
	}
}

func TestRecordBuildMarksFailures(t *testing.T) {
	ctx := context.Background()
	module := newCatalogModule(t)

	finish := recordBuild(ctx, module, false)
	finish(nil, errors.New("render exploded"))

	runs, err := module.Catalog().RecentBuilds(ctx, 1)
	if err != nil {
		t.Fatalf("recent builds: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != catalog.BuildStatusFailed {
		t.Fatalf("expected one failed build, got %v", runs)
	}
}

func TestRecordBuildSkipsDryRuns(t *testing.T) {
	ctx := context.Background()
	module := newCatalogModule(t)

	finish := recordBuild(ctx, module, true)
	finish(&generator.BuildResult{PagesBuilt: 1, DryRun: true}, nil)

	runs, err := module.Catalog().RecentBuilds(ctx, 10)
	if err != nil {
		t.Fatalf("recent builds: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no recorded builds for dry run, got %d", len(runs))
	}
}
