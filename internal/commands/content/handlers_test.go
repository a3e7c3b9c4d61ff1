package contentcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-sitegen/internal/catalog"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/validate"
)

func writeSourceFile(tb testing.TB, root, rel, body string) {
	tb.Helper()
	target := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", target, err)
	}
	if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
		tb.Fatalf("write %s: %v", target, err)
	}
}

func newMarkdownService(tb testing.TB, root string) *markdown.Service {
	tb.Helper()
	md, err := markdown.NewService(markdown.Config{
		BasePath:      root,
		DefaultLocale: "en",
		Pattern:       "*.md",
		Recursive:     true,
	}, nil)
	if err != nil {
		tb.Fatalf("markdown.NewService: %v", err)
	}
	return md
}

func TestValidateContentHandlerPasses(t *testing.T) {
	root := t.TempDir()
	writeSourceFile(t, root, "blog/posts/2024/03/01/good.md", `---
title: Good Post
description: A valid post
tags: [go, testing]
comments: true
---
Body.
`)

	svc, err := validate.NewService(validate.Config{
		PostsDir: "blog/posts",
		Rules:    validate.DefaultRules(),
	}, newMarkdownService(t, root), nil)
	if err != nil {
		t.Fatalf("validate.NewService: %v", err)
	}

	var got *validate.Result
	handler := NewValidateContentHandler(svc, nil, FeatureGates{}, func(result *validate.Result) {
		got = result
	})
	if err := handler.Execute(context.Background(), ValidateContentCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got == nil || got.Checked != 1 {
		t.Fatalf("result sink not invoked: %+v", got)
	}
}

func TestValidateContentHandlerFails(t *testing.T) {
	root := t.TempDir()
	writeSourceFile(t, root, "blog/posts/2024/03/01/bad.md", `---
title: Bad Post
tags: [solo]
comments: false
---
Body.
`)

	svc, err := validate.NewService(validate.Config{
		PostsDir: "blog/posts",
		Rules:    validate.DefaultRules(),
	}, newMarkdownService(t, root), nil)
	if err != nil {
		t.Fatalf("validate.NewService: %v", err)
	}

	handler := NewValidateContentHandler(svc, nil, FeatureGates{}, nil)
	execErr := handler.Execute(context.Background(), ValidateContentCommand{})
	if !errors.Is(execErr, ErrContentInvalid) {
		t.Fatalf("expected ErrContentInvalid, got %v", execErr)
	}
}

func TestValidateContentHandlerFeatureGate(t *testing.T) {
	svc, err := validate.NewService(validate.Config{
		Rules: validate.DefaultRules(),
	}, newMarkdownService(t, t.TempDir()), nil)
	if err != nil {
		t.Fatalf("validate.NewService: %v", err)
	}

	handler := NewValidateContentHandler(svc, nil, FeatureGates{
		ValidationEnabled: func() bool { return false },
	}, nil)
	if execErr := handler.Execute(context.Background(), ValidateContentCommand{}); !errors.Is(execErr, ErrValidationFeatureDisabled) {
		t.Fatalf("expected feature gate error, got %v", execErr)
	}
}

func TestSyncCatalogHandler(t *testing.T) {
	root := t.TempDir()
	writeSourceFile(t, root, "blog/posts/2024/03/01/first.md", `---
title: First
description: One
tags: [go, testing]
comments: true
---
Body.
`)

	loader, err := content.NewService(content.Config{
		PostsDir:      "blog/posts",
		DataDir:       "data",
		DefaultLocale: "en",
	}, newMarkdownService(t, root), nil, nil)
	if err != nil {
		t.Fatalf("content.NewService: %v", err)
	}
	catalogSvc := catalog.NewService(catalog.NewMemoryEntryRepository(), catalog.NewMemoryBuildRepository())

	var got *catalog.SyncResult
	handler := NewSyncCatalogHandler(loader, catalogSvc, nil, FeatureGates{}, func(result *catalog.SyncResult) {
		got = result
	})
	if err := handler.Execute(context.Background(), SyncCatalogCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got == nil || got.Created != 1 {
		t.Fatalf("expected one created entry, got %+v", got)
	}

	// A second run with no source change updates or skips, never recreates.
	if err := handler.Execute(context.Background(), SyncCatalogCommand{}); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if got.Created != 0 && got.Skipped == 0 && got.Updated == 0 {
		t.Fatalf("unexpected second sync result: %+v", got)
	}
}

func TestRegisterContentCommands(t *testing.T) {
	root := t.TempDir()
	validateSvc, err := validate.NewService(validate.Config{
		Rules: validate.DefaultRules(),
	}, newMarkdownService(t, root), nil)
	if err != nil {
		t.Fatalf("validate.NewService: %v", err)
	}
	loader, err := content.NewService(content.Config{
		PostsDir:      "blog/posts",
		DefaultLocale: "en",
	}, newMarkdownService(t, root), nil, nil)
	if err != nil {
		t.Fatalf("content.NewService: %v", err)
	}
	catalogSvc := catalog.NewService(catalog.NewMemoryEntryRepository(), catalog.NewMemoryBuildRepository())

	reg := &recordingRegistry{}
	set, err := RegisterContentCommands(reg, Services{
		Loader:   loader,
		Validate: validateSvc,
		Catalog:  catalogSvc,
	}, nil, FeatureGates{})
	if err != nil {
		t.Fatalf("RegisterContentCommands: %v", err)
	}
	if set.Validate == nil || set.Sync == nil {
		t.Fatalf("expected both handlers, got %+v", set)
	}
	if len(reg.handlers) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(reg.handlers))
	}

	if _, err := RegisterContentCommands(reg, Services{}, nil, FeatureGates{}); err == nil {
		t.Fatalf("expected error when no services supplied")
	}
	if _, err := RegisterContentCommands(reg, Services{Catalog: catalogSvc}, nil, FeatureGates{}); err == nil {
		t.Fatalf("expected error when catalog sync lacks a loader")
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}
