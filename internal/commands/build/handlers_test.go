package buildcmd

import (
	"context"
	"errors"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/google/uuid"
)

type fakeGenerator struct {
	mu     sync.Mutex
	builds []generator.BuildOptions
	cleans int
	result *generator.BuildResult
	err    error
}

func (f *fakeGenerator) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds = append(f.builds, opts)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &generator.BuildResult{PagesBuilt: 3}, nil
}

func (f *fakeGenerator) BuildPage(context.Context, uuid.UUID) (*generator.RenderedPage, error) {
	return nil, f.err
}

func (f *fakeGenerator) BuildAssets(context.Context) error { return f.err }

func (f *fakeGenerator) BuildSitemap(context.Context) error { return f.err }

func (f *fakeGenerator) Clean(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleans++
	return f.err
}

func TestBuildSiteHandlerExecutes(t *testing.T) {
	svc := &fakeGenerator{}
	var got *generator.BuildResult
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{}, func(result *generator.BuildResult) {
		got = result
	})

	msg := BuildSiteCommand{Locales: []string{"en"}, Tags: []string{"go"}, Force: true}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(svc.builds) != 1 {
		t.Fatalf("expected one build call, got %d", len(svc.builds))
	}
	opts := svc.builds[0]
	if len(opts.Locales) != 1 || opts.Locales[0] != "en" || !opts.Force {
		t.Fatalf("options not forwarded: %+v", opts)
	}
	if got == nil || got.PagesBuilt != 3 {
		t.Fatalf("result sink not invoked: %+v", got)
	}
}

func TestBuildSiteHandlerFeatureGate(t *testing.T) {
	svc := &fakeGenerator{}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{
		GeneratorEnabled: func() bool { return false },
	}, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, ErrGeneratorFeatureDisabled) {
		t.Fatalf("expected feature gate error, got %v", err)
	}
	if len(svc.builds) != 0 {
		t.Fatalf("generator must not run when gated")
	}
}

func TestBuildSiteHandlerValidation(t *testing.T) {
	handler := NewBuildSiteHandler(&fakeGenerator{}, nil, FeatureGates{}, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{Tags: []string{"  "}})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestBuildSiteHandlerWrapsFailure(t *testing.T) {
	svc := &fakeGenerator{err: errors.New("disk full")}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{}, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if err == nil {
		t.Fatalf("expected execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestCleanOutputHandler(t *testing.T) {
	svc := &fakeGenerator{}
	handler := NewCleanOutputHandler(svc, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), CleanOutputCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if svc.cleans != 1 {
		t.Fatalf("expected one clean call, got %d", svc.cleans)
	}
}

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterBuildCommands(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterBuildCommands(reg, &fakeGenerator{}, nil, FeatureGates{})
	if err != nil {
		t.Fatalf("RegisterBuildCommands: %v", err)
	}
	if set.Build == nil || set.Clean == nil {
		t.Fatalf("expected both handlers, got %+v", set)
	}
	if len(reg.handlers) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(reg.handlers))
	}

	if _, err := RegisterBuildCommands(reg, nil, nil, FeatureGates{}); err == nil {
		t.Fatalf("expected error for nil service")
	}
}
