package buildcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	buildSiteOperation   = "build.site"
	cleanOutputOperation = "build.clean"
)

// ErrGeneratorFeatureDisabled is returned when the generator feature flag is disabled at runtime.
var ErrGeneratorFeatureDisabled = errors.New("build command: generator feature disabled")

var (
	_ command.Commander[BuildSiteCommand]   = (*BuildSiteHandler)(nil)
	_ command.Commander[CleanOutputCommand] = (*CleanOutputHandler)(nil)
)

// BuildSiteHandler drives full site builds through the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler binds the handler to the supplied generator service. The
// optional onResult callback receives the build result so callers can surface
// it beyond the structured logs.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, onResult func(*generator.BuildResult), opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if !gates.generatorEnabled() {
			return ErrGeneratorFeatureDisabled
		}

		result, err := service.Build(ctx, generator.BuildOptions{
			Locales: msg.Locales,
			Tags:    msg.Tags,
			DryRun:  msg.DryRun,
			Force:   msg.Force,
		})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"pages_built":   result.PagesBuilt,
				"pages_skipped": result.PagesSkipped,
				"assets_built":  result.AssetsBuilt,
				"feeds_written": result.FeedsWritten,
				"duration_ms":   result.Duration.Milliseconds(),
				"dry_run":       result.DryRun,
			}).Info("build.command.site.completed")
			if onResult != nil {
				onResult(result)
			}
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildSiteOperation),
		commands.WithTimeout[BuildSiteCommand](0),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Locales) > 0 {
				fields["locales"] = msg.Locales
			}
			if len(msg.Tags) > 0 {
				fields["tags"] = msg.Tags
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanOutputHandler removes the generated output tree.
type CleanOutputHandler struct {
	inner *commands.Handler[CleanOutputCommand]
}

// NewCleanOutputHandler binds the handler to the supplied generator service.
func NewCleanOutputHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CleanOutputCommand]) *CleanOutputHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, _ CleanOutputCommand) error {
		if !gates.generatorEnabled() {
			return ErrGeneratorFeatureDisabled
		}
		return service.Clean(ctx)
	}

	handlerOpts := []commands.HandlerOption[CleanOutputCommand]{
		commands.WithLogger[CleanOutputCommand](baseLogger),
		commands.WithOperation[CleanOutputCommand](cleanOutputOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanOutputCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanOutputHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CleanOutputCommand].
func (h *CleanOutputHandler) Execute(ctx context.Context, msg CleanOutputCommand) error {
	return h.inner.Execute(ctx, msg)
}
