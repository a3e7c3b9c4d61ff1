package buildcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the build command handlers produced by RegisterBuildCommands.
type HandlerSet struct {
	Build *BuildSiteHandler
	Clean *CleanOutputHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	onResult         func(*generator.BuildResult)
	buildHandlerOpts []commands.HandlerOption[BuildSiteCommand]
	cleanHandlerOpts []commands.HandlerOption[CleanOutputCommand]
}

// WithBuildResultSink registers a callback receiving every build result.
func WithBuildResultSink(fn func(*generator.BuildResult)) Option {
	return func(cfg *options) {
		cfg.onResult = fn
	}
}

// WithBuildHandlerOptions forwards options to the BuildSiteHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithCleanHandlerOptions forwards options to the CleanOutputHandler constructor.
func WithCleanHandlerOptions(opts ...commands.HandlerOption[CleanOutputCommand]) Option {
	return func(cfg *options) {
		cfg.cleanHandlerOpts = append(cfg.cleanHandlerOpts, opts...)
	}
}

// RegisterBuildCommands builds the site build handlers and registers them with
// the provided registry. The returned HandlerSet lets callers wire additional
// integrations (dispatcher, cron) as needed.
func RegisterBuildCommands(reg CommandRegistry, service generator.Service, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("build command registration: generator service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "build")

	buildHandler := NewBuildSiteHandler(service, logger, gates, cfg.onResult, cfg.buildHandlerOpts...)
	cleanHandler := NewCleanOutputHandler(service, logger, gates, cfg.cleanHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(buildHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(cleanHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{Build: buildHandler, Clean: cleanHandler}, nil
}

// RegisterBuildCron wires the build handler into a cron registrar so sites can
// rebuild on a schedule. The handler executes with a background context.
func RegisterBuildCron(reg CronRegistrar, handler *BuildSiteHandler, cfg command.HandlerConfig, msg BuildSiteCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
